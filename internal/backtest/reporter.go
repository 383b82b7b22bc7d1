package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// GenerateConsoleReport formats a replay result for terminal output
func GenerateConsoleReport(result Result) string {
	m := result.Metrics

	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("===============\n")
	builder.WriteString(fmt.Sprintf("Games scored: %d (skipped %d)\n", result.GamesScored, result.GamesSkipped))
	builder.WriteString(fmt.Sprintf("Predictions: %d (decisive %d)\n", m.Predictions, m.Decisive))
	if m.Predictions == 0 {
		return builder.String()
	}
	builder.WriteString(fmt.Sprintf("Accuracy: %s%%\n", fixed(m.Accuracy*100, 1)))
	builder.WriteString(fmt.Sprintf("Brier score: %s\n", fixed(m.BrierScore, 4)))
	builder.WriteString(fmt.Sprintf("Log loss: %s\n", fixed(m.LogLoss, 4)))
	builder.WriteString(fmt.Sprintf("Mean confidence: %s%%\n", fixed(m.MeanConfidence*100, 1)))

	if len(m.Calibration) > 0 {
		builder.WriteString("Calibration:\n")
		for _, b := range m.Calibration {
			builder.WriteString(fmt.Sprintf("  %s-%s%%: %d predictions, predicted %s%%, observed %s%%\n",
				fixed(b.Lower, 0), fixed(b.Upper, 0), b.Count,
				fixed(b.MeanPredicted, 1), fixed(b.ObservedRate, 1)))
		}
	}
	return builder.String()
}

// WriteCSV writes one row per prediction
func WriteCSV(w io.Writer, result Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"game_index", "us_team", "dem_team", "rounds_played", "history_size", "us_probability", "winner"}); err != nil {
		return err
	}
	for _, p := range result.Predictions {
		row := []string{
			strconv.Itoa(p.GameIndex),
			p.UsTeamName,
			p.DemTeamName,
			strconv.Itoa(p.RoundsPlayed),
			strconv.Itoa(p.HistorySize),
			fixed(p.UsProbability, 1),
			string(p.Winner),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// GenerateCSVExport writes the prediction rows to outputPath
func GenerateCSVExport(result Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
