package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yourusername/rookscore/internal/backtest"
	"github.com/yourusername/rookscore/internal/service"
)

func (a *app) newBacktestCmd() *cobra.Command {
	cfg := backtest.DefaultConfig()
	var csvPath string

	cmd := &cobra.Command{
		Use:   "backtest [export-file]",
		Short: "Replay completed games and score the estimates against the real winners",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var file string
			if len(args) == 1 {
				file = args[0]
			}
			s, _, err := a.openStore(ctx, file)
			if err != nil {
				return err
			}
			defer s.Close()

			probability := service.NewProbabilityService(s, nil, a.logger)
			result, err := probability.Backtest(ctx, cfg)
			if err != nil {
				return err
			}
			if csvPath != "" {
				if err := backtest.GenerateCSVExport(result, csvPath); err != nil {
					return fmt.Errorf("failed to write %s: %w", csvPath, err)
				}
			}

			return render(cmd.OutOrStdout(), a.output, result, func(w io.Writer) error {
				_, err := io.WriteString(w, backtest.GenerateConsoleReport(result))
				return err
			})
		},
	}

	cmd.Flags().IntVar(&cfg.MinHistory, "min-history", cfg.MinHistory, "Earlier games required before a game is scored")
	cmd.Flags().IntVar(&cfg.MaxHistory, "max-history", cfg.MaxHistory, "Most recent games used as history, 0 for all")
	cmd.Flags().IntVar(&cfg.MinRounds, "min-rounds", cfg.MinRounds, "Rounds played at the first checkpoint")
	cmd.Flags().IntVar(&cfg.CalibrationBuckets, "buckets", cfg.CalibrationBuckets, "Number of calibration buckets")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Also write one row per prediction to this CSV file")
	return cmd
}
