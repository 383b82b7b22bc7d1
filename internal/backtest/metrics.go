package backtest

import (
	"math"

	"github.com/samber/lo"

	"github.com/yourusername/rookscore/internal/models"
)

// Metrics summarizes how well the estimates predicted the winners
type Metrics struct {
	Predictions int `json:"predictions" yaml:"predictions"`
	// Decisive counts predictions that favored one team
	Decisive int `json:"decisive" yaml:"decisive"`
	// Accuracy is the share of decisive predictions whose favorite won
	Accuracy       float64             `json:"accuracy" yaml:"accuracy"`
	BrierScore     float64             `json:"brierScore" yaml:"brierScore"`
	LogLoss        float64             `json:"logLoss" yaml:"logLoss"`
	MeanConfidence float64             `json:"meanConfidence" yaml:"meanConfidence"`
	Calibration    []CalibrationBucket `json:"calibration,omitempty" yaml:"calibration,omitempty"`
}

// CalibrationBucket compares predicted and observed us win rates over a
// probability range. Bounds and rates are percentages.
type CalibrationBucket struct {
	Lower         float64 `json:"lower" yaml:"lower"`
	Upper         float64 `json:"upper" yaml:"upper"`
	Count         int     `json:"count" yaml:"count"`
	MeanPredicted float64 `json:"meanPredicted" yaml:"meanPredicted"`
	ObservedRate  float64 `json:"observedRate" yaml:"observedRate"`
}

// CalculateMetrics scores predictions. Calibration lists only non-empty buckets.
func CalculateMetrics(predictions []Prediction, buckets int) Metrics {
	metrics := Metrics{Predictions: len(predictions)}
	if len(predictions) == 0 {
		return metrics
	}

	n := float64(len(predictions))
	var brier, logLoss, confidence float64
	for _, p := range predictions {
		prob := p.UsProbability / 100
		outcome := 0.0
		if p.UsWon() {
			outcome = 1
		}
		brier += (prob - outcome) * (prob - outcome)
		if p.UsWon() {
			logLoss -= math.Log(prob)
		} else {
			logLoss -= math.Log(1 - prob)
		}
		confidence += math.Max(prob, 1-prob)
	}
	metrics.BrierScore = brier / n
	metrics.LogLoss = logLoss / n
	metrics.MeanConfidence = confidence / n

	decisive := lo.Filter(predictions, func(p Prediction, _ int) bool {
		return p.UsProbability != 50
	})
	metrics.Decisive = len(decisive)
	if len(decisive) > 0 {
		correct := lo.CountBy(decisive, func(p Prediction) bool {
			favorite := models.TeamDem
			if p.UsProbability > 50 {
				favorite = models.TeamUs
			}
			return favorite == p.Winner
		})
		metrics.Accuracy = float64(correct) / float64(len(decisive))
	}

	metrics.Calibration = calibrate(predictions, buckets)
	return metrics
}

func calibrate(predictions []Prediction, buckets int) []CalibrationBucket {
	if buckets <= 0 {
		return nil
	}
	width := 100.0 / float64(buckets)

	grouped := lo.GroupBy(predictions, func(p Prediction) int {
		return min(int(p.UsProbability/width), buckets-1)
	})

	out := make([]CalibrationBucket, 0, len(grouped))
	for i := 0; i < buckets; i++ {
		group, ok := grouped[i]
		if !ok {
			continue
		}
		wins := lo.CountBy(group, Prediction.UsWon)
		out = append(out, CalibrationBucket{
			Lower:         float64(i) * width,
			Upper:         float64(i+1) * width,
			Count:         len(group),
			MeanPredicted: lo.SumBy(group, func(p Prediction) float64 { return p.UsProbability }) / float64(len(group)),
			ObservedRate:  float64(wins) / float64(len(group)) * 100,
		})
	}
	return out
}
