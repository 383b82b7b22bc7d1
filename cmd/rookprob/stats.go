package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/yourusername/rookscore/internal/models"
	"github.com/yourusername/rookscore/internal/service"
)

func (a *app) newStatsCmd() *cobra.Command {
	var stored bool

	cmd := &cobra.Command{
		Use:   "stats [export-file]",
		Short: "Recompute and print statistics over the completed games",
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

			statistics := service.NewStatisticsService(s, a.cfg.Game.TargetScore, a.logger)
			var stats models.GameStatistics
			if stored {
				stats, err = statistics.Statistics(ctx)
			} else {
				stats, err = statistics.Refresh(ctx, service.TriggerManual)
			}
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), a.output, stats, func(w io.Writer) error {
				return writeStatsText(w, stats)
			})
		},
	}

	cmd.Flags().BoolVar(&stored, "stored", false, "Print the stored statistics without recomputing them")
	return cmd
}

func writeStatsText(w io.Writer, stats models.GameStatistics) error {
	if stats.TotalGames == 0 {
		_, err := fmt.Fprintln(w, "No completed games")
		return err
	}

	fmt.Fprintf(w, "Total games: %d\n", stats.TotalGames)
	fmt.Fprintf(w, "Average score: %s\n", oneDecimal(stats.AvgScore))
	fmt.Fprintf(w, "Average winning score: %s\n", oneDecimal(stats.AvgWinningScore))
	fmt.Fprintf(w, "Average bid: %s\n", oneDecimal(stats.AvgBid))
	if stats.AvgGameTime > 0 {
		fmt.Fprintf(w, "Average game time: %d minutes\n", int(stats.AvgGameTime/60000))
	}

	names := lo.Keys(stats.TeamStats)
	slices.Sort(names)
	for _, name := range names {
		ts := stats.TeamStats[name]
		if _, err := fmt.Fprintf(w, "  %s: %d/%d wins, avg score %s, bids made %d/%d, highest bid %d\n",
			name, ts.Wins, ts.GamesPlayed, oneDecimal(ts.AvgScore),
			ts.SuccessfulBids, ts.TotalBids, ts.HighestBid); err != nil {
			return err
		}
	}
	return nil
}

func oneDecimal(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}
