package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yourusername/rookscore/internal/service"
)

func (a *app) newInsightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights [export-file]",
		Short: "Describe bidding, scoring trends and progress of the game in progress",
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
			in, ok, err := statistics.InsightsFor(ctx)
			if err != nil {
				return err
			}
			if !ok {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No rounds played")
				return err
			}

			return render(cmd.OutOrStdout(), a.output, in, func(w io.Writer) error {
				for _, line := range in.Lines() {
					if _, err := fmt.Fprintf(w, "- %s\n", line); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
