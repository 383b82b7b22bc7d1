package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yourusername/rookscore/internal/client"
	"github.com/yourusername/rookscore/internal/display"
	"github.com/yourusername/rookscore/internal/models"
	"github.com/yourusername/rookscore/internal/service"
	"github.com/yourusername/rookscore/internal/store"
)

type estimateOutput struct {
	Result  models.ProbabilityResult `json:"result" yaml:"result"`
	Display *display.Display         `json:"display,omitempty" yaml:"display,omitempty"`
}

func (a *app) newEstimateCmd() *cobra.Command {
	var (
		remote    bool
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "estimate [export-file]",
		Short: "Estimate the win probability of the game in progress",
		Long: `Estimates the win probability of the game in progress. The game and the
completed games are read from a localStorage export file ("-" for stdin),
from the configured store when no file is given, or from a remote server
with --server.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}

			var (
				out estimateOutput
				err error
			)
			if remote {
				out, err = a.estimateRemote(cmd.Context(), file, noHistory)
			} else {
				out, err = a.estimateLocal(cmd.Context(), file, noHistory)
			}
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), a.output, out, func(w io.Writer) error {
				return writeEstimateText(w, out)
			})
		},
	}

	cmd.Flags().BoolVar(&remote, "server", false, "Ask the configured rookscore server instead of estimating locally")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Ignore completed games")
	return cmd
}

func (a *app) estimateLocal(ctx context.Context, file string, noHistory bool) (estimateOutput, error) {
	s, _, err := a.openStore(ctx, file)
	if err != nil {
		return estimateOutput{}, err
	}
	defer s.Close()

	probability := service.NewProbabilityService(s, service.NewHistoryCache(s, a.cfg.HistoryTTL()), a.logger)

	game, err := store.LoadActiveGame(ctx, s)
	if err != nil {
		return estimateOutput{}, err
	}
	var history []models.HistoricalGame
	if noHistory {
		history = []models.HistoricalGame{}
	}

	result := probability.Estimate(ctx, game, history)
	return newEstimateOutput(game, result), nil
}

func (a *app) estimateRemote(ctx context.Context, file string, noHistory bool) (estimateOutput, error) {
	c := client.New(client.ConfigFrom(a.cfg.Client), a.logger)
	defer c.Close()

	if file == "" {
		resp, err := c.ActiveGame(ctx)
		if err != nil {
			return estimateOutput{}, fmt.Errorf("remote estimate failed: %w", err)
		}
		return estimateOutput{Result: resp.Result, Display: resp.Display}, nil
	}

	s, _, err := a.openStore(ctx, file)
	if err != nil {
		return estimateOutput{}, err
	}
	defer s.Close()

	game, err := store.LoadActiveGame(ctx, s)
	if err != nil {
		return estimateOutput{}, err
	}
	history := []models.HistoricalGame{}
	if !noHistory {
		if history, err = store.LoadSavedGames(ctx, s); err != nil {
			return estimateOutput{}, err
		}
		if history == nil {
			history = []models.HistoricalGame{}
		}
	}

	resp, err := c.Estimate(ctx, game, history)
	if err != nil {
		return estimateOutput{}, fmt.Errorf("remote estimate failed: %w", err)
	}
	return estimateOutput{Result: resp.Result, Display: resp.Display}, nil
}

func newEstimateOutput(game models.Game, result models.ProbabilityResult) estimateOutput {
	out := estimateOutput{Result: result}
	if d, ok := display.Render(game, result); ok {
		out.Display = &d
	}
	return out
}

func writeEstimateText(w io.Writer, out estimateOutput) error {
	if out.Display == nil {
		_, err := fmt.Fprintf(w, "No game in progress (us %s%%, dem %s%%)\n",
			display.Percent(out.Result.Us), display.Percent(out.Result.Dem))
		return err
	}
	_, err := fmt.Fprintln(w, out.Display.String())
	return err
}
