package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/rookscore/internal/service"
	"github.com/yourusername/rookscore/internal/store"
)

type importOutput struct {
	BatchID  string   `json:"batchId" yaml:"batchId"`
	Driver   string   `json:"driver" yaml:"driver"`
	Imported []string `json:"imported" yaml:"imported"`
	Skipped  []string `json:"skipped" yaml:"skipped"`
}

func (a *app) newImportCmd() *cobra.Command {
	var keys []string

	cmd := &cobra.Command{
		Use:   "import <export-file>",
		Short: "Import a scorekeeper localStorage export into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			s, driver, err := a.openStore(ctx, "")
			if err != nil {
				return err
			}
			defer s.Close()

			snapshots := service.NewSnapshotService(s, driver, nil, a.logger)
			result, err := snapshots.Import(ctx, data, store.ImportOptions{Source: args[0], Keys: keys})
			if err != nil {
				return err
			}

			out := importOutput{
				BatchID:  result.BatchID,
				Driver:   driver,
				Imported: result.Imported,
				Skipped:  result.Skipped,
			}
			return render(cmd.OutOrStdout(), a.output, out, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Imported %s into %s store (batch %s)\n",
					joinOrNone(out.Imported), out.Driver, out.BatchID)
				if err == nil && len(out.Skipped) > 0 {
					_, err = fmt.Fprintf(w, "Skipped %s\n", joinOrNone(out.Skipped))
				}
				return err
			})
		},
	}

	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Only import these keys (default: all known keys)")
	return cmd
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "nothing"
	}
	return strings.Join(items, ", ")
}
