package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/cardstudio/internal/graph"
	"github.com/msalah0e/cardstudio/internal/interchange"
	"github.com/msalah0e/cardstudio/internal/parallel"
	"github.com/msalah0e/cardstudio/internal/ui"
)

var errNotClean = errors.New("document has invalid entries")

func cfgPolicy() graph.Policy {
	return graph.Policy{StrictTypes: cfg.Connect.StrictTypes}
}

func validateCmd() *cobra.Command {
	var asJSON bool
	var jobs int

	cmd := &cobra.Command{
		Use:   "validate <document.json>...",
		Short: "Check saved sessions for entries an import would drop",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := importOptions()
			tasks := make([]parallel.Task[interchange.Report], len(args))
			for i, path := range args {
				tasks[i] = parallel.Task[interchange.Report]{
					Name: path,
					Fn: func(context.Context) (interchange.Report, error) {
						data, err := os.ReadFile(path)
						if err != nil {
							return interchange.Report{}, err
						}
						_, _, rep, err := interchange.Decode(data, opts)
						return rep, err
					},
				}
			}
			results := parallel.Run(cmd.Context(), tasks, jobs)

			failed := 0
			reports := make(map[string]any, len(results))
			for _, r := range results {
				if !r.OK() || !r.Value.Clean() {
					failed++
				}
				if asJSON {
					if r.OK() {
						reports[r.Name] = r.Value
					} else {
						reports[r.Name] = map[string]string{"error": r.Err.Error()}
					}
					continue
				}

				if !r.OK() {
					fmt.Printf("  %s %s  %v\n", ui.StatusIcon(false), ui.Brand.Sprint(r.Name), r.Err)
					continue
				}
				rep := r.Value
				fmt.Printf("  %s %s  %s\n", ui.StatusIcon(rep.Clean()), ui.Brand.Sprint(r.Name),
					ui.Subtle.Sprintf("%d canvases, %d cards, %d connections", rep.Canvases, rep.Cards, rep.Connections))
				for _, p := range rep.Problems {
					fmt.Printf("      %s %s\n", ui.WarnIcon(), p)
				}
			}

			if asJSON {
				if err := printJSON(reports); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files", errNotClean, failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print reports as JSON")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Files to check at once")
	return cmd
}
