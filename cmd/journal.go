package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/cardstudio/internal/graph"
	"github.com/msalah0e/cardstudio/internal/session"
	"github.com/msalah0e/cardstudio/internal/ui"
)

func journalCmd() *cobra.Command {
	var limit int
	var summary bool

	cmd := &cobra.Command{
		Use:   "journal <events.jsonl>",
		Short: "Show the store events recorded by replay --journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			entries, err := session.ReadJournal(f, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("  No events recorded.")
				return nil
			}

			if summary {
				sum := session.Summarize(entries)
				ui.Banner("journal summary")
				ui.KV("Events", sum.Total)
				ui.KV("Cards touched", sum.Cards)
				fmt.Println()
				kinds := make([]string, 0, len(sum.ByKind))
				for k := range sum.ByKind {
					kinds = append(kinds, string(k))
				}
				slices.Sort(kinds)
				rows := make([][]string, 0, len(kinds))
				for _, k := range kinds {
					rows = append(rows, []string{k, fmt.Sprint(sum.ByKind[graph.EventKind(k)])})
				}
				ui.Table([]string{"EVENT", "COUNT"}, rows)
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					fmt.Sprint(e.Seq),
					e.At.Local().Format("15:04:05"),
					string(e.Event.Kind),
					short(e.Event.CardID),
					strings.Join(shortAll(e.Event.Connections), ","),
				})
			}
			ui.Table([]string{"SEQ", "TIME", "EVENT", "CARD", "CONNECTIONS"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of most recent events (0 for all)")
	cmd.Flags().BoolVar(&summary, "summary", false, "Count events by kind")
	return cmd
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func shortAll(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = short(id)
	}
	return out
}
