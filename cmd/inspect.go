package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/msalah0e/cardstudio/internal/graph"
	"github.com/msalah0e/cardstudio/internal/ui"
)

func inspectCmd() *cobra.Command {
	var cardID string
	var canvas int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <document.json>",
		Short: "Summarize a saved session or show one card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, rep, err := openDocument(args[0])
			if err != nil {
				return err
			}
			s := sess.Store()
			if canvas >= 0 {
				if err := s.SwitchTo(canvas); err != nil {
					return err
				}
			}

			if cardID != "" {
				active := s.Active()
				if asJSON {
					res, err := graph.ShowCard(&active, cardID)
					if err != nil {
						return err
					}
					return printJSON(res)
				}
				out, err := graph.RenderCard(&active, cardID, ui.BrandS, ui.SubtleS, ui.InfoS)
				if err != nil {
					return err
				}
				fmt.Println()
				fmt.Print(out)
				fmt.Println()
				return nil
			}

			stats := s.GetStats()
			if asJSON {
				return printJSON(map[string]any{"stats": stats, "import": rep})
			}

			ui.Banner("session")
			ui.KV("Canvases", stats.Canvases)
			ui.KV("Cards", stats.Cards)
			ui.KV("Sockets", stats.Sockets)
			ui.KV("Connections", stats.Connections)
			ui.KV("Card types", stats.Types)
			fmt.Println()

			var rows [][]string
			for i, c := range s.Canvases() {
				mark := ""
				if i == s.ActiveIndex() {
					mark = ui.Mark
				}
				rows = append(rows, []string{mark, strconv.Itoa(i), c.Name,
					strconv.Itoa(len(c.Cards)), strconv.Itoa(len(c.Connections))})
			}
			ui.Table([]string{"", "#", "CANVAS", "CARDS", "LINKS"}, rows)
			fmt.Println()

			if !rep.Clean() {
				fmt.Printf("  %s Dropped %d cards and %d connections on load\n",
					ui.WarnIcon(), rep.DroppedCards, rep.DroppedConnections)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cardID, "card", "", "Show one card and its connections")
	cmd.Flags().IntVar(&canvas, "canvas", -1, "Canvas index (default: the saved active canvas)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
