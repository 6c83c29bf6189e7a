package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/cardstudio/internal/interchange"
	"github.com/msalah0e/cardstudio/internal/script"
	"github.com/msalah0e/cardstudio/internal/session"
	"github.com/msalah0e/cardstudio/internal/ui"
)

func replayCmd() *cobra.Command {
	var docPath string
	var outPath string
	var journalPath string

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>...",
		Short: "Replay event scripts against a session",
		Long: "Replay YAML event scripts through the interaction controller and graph store.\n" +
			"Scripts run in order against one session, so later scripts see earlier edits.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []session.Option
			if journalPath != "" {
				f, err := os.OpenFile(journalPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				opts = append(opts, session.WithJournal(f))
			}

			var sess *session.Session
			if docPath != "" {
				s, _, err := openDocument(docPath, opts...)
				if err != nil {
					return err
				}
				sess = s
			} else {
				sess = newSession(opts...)
			}

			for _, path := range args {
				sc, err := script.Load(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				name := sc.Name
				if name == "" {
					name = path
				}
				res, err := script.Run(sess, sc, log.Named("replay"))
				if err != nil {
					fmt.Printf("  %s %s\n", ui.StatusIcon(false), ui.Brand.Sprint(name))
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Printf("  %s %s  %s\n", ui.StatusIcon(true), ui.Brand.Sprint(name),
					ui.Subtle.Sprintf("%d steps, %d checks, %d events", res.Steps, res.Checks, res.Events))
			}
			if err := sess.Err(); err != nil {
				return fmt.Errorf("journal: %w", err)
			}

			if outPath != "" {
				data, err := interchange.Export(sess.Store())
				if err != nil {
					return err
				}
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return err
				}
				fmt.Printf("  %s Saved %s\n", ui.StatusIcon(true), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "", "Start from a saved session instead of an empty one")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Save the resulting session")
	cmd.Flags().StringVar(&journalPath, "journal", "", "Append store events to a JSON lines file")
	return cmd
}
