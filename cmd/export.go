package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/cardstudio/internal/interchange"
)

func exportCmd() *cobra.Command {
	var format string
	var canvas int
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <document.json>",
		Short: "Export a saved session as JSON, DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openDocument(args[0])
			if err != nil {
				return err
			}
			s := sess.Store()
			if canvas >= 0 {
				if err := s.SwitchTo(canvas); err != nil {
					return err
				}
			}

			var out []byte
			switch format {
			case "json":
				out, err = interchange.Export(s)
				if err != nil {
					return err
				}
				out = append(out, '\n')
			case "dot":
				out = []byte(interchange.ExportDOT(s.Active()))
			case "svg":
				out = []byte(interchange.ExportSVG(s.Active(), cfg.RouterLayout()))
			default:
				return fmt.Errorf("unknown format %q (json, dot, svg)", format)
			}

			if outPath == "" {
				_, err = os.Stdout.Write(out)
				return err
			}
			return os.WriteFile(outPath, out, 0o644)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: json, dot, or svg")
	cmd.Flags().IntVar(&canvas, "canvas", -1, "Canvas index for dot and svg (default: the saved active canvas)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to a file instead of stdout")
	return cmd
}
