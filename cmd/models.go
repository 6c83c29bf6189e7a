package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/cardstudio/internal/models"
	"github.com/msalah0e/cardstudio/internal/session"
	"github.com/msalah0e/cardstudio/internal/ui"
)

func modelsCmd() *cobra.Command {
	var provider string
	var modelType string
	var show string

	cmd := &cobra.Command{
		Use:   "models [document.json]",
		Short: "List the models agent cards can use",
		Long: "List the built-in models, plus the ones declared by model cards on the\n" +
			"active canvas of a saved session when one is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sess *session.Session
			if len(args) == 1 {
				s, _, err := openDocument(args[0])
				if err != nil {
					return err
				}
				sess = s
			} else {
				sess = newSession()
			}

			if show != "" {
				m := models.FindModel(sess.Models(), show)
				if m == nil {
					return fmt.Errorf("no model matches %q", show)
				}
				ui.Banner(m.ID)
				ui.KV("Name", m.Name)
				ui.KV("Provider", m.Provider)
				ui.KV("Type", m.Type)
				ui.KV("Context", models.FormatContext(m.Context))
				if m.Endpoint != "" {
					ui.KV("Endpoint", m.Endpoint)
				}
				ui.KV("Source", m.Source)
				return nil
			}

			ui.Banner("available models")
			byProvider := make(map[string][]models.Model)
			var order []string
			for _, m := range sess.Models() {
				if provider != "" && !strings.EqualFold(m.Provider, provider) {
					continue
				}
				if modelType != "" && m.Type != modelType {
					continue
				}
				if _, ok := byProvider[m.Provider]; !ok {
					order = append(order, m.Provider)
				}
				byProvider[m.Provider] = append(byProvider[m.Provider], m)
			}

			for _, p := range order {
				fmt.Printf("  %s\n", ui.Brand.Sprint(p))
				for _, m := range byProvider[p] {
					source := ""
					if m.Source != models.SourceBuiltin {
						source = "card " + m.Source
					}
					fmt.Printf("    %-32s %-6s %-10s %s\n",
						m.ID, models.FormatContext(m.Context), m.Type, ui.Subtle.Sprint(source))
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Filter by provider (openai, anthropic, azureai, ollama)")
	cmd.Flags().StringVarP(&modelType, "type", "t", "", "Filter by type (chat, embedding)")
	cmd.Flags().StringVar(&show, "show", "", "Show one model by id or id prefix")
	return cmd
}
