package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/cardstudio/internal/registry"
	"github.com/msalah0e/cardstudio/internal/ui"
)

func catalogCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "catalog [query]",
		Short:   "List the card types new cards can be created from",
		Aliases: []string{"types"},
		Args:    cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			reg := loadTypes()

			var list []registry.CardType
			switch {
			case len(args) == 1:
				list = reg.Search(args[0])
			case category != "":
				list = reg.ByCategory(category)
			default:
				list = reg.All()
			}

			ui.Banner("card types")
			if len(list) == 0 {
				fmt.Println("  No card types found.")
				fmt.Printf("  Add your own in %s\n", ui.Subtle.Sprint(registry.PluginDir()))
				return
			}

			rows := make([][]string, 0, len(list))
			for _, t := range list {
				rows = append(rows, []string{
					t.Name,
					t.Category,
					fmt.Sprintf("%gx%g", t.Width, t.Height),
					fmt.Sprintf("%d/%d", len(t.Inputs), len(t.Outputs)),
					t.Description,
				})
			}
			ui.Table([]string{"TYPE", "CATEGORY", "SIZE", "IN/OUT", "DESCRIPTION"}, rows)
			fmt.Println()
			fmt.Printf("  %s\n", ui.Subtle.Sprint("Categories: "+strings.Join(reg.Categories(), ", ")))
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category")
	return cmd
}
