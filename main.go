package main

import (
	"embed"
	"os"

	"github.com/msalah0e/cardstudio/cmd"
)

//go:embed cardtypes/*.toml
var cardTypesFS embed.FS

func main() {
	cmd.SetCardTypesFS(cardTypesFS)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
