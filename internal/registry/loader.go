package registry

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/msalah0e/cardstudio/internal/config"
)

// PluginDir is where user card type files live.
func PluginDir() string {
	return filepath.Join(config.ConfigDir(), "cardtypes")
}

// LoadAll merges the embedded card types with user files from PluginDir.
// A user type with the same name as a built-in replaces it. Unreadable
// user files are skipped.
func LoadAll(fsys fs.FS, dir string) (*Registry, error) {
	reg, err := LoadFromFS(fsys, dir)
	if err != nil {
		return nil, err
	}
	types := reg.All()

	entries, err := os.ReadDir(PluginDir())
	if err != nil {
		// No plugins directory is fine
		return reg, nil
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(PluginDir(), entry.Name()))
		if err != nil {
			continue
		}
		extra, err := parse(data)
		if err != nil {
			continue
		}
		types = append(types, extra...)
	}

	return New(dedup(types)), nil
}

// dedup removes duplicate card types by name. The first occurrence keeps
// its position and the last occurrence supplies its content.
func dedup(types []CardType) []CardType {
	last := make(map[string]int, len(types))
	for i, t := range types {
		last[t.Name] = i
	}
	result := make([]CardType, 0, len(last))
	added := make(map[string]bool, len(last))
	for _, t := range types {
		if added[t.Name] {
			continue
		}
		result = append(result, types[last[t.Name]])
		added[t.Name] = true
	}
	return result
}
