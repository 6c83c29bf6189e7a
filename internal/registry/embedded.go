package registry

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
)

type typeFile struct {
	Types []CardType `toml:"cardtypes"`
}

// LoadFromFS loads all card types from the TOML files in dir of fsys.
func LoadFromFS(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading embedded card types: %w", err)
	}

	var all []CardType
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		types, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		all = append(all, types...)
	}

	return New(all), nil
}

func parse(data []byte) ([]CardType, error) {
	var tf typeFile
	if err := toml.Unmarshal(data, &tf); err != nil {
		return nil, err
	}
	for i, t := range tf.Types {
		if t.Name == "" {
			return nil, fmt.Errorf("card type %d has no name", i)
		}
	}
	return tf.Types, nil
}
