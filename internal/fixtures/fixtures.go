// Package fixtures holds the seed data each collection starts from when
// the key-value store has no snapshot for it.
package fixtures

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
)

//go:embed data/*.json
var files embed.FS

// Load returns the fixture for a collection, or nil when there is none.
func Load(name string) ([]byte, error) {
	data, err := files.ReadFile("data/" + name + ".json")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", name, err)
	}
	return data, nil
}
