package configs

import (
	"embed"
	"fmt"

	"github.com/dimerapp/config-parser/internal/document"
)

//go:embed dimer.json
var embeddedConfigs embed.FS

// DefaultName is the embedded scaffold written by init.
const DefaultName = "dimer.json"

// Load returns the embedded scaffold by filename.
func Load(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("embedded config name is empty")
	}
	data, err := embeddedConfigs.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read embedded config %q: %w", name, err)
	}
	return data, nil
}

// Default decodes the scaffold document. Every call returns a fresh copy.
func Default() (*document.Map, error) {
	data, err := Load(DefaultName)
	if err != nil {
		return nil, err
	}
	doc, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("embedded config %q: %w", DefaultName, err)
	}
	return doc, nil
}
