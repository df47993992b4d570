package paths

import (
	"fmt"
	"path/filepath"

	"github.com/dimerapp/config-parser/internal/constants"
)

// Paths resolves project layout locations against an absolute root.
type Paths struct {
	root string
}

// New resolves root to an absolute path.
func New(root string) (*Paths, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root %q: %w", root, err)
	}
	return &Paths{root: abs}, nil
}

// Root returns the absolute project root.
func (p *Paths) Root() string {
	return p.root
}

// ConfigFile returns the absolute path of dimer.json.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.root, constants.ConfigFileName)
}

// VersionDocsPath returns the absolute content directory for a version location.
// Absolute locations are returned cleaned.
func (p *Paths) VersionDocsPath(location string) string {
	if filepath.IsAbs(location) {
		return filepath.Clean(location)
	}
	return filepath.Join(p.root, filepath.FromSlash(location))
}
