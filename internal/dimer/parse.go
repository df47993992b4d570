package dimer

import (
	"github.com/dimerapp/config-parser/internal/document"
)

// Parse runs the conflict check, normalization and validation over a decoded
// dimer.json document. When the conflict check fires, the raw document is returned
// untouched alongside the conflict error.
func Parse(raw *document.Map, opts Options) *Result {
	if raw == nil {
		raw = document.NewMap()
	}
	if conflicts := Conflicts(raw); len(conflicts) > 0 {
		return &Result{Errors: conflicts, Raw: raw}
	}

	cfg := Normalize(raw, opts)
	errs := Validate(cfg, opts)
	if errs == nil {
		errs = []ErrorRecord{}
	}
	return &Result{Errors: errs, Config: cfg}
}

// Raw converts a normalized config back into document form. A zone with a default
// carries it as an explicit defaultVersion, so normalizing the output reproduces
// the same config. A zone without one is written without it and gets the implicit
// default on the next normalize.
func (c *Config) Raw() *document.Map {
	zones := document.NewMap()
	for _, zone := range c.Zones {
		versions := document.NewMap()
		for _, version := range zone.Versions {
			entry := document.NewMap()
			entry.Set("no", version.No)
			if version.Location != "" {
				entry.Set("location", version.Location)
			}
			if version.Name != "" {
				entry.Set("name", version.Name)
			}
			entry.Set("default", version.Default)
			versions.Set(version.No, entry)
		}

		entry := document.NewMap()
		entry.Set("name", zone.Name)
		entry.Set("versions", versions)
		if def, ok := zone.DefaultVersion(); ok {
			entry.Set("defaultVersion", def.No)
		}
		zones.Set(zone.Slug, entry)
	}

	websiteOptions := c.WebsiteOptions.Clone()
	if websiteOptions == nil {
		websiteOptions = document.NewMap()
	}

	raw := document.NewMap()
	raw.Set("domain", c.Domain)
	raw.Set("cname", c.Cname)
	raw.Set("zones", zones)
	raw.Set("websiteOptions", websiteOptions)
	raw.Set("compilerOptions", c.CompilerOptions.document())
	return raw
}
