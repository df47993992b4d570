package dimer

import (
	"github.com/dimerapp/config-parser/internal/document"
)

// Options controls normalization and validation.
type Options struct {
	// APIURLOverride replaces compilerOptions.apiUrl when non-empty.
	APIURLOverride string
	// ExplicitVersionNo lets a version object's own "no" win over its mapping key.
	ExplicitVersionNo bool
	// ValidateDomain reports a missing domain.
	ValidateDomain bool
}

// DefaultOptions returns the options used when the caller sets none.
func DefaultOptions() Options {
	return Options{ValidateDomain: true}
}

// Config is the normalized dimer.json configuration.
type Config struct {
	// Domain is the dimer subdomain without surrounding slashes or a trailing dot.
	Domain string `json:"domain" yaml:"domain"`
	// Cname is the custom domain reduced to its hostname.
	Cname string `json:"cname" yaml:"cname"`
	// Zones lists content zones in document order.
	Zones []Zone `json:"zones" yaml:"zones"`
	// WebsiteOptions is passed through verbatim.
	WebsiteOptions *document.Map `json:"websiteOptions" yaml:"websiteOptions"`
	// CompilerOptions holds the merged compiler settings.
	CompilerOptions CompilerOptions `json:"compilerOptions" yaml:"compilerOptions"`
}

// Zone is a named partition of documentation content.
type Zone struct {
	// Slug is the zones mapping key.
	Slug string `json:"slug" yaml:"slug"`
	// Name is the display name; defaults to Slug.
	Name string `json:"name" yaml:"name"`
	// Versions lists the zone versions in document order.
	Versions []Version `json:"versions" yaml:"versions"`
}

// Version is one published revision of a zone.
type Version struct {
	// No identifies the version inside its zone.
	No string `json:"no" yaml:"no"`
	// Location is the content directory, relative to the project root.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	// Name is an optional display name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Default marks the version served when none is requested.
	Default bool `json:"default" yaml:"default"`
}

// DefaultVersion returns the zone's default version, if any.
func (z Zone) DefaultVersion() (Version, bool) {
	for _, version := range z.Versions {
		if version.Default {
			return version, true
		}
	}
	return Version{}, false
}

// CompilerOptions holds compiler settings after defaults, file values and caller
// overrides have been layered.
type CompilerOptions struct {
	APIURL            string
	AssetsURL         string
	DetectAssets      bool
	CreateSearchIndex bool
	// Extra keeps unknown keys from the file in document order.
	Extra *document.Map
}

func (o CompilerOptions) document() *document.Map {
	out := document.NewMap()
	out.Set("apiUrl", o.APIURL)
	out.Set("detectAssets", o.DetectAssets)
	out.Set("createSearchIndex", o.CreateSearchIndex)
	out.Set("assetsUrl", o.AssetsURL)
	for _, key := range o.Extra.Keys() {
		value, _ := o.Extra.Get(key)
		out.Set(key, value)
	}
	return out
}

// MarshalJSON flattens the known fields and the extra keys into one object.
func (o CompilerOptions) MarshalJSON() ([]byte, error) {
	return o.document().MarshalJSON()
}

// MarshalYAML flattens the known fields and the extra keys into one mapping.
func (o CompilerOptions) MarshalYAML() (any, error) {
	return o.document().MarshalYAML()
}

// ErrorRecord is one validation problem.
type ErrorRecord struct {
	Message string `json:"message" yaml:"message"`
	RuleID  string `json:"ruleId" yaml:"ruleId"`
}

// Result is the outcome of one parse.
type Result struct {
	// Errors lists every validation problem found.
	Errors []ErrorRecord
	// Config is the normalized configuration. Nil when Raw is set.
	Config *Config
	// Raw is the untouched input, returned instead of Config when the
	// zones/versions conflict check fired.
	Raw *document.Map
}

// Valid reports whether no validation errors were found.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Document returns whichever configuration the result carries.
func (r *Result) Document() any {
	if r.Config != nil {
		return r.Config
	}
	return r.Raw
}

func (r *Result) view() *document.Map {
	errs := make([]any, 0, len(r.Errors))
	for _, e := range r.Errors {
		record := document.NewMap()
		record.Set("message", e.Message)
		record.Set("ruleId", e.RuleID)
		errs = append(errs, record)
	}
	out := document.NewMap()
	out.Set("errors", errs)
	out.Set("config", r.Document())
	return out
}

// MarshalJSON renders the result as {"errors": [...], "config": {...}}.
func (r *Result) MarshalJSON() ([]byte, error) {
	return r.view().MarshalJSON()
}

// MarshalYAML renders the result with the same shape as MarshalJSON.
func (r *Result) MarshalYAML() (any, error) {
	return r.view().MarshalYAML()
}
