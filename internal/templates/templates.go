package templates

import (
	"embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"text/template"
)

//go:embed data/*.json
var files embed.FS

// DefaultLang is used when the requested language has no catalogue.
const DefaultLang = "en"

// Languages lists the embedded catalogues.
var Languages = []string{"en", "ru"}

// Renderer renders localized messages by key.
type Renderer interface {
	// Render returns a localized message by key.
	Render(key string, data any) (string, error)
}

// Bundle holds the parsed message catalogue of one language.
type Bundle struct {
	lang      string
	templates map[string]*template.Template
}

// Load parses the catalogue for lang, falling back to DefaultLang.
func Load(lang string) (*Bundle, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !slices.Contains(Languages, lang) {
		lang = DefaultLang
	}

	raw, err := files.ReadFile("data/" + lang + ".json")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	var messages map[string]string
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("parse templates %s: %w", lang, err)
	}

	parsed := make(map[string]*template.Template, len(messages))
	for key, value := range messages {
		tmpl, err := template.New(key).Option("missingkey=error").Parse(value)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", key, err)
		}
		parsed[key] = tmpl
	}

	return &Bundle{lang: lang, templates: parsed}, nil
}

// Lang returns the catalogue language.
func (b *Bundle) Lang() string {
	if b == nil {
		return ""
	}
	return b.lang
}

// Render renders a message by key with the supplied data.
func (b *Bundle) Render(key string, data any) (string, error) {
	if b == nil {
		return "", fmt.Errorf("templates bundle is nil")
	}
	tmpl, ok := b.templates[key]
	if !ok {
		return "", fmt.Errorf("template not found: %s", key)
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", key, err)
	}
	return out.String(), nil
}

// Text renders key with r and returns fallback when r is nil or rendering fails.
func Text(r Renderer, key string, data any, fallback string) string {
	if r == nil {
		return fallback
	}
	out, err := r.Render(key, data)
	if err != nil {
		return fallback
	}
	return out
}
