package dimer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/dimerapp/config-parser/internal/document"
)

func decode(t *testing.T, input string) *document.Map {
	t.Helper()
	doc, err := document.Decode([]byte(input))
	require.NoError(t, err)
	return doc
}

func defaultZoneVersions(t *testing.T, cfg *Config) []Version {
	t.Helper()
	require.Len(t, cfg.Zones, 1)
	require.Equal(t, "default", cfg.Zones[0].Slug)
	return cfg.Zones[0].Versions
}

func TestNormalize_HighestVersionIsDefault(t *testing.T) {
	cfg := Normalize(decode(t, `{"versions": {"1.0.0": "docs/1.0.0", "1.0.1": "docs/1.0.1"}}`), DefaultOptions())

	want := []Version{
		{No: "1.0.0", Location: "docs/1.0.0", Default: false},
		{No: "1.0.1", Location: "docs/1.0.1", Default: true},
	}
	if diff := cmp.Diff(want, defaultZoneVersions(t, cfg)); diff != "" {
		t.Errorf("versions mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_MasterBeatsHighestVersion(t *testing.T) {
	cfg := Normalize(decode(t, `{"versions": {"1.0.0": "docs/1.0.0", "1.0.1": "docs/1.0.1", "master": "docs/master"}}`), DefaultOptions())

	want := []Version{
		{No: "1.0.0", Location: "docs/1.0.0"},
		{No: "1.0.1", Location: "docs/1.0.1"},
		{No: "master", Location: "docs/master", Default: true},
	}
	if diff := cmp.Diff(want, defaultZoneVersions(t, cfg)); diff != "" {
		t.Errorf("versions mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_ExplicitDefaultVersion(t *testing.T) {
	cfg := Normalize(decode(t, `{"defaultVersion": "1.0.0", "versions": {"1.0.0": "docs/master", "master": "docs/next"}}`), DefaultOptions())

	versions := defaultZoneVersions(t, cfg)
	require.True(t, versions[0].Default)
	require.False(t, versions[1].Default)
}

func TestNormalize_ExplicitDefaultVersionWithoutMatch(t *testing.T) {
	cfg := Normalize(decode(t, `{"defaultVersion": "2.0.0", "versions": {"1.0.0": "docs/1.0.0"}}`), DefaultOptions())

	versions := defaultZoneVersions(t, cfg)
	require.False(t, versions[0].Default)
}

func TestNormalize_MappingKeyWinsOverObjectNo(t *testing.T) {
	raw := decode(t, `{"defaultVersion": "1.0.0", "versions": {"1.0.0": {"location": "docs/master", "no": "foo"}}}`)

	versions := defaultZoneVersions(t, Normalize(raw, DefaultOptions()))
	want := []Version{{No: "1.0.0", Location: "docs/master", Default: true}}
	if diff := cmp.Diff(want, versions); diff != "" {
		t.Errorf("versions mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_ExplicitVersionNoOption(t *testing.T) {
	raw := decode(t, `{"versions": {"1.0.0": {"location": "docs/master", "no": "master"}, "2.0.0": "docs/2.0.0"}}`)

	opts := DefaultOptions()
	opts.ExplicitVersionNo = true
	versions := defaultZoneVersions(t, Normalize(raw, opts))

	want := []Version{
		{No: "master", Location: "docs/master", Default: true},
		{No: "2.0.0", Location: "docs/2.0.0"},
	}
	if diff := cmp.Diff(want, versions); diff != "" {
		t.Errorf("versions mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_VersionValueShapes(t *testing.T) {
	raw := decode(t, `{"versions": {
		"1.0.0": null,
		"1.1.0": {"name": "Version 1", "default": false},
		"1.2.0": 12,
		"1.3.0": {"location": 5}
	}}`)

	want := []Version{
		{No: "1.0.0"},
		{No: "1.1.0", Name: "Version 1"},
		{No: "1.2.0"},
		{No: "1.3.0", Default: true},
	}
	if diff := cmp.Diff(want, defaultZoneVersions(t, Normalize(raw, DefaultOptions()))); diff != "" {
		t.Errorf("versions mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_RawDefaultFlagIsIgnored(t *testing.T) {
	raw := decode(t, `{"versions": {"1.0.0": {"location": "docs/1", "default": true}, "2.0.0": "docs/2"}}`)

	versions := defaultZoneVersions(t, Normalize(raw, DefaultOptions()))
	require.False(t, versions[0].Default)
	require.True(t, versions[1].Default)
}

func TestNormalize_Zones(t *testing.T) {
	raw := decode(t, `{"zones": {
		"guides": {"name": "Guides", "versions": {"1.0.0": "docs/guides/1", "2.0.0": "docs/guides/2"}, "defaultVersion": "1.0.0"},
		"faq": "docs/faq",
		"api": {"versions": {"v2": "docs/api/v2", "v10": "docs/api/v10"}},
		"empty": null
	}}`)

	want := []Zone{
		{Slug: "guides", Name: "Guides", Versions: []Version{
			{No: "1.0.0", Location: "docs/guides/1", Default: true},
			{No: "2.0.0", Location: "docs/guides/2"},
		}},
		{Slug: "faq", Name: "faq", Versions: []Version{
			{No: "master", Location: "docs/faq", Default: true},
		}},
		// byte-wise comparison, not semantic versions
		{Slug: "api", Name: "api", Versions: []Version{
			{No: "v2", Location: "docs/api/v2", Default: true},
			{No: "v10", Location: "docs/api/v10"},
		}},
		{Slug: "empty", Name: "empty", Versions: []Version{}},
	}
	if diff := cmp.Diff(want, Normalize(raw, DefaultOptions()).Zones); diff != "" {
		t.Errorf("zones mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_EmptyZones(t *testing.T) {
	for _, input := range []string{`{"zones": {}}`, `{"zones": null}`, `{"zones": "docs"}`} {
		cfg := Normalize(decode(t, input), DefaultOptions())
		require.NotNil(t, cfg.Zones, input)
		require.Empty(t, cfg.Zones, input)
	}
}

func TestNormalize_ImplicitZoneWithoutVersions(t *testing.T) {
	cfg := Normalize(decode(t, `{}`), DefaultOptions())
	require.Len(t, cfg.Zones, 1)
	require.Equal(t, Zone{Slug: "default", Name: "default", Versions: []Version{}}, cfg.Zones[0])
}

func TestNormalize_Domain(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"adonisjs.com":   "adonisjs.com",
		"/adonisjs":      "adonisjs",
		"adonisjs/":      "adonisjs",
		"adonisjs.":      "adonisjs",
		"/adonisjs.com/": "adonisjs.com",
		"adonisjs//":     "adonisjs/",
		"/":              "",
	}
	for input, want := range cases {
		require.Equal(t, want, normalizeDomain(input), "input %q", input)
	}

	cfg := Normalize(decode(t, `{"domain": 42}`), DefaultOptions())
	require.Empty(t, cfg.Domain)
}

func TestNormalize_Cname(t *testing.T) {
	cases := map[string]string{
		"":                             "",
		"docs.adonisjs.com":            "docs.adonisjs.com",
		"https://Docs.AdonisJS.com/v4": "docs.adonisjs.com",
		"//docs.adonisjs.com":          "docs.adonisjs.com",
		"docs.adonisjs.com:8080/guide": "docs.adonisjs.com",
		"http://docs.adonisjs.com?x=1": "docs.adonisjs.com",
		"www.adonisjs.com":             "adonisjs.com",
		"www.localhost":                "www.localhost",
		"docs.adonisjs.com.":           "docs.adonisjs.com",
		"bücher.example":               "xn--bcher-kva.example",
		"  docs.adonisjs.com  ":        "docs.adonisjs.com",
	}
	for input, want := range cases {
		require.Equal(t, want, normalizeCname(input), "input %q", input)
	}
}

func TestNormalize_WebsiteOptions(t *testing.T) {
	cfg := Normalize(decode(t, `{"websiteOptions": {"theme": "dark", "nav": [1, 2]}}`), DefaultOptions())
	require.Equal(t, []string{"theme", "nav"}, cfg.WebsiteOptions.Keys())

	cfg = Normalize(decode(t, `{"websiteOptions": "nope"}`), DefaultOptions())
	require.Equal(t, 0, cfg.WebsiteOptions.Len())
}

func TestNormalize_CompilerOptionsDefaults(t *testing.T) {
	cfg := Normalize(decode(t, `{}`), DefaultOptions())
	opts := cfg.CompilerOptions
	require.Equal(t, "http://localhost:5000", opts.APIURL)
	require.Equal(t, "http://localhost:5000/__assets", opts.AssetsURL)
	require.True(t, opts.DetectAssets)
	require.True(t, opts.CreateSearchIndex)
	require.Equal(t, 0, opts.Extra.Len())
}

func TestNormalize_CompilerOptionsFileValues(t *testing.T) {
	raw := decode(t, `{"compilerOptions": {"apiUrl": "http://foo.com", "detectAssets": false, "createSearchIndex": "no", "concurrency": 4}}`)
	opts := Normalize(raw, DefaultOptions()).CompilerOptions

	require.Equal(t, "http://foo.com", opts.APIURL)
	require.Equal(t, "http://foo.com/__assets", opts.AssetsURL)
	require.False(t, opts.DetectAssets)
	require.True(t, opts.CreateSearchIndex)
	require.Equal(t, []string{"concurrency"}, opts.Extra.Keys())
}

func TestNormalize_CompilerOptionsFileValueWinsPerKey(t *testing.T) {
	cases := []struct {
		name              string
		input             string
		apiURL            string
		assetsURL         string
		detectAssets      bool
		createSearchIndex bool
	}{
		{
			name:      "null and zero switch flags off",
			input:     `{"detectAssets": null, "createSearchIndex": 0}`,
			apiURL:    "http://localhost:5000",
			assetsURL: "http://localhost:5000/__assets",
		},
		{
			name:              "empty apiUrl is kept",
			input:             `{"apiUrl": "", "detectAssets": "", "createSearchIndex": 1}`,
			apiURL:            "",
			assetsURL:         "/__assets",
			createSearchIndex: true,
		},
		{
			name:              "non-string apiUrl counts as absent",
			input:             `{"apiUrl": 5000, "detectAssets": {}, "createSearchIndex": "yes"}`,
			apiURL:            "http://localhost:5000",
			assetsURL:         "http://localhost:5000/__assets",
			detectAssets:      true,
			createSearchIndex: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := decode(t, `{"compilerOptions": `+tc.input+`}`)
			opts := Normalize(raw, DefaultOptions()).CompilerOptions

			require.Equal(t, tc.apiURL, opts.APIURL)
			require.Equal(t, tc.assetsURL, opts.AssetsURL)
			require.Equal(t, tc.detectAssets, opts.DetectAssets)
			require.Equal(t, tc.createSearchIndex, opts.CreateSearchIndex)
			require.Zero(t, opts.Extra.Len())
		})
	}
}

func TestNormalize_CompilerOptionsOverrideWins(t *testing.T) {
	raw := decode(t, `{"compilerOptions": {"apiUrl": "http://foo.com"}}`)
	opts := Normalize(raw, Options{APIURLOverride: "http://api.example.com/"}).CompilerOptions

	require.Equal(t, "http://api.example.com/", opts.APIURL)
	require.Equal(t, "http://api.example.com/__assets", opts.AssetsURL)
}

func TestNormalize_ExplicitAssetsURLSurvivesOverride(t *testing.T) {
	raw := decode(t, `{"compilerOptions": {"apiUrl": "http://foo.com", "assetsUrl": "https://cdn.foo.com"}}`)
	opts := Normalize(raw, Options{APIURLOverride: "http://api.example.com"}).CompilerOptions

	require.Equal(t, "http://api.example.com", opts.APIURL)
	require.Equal(t, "https://cdn.foo.com", opts.AssetsURL)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	input := `{"domain":"/a/","versions":{"1.0.0":"docs/1"},"websiteOptions":{"x":1},"compilerOptions":{"extra":{"y":2}}}`
	raw := decode(t, input)
	cfg := Normalize(raw, DefaultOptions())
	cfg.WebsiteOptions.Set("x", 2)
	extra, _ := cfg.CompilerOptions.Extra.GetMap("extra")
	extra.Set("y", 3)

	out, err := document.Marshal(raw)
	require.NoError(t, err)
	require.Equal(t, input, string(out))
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := decode(t, `{
		"domain": "adonisjs.com",
		"cname": "https://www.AdonisJS.com/docs",
		"zones": {
			"guides": {"name": "Guides", "versions": {"4.0": "docs/4.0", "master": {"location": "docs/master", "name": "Edge"}}},
			"faq": "docs/faq"
		},
		"websiteOptions": {"theme": "dark"},
		"compilerOptions": {"apiUrl": "http://foo.com/", "concurrency": 4}
	}`)

	first := Normalize(raw, DefaultOptions())
	second := Normalize(first.Raw(), DefaultOptions())

	want, err := document.Marshal(first)
	require.NoError(t, err)
	got, err := document.Marshal(second)
	require.NoError(t, err)
	require.JSONEq(t, string(want), string(got))
}

// A zone whose explicit defaultVersion matched nothing has no default to write
// back, so normalizing Raw() recomputes one.
func TestNormalize_RawRecomputesUnmatchedDefault(t *testing.T) {
	first := Normalize(decode(t, `{"defaultVersion": "2.0.0", "versions": {"1.0.0": "docs/1"}}`), DefaultOptions())
	require.False(t, defaultZoneVersions(t, first)[0].Default)

	raw := first.Raw()
	zones, ok := raw.GetMap("zones")
	require.True(t, ok)
	zone, ok := zones.GetMap("default")
	require.True(t, ok)
	require.False(t, zone.Has("defaultVersion"))

	second := Normalize(raw, DefaultOptions())
	require.True(t, defaultZoneVersions(t, second)[0].Default)
}
