package dimer

import (
	"strings"

	"github.com/dimerapp/config-parser/internal/constants"
	"github.com/dimerapp/config-parser/internal/document"
)

// Normalize turns a raw dimer.json document into its canonical shape. It never
// fails: malformed fragments degrade to empty values and are reported by Validate.
func Normalize(raw *document.Map, opts Options) *Config {
	domain, _ := raw.GetString("domain")
	cname, _ := raw.GetString("cname")
	compilerOptions, _ := raw.GetMap("compilerOptions")

	return &Config{
		Domain:          normalizeDomain(domain),
		Cname:           normalizeCname(cname),
		Zones:           normalizeZones(expandZones(raw), opts.ExplicitVersionNo),
		WebsiteOptions:  websiteOptions(raw),
		CompilerOptions: normalizeCompilerOptions(compilerOptions.Clone(), opts.APIURLOverride),
	}
}

// normalizeDomain strips one leading "/" and one trailing "/" or ".".
func normalizeDomain(domain string) string {
	domain = strings.TrimPrefix(domain, "/")
	if strings.HasSuffix(domain, "/") || strings.HasSuffix(domain, ".") {
		domain = domain[:len(domain)-1]
	}
	return domain
}

// expandZones rewrites the legacy flat shape into a single "default" zone so the
// rest of the pipeline only deals with zones. A present but null or non-object
// zones value yields nil.
func expandZones(raw *document.Map) *document.Map {
	if raw.Has("zones") {
		zones, _ := raw.GetMap("zones")
		return zones
	}

	implicit := document.NewMap()
	if versions, ok := raw.GetMap("versions"); ok {
		implicit.Set("versions", versions)
	}
	if defaultVersion, ok := raw.GetString("defaultVersion"); ok {
		implicit.Set("defaultVersion", defaultVersion)
	}

	zones := document.NewMap()
	zones.Set(constants.DefaultZone, implicit)
	return zones
}

func normalizeZones(zones *document.Map, explicitNo bool) []Zone {
	out := make([]Zone, 0, zones.Len())
	for _, slug := range zones.Keys() {
		value, _ := zones.Get(slug)
		spec := parseZoneSpec(value)

		name := spec.name
		if name == "" {
			name = slug
		}
		out = append(out, Zone{
			Slug:     slug,
			Name:     name,
			Versions: normalizeVersions(spec.versions, spec.defaultVersion, explicitNo),
		})
	}
	return out
}

func normalizeVersions(versions *document.Map, defaultVersion string, explicitNo bool) []Version {
	out := make([]Version, 0, versions.Len())
	master := -1
	for _, key := range versions.Keys() {
		value, _ := versions.Get(key)
		version := parseVersionSpec(value).resolve(key, explicitNo)
		if version.No == constants.MasterVersion {
			master = len(out)
		}
		out = append(out, version)
	}
	selectDefault(out, defaultVersion, master)
	return out
}

// selectDefault marks the default version. An explicit defaultVersion marks every
// match; otherwise master wins, then the byte-wise greatest no (first on ties).
func selectDefault(versions []Version, defaultVersion string, master int) {
	if defaultVersion != "" {
		for i := range versions {
			versions[i].Default = versions[i].No == defaultVersion
		}
		return
	}
	if len(versions) == 0 {
		return
	}

	pick := master
	if pick < 0 {
		pick = 0
		for i := range versions {
			if versions[i].No > versions[pick].No {
				pick = i
			}
		}
	}
	versions[pick].Default = true
}

func websiteOptions(raw *document.Map) *document.Map {
	if options, ok := raw.GetMap("websiteOptions"); ok {
		return options.Clone()
	}
	return document.NewMap()
}

// normalizeCompilerOptions layers built-in defaults, file values and the caller
// override, then derives assetsUrl from the final apiUrl when the file has none.
// A key present in the file always wins: the flags take its truthiness and a
// string apiUrl is kept even when empty. A non-string apiUrl or assetsUrl cannot
// be represented and counts as absent.
func normalizeCompilerOptions(raw *document.Map, apiURLOverride string) CompilerOptions {
	opts := CompilerOptions{
		APIURL:            constants.DefaultAPIURL,
		DetectAssets:      true,
		CreateSearchIndex: true,
		Extra:             document.NewMap(),
	}

	for _, key := range raw.Keys() {
		value, _ := raw.Get(key)
		switch key {
		case "apiUrl":
			if s, ok := value.(string); ok {
				opts.APIURL = s
			}
		case "assetsUrl":
			if s, ok := value.(string); ok {
				opts.AssetsURL = s
			}
		case "detectAssets":
			opts.DetectAssets = truthy(value)
		case "createSearchIndex":
			opts.CreateSearchIndex = truthy(value)
		default:
			opts.Extra.Set(key, value)
		}
	}

	if apiURLOverride != "" {
		opts.APIURL = apiURLOverride
	}
	if opts.AssetsURL == "" {
		opts.AssetsURL = strings.TrimSuffix(opts.APIURL, "/") + constants.AssetsPath
	}
	return opts
}
