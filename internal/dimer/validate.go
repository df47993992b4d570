package dimer

import (
	"encoding/json"
	"fmt"

	"github.com/dimerapp/config-parser/internal/constants"
	"github.com/dimerapp/config-parser/internal/document"
)

// Conflicts checks the raw document for the zones shape mixed with the legacy
// versions/defaultVersion shape. A non-empty result means normalization must be
// skipped.
func Conflicts(raw *document.Map) []ErrorRecord {
	zones, _ := raw.Get("zones")
	if !truthy(zones) {
		return nil
	}
	versions, _ := raw.Get("versions")
	defaultVersion, _ := raw.Get("defaultVersion")
	if !truthy(versions) && !truthy(defaultVersion) {
		return nil
	}
	return []ErrorRecord{{RuleID: constants.RuleKeysConflicts, Message: "Versions and zones conflict"}}
}

// truthy mirrors how loosely typed config values are tested for presence: null,
// false, "" and 0 count as absent.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case *document.Map:
		return v != nil
	default:
		return true
	}
}

// Validate reports every semantic problem of a normalized config. Checks never
// stop at the first hit.
func Validate(cfg *Config, opts Options) []ErrorRecord {
	var errs []ErrorRecord
	if opts.ValidateDomain {
		errs = append(errs, validateDomain(cfg.Domain)...)
	}
	return append(errs, validateZones(cfg.Zones)...)
}

func validateDomain(domain string) []ErrorRecord {
	if domain != "" {
		return nil
	}
	return []ErrorRecord{{RuleID: constants.RuleMissingDomain, Message: "Missing domain in config"}}
}

func validateZones(zones []Zone) []ErrorRecord {
	if len(zones) == 0 {
		return []ErrorRecord{{RuleID: constants.RuleNoZones, Message: "Missing zones and versions"}}
	}
	var errs []ErrorRecord
	for _, zone := range zones {
		errs = append(errs, validateZone(zone)...)
	}
	return errs
}

func validateZone(zone Zone) []ErrorRecord {
	if len(zone.Versions) == 0 {
		message := fmt.Sprintf("Missing version(s) for %s zone in config", zone.Slug)
		if zone.Slug == constants.DefaultZone {
			message = "Missing version(s) in config"
		}
		return []ErrorRecord{{RuleID: constants.RuleNoVersions, Message: message}}
	}
	var errs []ErrorRecord
	for _, version := range zone.Versions {
		if version.Location == "" {
			errs = append(errs, ErrorRecord{
				RuleID:  constants.RuleMissingDocsDirectory,
				Message: fmt.Sprintf("Missing docs directory for %s version", version.No),
			})
		}
	}
	return errs
}
