package dimer

import (
	"github.com/dimerapp/config-parser/internal/constants"
	"github.com/dimerapp/config-parser/internal/document"
)

// versionSpec is a raw versions entry: a bare location string or an object.
type versionSpec interface {
	resolve(key string, explicitNo bool) Version
}

type versionLocation string

type versionObject struct {
	fields *document.Map
}

func parseVersionSpec(value any) versionSpec {
	switch v := value.(type) {
	case string:
		return versionLocation(v)
	case *document.Map:
		return versionObject{fields: v}
	default:
		// null and other scalars carry no fields
		return versionObject{}
	}
}

func (l versionLocation) resolve(key string, _ bool) Version {
	return Version{No: key, Location: string(l)}
}

func (o versionObject) resolve(key string, explicitNo bool) Version {
	version := Version{No: key}
	if explicitNo {
		if no, ok := o.fields.GetString("no"); ok && no != "" {
			version.No = no
		}
	}
	version.Location, _ = o.fields.GetString("location")
	version.Name, _ = o.fields.GetString("name")
	return version
}

// zoneSpec is a raw zones entry resolved to one shape. A bare string is shorthand
// for a zone with a single master version at that location.
type zoneSpec struct {
	name           string
	versions       *document.Map
	defaultVersion string
}

func parseZoneSpec(value any) zoneSpec {
	switch v := value.(type) {
	case string:
		versions := document.NewMap()
		versions.Set(constants.MasterVersion, v)
		return zoneSpec{versions: versions}
	case *document.Map:
		var spec zoneSpec
		spec.name, _ = v.GetString("name")
		spec.versions, _ = v.GetMap("versions")
		spec.defaultVersion, _ = v.GetString("defaultVersion")
		return spec
	default:
		return zoneSpec{}
	}
}
