package constants

// Project layout.
const (
	ConfigFileName = "dimer.json"
	MasterVersion  = "master"
	MasterDocsDir  = "docs/master"
	DefaultZone    = "default"
)

// Compiler option defaults.
const (
	DefaultAPIURL = "http://localhost:5000"
	AssetsPath    = "/__assets"
)

// Validation rule identifiers.
const (
	RuleKeysConflicts        = "keys-conflicts"
	RuleMissingDomain        = "missing-domain"
	RuleNoZones              = "no-zones"
	RuleNoVersions           = "no-versions"
	RuleMissingDocsDirectory = "missing-docs-directory"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// MCP tool names.
const (
	ToolParse = "dimer_config_parse"
	ToolInit  = "dimer_config_init"
)
