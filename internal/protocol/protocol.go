package protocol

import (
	"github.com/dimerapp/config-parser/internal/dimer"
)

// Tool execution statuses.
const (
	StatusSuccess = "success"
	StatusInvalid = "invalid"
	StatusDenied  = "denied"
	StatusError   = "error"
)

// ToolResponse is the fixed JSON response returned to MCP clients.
type ToolResponse struct {
	// Status indicates the execution status.
	Status string `json:"status"`
	// Reason is a human-readable message.
	Reason string `json:"reason,omitempty"`
	// Errors lists validation problems found by a parse.
	Errors []dimer.ErrorRecord `json:"errors,omitempty"`
	// Config is the normalized config, or the raw document when the
	// zones/versions conflict check fired.
	Config any `json:"config,omitempty"`
	// Created reports whether init wrote a new file.
	Created *bool `json:"created,omitempty"`
	// Path is the config file the tool worked on.
	Path string `json:"path,omitempty"`
	// CorrelationID links related requests.
	CorrelationID string `json:"correlation_id"`
}

// ParseInput is the argument object of the parse tool.
type ParseInput struct {
	// APIURL overrides compilerOptions.apiUrl for this call.
	APIURL string `json:"api_url,omitempty" jsonschema:"overrides compilerOptions.apiUrl for this call"`
	// CorrelationID is echoed back in the response.
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"optional id echoed back in the response"`
}

// InitInput is the argument object of the init tool.
type InitInput struct {
	// Overrides is deep-merged over the default dimer.json.
	Overrides map[string]any `json:"overrides,omitempty" jsonschema:"partial dimer.json deep-merged over the defaults"`
	// CorrelationID is echoed back in the response.
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"optional id echoed back in the response"`
}
