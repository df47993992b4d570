package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dimerapp/config-parser/internal/dimer"
)

// Config stores environment-driven settings for the CLI and the MCP server.
type Config struct {
	// ProjectRoot is the directory holding dimer.json.
	ProjectRoot string `env:"DIMER_PROJECT_ROOT" envDefault:"."`
	// APIURL overrides compilerOptions.apiUrl when non-empty.
	APIURL string `env:"DIMER_API_URL"`
	// ValidateDomain reports a missing domain.
	ValidateDomain bool `env:"DIMER_VALIDATE_DOMAIN" envDefault:"true"`
	// ExplicitVersionNo lets a version object's own "no" win over its mapping key.
	ExplicitVersionNo bool `env:"DIMER_EXPLICIT_VERSION_NO" envDefault:"false"`
	// LogLevel sets the logger level.
	LogLevel string `env:"DIMER_LOG_LEVEL" envDefault:"info"`
	// Lang selects message language for templates.
	Lang string `env:"DIMER_LANG" envDefault:"en"`
	// MCP holds the MCP server settings.
	MCP MCP
	// ShutdownTimeout controls graceful shutdown duration.
	ShutdownTimeout time.Duration `env:"DIMER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// MCP stores settings for the MCP server.
type MCP struct {
	// Transport is stdio or http.
	Transport string `env:"DIMER_MCP_TRANSPORT" envDefault:"stdio"`
	// Listen is the HTTP listen address.
	Listen string `env:"DIMER_MCP_LISTEN" envDefault:":8080"`
	// Path is the MCP endpoint path.
	Path string `env:"DIMER_MCP_PATH" envDefault:"/mcp"`
	// Stateless disables session tracking on the streamable HTTP handler.
	Stateless bool `env:"DIMER_MCP_STATELESS" envDefault:"false"`
	// RatePerMinute limits calls per tool and minute (0 disables).
	RatePerMinute int `env:"DIMER_MCP_RATE_PER_MINUTE" envDefault:"0"`
	// MaxCalls caps calls per tool (0 disables).
	MaxCalls int `env:"DIMER_MCP_MAX_CALLS" envDefault:"0"`
}

// Load parses environment variables into Config.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}

// Options returns the normalization options described by the settings.
func (c Config) Options() dimer.Options {
	return dimer.Options{
		APIURLOverride:    c.APIURL,
		ExplicitVersionNo: c.ExplicitVersionNo,
		ValidateDomain:    c.ValidateDomain,
	}
}
