package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/dimerapp/config-parser/internal/app"
	"github.com/dimerapp/config-parser/internal/audit"
	"github.com/dimerapp/config-parser/internal/config"
	"github.com/dimerapp/config-parser/internal/constants"
	"github.com/dimerapp/config-parser/internal/limits"
	"github.com/dimerapp/config-parser/internal/runtime"
)

func mcpCmd(c *cli) *cobra.Command {
	var flags config.MCP

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the parse and init tools over MCP",
		Long: `Run an MCP server exposing dimer_config_parse, dimer_config_init and the
dimer://config resource over stdio or streamable HTTP.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := c.cfg.MCP
			changed := cmd.Flags().Changed
			if changed("transport") {
				settings.Transport = flags.Transport
			}
			if changed("listen") {
				settings.Listen = flags.Listen
			}
			if changed("path") {
				settings.Path = flags.Path
			}
			if changed("stateless") {
				settings.Stateless = flags.Stateless
			}
			if changed("rate-per-minute") {
				settings.RatePerMinute = flags.RatePerMinute
			}
			if changed("max-calls") {
				settings.MaxCalls = flags.MaxCalls
			}
			return c.serveMCP(cmd.Context(), settings)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.Transport, "transport", constants.TransportStdio, "stdio or http (DIMER_MCP_TRANSPORT)")
	f.StringVar(&flags.Listen, "listen", ":8080", "HTTP listen address (DIMER_MCP_LISTEN)")
	f.StringVar(&flags.Path, "path", "/mcp", "HTTP endpoint path (DIMER_MCP_PATH)")
	f.BoolVar(&flags.Stateless, "stateless", false, "stateless streamable HTTP (DIMER_MCP_STATELESS)")
	f.IntVar(&flags.RatePerMinute, "rate-per-minute", 0, "per-tool calls per minute, 0 disables (DIMER_MCP_RATE_PER_MINUTE)")
	f.IntVar(&flags.MaxCalls, "max-calls", 0, "per-tool call cap, 0 disables (DIMER_MCP_MAX_CALLS)")

	return cmd
}

func (c *cli) serveMCP(ctx context.Context, settings config.MCP) error {
	builder := runtime.Builder{
		Name:      "dimer-config",
		Version:   version,
		Parser:    c.parser,
		Logger:    c.logger,
		Audit:     audit.New(c.logger),
		Templates: c.templates,
		Limits:    limits.New(settings.MaxCalls, settings.RatePerMinute, c.templates),
		Metrics:   c.metrics,
	}
	server, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	switch settings.Transport {
	case constants.TransportStdio:
		c.logger.Info("mcp server started", "transport", settings.Transport, "root", c.cfg.ProjectRoot)
		return server.Run(ctx, &mcp.StdioTransport{})
	case constants.TransportHTTP:
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return server
		}, &mcp.StreamableHTTPOptions{
			Stateless: settings.Stateless,
		})
		application, err := app.New(ctx, app.Options{
			Listen:          settings.Listen,
			Path:            settings.Path,
			MCP:             handler,
			Metrics:         c.metrics.Handler(),
			ShutdownTimeout: c.cfg.ShutdownTimeout,
		}, c.logger)
		if err != nil {
			return err
		}
		return application.Run(ctx)
	default:
		return fmt.Errorf("unknown transport %q (%s, %s)", settings.Transport, constants.TransportStdio, constants.TransportHTTP)
	}
}
