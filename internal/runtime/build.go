package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dimerapp/config-parser/internal/audit"
	"github.com/dimerapp/config-parser/internal/constants"
	"github.com/dimerapp/config-parser/internal/document"
	"github.com/dimerapp/config-parser/internal/limits"
	"github.com/dimerapp/config-parser/internal/metrics"
	"github.com/dimerapp/config-parser/internal/parser"
	"github.com/dimerapp/config-parser/internal/protocol"
	"github.com/dimerapp/config-parser/internal/store"
	"github.com/dimerapp/config-parser/internal/templates"
)

// ConfigResourceURI addresses the raw dimer.json resource.
const ConfigResourceURI = "dimer://config"

// Builder constructs an MCP server exposing the config parser.
type Builder struct {
	// Name and Version identify the server implementation.
	Name    string
	Version string
	// Parser reads and scaffolds the project config.
	Parser *parser.Parser
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Audit records tool events.
	Audit audit.Logger
	// Templates provides localized messages.
	Templates templates.Renderer
	// Limits throttles tool calls. Nil disables throttling.
	Limits *limits.Store
	// Metrics counts tool calls.
	Metrics *metrics.Metrics
}

// Build creates an MCP server with the parse and init tools and the config resource.
func (b Builder) Build() (*mcp.Server, error) {
	if b.Parser == nil {
		return nil, errors.New("parser is nil")
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    b.Name,
		Version: b.Version,
	}, nil)

	server.AddResource(&mcp.Resource{
		Name:        "dimer.json",
		URI:         ConfigResourceURI,
		Description: "Raw dimer.json of the project",
		MIMEType:    "application/json",
	}, b.readConfig)

	mcp.AddTool(server, &mcp.Tool{
		Name:        constants.ToolParse,
		Title:       "Parse dimer.json",
		Description: "Normalize and validate the project's dimer.json and return the config with every validation error.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true, IdempotentHint: true},
	}, b.parseConfig)

	destructive := false
	mcp.AddTool(server, &mcp.Tool{
		Name:        constants.ToolInit,
		Title:       "Create dimer.json",
		Description: "Write a default dimer.json merged with overrides and create docs/master. Does nothing when the file exists.",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: &destructive, IdempotentHint: true},
	}, b.initConfig)

	return server, nil
}

func (b Builder) parseConfig(ctx context.Context, _ *mcp.CallToolRequest, in protocol.ParseInput) (*mcp.CallToolResult, protocol.ToolResponse, error) {
	id := correlationID(in.CorrelationID)
	ctx = parser.WithCorrelationID(ctx, id)
	resp := protocol.ToolResponse{CorrelationID: id, Path: b.Parser.Paths.ConfigFile()}

	if !b.admit(ctx, constants.ToolParse, &resp) {
		return nil, resp, nil
	}

	opts := b.Parser.Options
	if apiURL := strings.TrimSpace(in.APIURL); apiURL != "" {
		opts.APIURLOverride = apiURL
	}
	result, err := b.Parser.ParseWith(ctx, opts)
	if err != nil {
		b.fail(ctx, constants.ToolParse, &resp, err)
		return nil, resp, nil
	}

	resp.Errors = result.Errors
	resp.Config = result.Document()
	if result.Valid() {
		resp.Status = protocol.StatusSuccess
		resp.Reason = templates.Text(b.Templates, "tool.parse_valid", nil, "Configuration is valid")
	} else {
		resp.Status = protocol.StatusInvalid
		resp.Reason = templates.Text(b.Templates, "tool.parse_invalid", map[string]any{"Count": len(result.Errors)}, fmt.Sprintf("Configuration has %d problem(s)", len(result.Errors)))
	}
	b.done(ctx, constants.ToolParse, resp)
	return nil, resp, nil
}

func (b Builder) initConfig(ctx context.Context, _ *mcp.CallToolRequest, in protocol.InitInput) (*mcp.CallToolResult, protocol.ToolResponse, error) {
	id := correlationID(in.CorrelationID)
	ctx = parser.WithCorrelationID(ctx, id)
	path := b.Parser.Paths.ConfigFile()
	resp := protocol.ToolResponse{CorrelationID: id, Path: path}

	if !b.admit(ctx, constants.ToolInit, &resp) {
		return nil, resp, nil
	}

	var overrides *document.Map
	if in.Overrides != nil {
		overrides = document.FromMap(in.Overrides)
	}
	created, err := b.Parser.Init(ctx, overrides)
	if err != nil {
		b.fail(ctx, constants.ToolInit, &resp, err)
		return nil, resp, nil
	}

	resp.Status = protocol.StatusSuccess
	resp.Created = &created
	data := map[string]any{"Path": path}
	if created {
		resp.Reason = templates.Text(b.Templates, "tool.init_created", data, "Created "+path)
	} else {
		resp.Reason = templates.Text(b.Templates, "tool.init_exists", data, path+" already exists")
	}
	b.done(ctx, constants.ToolInit, resp)
	return nil, resp, nil
}

func (b Builder) readConfig(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := ConfigResourceURI
	if req != nil && req.Params != nil {
		uri = req.Params.URI
	}
	raw, err := b.Parser.Store.ReadJSON(ctx, b.Parser.Paths.ConfigFile())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		return nil, err
	}
	data, err := document.MarshalIndent(raw)
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: "application/json", Text: string(data)},
		},
	}, nil
}

func (b Builder) admit(ctx context.Context, tool string, resp *protocol.ToolResponse) bool {
	if b.Logger != nil {
		b.Logger.Info("tool call", "tool", tool, "correlation_id", resp.CorrelationID)
	}
	if b.Audit != nil {
		b.Audit.Record(ctx, audit.Event{Type: audit.TypeToolCall, Tool: tool, CorrelationID: resp.CorrelationID, Path: resp.Path})
	}

	decision := b.Limits.Allow(tool)
	if decision.Allowed {
		return true
	}
	resp.Status = protocol.StatusDenied
	resp.Reason = decision.Reason
	if b.Audit != nil {
		b.Audit.Record(ctx, audit.Event{Type: audit.TypeToolDenied, Tool: tool, CorrelationID: resp.CorrelationID, Path: resp.Path, Outcome: protocol.StatusDenied, Reason: decision.Reason})
	}
	b.Metrics.ObserveToolCall(tool, protocol.StatusDenied)
	return false
}

func (b Builder) fail(ctx context.Context, tool string, resp *protocol.ToolResponse, err error) {
	resp.Status = protocol.StatusError
	resp.Reason = err.Error()
	if b.Logger != nil {
		b.Logger.WarnContext(ctx, "tool failed", "tool", tool, "correlation_id", resp.CorrelationID, "error", err)
	}
	b.Metrics.ObserveToolCall(tool, protocol.StatusError)
}

func (b Builder) done(ctx context.Context, tool string, resp protocol.ToolResponse) {
	if b.Logger != nil {
		b.Logger.InfoContext(ctx, "tool done", "tool", tool, "correlation_id", resp.CorrelationID, "status", resp.Status)
	}
	b.Metrics.ObserveToolCall(tool, resp.Status)
}

func correlationID(provided string) string {
	if id := strings.TrimSpace(provided); id != "" {
		return id
	}
	return uuid.NewString()
}
