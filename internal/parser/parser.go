package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dimerapp/config-parser/configs"
	"github.com/dimerapp/config-parser/internal/audit"
	"github.com/dimerapp/config-parser/internal/constants"
	"github.com/dimerapp/config-parser/internal/dimer"
	"github.com/dimerapp/config-parser/internal/document"
	"github.com/dimerapp/config-parser/internal/metrics"
	"github.com/dimerapp/config-parser/internal/store"
)

// ErrConfigNotFound is returned by Parse when dimer.json does not exist.
var ErrConfigNotFound = errors.New("Cannot find dimer.json file. Run `dimer init` to create one")

// PathResolver maps the project layout to absolute paths.
type PathResolver interface {
	// ConfigFile returns the absolute path of dimer.json.
	ConfigFile() string
	// VersionDocsPath returns the absolute content directory of a version location.
	VersionDocsPath(location string) string
}

// FileStore reads and writes JSON documents. ReadJSON must wrap store.ErrNotFound
// when the file is missing.
type FileStore interface {
	ReadJSON(ctx context.Context, path string) (*document.Map, error)
	Exists(ctx context.Context, path string) (bool, error)
	OutputJSON(ctx context.Context, path string, value any) error
	EnsureDir(ctx context.Context, path string) error
}

// Parser reads, normalizes and scaffolds a project's dimer.json.
type Parser struct {
	// Paths resolves the project layout.
	Paths PathResolver
	// Store performs file I/O.
	Store FileStore
	// Options controls normalization and validation.
	Options dimer.Options
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Audit records parse and init events.
	Audit audit.Logger
	// Metrics counts parse and init outcomes.
	Metrics *metrics.Metrics

	initMu sync.Mutex
}

// Parse reads dimer.json and runs the normalize and validate pipeline over it.
func (p *Parser) Parse(ctx context.Context) (*dimer.Result, error) {
	return p.ParseWith(ctx, p.Options)
}

// ParseWith is Parse with per-call options.
func (p *Parser) ParseWith(ctx context.Context, opts dimer.Options) (*dimer.Result, error) {
	path := p.Paths.ConfigFile()
	raw, err := p.Store.ReadJSON(ctx, path)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, store.ErrNotFound) {
			outcome = metrics.OutcomeNotFound
			err = ErrConfigNotFound
		}
		p.Metrics.ObserveParse(outcome, nil)
		p.record(ctx, audit.Event{Type: audit.TypeConfigParse, Path: path, Outcome: outcome, Reason: err.Error()})
		return nil, err
	}

	result := dimer.Parse(raw, opts)
	outcome := metrics.OutcomeValid
	if !result.Valid() {
		outcome = metrics.OutcomeInvalid
	}
	p.Metrics.ObserveParse(outcome, result.Errors)
	p.record(ctx, audit.Event{Type: audit.TypeConfigParse, Path: path, Outcome: outcome})
	if p.Logger != nil {
		p.Logger.Debug("config parsed", "path", path, "errors", len(result.Errors))
	}
	return result, nil
}

// Init writes the default dimer.json merged with overrides and creates the
// docs/master directory. It returns false without writing when the file already
// exists. Overrides may be nil.
func (p *Parser) Init(ctx context.Context, overrides *document.Map) (bool, error) {
	p.initMu.Lock()
	defer p.initMu.Unlock()

	path := p.Paths.ConfigFile()
	exists, err := p.Store.Exists(ctx, path)
	if err != nil {
		return false, p.initFailed(ctx, path, err)
	}
	if exists {
		p.Metrics.ObserveInit(metrics.OutcomeExists)
		p.record(ctx, audit.Event{Type: audit.TypeConfigInit, Path: path, Outcome: metrics.OutcomeExists})
		return false, nil
	}

	doc, err := Scaffold(overrides)
	if err != nil {
		return false, p.initFailed(ctx, path, err)
	}
	// dimer.json is written last so a failed init can be retried.
	if err := p.Store.EnsureDir(ctx, p.Paths.VersionDocsPath(constants.MasterDocsDir)); err != nil {
		return false, p.initFailed(ctx, path, err)
	}
	if err := p.Store.OutputJSON(ctx, path, doc); err != nil {
		return false, p.initFailed(ctx, path, err)
	}

	p.Metrics.ObserveInit(metrics.OutcomeCreated)
	p.record(ctx, audit.Event{Type: audit.TypeConfigInit, Path: path, Outcome: metrics.OutcomeCreated})
	if p.Logger != nil {
		p.Logger.Info("config created", "path", path)
	}
	return true, nil
}

// Scaffold deep-merges overrides over the default document. When overrides define
// zones, the legacy versions and defaultVersion defaults are dropped.
func Scaffold(overrides *document.Map) (*document.Map, error) {
	defaults, err := configs.Default()
	if err != nil {
		return nil, fmt.Errorf("load default config: %w", err)
	}
	if overrides.Has("zones") {
		defaults.Delete("versions")
		defaults.Delete("defaultVersion")
	}
	return document.Merge(defaults, overrides), nil
}

func (p *Parser) initFailed(ctx context.Context, path string, err error) error {
	p.Metrics.ObserveInit(metrics.OutcomeError)
	p.record(ctx, audit.Event{Type: audit.TypeConfigInit, Path: path, Outcome: metrics.OutcomeError, Reason: err.Error()})
	return err
}

func (p *Parser) record(ctx context.Context, event audit.Event) {
	if p.Audit == nil {
		return
	}
	event.CorrelationID = CorrelationID(ctx)
	p.Audit.Record(ctx, event)
}

type correlationKey struct{}

// WithCorrelationID attaches a correlation id to ctx for audit records.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id attached by WithCorrelationID.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
