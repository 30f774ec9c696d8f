package engine

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/km-arc/go-slate/config"
	"github.com/km-arc/go-slate/registry"
)

// Engine is one isolated evaluation context. It scopes the singleton
// instance cache and hands itself to factories as their registry.Handle.
type Engine struct {
	id  string
	reg *registry.Registry
	log *slog.Logger
	cfg *config.Config

	mu         sync.Mutex
	singletons map[registry.TypeID]*singletonEntry
	closed     bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger replaces the default logger. The engine id attribute is added
// either way.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithConfig attaches a loaded configuration. Without it the engine runs
// with defaults (non-strict, info logging).
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// New creates an engine over a registry. The registry may be shared between
// engines; singleton instances never are.
func New(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		id:         uuid.NewString(),
		reg:        reg,
		log:        slog.Default(),
		singletons: make(map[registry.TypeID]*singletonEntry),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("engine", e.id)
	return e
}

// ID returns the engine's identity, part of the registry.Handle contract.
func (e *Engine) ID() string { return e.id }

// Logger returns the engine-scoped logger, part of the registry.Handle
// contract.
func (e *Engine) Logger() *slog.Logger { return e.log }

// Registry returns the registry this engine resolves against.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// Strict reports whether the engine escalates nil factory results on
// member access instead of only falling back.
func (e *Engine) Strict() bool { return e.cfg != nil && e.cfg.Strict }

// Close tears the engine down. Cached singleton instances are dropped;
// later singleton requests fail with an ENGINE_CLOSED error.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.singletons = nil
	e.log.Debug("engine closed")
}
