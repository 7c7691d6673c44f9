// Package extension provides a Forge extension entry point for dashcore.
package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/dashcore"
	"github.com/xraph/dashcore/api"
	"github.com/xraph/dashcore/authz"
	"github.com/xraph/dashcore/cache"
	"github.com/xraph/dashcore/orgscope"
	"github.com/xraph/dashcore/plugin"
	"github.com/xraph/dashcore/store"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "dashcore"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Dashboard access-control engine (scope modes, shares, static catalog)"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts dashcore as a Forge extension.
type Extension struct {
	config     Config
	eng        *dashcore.Engine
	apiHandler *api.API
	logger     *slog.Logger
	engineOpts []dashcore.Option
	plugins    []plugin.Plugin
}

// New creates a dashcore Forge extension with the given options.
func New(opts ...ExtOption) *Extension {
	e := &Extension{config: DefaultConfig()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the extension name.
func (e *Extension) Name() string { return ExtensionName }

// Description returns the extension description.
func (e *Extension) Description() string { return ExtensionDescription }

// Version returns the extension version.
func (e *Extension) Version() string { return ExtensionVersion }

// Dependencies returns the list of extension names this extension depends on.
func (e *Extension) Dependencies() []string { return []string{} }

// Engine returns the underlying dashcore engine.
func (e *Extension) Engine() *dashcore.Engine { return e.eng }

// API returns the API handler.
func (e *Extension) API() *api.API { return e.apiHandler }

// Register implements [forge.Extension]. It initializes the engine,
// registers it in the DI container, and optionally registers HTTP routes.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.init(fapp); err != nil {
		return err
	}

	// Register the engine in the DI container.
	if err := vessel.Provide(fapp.Container(), func() (*dashcore.Engine, error) {
		return e.eng, nil
	}); err != nil {
		return fmt.Errorf("dashcore: register engine in container: %w", err)
	}

	return nil
}

func (e *Extension) init(fapp forge.App) error {
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Build engine options.
	opts := make([]dashcore.Option, 0, len(e.engineOpts)+len(e.plugins)+4)
	opts = append(opts, dashcore.WithLogger(logger))

	cfg := dashcore.DefaultConfig()
	if e.config.ProbeTimeout > 0 {
		cfg.ProbeTimeout = e.config.ProbeTimeout
	}
	cfg.CacheTTL = e.config.CacheTTL
	if e.config.DisableAudit {
		f := false
		cfg.EnableAudit = &f
	}
	opts = append(opts, dashcore.WithConfig(cfg))

	if e.config.CacheTTL > 0 {
		opts = append(opts, dashcore.WithCache(cache.NewMemory(cache.WithTTL(e.config.CacheTTL))))
	}

	// Try to resolve collaborators from the DI container; option-provided
	// values override.
	if s, err := forge.Inject[store.Store](fapp.Container()); err == nil {
		opts = append(opts, dashcore.WithStore(s))
	}
	if p, err := forge.Inject[authz.Provider](fapp.Container()); err == nil {
		opts = append(opts, dashcore.WithAuthorizer(p))
	}
	if r, err := forge.Inject[orgscope.Resolver](fapp.Container()); err == nil {
		opts = append(opts, dashcore.WithOrgResolver(r))
	}

	opts = append(opts, e.engineOpts...)

	for _, x := range e.plugins {
		opts = append(opts, dashcore.WithPlugin(x))
	}

	eng, err := dashcore.NewEngine(opts...)
	if err != nil {
		return fmt.Errorf("dashcore: create engine: %w", err)
	}
	e.eng = eng

	// Create API handler.
	e.apiHandler = api.New(eng, fapp.Router())

	// Register HTTP routes unless disabled.
	if !e.config.DisableRoutes {
		if err := e.apiHandler.RegisterRoutes(fapp.Router()); err != nil {
			return fmt.Errorf("dashcore: register routes: %w", err)
		}
	}

	return nil
}

// Start begins the engine and runs migrations if enabled.
func (e *Extension) Start(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("dashcore: extension not initialized")
	}

	// Run migrations unless disabled.
	if !e.config.DisableMigrate {
		s := e.eng.Store()
		if s != nil {
			if err := s.Migrate(ctx); err != nil {
				return fmt.Errorf("dashcore: migration failed: %w", err)
			}
		}
	}

	return e.eng.Start(ctx)
}

// Stop gracefully shuts down the engine.
func (e *Extension) Stop(ctx context.Context) error {
	if e.eng == nil {
		return nil
	}
	return e.eng.Stop(ctx)
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("dashcore: extension not initialized")
	}
	s := e.eng.Store()
	if s == nil {
		return errors.New("dashcore: no store configured")
	}
	return s.Ping(ctx)
}

// Handler returns the HTTP handler for all API routes.
func (e *Extension) Handler() http.Handler {
	if e.apiHandler == nil {
		return http.NotFoundHandler()
	}
	return e.apiHandler.Handler()
}

// RegisterRoutes registers all dashcore API routes into a Forge router.
func (e *Extension) RegisterRoutes(router forge.Router) error {
	if e.apiHandler != nil {
		return e.apiHandler.RegisterRoutes(router)
	}
	return nil
}
