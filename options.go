package dashcore

import (
	"log/slog"

	"github.com/xraph/dashcore/authz"
	"github.com/xraph/dashcore/catalog"
	"github.com/xraph/dashcore/orgscope"
	"github.com/xraph/dashcore/plugin"
	"github.com/xraph/dashcore/store"
)

// Option is a functional option for the Engine.
type Option func(*Engine)

// WithStore sets the composite store.
func WithStore(s store.Store) Option { return func(e *Engine) { e.store = s } }

// WithAuthorizer sets the external authorization provider.
func WithAuthorizer(p authz.Provider) Option { return func(e *Engine) { e.authorizer = p } }

// WithOrgResolver sets the organizational-scope resolver.
func WithOrgResolver(r orgscope.Resolver) Option { return func(e *Engine) { e.orgResolver = r } }

// WithCatalog sets the static dashboard catalog resolver.
func WithCatalog(c *catalog.Resolver) Option { return func(e *Engine) { e.catalog = c } }

// WithCache sets the scope-mode result cache.
func WithCache(c Cache) Option { return func(e *Engine) { e.cache = c } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithConfig sets the engine configuration.
func WithConfig(c Config) Option { return func(e *Engine) { e.config = c } }

// WithPlugin registers a plugin with the engine.
func WithPlugin(x plugin.Plugin) Option {
	return func(e *Engine) {
		if e.plugins == nil {
			e.plugins = plugin.NewRegistry(e.logger)
		}
		e.plugins.Register(x)
	}
}
