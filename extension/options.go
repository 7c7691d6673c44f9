package extension

import (
	"log/slog"

	"github.com/xraph/dashcore"
	"github.com/xraph/dashcore/authz"
	"github.com/xraph/dashcore/catalog"
	"github.com/xraph/dashcore/orgscope"
	"github.com/xraph/dashcore/plugin"
	"github.com/xraph/dashcore/store"
)

// ExtOption configures the dashcore Forge extension.
type ExtOption func(*Extension)

// WithStore sets the persistence backend.
func WithStore(s store.Store) ExtOption {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, dashcore.WithStore(s))
	}
}

// WithAuthorizer sets the external authorization provider.
func WithAuthorizer(p authz.Provider) ExtOption {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, dashcore.WithAuthorizer(p))
	}
}

// WithOrgResolver sets the organizational-scope resolver.
func WithOrgResolver(r orgscope.Resolver) ExtOption {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, dashcore.WithOrgResolver(r))
	}
}

// WithCatalog sets the static dashboard catalog resolver.
func WithCatalog(c *catalog.Resolver) ExtOption {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, dashcore.WithCatalog(c))
	}
}

// WithConfig sets the extension configuration.
func WithConfig(cfg Config) ExtOption {
	return func(e *Extension) {
		e.config = cfg
	}
}

// WithEngineOptions adds engine-level options.
func WithEngineOptions(opts ...dashcore.Option) ExtOption {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opts...)
	}
}

// WithPlugin registers a lifecycle hook plugin.
func WithPlugin(x plugin.Plugin) ExtOption {
	return func(e *Extension) {
		e.plugins = append(e.plugins, x)
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ExtOption {
	return func(e *Extension) {
		e.logger = l
	}
}

// WithDisableRoutes disables the registration of HTTP routes.
func WithDisableRoutes() ExtOption {
	return func(e *Extension) {
		e.config.DisableRoutes = true
	}
}

// WithDisableMigrate disables auto-migration on start.
func WithDisableMigrate() ExtOption {
	return func(e *Extension) {
		e.config.DisableMigrate = true
	}
}
