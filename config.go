package dashcore

import "time"

// Config holds configuration for the dashcore engine.
type Config struct {
	// ProbeTimeout bounds each authorization-provider probe.
	// Defaults to 5s.
	ProbeTimeout time.Duration `json:"probe_timeout,omitempty"`

	// CacheTTL is the time-to-live for cached scope-mode results.
	// Zero means no caching.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// EnableAudit enables audit-log writes for access decisions.
	// Defaults to true.
	EnableAudit *bool `json:"enable_audit,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	t := true
	return Config{
		ProbeTimeout: 5 * time.Second,
		EnableAudit:  &t,
	}
}

func (c Config) auditEnabled() bool { return c.EnableAudit == nil || *c.EnableAudit }
