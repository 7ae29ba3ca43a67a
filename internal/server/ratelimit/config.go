// Defines rate limit tiers and routing rules.

package ratelimit

import (
	"time"
)

// Scope defines how rate limit keys are determined.
type Scope int

const (
	// ScopeIP uses the client IP address as the rate limit key.
	ScopeIP Scope = iota
)

// Tier defines a rate limit tier with its limiter and scope.
type Tier struct {
	Name    string
	Limiter *Limiter
	Scope   Scope
}

// Config holds rate limiters for the two tiers: cheap reads and writes.
// Materialize requests are POSTs but count as reads, since they only render.
type Config struct {
	Read  Tier
	Write Tier
}

// Limits configures the per-minute request budget of each tier.
type Limits struct {
	ReadPerMinute  int `yaml:"read_per_minute"`
	WritePerMinute int `yaml:"write_per_minute"`
}

// DefaultLimits returns the default per-minute budgets.
func DefaultLimits() Limits {
	return Limits{
		ReadPerMinute:  6000,
		WritePerMinute: 120,
	}
}

// NewConfig creates a Config from the given limits. Zero values fall back to
// the defaults.
func NewConfig(limits Limits) *Config {
	def := DefaultLimits()
	if limits.ReadPerMinute <= 0 {
		limits.ReadPerMinute = def.ReadPerMinute
	}
	if limits.WritePerMinute <= 0 {
		limits.WritePerMinute = def.WritePerMinute
	}
	return &Config{
		Read: Tier{
			Name:    "read",
			Limiter: NewLimiter(limits.ReadPerMinute, time.Minute, limits.ReadPerMinute/6),
			Scope:   ScopeIP,
		},
		Write: Tier{
			Name:    "write",
			Limiter: NewLimiter(limits.WritePerMinute, time.Minute, limits.WritePerMinute/6),
			Scope:   ScopeIP,
		},
	}
}

// Match returns the tier for a request, or nil for paths that should not be
// rate limited.
func (c *Config) Match(method, path string) *Tier {
	if path == "/api/health" {
		return nil
	}
	switch method {
	case "GET":
		return &c.Read
	case "POST", "PUT", "PATCH", "DELETE":
		if isMaterializePath(path) {
			return &c.Read
		}
		return &c.Write
	}
	return nil
}

// Close stops all limiter cleanup goroutines.
func (c *Config) Close() {
	c.Read.Limiter.Close()
	c.Write.Limiter.Close()
}

// isMaterializePath reports whether the path is a materialize render call,
// which uses POST for its body but performs no writes.
func isMaterializePath(path string) bool {
	return len(path) >= len("/materialize") && path[len(path)-len("/materialize"):] == "/materialize"
}
