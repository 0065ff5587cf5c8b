package webhook

import "time"

// SecurityConfig holds webhook ingress security settings.
type SecurityConfig struct {
	Secret             string        // shared secret for signature verification
	AllowedIPs         []string      // IP allowlist, empty means no restriction
	RateLimitPerMin    int           // max requests per minute per source
	MaxBodyBytes       int64         // payload size cap, default 1 MiB
	TimestampTolerance time.Duration // replay window, zero disables the check
}

func (c SecurityConfig) withDefaults() SecurityConfig {
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 1 << 20
	}
	if c.RateLimitPerMin <= 0 {
		c.RateLimitPerMin = 60
	}
	return c
}
