package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// SecurityValidator gates webhook ingress: body size, source IP,
// signature, replay window, and per-source rate limits. Every failure
// is a terminal rejection reported to the caller; nothing is retried.
type SecurityValidator struct {
	config      SecurityConfig
	rateLimiter *rateLimiter
	deliveries  *expirable.LRU[string, time.Time]
}

func NewSecurityValidator(config SecurityConfig) *SecurityValidator {
	config = config.withDefaults()
	return &SecurityValidator{
		config:      config,
		rateLimiter: newRateLimiter(config.RateLimitPerMin),
		// Seen delivery ids; TTL matches the replay tolerance or falls
		// back to 10 minutes when the timestamp check is disabled.
		deliveries: expirable.NewLRU[string, time.Time](10000, nil, deliveryTTL(config)),
	}
}

func deliveryTTL(config SecurityConfig) time.Duration {
	if config.TimestampTolerance > 0 {
		return 2 * config.TimestampTolerance
	}
	return 10 * time.Minute
}

// ValidateBodySize rejects oversized payloads before any parsing.
func (v *SecurityValidator) ValidateBodySize(size int64) error {
	if size > v.config.MaxBodyBytes {
		return fmt.Errorf("payload %d bytes exceeds cap of %d", size, v.config.MaxBodyBytes)
	}
	return nil
}

// ValidateSignature verifies the "sha256=<hex>" HMAC header against the
// raw body using a constant-time comparison.
func (v *SecurityValidator) ValidateSignature(payload []byte, signature string) error {
	if v.config.Secret == "" {
		return fmt.Errorf("webhook secret not configured")
	}
	if !strings.HasPrefix(signature, "sha256=") {
		return fmt.Errorf("invalid signature format")
	}

	expectedSig, err := hex.DecodeString(strings.TrimPrefix(signature, "sha256="))
	if err != nil {
		return fmt.Errorf("invalid signature hex encoding: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(v.config.Secret))
	mac.Write(payload)

	// Constant-time comparison on raw bytes
	if !hmac.Equal(expectedSig, mac.Sum(nil)) {
		return fmt.Errorf("signature verification failed")
	}
	return nil
}

// ValidateIPAddress checks the client IP against the allowlist.
func (v *SecurityValidator) ValidateIPAddress(r *http.Request) error {
	if len(v.config.AllowedIPs) == 0 {
		return nil // no IP restriction
	}

	ip := extractIP(r)
	for _, allowed := range v.config.AllowedIPs {
		if ip == allowed {
			return nil
		}
		if strings.Contains(allowed, "/") {
			_, ipNet, err := net.ParseCIDR(allowed)
			if err != nil {
				continue
			}
			if ipNet.Contains(net.ParseIP(ip)) {
				return nil
			}
		}
	}
	return fmt.Errorf("IP %s not allowed", ip)
}

// ValidateTimestamp rejects deliveries outside the replay tolerance.
// timestamp is unix seconds as sent in the delivery header; an empty
// value passes when the check is disabled.
func (v *SecurityValidator) ValidateTimestamp(timestamp string) error {
	if v.config.TimestampTolerance <= 0 {
		return nil
	}
	if timestamp == "" {
		return fmt.Errorf("missing delivery timestamp")
	}

	sec, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid delivery timestamp: %w", err)
	}

	age := time.Since(time.Unix(sec, 0))
	if age > v.config.TimestampTolerance || age < -v.config.TimestampTolerance {
		return fmt.Errorf("delivery timestamp outside tolerance of %s", v.config.TimestampTolerance)
	}
	return nil
}

// CheckReplay rejects a delivery id seen within the replay window.
func (v *SecurityValidator) CheckReplay(deliveryID string) error {
	if deliveryID == "" {
		return fmt.Errorf("missing delivery id")
	}
	if _, seen := v.deliveries.Get(deliveryID); seen {
		return fmt.Errorf("delivery %s already processed", deliveryID)
	}
	v.deliveries.Add(deliveryID, time.Now())
	return nil
}

// CheckRateLimit enforces the per-source rate limit.
func (v *SecurityValidator) CheckRateLimit(source string) error {
	return v.rateLimiter.Allow(source)
}

// extractIP extracts the client IP, preferring proxy headers.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	return ip
}

// rateLimiter keeps a per-source token bucket with auto-cleanup.
type rateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requestsPerMin int) *rateLimiter {
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](
			1000,          // max 1000 unique sources
			nil,           // no eviction callback
			time.Minute*5, // TTL
		),
		rate:  rate.Limit(float64(requestsPerMin) / 60.0), // per second
		burst: burst,
	}
}

func (rl *rateLimiter) Allow(key string) error {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}

	if !limiter.Allow() {
		return fmt.Errorf("rate limit exceeded for %s", key)
	}
	return nil
}
