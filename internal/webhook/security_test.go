package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestValidateSignature(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{Secret: "s3cret"})
	body := []byte(`{"ref":"refs/heads/main"}`)

	t.Run("valid signature passes", func(t *testing.T) {
		if err := v.ValidateSignature(body, sign("s3cret", body)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("flipped body byte invalidates", func(t *testing.T) {
		signature := sign("s3cret", body)
		for i := range body {
			tampered := append([]byte(nil), body...)
			tampered[i] ^= 0x01
			if err := v.ValidateSignature(tampered, signature); err == nil {
				t.Fatalf("tampered byte %d passed verification", i)
			}
		}
	})

	t.Run("wrong secret invalidates", func(t *testing.T) {
		if err := v.ValidateSignature(body, sign("other", body)); err == nil {
			t.Error("expected verification failure")
		}
	})

	t.Run("missing prefix rejected", func(t *testing.T) {
		raw := strings.TrimPrefix(sign("s3cret", body), "sha256=")
		if err := v.ValidateSignature(body, raw); err == nil {
			t.Error("expected format rejection")
		}
	})

	t.Run("non-hex signature rejected", func(t *testing.T) {
		if err := v.ValidateSignature(body, "sha256=zzzz"); err == nil {
			t.Error("expected hex rejection")
		}
	})

	t.Run("empty secret rejected", func(t *testing.T) {
		unconfigured := NewSecurityValidator(SecurityConfig{})
		if err := unconfigured.ValidateSignature(body, sign("", body)); err == nil {
			t.Error("expected rejection with unconfigured secret")
		}
	})
}

func TestValidateBodySize(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{Secret: "x", MaxBodyBytes: 100})
	if err := v.ValidateBodySize(100); err != nil {
		t.Errorf("size at cap must pass: %v", err)
	}
	if err := v.ValidateBodySize(101); err == nil {
		t.Error("size over cap must fail")
	}
}

func TestValidateIPAddress(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{
		Secret:     "x",
		AllowedIPs: []string{"10.0.0.1", "192.168.0.0/16"},
	})

	cases := []struct {
		name string
		addr string
		ok   bool
	}{
		{"exact match", "10.0.0.1:443", true},
		{"cidr match", "192.168.44.7:443", true},
		{"blocked", "172.16.0.1:443", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/webhook", nil)
			r.RemoteAddr = tc.addr
			err := v.ValidateIPAddress(r)
			if tc.ok && err != nil {
				t.Errorf("unexpected rejection: %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected rejection")
			}
		})
	}

	t.Run("forwarded header preferred", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/webhook", nil)
		r.RemoteAddr = "172.16.0.1:443"
		r.Header.Set("X-Forwarded-For", "10.0.0.1, 203.0.113.9")
		if err := v.ValidateIPAddress(r); err != nil {
			t.Errorf("unexpected rejection: %v", err)
		}
	})

	t.Run("empty allowlist passes everything", func(t *testing.T) {
		open := NewSecurityValidator(SecurityConfig{Secret: "x"})
		r := httptest.NewRequest("POST", "/webhook", nil)
		r.RemoteAddr = "203.0.113.9:443"
		if err := open.ValidateIPAddress(r); err != nil {
			t.Errorf("unexpected rejection: %v", err)
		}
	})
}

func TestValidateTimestamp(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{Secret: "x", TimestampTolerance: 5 * time.Minute})

	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := v.ValidateTimestamp(now); err != nil {
		t.Errorf("fresh timestamp rejected: %v", err)
	}

	stale := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)
	if err := v.ValidateTimestamp(stale); err == nil {
		t.Error("stale timestamp accepted")
	}

	if err := v.ValidateTimestamp(""); err == nil {
		t.Error("missing timestamp accepted with tolerance configured")
	}

	disabled := NewSecurityValidator(SecurityConfig{Secret: "x"})
	if err := disabled.ValidateTimestamp(""); err != nil {
		t.Errorf("timestamp check should be disabled: %v", err)
	}
}

func TestCheckReplay(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{Secret: "x"})

	if err := v.CheckReplay("delivery-1"); err != nil {
		t.Fatalf("first delivery rejected: %v", err)
	}
	if err := v.CheckReplay("delivery-1"); err == nil {
		t.Error("replayed delivery accepted")
	}
	if err := v.CheckReplay("delivery-2"); err != nil {
		t.Errorf("distinct delivery rejected: %v", err)
	}
	if err := v.CheckReplay(""); err == nil {
		t.Error("missing delivery id accepted")
	}
}

func TestCheckRateLimit(t *testing.T) {
	// 10/min gives burst 1: second immediate request must fail.
	v := NewSecurityValidator(SecurityConfig{Secret: "x", RateLimitPerMin: 10})

	if err := v.CheckRateLimit("203.0.113.9"); err != nil {
		t.Fatalf("first request rejected: %v", err)
	}
	if err := v.CheckRateLimit("203.0.113.9"); err == nil {
		t.Error("burst exceeded but request accepted")
	}
	if err := v.CheckRateLimit("203.0.113.10"); err != nil {
		t.Errorf("independent source rejected: %v", err)
	}
}
