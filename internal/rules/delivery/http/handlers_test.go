package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cicd-workflow-automation/internal/rules"
	"cicd-workflow-automation/pkg/response"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

func newTestRouter(store *rules.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), New(&mockLogger{}, store))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResp(t *testing.T, w *httptest.ResponseRecorder) response.Resp {
	t.Helper()
	var resp response.Resp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not the standard envelope: %v (%s)", err, w.Body.String())
	}
	return resp
}

func TestRulesAPIErrorEnvelope(t *testing.T) {
	t.Run("invalid body is a 400 envelope", func(t *testing.T) {
		r := newTestRouter(rules.NewStore())

		w := do(r, http.MethodPost, "/api/v1/rules", `{"priority": 99}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		resp := decodeResp(t, w)
		if resp.ErrorCode == 0 {
			t.Error("expected non-zero error_code")
		}
		if resp.Message == "" {
			t.Error("expected a message in the envelope")
		}
	})

	t.Run("unknown rule is a 404 envelope", func(t *testing.T) {
		r := newTestRouter(rules.NewStore())

		w := do(r, http.MethodGet, "/api/v1/rules/nope", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		resp := decodeResp(t, w)
		if resp.ErrorCode != 404 {
			t.Errorf("expected error_code 404, got %d", resp.ErrorCode)
		}
		if !strings.Contains(resp.Message, "not found") {
			t.Errorf("unexpected message: %q", resp.Message)
		}
	})

	t.Run("store validation error is a 400 envelope", func(t *testing.T) {
		r := newTestRouter(rules.NewStore())

		// Binds fine but fails store validation: no triggers or actions.
		w := do(r, http.MethodPost, "/api/v1/rules", `{"name": "r1", "priority": 5}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		resp := decodeResp(t, w)
		if resp.ErrorCode == 0 || resp.Message == "" {
			t.Errorf("expected populated envelope, got %+v", resp)
		}
	})
}
