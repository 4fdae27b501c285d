package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
)

const testIdentity = "0x00000000000000000000000000000000000000A1"

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentityMiddleware(t *testing.T) {
	t.Run("normalizes header into context", func(t *testing.T) {
		var got governance.Identity
		h := IdentityMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = GetIdentity(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(IdentityHeader, "  "+testIdentity+" ")
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, governance.Identity("0x00000000000000000000000000000000000000a1"), got)
	})

	t.Run("anonymous request passes through", func(t *testing.T) {
		var called, hasIdentity bool
		h := IdentityMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			_, hasIdentity = GetIdentity(r.Context())
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.True(t, called)
		assert.False(t, hasIdentity)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(IdentityHeader, "alice")
		IdentityMiddleware(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireIdentity(t *testing.T) {
	h := IdentityMiddleware(RequireIdentity(okHandler()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(IdentityHeader, testIdentity)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := IdentityMiddleware(NewLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/members/join", nil)
	req.Header.Set(IdentityHeader, testIdentity)
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http_request", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/api/v1/members/join", entry["path"])
	assert.Equal(t, float64(http.StatusConflict), entry["status"])
	assert.Equal(t, "0x00000000000000000000000000000000000000a1", entry["identity"])
}

func TestRateLimiter(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    2,
		ProposalRate:    1,
		ProposalBurst:   1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	general := IdentityMiddleware(rl.GeneralMiddleware()(okHandler()))
	proposals := IdentityMiddleware(rl.ProposalMiddleware()(okHandler()))

	send := func(h http.Handler, identity string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if identity != "" {
			req.Header.Set(IdentityHeader, identity)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send(general, testIdentity).Code)
	assert.Equal(t, http.StatusOK, send(general, testIdentity).Code)
	rec := send(general, testIdentity)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	other := "0x00000000000000000000000000000000000000b2"
	assert.Equal(t, http.StatusOK, send(general, other).Code, "limits are per identity")
	assert.Equal(t, http.StatusOK, send(proposals, testIdentity).Code, "proposal limit is independent")
	assert.Equal(t, http.StatusTooManyRequests, send(proposals, testIdentity).Code)

	assert.Equal(t, 2, rl.GeneralLimiterCount())
	assert.Equal(t, 1, rl.ProposalLimiterCount())

	rl.cleanup(time.Now().Add(3 * time.Minute))
	assert.Zero(t, rl.GeneralLimiterCount())
	assert.Zero(t, rl.ProposalLimiterCount())
}

func TestRateLimiterConfigPerMinute(t *testing.T) {
	cfg := RateLimiterConfigPerMinute(120, 10)
	assert.InDelta(t, 2.0, float64(cfg.GeneralRate), 1e-9)
	assert.Equal(t, 120, cfg.GeneralBurst)
	assert.Equal(t, 10, cfg.ProposalBurst)
	assert.Equal(t, 60, retryAfter(0))
	assert.Equal(t, 2, retryAfter(0.5))
}
