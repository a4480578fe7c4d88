package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-faster/sdk/zctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrap_Order(t *testing.T) {
	var calls []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Wrap(okHandler(), mark("outer"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, calls)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("Generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotEmpty(t, w.Header().Get(RequestIDHeader))
		assert.Equal(t, w.Header().Get(RequestIDHeader), seen)
	})
	t.Run("Echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "custom-id-1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, "custom-id-1", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "custom-id-1", seen)
	})
	t.Run("Invalid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", maxRequestIDLen+1))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}

func TestInjectLoggerAndLogRequests(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	lg := zap.New(core)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/product/{id}", func(w http.ResponseWriter, r *http.Request) {
		zctx.From(r.Context()).Info("Inside handler")
		w.WriteHeader(http.StatusNotFound)
	})
	find := MakeRouteFinder(mux)
	h := Wrap(mux, RequestID(), InjectLogger(lg), LogRequests(find))

	req := httptest.NewRequest(http.MethodGet, "/api/product/42", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Inside handler", entries[0].Message)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])

	fields := entries[1].ContextMap()
	assert.Equal(t, "Request", entries[1].Message)
	assert.Equal(t, "GET /api/product/{id}", fields["route"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
	assert.Equal(t, "req-7", fields["request_id"])
}

func TestLogRequests_UnknownRoute(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", func(http.ResponseWriter, *http.Request) {})

	h := Wrap(mux, InjectLogger(zap.New(core)), LogRequests(MakeRouteFinder(mux)))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "unknown", logs.All()[0].ContextMap()["route"])
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	h := Wrap(panicking, InjectLogger(zap.New(core)), Recovery())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "close", w.Header().Get("Connection"))
	assert.JSONEq(t, `{"code":500,"message":"internal server error"}`, w.Body.String())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Panic recovered", logs.All()[0].Message)
}
