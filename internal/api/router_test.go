package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/kubeprops/internal/discovery"
)

func newObservedRouter(t *testing.T, handler *Handler, opts ...RouterOption) (http.Handler, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	return NewRouter(handler, zap.New(core), opts...), logs
}

func TestAccessLogNamesProperty(t *testing.T) {
	router, logs := newObservedRouter(t, newTestHandler(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/properties/service-dns-timeout", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one access log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["property"] != discovery.KeyServiceDNSTimeout {
		t.Fatalf("expected property field, got %v", fields["property"])
	}
	if fields["request_id"] != "req-42" {
		t.Fatalf("expected request id req-42, got %v", fields["request_id"])
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Fatalf("expected status 200 in log, got %v", fields["status"])
	}
}

func TestAccessLogOmitsPropertyForListing(t *testing.T) {
	router, logs := newObservedRouter(t, newTestHandler(t, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties/servce-dns", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/properties", nil))

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 2 {
		t.Fatalf("expected two access log entries, got %d", len(entries))
	}
	unknown := entries[0].ContextMap()
	if unknown["property"] != "servce-dns" || unknown["status"] != int64(http.StatusNotFound) {
		t.Fatalf("unexpected entry for unknown key: %v", unknown)
	}
	if _, ok := entries[1].ContextMap()["property"]; ok {
		t.Fatalf("listing should not carry a property field: %v", entries[1].ContextMap())
	}
}

func TestLoggingDisabled(t *testing.T) {
	router, logs := newObservedRouter(t, newTestHandler(t, nil), WithLogging(false))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/discovery", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no log entries, got %d", logs.Len())
	}
}

func TestRecoveryTurnsHandlerPanicIntoInternalError(t *testing.T) {
	// A handler without a catalog panics on the first lookup.
	router, logs := newObservedRouter(t, NewHandler(nil, discovery.Settings{}))

	req := httptest.NewRequest(http.MethodGet, "/api/properties/service-dns", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "Internal error" {
		t.Fatalf("unexpected error payload %+v", resp)
	}

	panics := logs.FilterMessage("panic recovered").All()
	if len(panics) != 1 {
		t.Fatalf("expected one recovered panic log, got %d", len(panics))
	}
	if panics[0].ContextMap()["path"] != "/api/properties/service-dns" {
		t.Fatalf("expected path in panic log, got %v", panics[0].ContextMap())
	}
	completed := logs.FilterMessage("request completed").All()
	if len(completed) != 1 || completed[0].ContextMap()["status"] != int64(http.StatusInternalServerError) {
		t.Fatalf("expected access log with status 500, got %v", completed)
	}
}

func TestNoStoreHeader(t *testing.T) {
	router := newTestRouter(t, WithLogging(false))

	for _, path := range []string{"/api/properties", "/api/discovery", "/api/properties/servce-dns"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if got := rec.Header().Get("Cache-Control"); got != "no-store" {
			t.Fatalf("%s: expected Cache-Control no-store, got %q", path, got)
		}
	}
}

func newTestRouter(t *testing.T, opts ...RouterOption) http.Handler {
	t.Helper()

	handler := newTestHandler(t, nil)
	logger := zaptest.NewLogger(t)
	return NewRouter(handler, logger, opts...)
}
