package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catnorm/internal/services"
)

func TestHealthHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHealthHandler(services.NewHealthService("v1.0.0-test", logger), logger)
	routes := handler.Routes()

	tests := []struct {
		name       string
		path       string
		wantStatus string
		wantFields []string
	}{
		{name: "health", path: "/", wantStatus: "ok", wantFields: []string{"timestamp", "version"}},
		{name: "liveness", path: "/live", wantStatus: "alive", wantFields: []string{"runtime"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
			assert.Equal(t, "v1.0.0-test", body["version"])
			for _, f := range tt.wantFields {
				assert.Contains(t, body, f)
			}
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	handler := NewHealthHandler(services.NewHealthService("v2", nil), nil)

	rec := httptest.NewRecorder()
	handler.Version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "v2", body["version"])
	assert.Contains(t, body, "go_version")
}
