package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(ctx context.Context) error { return s.err }

func TestSystemEndpoints(t *testing.T) {
	t.Run("ping", func(t *testing.T) {
		engine := newTestEngine(NewSystemHandler(nil))
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/system/ping", "", nil)
		requireStatus(t, rec, http.StatusOK)

		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, "pong", data["message"])
	})

	t.Run("info", func(t *testing.T) {
		engine := newTestEngine(NewSystemHandler(nil))
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/system/info", "", nil)
		requireStatus(t, rec, http.StatusOK)

		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.NotEmpty(t, data["go_version"])
	})

	t.Run("healthy database", func(t *testing.T) {
		engine := newTestEngine(NewSystemHandler(&stubPinger{}))
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/system/health", "", nil)
		requireStatus(t, rec, http.StatusOK)

		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, "ok", data["database"])
	})

	t.Run("unreachable database degrades health", func(t *testing.T) {
		engine := newTestEngine(NewSystemHandler(&stubPinger{err: context.DeadlineExceeded}))
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/system/health", "", nil)
		requireStatus(t, rec, http.StatusServiceUnavailable)

		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		data := body["data"].(map[string]any)
		assert.Equal(t, "degraded", data["status"])
	})

	t.Run("no database configured", func(t *testing.T) {
		engine := newTestEngine(NewSystemHandler(nil))
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/system/health", "", nil)
		requireStatus(t, rec, http.StatusOK)

		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, "ok", data["status"])
		_, hasDB := data["database"]
		assert.False(t, hasDB)
	})
}
