package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheAdmin(t *testing.T) {
	source := &stubSource{id: "admin", result: warningResult("admin")}
	search, resultCache := newTestSearchService(source)
	engine := newTestEngine(NewScamHandler(search), NewCacheHandler(resultCache))

	// Prime two entries through the search endpoint.
	doRequest(t, engine, http.MethodGet, "/api/v1/scams/search?keyword=0911222333", "", nil)
	doRequest(t, engine, http.MethodGet, "/api/v1/scams/search?keyword=0944555666", "", nil)

	t.Run("stats count cached lookups", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodGet, "/api/v1/cache/stats", "", nil)
		requireStatus(t, rec, http.StatusOK)

		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, float64(2), data["search_keys"])
	})

	t.Run("clear by pattern removes matches only", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodDelete, "/api/v1/cache/clear?pattern=all:0911*", "", nil)
		requireStatus(t, rec, http.StatusOK)

		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, float64(1), data["cleared"])
		assert.Equal(t, 1, resultCache.Size())
	})

	t.Run("clear without pattern empties the namespace", func(t *testing.T) {
		rec := doRequest(t, engine, http.MethodDelete, "/api/v1/cache/clear", "", nil)
		requireStatus(t, rec, http.StatusOK)
		assert.Equal(t, 0, resultCache.Size())
	})
}
