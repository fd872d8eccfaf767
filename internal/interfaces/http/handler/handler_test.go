package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appscamcheck "github.com/tradesphere/antiscam/internal/application/scamcheck"
	"github.com/tradesphere/antiscam/internal/domain/chat"
	"github.com/tradesphere/antiscam/internal/domain/scamcheck"
	"github.com/tradesphere/antiscam/internal/infrastructure/cache"
	"github.com/tradesphere/antiscam/internal/interfaces/http/middleware"
	"github.com/tradesphere/antiscam/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// newTestEngine mounts registrars under /api/v1 like the real server.
func newTestEngine(registrars ...router.RouteRegistrar) *gin.Engine {
	engine := gin.New()
	r := router.NewRouter(engine)
	for _, reg := range registrars {
		r.Register(reg)
	}
	r.Setup()
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// stubSource answers every lookup with a fixed result.
type stubSource struct {
	id     string
	result scamcheck.SourceResult
}

func (s *stubSource) ID() string { return s.id }

func (s *stubSource) Search(ctx context.Context, keyword string) scamcheck.SourceResult {
	return s.result
}

func warningResult(source string) scamcheck.SourceResult {
	return scamcheck.SourceResult{
		Source:  source,
		Success: true,
		Total:   "1",
		Records: []scamcheck.SourceRecord{{Name: "Nguyễn Văn A", ReportDate: "01/08/2026"}},
	}
}

func newTestSearchService(sources ...scamcheck.Source) (*appscamcheck.SearchService, *cache.InMemoryResultCache) {
	registry := scamcheck.NewRegistry(sources...)
	aggregator := appscamcheck.NewAggregator(registry, nil, nil)
	resultCache := cache.NewInMemoryResultCache(time.Hour)
	return appscamcheck.NewSearchService(aggregator, resultCache, nil, nil, nil), resultCache
}

// stubUserRepo serves a fixed active follower list.
type stubUserRepo struct {
	active []chat.User
}

func (s *stubUserRepo) FindByPlatformID(ctx context.Context, id string) (*chat.User, error) {
	return nil, nil
}
func (s *stubUserRepo) FindActive(ctx context.Context) ([]chat.User, error) {
	return s.active, nil
}
func (s *stubUserRepo) FindActiveSubscribed(ctx context.Context, subscription string) ([]chat.User, error) {
	return s.active, nil
}
func (s *stubUserRepo) Save(ctx context.Context, user *chat.User) error { return nil }
func (s *stubUserRepo) CountActive(ctx context.Context) (int64, error) {
	return int64(len(s.active)), nil
}

// stubSender records sends and optionally fails them all.
type stubSender struct {
	sent []string
	err  error
}

func (s *stubSender) SendText(ctx context.Context, userID, text string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, userID)
	return "msg-1", nil
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "unexpected status, body: %s", rec.Body.String())
}
