package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozyren/catalog-api/internal/application/dto"
	"github.com/cozyren/catalog-api/internal/application/ingest"
	"github.com/cozyren/catalog-api/internal/application/usecase"
	"github.com/cozyren/catalog-api/internal/domain/entity"
	"github.com/cozyren/catalog-api/internal/infrastructure/metrics"
	apphttp "github.com/cozyren/catalog-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeIngester struct {
	got    []ingest.Request
	result *ingest.Result
	err    error
}

func (f *fakeIngester) Ingest(_ context.Context, req ingest.Request) (*ingest.Result, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeArchive struct {
	key   string
	err   error
	calls int
}

func (f *fakeArchive) Store(context.Context, string, string, []byte) (string, error) {
	f.calls++
	return f.key, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type memSyncLog struct{ rows []*entity.SyncLogEntry }

func (m *memSyncLog) Append(_ context.Context, e *entity.SyncLogEntry) error {
	m.rows = append(m.rows, e)
	return nil
}

func (m *memSyncLog) Upsert(ctx context.Context, e *entity.SyncLogEntry) error {
	for i, r := range m.rows {
		if r.SyncType == e.SyncType {
			m.rows[i] = e
			return nil
		}
	}
	return m.Append(ctx, e)
}

func (m *memSyncLog) Latest(_ context.Context, syncType string) (*entity.SyncLogEntry, error) {
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].SyncType == syncType {
			return m.rows[i], nil
		}
	}
	return nil, nil
}

func (m *memSyncLog) List(context.Context, string, int) ([]*entity.SyncLogEntry, error) {
	return m.rows, nil
}

type testEnv struct {
	app      *fiber.App
	ingester *fakeIngester
	archive  *fakeArchive
	registry *prometheus.Registry
}

type envOption func(*apphttp.RouterDeps)

func newTestEnv(t *testing.T, opts ...envOption) testEnv {
	t.Helper()
	env := testEnv{
		ingester: &fakeIngester{result: &ingest.Result{Processed: 3, Created: 2, Updated: 1, Errors: 1}},
		archive:  &fakeArchive{key: "price_list_1c/2026/01/02/x.json"},
		registry: prometheus.NewRegistry(),
	}
	deps := apphttp.RouterDeps{
		// repositories are never reached by the routes exercised here
		ProductUC:      usecase.NewProductUseCase(nil, nil, nil, nil),
		CategoryUC:     usecase.NewCategoryUseCase(nil, nil, nil),
		BrandUC:        usecase.NewBrandUseCase(nil, nil, nil),
		SyncUC:         usecase.NewSyncUseCase(&memSyncLog{}),
		AuthUC:         newAuthUseCase(t),
		Ingester:       env.ingester,
		Archive:        env.archive,
		DB:             fakePinger{},
		LoginPerMinute: 60,
		LoginBurst:     100,
		Gatherer:       env.registry,
		Log:            zerolog.Nop(),
	}
	for _, o := range opts {
		o(&deps)
	}

	env.app = fiber.New()
	env.app.Use(apphttp.RequestID())
	env.app.Use(apphttp.Metrics(metrics.New(env.registry)))
	apphttp.Router(env.app, deps)
	return env
}

func (e testEnv) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ──────────────────────────────────────────────────────────────────────────────
// Public catalog
// ──────────────────────────────────────────────────────────────────────────────

func TestRoot(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Cozy Home Craft API","version":"1.0.0"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestRequestIDEchoed(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, _ := env.do(t, req)
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"healthy","database":"connected"}`, string(body))

	down := newTestEnv(t, func(d *apphttp.RouterDeps) { d.DB = fakePinger{err: errors.New("connection refused")} })
	resp, body = down.do(t, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"unhealthy"`)
	assert.Contains(t, string(body), "connection refused")
}

func TestListProducts_LimitValidation(t *testing.T) {
	env := newTestEnv(t)
	for _, target := range []string{
		"/api/products?limit=0",
		"/api/products?limit=101",
		"/api/products?limit=abc",
		"/api/products?offset=-1",
	} {
		resp, body := env.do(t, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
		assert.Contains(t, string(body), "VALIDATION", target)
	}
}

func TestSearch_RequiresQuery(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/search", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")

	resp, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/api/search?q=x&limit=51", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Admin
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, jsonRequest(http.MethodPost, "/api/admin/login", `{"username":"admin","password":"s3cret"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Login successful", out.Message)
	assert.NotEmpty(t, out.Token)

	resp, body = env.do(t, jsonRequest(http.MethodPost, "/api/admin/login", `{"username":"admin","password":"nope"}`))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "UNAUTHORIZED")
}

func TestLogin_RateLimited(t *testing.T) {
	env := newTestEnv(t, func(d *apphttp.RouterDeps) {
		d.LoginPerMinute = 1
		d.LoginBurst = 2
	})
	var codes []int
	for i := 0; i < 3; i++ {
		resp, _ := env.do(t, jsonRequest(http.MethodPost, "/api/admin/login", `{"username":"admin","password":"nope"}`))
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)
	for _, r := range []struct{ method, target string }{
		{http.MethodPost, "/api/admin/products"},
		{http.MethodPut, "/api/admin/products/1"},
		{http.MethodDelete, "/api/admin/products/1"},
		{http.MethodDelete, "/api/admin/categories/1"},
		{http.MethodPost, "/api/admin/sync-1c"},
		{http.MethodGet, "/api/admin/sync-status"},
		{http.MethodPost, "/admin/sync/price-list"},
	} {
		resp, body := env.do(t, httptest.NewRequest(r.method, r.target, nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, r.target)
		assert.Contains(t, string(body), "MISSING_TOKEN", r.target)
	}
}

func TestSyncStatus_NeverThenCompleted(t *testing.T) {
	env := newTestEnv(t)
	token := bearerFor(t, testAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/sync-status", nil)
	req.Header.Set("Authorization", token)
	resp, body := env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"sync_type":"1c_sync","status":"never","sync_time":null,"details":"Синхронизация еще не выполнялась"}`, string(body))

	req = httptest.NewRequest(http.MethodPost, "/api/admin/sync-1c", nil)
	req.Header.Set("Authorization", token)
	resp, body = env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Синхронизация с 1С запущена")

	req = httptest.NewRequest(http.MethodGet, "/api/admin/sync-status", nil)
	req.Header.Set("Authorization", token)
	_, body = env.do(t, req)
	var st map[string]any
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, "completed", st["status"])
	assert.Equal(t, map[string]any{"message": "Sync scheduled for: now"}, st["details"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Webhooks
// ──────────────────────────────────────────────────────────────────────────────

func TestWebhookPriceList_Success(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, jsonRequest(http.MethodPost, "/webhook/price-list", `{"products":[{"name":"A","price":1}]}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"success","message":"Обработано 3 товаров","created":2,"updated":1,"errors":1}`, string(body))

	require.Len(t, env.ingester.got, 1)
	got := env.ingester.got[0]
	assert.Equal(t, entity.SyncTypePriceList1C, got.SyncType)
	assert.Equal(t, "price_list_1c/2026/01/02/x.json", got.ArchiveKey)
	assert.IsType(t, ingest.ProductListPayload{}, got.Payload)
}

func TestWebhook1C_XMLBody(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/webhook/1c", strings.NewReader(`<Товары><Товар><Наименование>A</Наименование></Товар></Товары>`))
	req.Header.Set("Content-Type", "application/xml; charset=utf-8")
	resp, _ := env.do(t, req)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, env.ingester.got, 1)
	assert.Equal(t, entity.SyncType1CWebhook, env.ingester.got[0].SyncType)
	assert.IsType(t, ingest.XMLPayload{}, env.ingester.got[0].Payload)
}

func TestWebhook_InvalidBody(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, jsonRequest(http.MethodPost, "/webhook/price-list", `{"products":`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_BODY")
	assert.Empty(t, env.ingester.got)
	assert.Zero(t, env.archive.calls)
}

func TestWebhook_IngestFailure(t *testing.T) {
	env := newTestEnv(t)
	env.ingester.err = &ingest.InfraError{Op: "commit", Err: errors.New("connection reset")}

	resp, body := env.do(t, jsonRequest(http.MethodPost, "/webhook/price-list", `[]`))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "INGEST_FAILED")
}

func TestWebhook_ArchiveFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	env.archive.err = errors.New("bucket unavailable")

	resp, _ := env.do(t, jsonRequest(http.MethodPost, "/webhook/price-list", `{"products":[]}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, env.ingester.got, 1)
	assert.Empty(t, env.ingester.got[0].ArchiveKey)
}

func TestWebhook_SharedToken(t *testing.T) {
	env := newTestEnv(t, func(d *apphttp.RouterDeps) { d.WebhookToken = "hook-secret" })

	resp, _ := env.do(t, jsonRequest(http.MethodPost, "/webhook/price-list", `{"products":[]}`))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := jsonRequest(http.MethodPost, "/webhook/price-list", `{"products":[]}`)
	req.Header.Set(apphttp.HeaderWebhookToken, "hook-secret")
	resp, _ = env.do(t, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestManualPriceList_UsesManualSyncType(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/admin/sync/price-list", strings.NewReader("name;price\nA;10,5\n"))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Authorization", bearerFor(t, testAdmin))
	resp, _ := env.do(t, req)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, env.ingester.got, 1)
	assert.Equal(t, entity.SyncTypePriceListManual, env.ingester.got[0].SyncType)
	assert.IsType(t, ingest.RawTextPayload{}, env.ingester.got[0].Payload)
}

// ──────────────────────────────────────────────────────────────────────────────
// Metrics
// ──────────────────────────────────────────────────────────────────────────────

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, httptest.NewRequest(http.MethodGet, "/", nil))

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "catalog_http_requests_total")
}
