package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"StockReconciler/internal/config"
	"StockReconciler/internal/domain"
	"StockReconciler/internal/logging"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubStock struct {
	snapshot domain.Snapshot
	err      error
}

func (s stubStock) ScrapeAndStore(context.Context) (domain.Snapshot, error) {
	return s.snapshot, s.err
}

type stubSnapshots struct {
	snapshot domain.Snapshot
	err      error
}

func (s stubSnapshots) Latest(context.Context) (domain.Snapshot, error) {
	return s.snapshot, s.err
}

type stubReconciler struct {
	result   domain.Reconciliation
	snapshot domain.Snapshot
	entries  []domain.MappingEntry
	products []domain.PlatformProduct
	err      error
}

func (s stubReconciler) Run(context.Context) (domain.Reconciliation, error) {
	return s.result, s.err
}

func (s stubReconciler) Inputs(context.Context) (domain.Snapshot, []domain.MappingEntry, []domain.PlatformProduct, error) {
	return s.snapshot, s.entries, s.products, s.err
}

func newRouter(deps HandlerDeps) *gin.Engine {
	deps.Logger = logging.Discard()
	cfg := config.ServerConfig{Environment: "test", AllowedOrigins: []string{"http://localhost:3000"}}
	return SetupRouter(cfg, NewHandler(deps), deps.Logger)
}

func get(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func sampleSnapshot() domain.Snapshot {
	return domain.Snapshot{
		ID:         "snap-1",
		CapturedAt: time.Date(2026, time.October, 17, 8, 0, 0, 0, time.UTC),
		Total:      1,
		Products: []domain.StockRecord{{
			ProductStub: domain.ProductStub{Brand: "Anua", Name: "Heartleaf Toner", URL: "https://shop.test/p/1", Price: "45,000 TND"},
			Status:      domain.InStock,
		}},
	}
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	w := get(t, newRouter(HandlerDeps{}), "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", decodeBody(t, w)["status"])
}

func TestScrapeStock(t *testing.T) {
	t.Parallel()

	t.Run("returns the stored snapshot", func(t *testing.T) {
		t.Parallel()
		w := get(t, newRouter(HandlerDeps{Stock: stubStock{snapshot: sampleSnapshot()}}), "/api/v1/stock")
		require.Equal(t, http.StatusOK, w.Code)

		var snapshot domain.Snapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
		require.Equal(t, 1, snapshot.Total)
		require.Equal(t, domain.InStock, snapshot.Products[0].Status)
		require.Contains(t, w.Body.String(), `"status":"In Stock"`)
		require.Contains(t, w.Body.String(), `"date":"2026-10-17T08:00:00Z"`)
	})

	t.Run("hides failure detail", func(t *testing.T) {
		t.Parallel()
		stock := stubStock{err: fmt.Errorf("collect: %w", domain.ErrNetworkFailure)}
		w := get(t, newRouter(HandlerDeps{Stock: stock}), "/api/v1/stock")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Equal(t, "scrape failed", decodeBody(t, w)["error"])
	})
}

func TestLatestStock(t *testing.T) {
	t.Parallel()

	w := get(t, newRouter(HandlerDeps{Snapshots: stubSnapshots{snapshot: sampleSnapshot()}}), "/api/v1/stock/latest")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "snap-1", decodeBody(t, w)["id"])

	w = get(t, newRouter(HandlerDeps{Snapshots: stubSnapshots{err: domain.ErrSnapshotNotFound}}), "/api/v1/stock/latest")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "no snapshot found", decodeBody(t, w)["error"])
}

func TestCompareStatusCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "no snapshot", err: fmt.Errorf("latest snapshot: %w", domain.ErrSnapshotNotFound), want: http.StatusNotFound},
		{name: "feed down", err: fmt.Errorf("fetch platform catalog: %w", domain.ErrUpstreamFailure), want: http.StatusBadGateway},
		{name: "bad mapping", err: fmt.Errorf("load mappings: %w", domain.ErrInvalidMapping), want: http.StatusInternalServerError},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := get(t, newRouter(HandlerDeps{Reconciler: stubReconciler{err: tc.err}}), "/api/v1/compare")
			require.Equal(t, tc.want, w.Code)
			require.NotEmpty(t, decodeBody(t, w)["error"])
		})
	}
}

func TestCompareOnlyDiff(t *testing.T) {
	t.Parallel()

	price := 45.0
	result := domain.Reconciliation{
		Date:  sampleSnapshot().CapturedAt,
		Total: 2,
		Results: []domain.ComparisonRecord{
			{Brand: "Anua", ProductName: "Heartleaf Toner", PriceExternal: &price, PricePlatform: &price, DiffPercent: "0.00%", Status: domain.StatusSame},
			{Brand: "Cosrx", ProductName: "Snail Essence", PriceExternal: &price, Status: domain.StatusOnlyOnExternal},
		},
	}
	router := newRouter(HandlerDeps{Reconciler: stubReconciler{result: result}})

	w := get(t, router, "/api/v1/compare")
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 2, decodeBody(t, w)["total"])

	w = get(t, router, "/api/v1/compare?onlyDiff=true")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.EqualValues(t, 1, body["total"])
	results := body["results"].([]interface{})
	require.Equal(t, "Only on external source", results[0].(map[string]interface{})["status"])
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	rec := stubReconciler{
		snapshot: sampleSnapshot(),
		products: []domain.PlatformProduct{{ID: 10, Title: "Heartleaf Toner", Variants: []domain.PlatformVariant{{ID: 100, ProductID: 10}}}},
	}
	w := get(t, newRouter(HandlerDeps{Reconciler: rec}), "/api/v1/suggest")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.EqualValues(t, 1, body["total"])

	w = get(t, newRouter(HandlerDeps{Reconciler: stubReconciler{products: nil}}), "/api/v1/suggest")
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 0, decodeBody(t, w)["total"])
}

func TestUnconfiguredServices(t *testing.T) {
	t.Parallel()

	router := newRouter(HandlerDeps{})
	for _, path := range []string{"/api/v1/stock", "/api/v1/stock/latest", "/api/v1/compare", "/api/v1/suggest"} {
		require.Equal(t, http.StatusServiceUnavailable, get(t, router, path).Code, path)
	}
}
