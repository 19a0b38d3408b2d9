package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"StockReconciler/internal/domain"
	"StockReconciler/internal/usecase"
)

// StockService runs a full scrape and stores the result.
type StockService interface {
	ScrapeAndStore(ctx context.Context) (domain.Snapshot, error)
}

// SnapshotReader reads back stored snapshots.
type SnapshotReader interface {
	Latest(ctx context.Context) (domain.Snapshot, error)
}

// ReconcileService compares the latest snapshot against the platform catalog.
type ReconcileService interface {
	Run(ctx context.Context) (domain.Reconciliation, error)
	Inputs(ctx context.Context) (domain.Snapshot, []domain.MappingEntry, []domain.PlatformProduct, error)
}

// HandlerDeps holds dependencies for HTTP handlers.
type HandlerDeps struct {
	Stock           StockService
	Snapshots       SnapshotReader
	Reconciler      ReconcileService
	SuggestMinScore float64
	Logger          *slog.Logger
}

// Handler serves the stock and comparison endpoints.
type Handler struct {
	stock           StockService
	snapshots       SnapshotReader
	reconciler      ReconcileService
	suggestMinScore float64
	logger          *slog.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		stock:           deps.Stock,
		snapshots:       deps.Snapshots,
		reconciler:      deps.Reconciler,
		suggestMinScore: deps.SuggestMinScore,
		logger:          logger,
	}
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "stockrecon",
	})
}

// ScrapeStock runs a full scrape, persists it and returns the snapshot.
func (h *Handler) ScrapeStock(c *gin.Context) {
	if h.stock == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scraper not configured"})
		return
	}

	snapshot, err := h.stock.ScrapeAndStore(c.Request.Context())
	if err != nil {
		h.logger.Error("scrape request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scrape failed"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// LatestStock returns the most recent stored snapshot.
func (h *Handler) LatestStock(c *gin.Context) {
	if h.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage not configured"})
		return
	}

	snapshot, err := h.snapshots.Latest(c.Request.Context())
	if err != nil {
		h.respondError(c, "latest snapshot", err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// Compare reconciles the latest snapshot against the live platform catalog.
func (h *Handler) Compare(c *gin.Context) {
	if h.reconciler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reconciler not configured"})
		return
	}

	result, err := h.reconciler.Run(c.Request.Context())
	if err != nil {
		h.respondError(c, "compare", err)
		return
	}

	if c.Query("onlyDiff") == "true" {
		result.Results = usecase.Discrepancies(result.Results)
		result.Total = len(result.Results)
	}

	c.JSON(http.StatusOK, result)
}

// Suggest proposes mapping entries for scraped products nothing maps yet.
func (h *Handler) Suggest(c *gin.Context) {
	if h.reconciler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reconciler not configured"})
		return
	}

	snapshot, entries, products, err := h.reconciler.Inputs(c.Request.Context())
	if err != nil {
		h.respondError(c, "suggest", err)
		return
	}

	suggestions := usecase.SuggestMappings(snapshot, entries, products, h.suggestMinScore)
	if suggestions == nil {
		suggestions = []domain.MappingSuggestion{}
	}
	c.JSON(http.StatusOK, gin.H{
		"total":       len(suggestions),
		"suggestions": suggestions,
	})
}

// respondError maps domain errors onto HTTP status codes.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrSnapshotNotFound.Error()})
	case errors.Is(err, domain.ErrUpstreamFailure):
		h.logger.Error("request failed", "op", op, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "platform feed unavailable"})
	default:
		h.logger.Error("request failed", "op", op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
