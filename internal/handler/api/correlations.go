package api

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	models "LagScan/internal/domain/models"
	drepo "LagScan/internal/domain/repository"
	cachesvc "LagScan/pkg/cache"
	xhttp "LagScan/pkg/http"
	xlogger "LagScan/pkg/logger"
	"LagScan/pkg/util"

	"github.com/labstack/echo/v4"
)

// CorrelationHandler serves the batch results over HTTP: the per-pair reports
// and the lag-correlation sequences, with optional time-range filtering.
type CorrelationHandler struct {
	logger   *xlogger.Logger
	store    drepo.ResultStore
	cache    cachesvc.Service
	cacheTTL time.Duration
}

func NewCorrelationHandler(logger *xlogger.Logger, store drepo.ResultStore, cache cachesvc.Service, cacheTTL time.Duration) *CorrelationHandler {
	return &CorrelationHandler{logger: logger, store: store, cache: cache, cacheTTL: cacheTTL}
}

func (h *CorrelationHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/pairs", h.Pairs)
	g.GET("/correlation", h.Correlation)
	g.GET("/correlation/stream", h.Stream)
}

type pairReportDTO struct {
	Pair       string    `json:"pair"`
	Base       string    `json:"base"`
	Quote      string    `json:"quote"`
	Status     string    `json:"status"`
	Results    int       `json:"results"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	ComputedAt time.Time `json:"computed_at"`
}

type lagPointDTO struct {
	Timestamp   time.Time `json:"ts"`
	Correlation *float64  `json:"correlation"`
	Lag         int       `json:"lag"`
}

// Pairs lists every processed pair with its outcome.
func (h *CorrelationHandler) Pairs(c echo.Context) error {
	reports := h.store.Reports()
	rows := make([]pairReportDTO, 0, len(reports))
	for _, rep := range reports {
		rows = append(rows, pairReportDTO{
			Pair:       rep.Pair.Key(),
			Base:       rep.Pair.Base,
			Quote:      rep.Pair.Quote,
			Status:     rep.Status,
			Results:    rep.Results,
			Error:      rep.Error,
			DurationMS: rep.Duration.Milliseconds(),
			ComputedAt: rep.ComputedAt,
		})
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Correlation returns one pair's result sequence, optionally bounded by
// from/to and capped at the most recent limit rows.
func (h *CorrelationHandler) Correlation(c echo.Context) error {
	req := &models.CorrelationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("corr:%s:%s:%s:%s:%d", req.Base, req.Quote, req.From, req.To, req.Limit)
	if b, err := h.cache.Get(c.Request().Context(), key); err == nil {
		return xhttp.SuccessResponse(c, json.RawMessage(b))
	}

	pair := models.Pair{Base: req.Base, Quote: req.Quote}
	results, ok := h.store.Results(pair)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("pair %s not processed", pair.Key()))
	}

	rows := filterResults(results, req)
	payload := struct {
		Pair  string        `json:"pair"`
		Rows  []lagPointDTO `json:"rows"`
		Total int           `json:"total"`
	}{Pair: pair.Key(), Rows: rows, Total: len(rows)}

	if b, err := json.Marshal(payload); err == nil {
		if cerr := h.cache.Set(c.Request().Context(), key, b, h.cacheTTL); cerr != nil && h.logger != nil {
			h.logger.Warn("correlation cache set failed", xlogger.Error(cerr))
		}
	}
	return xhttp.SuccessResponse(c, payload)
}

func filterResults(results []models.LagResult, req *models.CorrelationRequest) []lagPointDTO {
	from := util.ParseTimeDefault(req.From, time.Time{})
	to := util.ParseTimeDefault(req.To, time.Time{})

	filtered := make([]models.LagResult, 0, len(results))
	for _, r := range results {
		if !from.IsZero() && r.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && r.Timestamp.After(to) {
			continue
		}
		filtered = append(filtered, r)
	}
	if req.Limit > 0 && len(filtered) > req.Limit {
		filtered = filtered[len(filtered)-req.Limit:]
	}

	rows := make([]lagPointDTO, 0, len(filtered))
	for _, r := range filtered {
		rows = append(rows, toLagPoint(r))
	}
	return rows
}

// toLagPoint maps a result to its wire shape; NaN correlations become null.
func toLagPoint(r models.LagResult) lagPointDTO {
	dto := lagPointDTO{Timestamp: r.Timestamp, Lag: r.Lag}
	if !math.IsNaN(r.Correlation) {
		v := r.Correlation
		dto.Correlation = &v
	}
	return dto
}
