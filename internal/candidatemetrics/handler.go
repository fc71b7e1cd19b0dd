package candidatemetrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/queue"
	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/shared/server/respond"
)

const (
	defaultHistoryLimit = 12
	maxHistoryLimit     = 100
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc   *Service
	Queue queue.Client
}

// NewHandler constructs a Handler. q may be nil, in which case async
// requests run inline.
func NewHandler(svc *Service, q queue.Client) *Handler {
	return &Handler{Svc: svc, Queue: q}
}

// RegisterRoutes attaches metrics routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates/:id/metrics", h.calculate)
	rg.GET("/candidates/:id/metrics", h.get)
	rg.GET("/candidates/:id/metrics/history", h.history)
}

// authorize checks the caller and resolves the period query parameter.
func (h *Handler) authorize(c *gin.Context) (string, Period, bool) {
	candidateID := c.Param("id")
	if !middleware.CanActFor(c, candidateID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "cannot access another candidate's metrics", nil)
		return "", "", false
	}
	c.Set("candidateId", candidateID)

	raw := c.DefaultQuery("period", string(Weekly))
	period, err := ParsePeriod(raw)
	if err != nil {
		writeError(c, err)
		return "", "", false
	}
	return candidateID, period, true
}

func (h *Handler) calculate(c *gin.Context) {
	candidateID, period, ok := h.authorize(c)
	if !ok {
		return
	}

	if c.Query("async") == "true" && h.Queue != nil {
		msg := queue.NewMessage(queue.KindMetrics, candidateID, string(period), c.GetString("requestId"))
		if err := h.Queue.Send(c.Request.Context(), msg); err != nil {
			respond.Error(c, http.StatusBadGateway, "queue_error", "failed to enqueue metrics calculation", nil)
			return
		}
		respond.Accepted(c, gin.H{"status": "queued", "candidateId": candidateID, "period": period})
		return
	}

	summary, err := h.Svc.CalculateMetrics(c.Request.Context(), candidateID, period)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, summary)
}

func (h *Handler) get(c *gin.Context) {
	candidateID, period, ok := h.authorize(c)
	if !ok {
		return
	}
	snap, err := h.Svc.GetMetrics(c.Request.Context(), candidateID, period)
	if err != nil {
		writeError(c, err)
		return
	}
	if snap == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "no metrics calculated yet", nil)
		return
	}
	respond.OK(c, snap)
}

func (h *Handler) history(c *gin.Context) {
	candidateID, period, ok := h.authorize(c)
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be between 1 and 100", nil)
			return
		}
		limit = n
	}

	items := make([]Snapshot, 0, limit)
	for snap, err := range h.Svc.GetMetricsHistory(c.Request.Context(), candidateID, period, limit) {
		if err != nil {
			writeError(c, err)
			return
		}
		items = append(items, snap)
	}
	respond.Items(c, items)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidPeriod):
		respond.Error(c, http.StatusBadRequest, "validation_error", "period must be weekly or monthly", respond.FieldIssue("period", "invalid"))
	case errors.Is(err, ErrCandidateNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
	case errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusGatewayTimeout, "timeout", "storage did not respond in time", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process metrics", nil)
	}
}
