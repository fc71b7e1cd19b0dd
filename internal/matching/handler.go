package matching

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/queue"
	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/shared/server/respond"
	"talent-backend/internal/usage"
)

// Allowance gates on-demand recommendation runs.
type Allowance interface {
	CanConsume(ctx context.Context, userID string, n int) (bool, usage.Usage, error)
	Consume(ctx context.Context, userID string, n int) (usage.Usage, error)
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc   *Service
	Usage Allowance
	Queue queue.Client
}

// NewHandler constructs a Handler. allowance and q may be nil.
func NewHandler(svc *Service, allowance Allowance, q queue.Client) *Handler {
	return &Handler{Svc: svc, Usage: allowance, Queue: q}
}

// RegisterRoutes attaches recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates/:id/recommendations", h.generate)
	rg.GET("/candidates/:id/recommendations", h.list)
	rg.GET("/recommendations/:id", h.get)
	rg.POST("/recommendations/:id/view", h.flag(h.Svc.MarkViewed))
	rg.POST("/recommendations/:id/apply", h.flag(h.Svc.MarkApplied))
	rg.POST("/recommendations/:id/dismiss", h.flag(h.Svc.Dismiss))
	rg.POST("/match/score", h.score)
}

func (h *Handler) generate(c *gin.Context) {
	candidateID := c.Param("id")
	if !middleware.CanActFor(c, candidateID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "cannot run recommendations for another candidate", nil)
		return
	}
	ctx := c.Request.Context()

	if h.Usage != nil {
		ok, _, err := h.Usage.CanConsume(ctx, candidateID, 1)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to check usage", nil)
			return
		}
		if !ok {
			writeError(c, usage.ErrLimitReached)
			return
		}
	}

	if c.Query("async") == "true" && h.Queue != nil {
		msg := queue.NewMessage(queue.KindRecommendations, candidateID, "", c.GetString("requestId"))
		if err := h.Queue.Send(ctx, msg); err != nil {
			respond.Error(c, http.StatusBadGateway, "queue_error", "failed to enqueue recommendations", nil)
			return
		}
		h.consume(c, candidateID)
		respond.Accepted(c, gin.H{"status": "queued", "candidateId": candidateID})
		return
	}

	results, err := h.Svc.GenerateRecommendations(ctx, candidateID)
	if err != nil {
		writeError(c, err)
		return
	}
	h.consume(c, candidateID)

	respond.Items(c, toResponses(results))
}

// consume charges one unit after the run. A failure here does not undo the run.
func (h *Handler) consume(c *gin.Context, candidateID string) {
	if h.Usage == nil {
		return
	}
	if _, err := h.Usage.Consume(c.Request.Context(), candidateID, 1); err != nil && !errors.Is(err, usage.ErrLimitReached) {
		_ = c.Error(err)
	}
}

func (h *Handler) list(c *gin.Context) {
	candidateID := c.Param("id")
	if !middleware.CanActFor(c, candidateID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "cannot read another candidate's recommendations", nil)
		return
	}

	limit, err := intQuery(c, "limit", 20)
	if err != nil || limit < 0 || limit > 100 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be between 0 and 100", nil)
		return
	}
	offset, err := intQuery(c, "offset", 0)
	if err != nil || offset < 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "offset must be a non-negative integer", nil)
		return
	}

	results, err := h.Svc.ListRecommendations(c.Request.Context(), candidateID, ListOptions{
		IncludeExpired:   c.Query("includeExpired") == "true",
		IncludeDismissed: c.Query("includeDismissed") == "true",
		Limit:            limit,
		Offset:           offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Items(c, toResponses(results))
}

func (h *Handler) get(c *gin.Context) {
	res, ok := h.load(c)
	if !ok {
		return
	}
	respond.OK(c, toResponse(res))
}

func (h *Handler) flag(update func(context.Context, string) (MatchResult, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, ok := h.load(c)
		if !ok {
			return
		}
		updated, err := update(c.Request.Context(), res.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		respond.OK(c, toResponse(updated))
	}
}

// load fetches the result named by :id and checks the caller owns it.
func (h *Handler) load(c *gin.Context) (MatchResult, bool) {
	res, err := h.Svc.GetRecommendation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return MatchResult{}, false
	}
	if !middleware.CanActFor(c, res.CandidateID) {
		// Hide other candidates' results rather than confirm they exist.
		respond.Error(c, http.StatusNotFound, "not_found", "recommendation not found", nil)
		return MatchResult{}, false
	}
	return res, true
}

func (h *Handler) score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	candidate, job := req.pair()
	respond.OK(c, ScoreMatch(candidate, job))
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usage.ErrLimitReached):
		respond.Error(c, http.StatusTooManyRequests, "limit_reached", "Recommendation limit reached for this period", respond.FieldIssue("usage", "limit_reached"))
	case errors.Is(err, ErrProfileNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "recommendation not found", nil)
	case errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusGatewayTimeout, "timeout", "storage did not respond in time", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process recommendations", nil)
	}
}
