package activity

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/candidates"
	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches activity routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates/:id/applications", h.createApplication)
	rg.POST("/candidates/:id/documents", h.createDocument)
	rg.POST("/candidates/:id/interviews", middleware.RequireRole(middleware.RoleCompany, middleware.RoleAdmin), h.createInterview)
	rg.POST("/candidates/:id/views", h.createView)

	rg.POST("/applications/:id/status", middleware.RequireRole(middleware.RoleCompany, middleware.RoleAdmin), h.setStatus(KindApplication))
	rg.POST("/documents/:id/status", middleware.RequireRole(middleware.RoleAdmin), h.setStatus(KindDocument))
	rg.POST("/interviews/:id/status", middleware.RequireRole(middleware.RoleCompany, middleware.RoleAdmin), h.setStatus(KindInterview))
}

type applicationRequest struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

type documentRequest struct {
	Kind   string `json:"kind"`
	Status string `json:"status"`
}

type interviewRequest struct {
	JobID       string    `json:"jobId"`
	Status      string    `json:"status"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) createApplication(c *gin.Context) {
	candidateID := c.Param("id")
	if !middleware.CanActFor(c, candidateID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "cannot apply for another candidate", nil)
		return
	}
	var req applicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	a, err := h.Svc.RecordApplication(c.Request.Context(), candidateID, req.JobID, req.Status)
	if err != nil {
		writeError(c, err, "failed to record application")
		return
	}
	respond.Created(c, gin.H{
		"id":          a.ID,
		"candidateId": a.CandidateID,
		"jobId":       a.JobID,
		"status":      a.Status,
		"createdAt":   a.CreatedAt,
	})
}

func (h *Handler) createDocument(c *gin.Context) {
	candidateID := c.Param("id")
	if !middleware.CanActFor(c, candidateID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "cannot add documents for another candidate", nil)
		return
	}
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	// Only admins verify documents.
	if middleware.RoleFromContext(c) != middleware.RoleAdmin {
		req.Status = ""
	}
	d, err := h.Svc.RecordDocument(c.Request.Context(), candidateID, req.Kind, req.Status)
	if err != nil {
		writeError(c, err, "failed to record document")
		return
	}
	respond.Created(c, gin.H{
		"id":          d.ID,
		"candidateId": d.CandidateID,
		"kind":        d.Kind,
		"status":      d.Status,
		"createdAt":   d.CreatedAt,
	})
}

func (h *Handler) createInterview(c *gin.Context) {
	var req interviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	i, err := h.Svc.RecordInterview(c.Request.Context(), c.Param("id"), req.JobID, req.Status, req.ScheduledAt)
	if err != nil {
		writeError(c, err, "failed to record interview")
		return
	}
	respond.Created(c, gin.H{
		"id":          i.ID,
		"candidateId": i.CandidateID,
		"jobId":       i.JobID,
		"status":      i.Status,
		"scheduledAt": i.ScheduledAt,
		"createdAt":   i.CreatedAt,
	})
}

func (h *Handler) createView(c *gin.Context) {
	v, recorded, err := h.Svc.RecordProfileView(c.Request.Context(), c.Param("id"), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to record profile view")
		return
	}
	if !recorded {
		respond.OK(c, gin.H{"recorded": false})
		return
	}
	respond.Created(c, gin.H{
		"recorded": true,
		"id":       v.ID,
		"viewedAt": v.ViewedAt,
	})
}

func (h *Handler) setStatus(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
		if err := h.Svc.SetStatus(c.Request.Context(), kind, c.Param("id"), req.Status); err != nil {
			writeError(c, err, "failed to update status")
			return
		}
		respond.OK(c, gin.H{"id": c.Param("id"), "status": strings.ToLower(strings.TrimSpace(req.Status))})
	}
}

func writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, candidates.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "record not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", message, nil)
	}
}
