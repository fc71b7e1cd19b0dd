package jobs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/jobs/:id", middleware.RequireRole(middleware.RoleCompany, middleware.RoleAdmin), h.put)
	rg.GET("/jobs/:id", h.get)
	rg.GET("/jobs", h.list)
}

func (h *Handler) put(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	// Company callers own what they post; admins may set any company.
	owner := ""
	job := Job{
		ID:              c.Param("id"),
		Title:           req.Title,
		RequiredSkills:  req.RequiredSkills,
		ExperienceLevel: req.ExperienceLevel,
		Location:        req.Location,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
		Status:          req.Status,
		Visibility:      req.Visibility,
	}
	if middleware.RoleFromContext(c) == middleware.RoleCompany {
		owner = middleware.UserIDFromContext(c)
	} else {
		job.CompanyID = req.CompanyID
	}

	saved, err := h.Svc.Save(c.Request.Context(), job, owner)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save job", nil)
		}
		return
	}

	respond.OK(c, toResponse(saved))
}

func (h *Handler) get(c *gin.Context) {
	job, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch job", nil)
		}
		return
	}
	if !job.Listed() && !canSeeUnlisted(c, job) {
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		return
	}

	respond.OK(c, toResponse(job))
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.ListActivePublic(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list jobs", nil)
		return
	}

	resp := make([]jobResponse, 0, len(list))
	for _, j := range list {
		resp = append(resp, toResponse(j))
	}
	respond.OK(c, resp)
}

func canSeeUnlisted(c *gin.Context, job Job) bool {
	switch middleware.RoleFromContext(c) {
	case middleware.RoleAdmin:
		return true
	case middleware.RoleCompany:
		return middleware.UserIDFromContext(c) == job.CompanyID
	}
	return false
}
