package candidates

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

// RegisterRoutes attaches candidate routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/candidates/:id", h.put)
	rg.GET("/candidates/:id", h.get)
}

func (h *Handler) put(c *gin.Context) {
	id := c.Param("id")
	if !middleware.CanActFor(c, id) {
		respond.Error(c, http.StatusForbidden, "forbidden", "cannot modify another candidate", nil)
		return
	}

	var req candidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	saved, err := h.Svc.Save(c.Request.Context(), Candidate{
		ID:              id,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Location:        req.Location,
		Bio:             req.Bio,
		Skills:          req.Skills,
		ExperienceLevel: req.ExperienceLevel,
		Education:       req.Education,
		ExpectedSalary:  req.ExpectedSalary,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save candidate", nil)
		}
		return
	}

	respond.OK(c, toResponse(saved))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	if !middleware.CanActFor(c, id) && middleware.RoleFromContext(c) != middleware.RoleCompany {
		respond.Error(c, http.StatusForbidden, "forbidden", "cannot read another candidate", nil)
		return
	}

	cand, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch candidate", nil)
		}
		return
	}

	respond.OK(c, toResponse(cand))
}
