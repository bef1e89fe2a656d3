package scores

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-dashboard/internal/shared/server/middleware"
	"resume-dashboard/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the scores service.
type Handler struct {
	Svc *Service
	// OnRecorded is called after a score is stored, e.g. to drop stale dashboard state.
	OnRecorded func(userID string)
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches score routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/scores", h.record)
	rg.GET("/scores/latest", h.latest)
	rg.GET("/scores/history", h.history)
}

type recordRequest struct {
	DocumentID string `json:"documentId"`
	Score      *int   `json:"score"`
	Summary    string `json:"summary"`
}

func (h *Handler) record(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Score == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "score is required", []map[string]string{
			{"field": "score", "issue": "required"},
		})
		return
	}

	score, err := h.Svc.Record(c.Request.Context(), userID, req.DocumentID, *req.Score, req.Summary)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record score", nil)
		}
		return
	}
	if h.OnRecorded != nil {
		h.OnRecorded(userID)
	}

	respond.JSON(c, http.StatusCreated, score)
}

func (h *Handler) latest(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	score, err := h.Svc.Latest(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch latest score", nil)
		return
	}
	if score == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "no score recorded", nil)
		return
	}
	respond.OK(c, score)
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := DefaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	history, err := h.Svc.History(c.Request.Context(), userID, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch score history", nil)
		return
	}
	respond.OK(c, history)
}
