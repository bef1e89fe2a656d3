package dashboard

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-dashboard/internal/shared/server/middleware"
	"resume-dashboard/internal/shared/server/respond"
)

// Handler exposes the caller's dashboard session over HTTP.
type Handler struct {
	Registry *Registry
}

// NewHandler constructs a Handler.
func NewHandler(registry *Registry) *Handler {
	return &Handler{Registry: registry}
}

// RegisterRoutes attaches dashboard routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.get)
	rg.PUT("/dashboard/current-resume", h.setCurrentResume)
	rg.DELETE("/dashboard", h.teardown)
}

type dashboardResponse struct {
	State
	Initialized bool `json:"initialized"`
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}

	session := h.Registry.Session(c.Request.Context(), userID)
	session.Loader.Load(c.Request.Context())

	respond.OK(c, dashboardResponse{
		State:       session.Store.Snapshot(),
		Initialized: session.Loader.Initialized(),
	})
}

type currentResumeRequest struct {
	ResumeID *string `json:"resumeId"`
}

func (h *Handler) setCurrentResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}

	var req currentResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.ResumeID != nil {
		id := strings.TrimSpace(*req.ResumeID)
		if id == "" {
			req.ResumeID = nil
		} else {
			req.ResumeID = &id
		}
	}

	session := h.Registry.Session(c.Request.Context(), userID)
	h.Registry.SetCurrentResume(c.Request.Context(), userID, req.ResumeID)

	respond.OK(c, dashboardResponse{
		State:       session.Store.Snapshot(),
		Initialized: session.Loader.Initialized(),
	})
}

func (h *Handler) teardown(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	h.Registry.Teardown(c.Request.Context(), userID)
	respond.NoContent(c)
}
