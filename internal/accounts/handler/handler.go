package handler

import (
	"blog_backend/internal/accounts/service"
	"blog_backend/internal/accounts/transport"
	"blog_backend/platform/httpkit"
	"blog_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for account checks.
type Handler struct {
	svc *service.Service
}

// New creates a new accounts handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the account check routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/check", h.CheckAccount)
	rg.POST("/password/check", h.CheckPassword)
	rg.PATCH("/profile/check", h.CheckProfile)
}

// CheckAccount validates a registration payload.
// POST /api/v1/accounts/check
func (h *Handler) CheckAccount(c *gin.Context) {
	var req transport.CheckAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.BindError(c, err)
		return
	}

	out, err := h.svc.CheckAccount(c.Request.Context(), req)
	respond(c, out, err)
}

// CheckPassword validates a password change.
// POST /api/v1/accounts/password/check
func (h *Handler) CheckPassword(c *gin.Context) {
	var req transport.CheckPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.BindError(c, err)
		return
	}

	out, err := h.svc.CheckPassword(c.Request.Context(), req)
	respond(c, out, err)
}

// CheckProfile validates a partial profile update.
// PATCH /api/v1/accounts/profile/check
func (h *Handler) CheckProfile(c *gin.Context) {
	var req transport.CheckProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.BindError(c, err)
		return
	}

	out, err := h.svc.CheckProfile(c.Request.Context(), req)
	respond(c, out, err)
}

func respond(c *gin.Context, out validator.Outcome, err error) {
	if httpkit.HandleError(c, err) {
		return
	}
	if httpkit.Rejected(c, out) {
		return
	}
	httpkit.OK(c, transport.CheckResponse{Valid: true})
}
