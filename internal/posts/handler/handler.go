package handler

import (
	"blog_backend/internal/posts/service"
	"blog_backend/internal/posts/transport"
	"blog_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for post checks.
type Handler struct {
	svc *service.Service
}

// New creates a new posts handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the post check routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/check", h.CheckPost)
	rg.POST("/comments/check", h.CheckComment)
	rg.POST("/reports/check", h.CheckReport)
}

// CheckPost validates a post and returns its sanitised content.
// POST /api/v1/posts/check
func (h *Handler) CheckPost(c *gin.Context) {
	var req transport.CheckPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.BindError(c, err)
		return
	}

	out, content, err := h.svc.CheckPost(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	if httpkit.Rejected(c, out) {
		return
	}
	httpkit.OK(c, transport.CheckPostResponse{Valid: true, Content: content})
}

// CheckComment validates a comment.
// POST /api/v1/posts/comments/check
func (h *Handler) CheckComment(c *gin.Context) {
	var req transport.CheckCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.BindError(c, err)
		return
	}

	out, err := h.svc.CheckComment(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	if httpkit.Rejected(c, out) {
		return
	}
	httpkit.OK(c, transport.CheckResponse{Valid: true})
}

// CheckReport validates an abuse report.
// POST /api/v1/posts/reports/check
func (h *Handler) CheckReport(c *gin.Context) {
	var req transport.CheckReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.BindError(c, err)
		return
	}

	out, err := h.svc.CheckReport(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	if httpkit.Rejected(c, out) {
		return
	}
	httpkit.OK(c, transport.CheckResponse{Valid: true})
}
