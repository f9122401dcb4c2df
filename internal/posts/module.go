// Package posts provides the post content-check bounded context module.
package posts

import (
	apphttp "blog_backend/internal/http"
	"blog_backend/internal/posts/handler"
	"blog_backend/internal/posts/service"
	"blog_backend/internal/richtext"
	"blog_backend/platform/logger"
	"blog_backend/platform/validator"
)

// Module is the posts bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the posts module.
func NewModule(val *validator.Validator, checker *richtext.Checker, log *logger.Logger) *Module {
	svc := service.New(val, checker, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "posts"
}

// Service returns the posts service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts post routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/posts")
	group.Use(ctx.JSONBodyLimit)
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
