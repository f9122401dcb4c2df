// Package accounts provides the account content-check bounded context module.
// It checks registration, password change and profile payloads before the
// account store ever sees them.
package accounts

import (
	"blog_backend/internal/accounts/handler"
	"blog_backend/internal/accounts/service"
	apphttp "blog_backend/internal/http"
	"blog_backend/platform/logger"
	"blog_backend/platform/validator"
)

// Module is the accounts bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the accounts module. val must already carry
// the content rules.
func NewModule(val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(val, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "accounts"
}

// Service returns the accounts service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts account routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/accounts")
	group.Use(ctx.JSONBodyLimit)
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
