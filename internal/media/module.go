// Package media provides the upload bounded context module: every file is
// classified and verified before it may reach object storage.
package media

import (
	"blog_backend/internal/adapters/storage"
	apphttp "blog_backend/internal/http"
	"blog_backend/internal/media/handler"
	"blog_backend/internal/media/service"
	"blog_backend/internal/upload"
	"blog_backend/platform/logger"
)

// Module is the media bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the media module. storageSvc may be nil.
func NewModule(classifier *upload.Classifier, storageSvc storage.StorageService, buckets service.Buckets, log *logger.Logger) *Module {
	svc := service.New(classifier, storageSvc, buckets, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "media"
}

// Service returns the media service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts media routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/media")
	if ctx.UploadRateLimiter != nil {
		group.Use(ctx.UploadRateLimiter.RateLimit())
	}
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
