package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"blog_backend/internal/media/service"
	"blog_backend/internal/media/transport"
	"blog_backend/internal/upload"
	"blog_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const (
	formFile  = "file"
	formFiles = "files"

	msgFileRequired  = "file is required"
	msgFilesRequired = "files are required"

	// multipart framing on top of the largest single file
	formOverhead  = 1 << 20
	maxSingleBody = upload.MaxVideoBytes + formOverhead
	maxAvatarBody = upload.MaxAvatarBytes + formOverhead
	maxBatchBody  = 256<<20 + formOverhead
)

// Handler handles HTTP requests for media uploads.
type Handler struct {
	svc *service.Service
}

// New creates a new media handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the upload routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", httpkit.BodyLimit(maxSingleBody), h.Upload)
	rg.POST("/avatar", httpkit.BodyLimit(maxAvatarBody), h.UploadAvatar)
	rg.POST("/batch", httpkit.BodyLimit(maxBatchBody), h.UploadBatch)
}

// Upload classifies and stores one post media file.
// POST /api/v1/media
func (h *Handler) Upload(c *gin.Context) {
	h.single(c, h.svc.Upload)
}

// UploadAvatar classifies and stores an avatar image.
// POST /api/v1/media/avatar
func (h *Handler) UploadAvatar(c *gin.Context) {
	h.single(c, h.svc.UploadAvatar)
}

// UploadBatch classifies up to service.MaxBatchFiles files and stores the accepted ones.
// POST /api/v1/media/batch
func (h *Handler) UploadBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		formError(c, err, msgFilesRequired)
		return
	}
	headers := form.File[formFiles]
	if len(headers) == 0 {
		httpkit.Error(c, http.StatusBadRequest, msgFilesRequired, nil)
		return
	}
	if len(headers) > service.MaxBatchFiles {
		httpkit.Error(c, http.StatusBadRequest, "too many files", gin.H{"max": service.MaxBatchFiles})
		return
	}

	files := make([]service.File, 0, len(headers))
	for _, fh := range headers {
		file, f, err := open(fh)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "unable to read file", gin.H{"file": fh.Filename})
			return
		}
		defer f.Close()
		files = append(files, file)
	}

	resp, err := h.svc.UploadBatch(c.Request.Context(), files)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

type uploadFunc func(ctx context.Context, f service.File) (transport.UploadResponse, error)

func (h *Handler) single(c *gin.Context, fn uploadFunc) {
	fh, err := c.FormFile(formFile)
	if err != nil {
		formError(c, err, msgFileRequired)
		return
	}
	file, f, err := open(fh)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unable to read file", nil)
		return
	}
	defer f.Close()

	resp, err := fn(c.Request.Context(), file)
	if httpkit.HandleError(c, err) {
		return
	}
	if resp.FileKey != "" {
		httpkit.JSON(c, http.StatusCreated, resp)
		return
	}
	httpkit.OK(c, resp)
}

func open(fh *multipart.FileHeader) (service.File, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return service.File{}, nil, err
	}
	return service.File{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     f,
	}, f, nil
}

func formError(c *gin.Context, err error, message string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Error(c, http.StatusBadRequest, message, nil)
}
