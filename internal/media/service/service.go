package service

import (
	"context"
	"fmt"
	"io"

	"blog_backend/internal/adapters/storage"
	"blog_backend/internal/media/transport"
	"blog_backend/internal/upload"
	"blog_backend/platform/apperr"
	"blog_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

const (
	// MaxBatchFiles is the largest number of files accepted in one batch upload.
	MaxBatchFiles = 10
	// batchConcurrency bounds how many files of one batch are processed at once.
	batchConcurrency = 4
)

// Buckets maps upload categories to storage buckets.
type Buckets struct {
	Images  string
	Videos  string
	Audio   string
	Avatars string
}

func (b Buckets) forCategory(c upload.Category) string {
	switch c {
	case upload.CategoryImage:
		return b.Images
	case upload.CategoryVideo:
		return b.Videos
	case upload.CategoryAudio:
		return b.Audio
	default:
		return ""
	}
}

// File is one uploaded file as received from the transport.
type File struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.ReadSeeker
}

// Service classifies uploads and persists the accepted ones.
type Service struct {
	classifier *upload.Classifier
	storage    storage.StorageService
	buckets    Buckets
	log        *logger.Logger
}

// New creates a media service. storageSvc may be nil, in which case accepted
// uploads are only classified.
func New(classifier *upload.Classifier, storageSvc storage.StorageService, buckets Buckets, log *logger.Logger) *Service {
	return &Service{
		classifier: classifier,
		storage:    storageSvc,
		buckets:    buckets,
		log:        log,
	}
}

// StorageEnabled reports whether accepted uploads are persisted.
func (s *Service) StorageEnabled() bool {
	return s.storage != nil
}

// Upload classifies a post media file and stores it in its category bucket.
// A rejected file yields a validation error carrying {"file": message}.
func (s *Service) Upload(ctx context.Context, f File) (transport.UploadResponse, error) {
	res := s.classifier.Classify(ctx, candidate(f))
	return s.finish(ctx, f, res, s.buckets.forCategory(res.Category), string(res.Category))
}

// UploadAvatar classifies an avatar and stores it in the avatar bucket.
func (s *Service) UploadAvatar(ctx context.Context, f File) (transport.UploadResponse, error) {
	res := s.classifier.ClassifyAvatar(ctx, candidate(f))
	return s.finish(ctx, f, res, s.buckets.Avatars, "avatar")
}

// UploadBatch processes up to MaxBatchFiles files concurrently. Each file succeeds or
// fails on its own; only a storage outage fails the whole batch, and objects already
// stored for it are then removed again.
func (s *Service) UploadBatch(ctx context.Context, files []File) (transport.BatchResponse, error) {
	if len(files) == 0 {
		return transport.BatchResponse{}, apperr.BadRequest("no files provided")
	}
	if len(files) > MaxBatchFiles {
		return transport.BatchResponse{}, apperr.BadRequest(fmt.Sprintf("at most %d files per batch", MaxBatchFiles))
	}

	items := make([]transport.BatchItem, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, f := range files {
		g.Go(func() error {
			resp, err := s.Upload(gctx, f)
			items[i] = transport.BatchItem{Index: i, File: resp}
			if err == nil {
				return nil
			}
			if apperr.Is(err, apperr.KindValidation) {
				items[i].Error = resp.Message
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.discard(context.WithoutCancel(ctx), items)
		return transport.BatchResponse{}, err
	}

	out := transport.BatchResponse{Items: items}
	for _, item := range items {
		if item.File.Accepted {
			out.Accepted++
		} else {
			out.Rejected++
		}
	}
	return out, nil
}

// discard deletes the stored objects of a failed batch. Failures are logged only.
func (s *Service) discard(ctx context.Context, items []transport.BatchItem) {
	log := s.log.WithContext(ctx)
	for _, item := range items {
		if item.File.FileKey == "" {
			continue
		}
		if err := s.storage.DeleteObject(ctx, item.File.Bucket, item.File.FileKey); err != nil {
			log.StorageError("delete", item.File.Bucket, err)
		}
	}
}

func (s *Service) finish(ctx context.Context, f File, res upload.Result, bucket, folder string) (transport.UploadResponse, error) {
	log := s.log.WithContext(ctx)
	resp := transport.UploadResponse{Result: res}

	if !res.Accepted {
		log.UploadRejected(res.SanitizedName, string(res.Category), string(res.Reason), res.Message)
		return resp, apperr.FieldViolations(map[string]string{"file": res.Message}).WithOp("media.Upload")
	}
	log.UploadAccepted(res.SanitizedName, string(res.Category), res.DetectedType, f.Size)

	if s.storage == nil || f.Content == nil {
		return resp, nil
	}

	if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
		return resp, apperr.Wrap(apperr.KindInternal, "failed to rewind upload", err)
	}

	contentType := res.DetectedType
	if contentType == "" {
		contentType = upload.NormalizeContentType(f.ContentType)
	}

	obj, err := s.storage.UploadFile(ctx, bucket, folder, res.SanitizedName, contentType, f.Content, f.Size)
	if err != nil {
		log.StorageError("upload", bucket, err)
		return resp, apperr.Wrap(apperr.KindUnavailable, "storage is unavailable", err).WithOp("media.Upload")
	}
	resp.Bucket = obj.Bucket
	resp.FileKey = obj.FileKey

	url, err := s.storage.GenerateDownloadURL(ctx, bucket, obj.FileKey)
	if err != nil {
		log.StorageError("presign", bucket, err)
		return resp, nil
	}
	resp.DownloadURL = url.URL
	return resp, nil
}

func candidate(f File) upload.Candidate {
	return upload.Candidate{
		Filename:    f.Filename,
		Size:        f.Size,
		ContentType: f.ContentType,
		Content:     f.Content,
	}
}
