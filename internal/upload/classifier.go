package upload

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultDecodeTimeout bounds a single full raster decode.
	DefaultDecodeTimeout = 5 * time.Second
	// DefaultMaxConcurrentDecodes caps full raster decodes running at once.
	DefaultMaxConcurrentDecodes = 4
	// sniffBytes is how much of a non-image upload is read to record its signature.
	sniffBytes = 3072
)

// Config provides the tunables of the classifier.
type Config interface {
	GetUploadDecodeTimeout() time.Duration
	GetUploadMaxConcurrentDecodes() int64
}

// Candidate is one uploaded file. Content may be nil when only the declared
// attributes are known.
type Candidate struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.Reader
}

// Classifier determines the media category of uploads and verifies image content.
// It holds no per-call state and is safe for concurrent use.
type Classifier struct {
	decodeTimeout time.Duration
	decodeSlots   *semaphore.Weighted
}

// New creates a classifier. A nil cfg, or zero values in it, select the defaults.
func New(cfg Config) *Classifier {
	timeout := DefaultDecodeTimeout
	slots := int64(DefaultMaxConcurrentDecodes)
	if cfg != nil {
		if d := cfg.GetUploadDecodeTimeout(); d > 0 {
			timeout = d
		}
		if n := cfg.GetUploadMaxConcurrentDecodes(); n > 0 {
			slots = n
		}
	}
	return &Classifier{
		decodeTimeout: timeout,
		decodeSlots:   semaphore.NewWeighted(slots),
	}
}

// Classify sanitizes the filename, maps its extension to a category, enforces the
// category size ceiling and, for images, verifies the content itself.
// Video and audio are accepted once extension and size pass.
func (c *Classifier) Classify(ctx context.Context, cand Candidate) Result {
	sanitized, ext, category := classifyName(cand.Filename)
	res := Result{
		Category:      category,
		SanitizedName: sanitized,
		Extension:     ext,
		SizeLimit:     SizeLimit(category),
	}

	if category == CategoryUnknown {
		return res.reject(ReasonUnsupportedType, "file type %q is not supported", ext)
	}
	if cand.Size < 0 {
		return res.reject(ReasonInvalidSize, "file size must not be negative")
	}
	if cand.Size > res.SizeLimit {
		return res.reject(ReasonOversize, "file size %d bytes exceeds the %d byte limit for %s", cand.Size, res.SizeLimit, category)
	}

	if category != CategoryImage {
		res.DetectedType = sniff(cand.Content)
		return res.accept()
	}
	return c.verifyImage(ctx, res, cand)
}

// ClassifyAvatar is the avatar entry point: raster images only, a tighter size ceiling
// and a declared MIME type that must be on AvatarContentTypes and agree with the
// type sniffed from the content.
func (c *Classifier) ClassifyAvatar(ctx context.Context, cand Candidate) Result {
	sanitized, ext, category := classifyName(cand.Filename)
	res := Result{
		Category:      category,
		SanitizedName: sanitized,
		Extension:     ext,
		SizeLimit:     MaxAvatarBytes,
	}

	if !contains(avatarExtensions, ext) {
		return res.reject(ReasonUnsupportedType, "avatar file type %q is not supported", ext)
	}
	if !AvatarContentTypes[NormalizeContentType(cand.ContentType)] {
		return res.reject(ReasonUnsupportedType, "avatar content type %q is not allowed", cand.ContentType)
	}
	if cand.Size < 0 {
		return res.reject(ReasonInvalidSize, "file size must not be negative")
	}
	if cand.Size > MaxAvatarBytes {
		return res.reject(ReasonOversize, "file size %d bytes exceeds the %d byte avatar limit", cand.Size, int64(MaxAvatarBytes))
	}

	res = c.verifyImage(ctx, res, cand)
	if res.Accepted && !sniffedAs(res.DetectedType, cand.ContentType) {
		return res.reject(ReasonUnsupportedType, "avatar content is %s, not the declared %s", res.DetectedType, NormalizeContentType(cand.ContentType))
	}
	return res
}

// sniffedAs reports whether the detected type is the declared one or a subtype of it,
// e.g. an animated PNG declared as image/png.
func sniffedAs(detected, declared string) bool {
	for mt := mimetype.Lookup(detected); mt != nil; mt = mt.Parent() {
		if mt.Is(declared) {
			return true
		}
	}
	return false
}

func (c *Classifier) verifyImage(ctx context.Context, res Result, cand Candidate) Result {
	data, err := readBounded(cand.Content, res.SizeLimit)
	if errors.Is(err, errTooLarge) {
		return res.reject(ReasonOversize, "file content exceeds the %d byte limit", res.SizeLimit)
	}
	if err != nil {
		return res.reject(ReasonCorrupt, "file content could not be read")
	}
	res.DetectedType = mimetype.Detect(data).String()

	if res.Extension == "svg" {
		structureOK, banned := checkSVG(data)
		if !structureOK {
			return res.reject(ReasonCorrupt, "file is not a valid SVG document")
		}
		if banned != "" {
			return res.reject(ReasonDisallowedMarkup, "SVG contains disallowed content %q", banned)
		}
		return res.accept()
	}

	dims, err := c.verifyRaster(ctx, data)
	res.Width, res.Height = dims.Width, dims.Height
	if errors.Is(err, ErrDimensions) {
		return res.reject(ReasonDimensions, "image dimensions %dx%d are outside 1..%d pixels", dims.Width, dims.Height, MaxDimension)
	}
	if err != nil {
		return res.reject(ReasonCorrupt, "%s", err.Error())
	}
	if dims.Format == "jpeg" {
		res.HasLocation = hasGPSLocation(data)
	}
	return res.accept()
}

var errTooLarge = errors.New("content exceeds limit")

// readBounded reads at most limit bytes; more content than that is errTooLarge.
func readBounded(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errTooLarge
	}
	return data, nil
}

// sniff records the signature-based MIME type of non-image content. It never fails.
func sniff(r io.Reader) string {
	if r == nil {
		return ""
	}
	mt, err := mimetype.DetectReader(io.LimitReader(r, sniffBytes))
	if err != nil {
		return ""
	}
	return mt.String()
}
