// Package upload classifies user uploads by media category and verifies their content.
package upload

import (
	"strings"

	"blog_backend/platform/sanitize"
)

// Size constants for readable limits.
const (
	KiB = int64(1024)
	MiB = KiB * 1024
)

// Fixed size ceilings per entry point.
const (
	MaxImageBytes  = 10 * MiB
	MaxVideoBytes  = 100 * MiB
	MaxAudioBytes  = 50 * MiB
	MaxAvatarBytes = 5 * MiB
)

// MaxDimension is the largest accepted raster width or height in pixels.
const MaxDimension = 10000

// svgPrefixBytes is how much of an SVG is inspected for its document structure.
const svgPrefixBytes = 1024

// Category is the media family an upload claims to belong to.
type Category string

const (
	CategoryImage   Category = "image"
	CategoryVideo   Category = "video"
	CategoryAudio   Category = "audio"
	CategoryUnknown Category = "unknown"
)

var (
	imageExtensions  = []string{"jpg", "jpeg", "png", "gif", "webp", "svg"}
	videoExtensions  = []string{"mp4", "webm", "ogg", "mov", "avi"}
	audioExtensions  = []string{"mp3", "wav", "ogg", "m4a"}
	avatarExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}
)

// AvatarContentTypes lists the declared MIME types accepted for avatars.
var AvatarContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Extension returns the lowercased suffix after the last dot of name, or "" if there is none.
// name is expected to be sanitized already.
func Extension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// CategoryOf maps an extension to its category. Lists are checked image, video, audio in
// that order, so "ogg" resolves to video.
func CategoryOf(ext string) Category {
	switch {
	case ext == "":
		return CategoryUnknown
	case contains(imageExtensions, ext):
		return CategoryImage
	case contains(videoExtensions, ext):
		return CategoryVideo
	case contains(audioExtensions, ext):
		return CategoryAudio
	default:
		return CategoryUnknown
	}
}

// SizeLimit returns the size ceiling for a category, or 0 for CategoryUnknown.
func SizeLimit(c Category) int64 {
	switch c {
	case CategoryImage:
		return MaxImageBytes
	case CategoryVideo:
		return MaxVideoBytes
	case CategoryAudio:
		return MaxAudioBytes
	default:
		return 0
	}
}

// AllowedExtensions returns the extension allow-list of a category, for client hints.
func AllowedExtensions(c Category) []string {
	var src []string
	switch c {
	case CategoryImage:
		src = imageExtensions
	case CategoryVideo:
		src = videoExtensions
	case CategoryAudio:
		src = audioExtensions
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// NormalizeContentType lowercases a MIME type and drops parameters such as charset.
func NormalizeContentType(contentType string) string {
	normalized := strings.Split(contentType, ";")[0]
	return strings.TrimSpace(strings.ToLower(normalized))
}

func classifyName(filename string) (sanitized, ext string, category Category) {
	sanitized = sanitize.Filename(filename)
	ext = Extension(sanitized)
	return sanitized, ext, CategoryOf(ext)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
