package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"
)

// ErrDimensions is returned when an image is empty or larger than MaxDimension on a side.
var ErrDimensions = errors.New("image dimensions out of bounds")

// DecodeFailure classifies why an image could not be decoded.
type DecodeFailure int

const (
	// DecodeCorrupt covers unparseable, truncated and decoder-crashing input.
	DecodeCorrupt DecodeFailure = iota
	// DecodeTimeout means the decode did not finish (or could not start) in time.
	DecodeTimeout
)

// DecodeError is the error value for any raster decode failure.
type DecodeError struct {
	Failure DecodeFailure
	Err     error
}

func (e *DecodeError) Error() string {
	switch e.Failure {
	case DecodeTimeout:
		return fmt.Sprintf("image decode timed out: %v", e.Err)
	default:
		return fmt.Sprintf("image could not be decoded: %v", e.Err)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Dimensions are the verified pixel dimensions of a decoded image.
type Dimensions struct {
	Width  int
	Height int
	Format string
}

func withinBounds(width, height int) bool {
	return width > 0 && height > 0 && width <= MaxDimension && height <= MaxDimension
}

// verifyRaster decodes data fully. The header is read first so that oversized canvases
// are rejected before any pixel buffer is allocated; the full decode then runs under the
// decode semaphore and the configured timeout. Decoder panics are reported as corrupt input.
func (c *Classifier) verifyRaster(ctx context.Context, data []byte) (Dimensions, error) {
	cfg, format, err := decodeConfig(data)
	if err != nil {
		return Dimensions{}, &DecodeError{Failure: DecodeCorrupt, Err: err}
	}
	dims := Dimensions{Width: cfg.Width, Height: cfg.Height, Format: format}
	if !withinBounds(dims.Width, dims.Height) {
		return dims, ErrDimensions
	}

	ctx, cancel := context.WithTimeout(ctx, c.decodeTimeout)
	defer cancel()

	if err := c.decodeSlots.Acquire(ctx, 1); err != nil {
		return dims, &DecodeError{Failure: DecodeTimeout, Err: err}
	}

	done := make(chan error, 1)
	go func() {
		// The slot is held until the decoder returns, even after a timeout, so
		// abandoned decodes still count against the concurrency cap.
		defer c.decodeSlots.Release(1)
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("decoder panic: %v", r)
			}
		}()

		// A GIF decodes to its first frame, which may be smaller than the
		// logical screen; it only has to lie inside it.
		img, _, err := image.Decode(bytes.NewReader(data))
		if err == nil {
			canvas := image.Rect(0, 0, dims.Width, dims.Height)
			if b := img.Bounds(); b.Empty() || !b.In(canvas) {
				err = fmt.Errorf("decoded bounds %v fall outside the %dx%d header", b, dims.Width, dims.Height)
			}
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return dims, &DecodeError{Failure: DecodeCorrupt, Err: err}
		}
		return dims, nil
	case <-ctx.Done():
		return dims, &DecodeError{Failure: DecodeTimeout, Err: ctx.Err()}
	}
}

func decodeConfig(data []byte) (cfg image.Config, format string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decoder panic: %v", r)
		}
	}()
	return image.DecodeConfig(bytes.NewReader(data))
}

// hasGPSLocation reports whether a JPEG carries GPS coordinates in its EXIF block.
func hasGPSLocation(data []byte) (located bool) {
	defer func() {
		if recover() != nil {
			located = false
		}
	}()
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return false
	}
	_, _, err = x.LatLong()
	return err == nil
}
