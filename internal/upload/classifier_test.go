package upload

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	timeout time.Duration
	slots   int64
}

func (c testConfig) GetUploadDecodeTimeout() time.Duration { return c.timeout }
func (c testConfig) GetUploadMaxConcurrentDecodes() int64   { return c.slots }

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	return img
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(w, h), nil))
	return buf.Bytes()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

func gifBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

// offsetGIFBytes encodes a single 20x20 frame placed at (10,10) on a 100x100 logical screen.
func offsetGIFBytes(t *testing.T) []byte {
	t.Helper()
	frame := image.NewPaletted(image.Rect(10, 10, 30, 30), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, &gif.GIF{
		Image:  []*image.Paletted{frame},
		Delay:  []int{0},
		Config: image.Config{Width: 100, Height: 100},
	}))
	return buf.Bytes()
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

// pngWithHeader returns a small PNG whose IHDR claims w x h pixels.
func pngWithHeader(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := pngBytes(t, 1, 1)
	// 8-byte signature, 4-byte length, "IHDR", then width and height.
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	crc := crc32.ChecksumIEEE(data[12:29])
	binary.BigEndian.PutUint32(data[29:33], crc)
	return data
}

func candidate(name string, data []byte) Candidate {
	return Candidate{Filename: name, Size: int64(len(data)), Content: bytes.NewReader(data)}
}

func TestClassifyAcceptsValidImages(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		data   []byte
		detect string
	}{
		{"photo.jpg", jpegBytes(t, 64, 48), "image/jpeg"},
		{"PHOTO.JPEG", jpegBytes(t, 8, 8), "image/jpeg"},
		{"chart.png", pngBytes(t, 32, 16), "image/png"},
		{"anim.gif", gifBytes(t), "image/gif"},
	}

	for _, tc := range cases {
		res := c.Classify(ctx, candidate(tc.name, tc.data))
		require.True(t, res.Accepted, "%s: %s", tc.name, res.Message)
		assert.Equal(t, CategoryImage, res.Category)
		assert.Equal(t, tc.detect, res.DetectedType)
		assert.Equal(t, ReasonNone, res.Reason)
	}

	res := c.Classify(ctx, candidate("photo.jpg", jpegBytes(t, 64, 48)))
	assert.Equal(t, 64, res.Width)
	assert.Equal(t, 48, res.Height)
	assert.Equal(t, "jpg", res.Extension)
	assert.False(t, res.HasLocation)
}

func TestClassifyGIFWithOffsetFrame(t *testing.T) {
	res := New(nil).Classify(context.Background(), candidate("anim.gif", offsetGIFBytes(t)))

	require.True(t, res.Accepted, res.Message)
	assert.Equal(t, "image/gif", res.DetectedType)
	assert.Equal(t, 100, res.Width)
	assert.Equal(t, 100, res.Height)
}

func TestClassifyWebP(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	cases := []struct {
		file          string
		width, height int
	}{
		{"gopher.lossless.webp", 75, 100},
		{"gradient.lossy.webp", 150, 100},
	}

	for _, tc := range cases {
		data := readFixture(t, tc.file)

		res := c.Classify(ctx, candidate("cover.webp", data))
		require.True(t, res.Accepted, "%s: %s", tc.file, res.Message)
		assert.Equal(t, "image/webp", res.DetectedType, tc.file)
		assert.Equal(t, tc.width, res.Width, tc.file)
		assert.Equal(t, tc.height, res.Height, tc.file)

		avatar := c.ClassifyAvatar(ctx, Candidate{Filename: "me.webp", Size: int64(len(data)), ContentType: "image/webp", Content: bytes.NewReader(data)})
		assert.True(t, avatar.Accepted, "%s: %s", tc.file, avatar.Message)
	}

	truncated := readFixture(t, "gradient.lossy.webp")
	res := c.Classify(ctx, candidate("cover.webp", truncated[:len(truncated)/2]))
	assert.Equal(t, ReasonCorrupt, res.Reason)
}

func TestClassifyOversizeImage(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	declared := c.Classify(ctx, Candidate{Filename: "photo.jpg", Size: 11 * MiB})
	assert.False(t, declared.Accepted)
	assert.Equal(t, ReasonOversize, declared.Reason)
	assert.Equal(t, CategoryImage, declared.Category)

	// Declared size lies; the bytes actually read decide.
	big := append(jpegBytes(t, 8, 8), make([]byte, 11*MiB)...)
	actual := c.Classify(ctx, Candidate{Filename: "photo.jpg", Size: 1024, Content: bytes.NewReader(big)})
	assert.False(t, actual.Accepted)
	assert.Equal(t, ReasonOversize, actual.Reason)
}

func TestClassifyRejectsCorruptImages(t *testing.T) {
	c := New(nil)
	ctx := context.Background()
	valid := jpegBytes(t, 64, 64)

	cases := map[string][]byte{
		"garbage":     []byte("definitely not an image"),
		"empty":       nil,
		"truncated":   valid[:len(valid)/2],
		"header only": pngBytes(t, 16, 16)[:40],
	}

	for name, data := range cases {
		res := c.Classify(ctx, candidate("photo.jpg", data))
		assert.False(t, res.Accepted, name)
		assert.Equal(t, ReasonCorrupt, res.Reason, name)
	}
}

func TestClassifyDimensionBounds(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	wide := c.Classify(ctx, candidate("wide.png", pngBytes(t, MaxDimension+1, 1)))
	assert.Equal(t, ReasonDimensions, wide.Reason)
	assert.Equal(t, MaxDimension+1, wide.Width)

	bomb := c.Classify(ctx, candidate("bomb.png", pngWithHeader(t, 50000, 50000)))
	assert.False(t, bomb.Accepted)
	assert.Equal(t, ReasonDimensions, bomb.Reason)

	// Header claims a tiny image but the pixel data does not match it.
	lying := c.Classify(ctx, candidate("lying.png", pngWithHeader(t, 2, 2)))
	assert.False(t, lying.Accepted)
	assert.Equal(t, ReasonCorrupt, lying.Reason)

	edge := c.Classify(ctx, candidate("edge.png", pngBytes(t, MaxDimension, 1)))
	assert.True(t, edge.Accepted, edge.Message)
}

func TestClassifySVG(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	clean := `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10" fill="red"/></svg>`
	res := c.Classify(ctx, candidate("logo.svg", []byte(clean)))
	require.True(t, res.Accepted, res.Message)
	assert.Equal(t, CategoryImage, res.Category)

	cases := map[string]struct {
		body   string
		reason Reason
	}{
		"onload":         {`<svg onload=alert(1)>`, ReasonDisallowedMarkup},
		"script":         {`<svg xmlns="http://www.w3.org/2000/svg"><SCRIPT>alert(1)</SCRIPT></svg>`, ReasonDisallowedMarkup},
		"js href":        {`<svg><a href="JavaScript:alert(1)"><text>x</text></a></svg>`, ReasonDisallowedMarkup},
		"spaced handler": {`<svg><image href="x" onerror = "alert(1)"/></svg>`, ReasonDisallowedMarkup},
		"late script":    {`<svg><!--` + strings.Repeat("a", 4096) + `--><script>x</script></svg>`, ReasonDisallowedMarkup},
		"not markup":     {"just text", ReasonCorrupt},
		"html not svg":   {"<html><body>hi</body></html>", ReasonCorrupt},
		"svg too late":   {"<p>" + strings.Repeat("x", 2048) + "<svg></svg>", ReasonCorrupt},
	}

	for name, tc := range cases {
		res := c.Classify(ctx, candidate("evil.svg", []byte(tc.body)))
		assert.False(t, res.Accepted, name)
		assert.Equal(t, tc.reason, res.Reason, name)
	}
}

func TestClassifyVideoAndAudio(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	video := c.Classify(ctx, Candidate{Filename: "video.mp4", Size: 90 * MiB})
	assert.True(t, video.Accepted)
	assert.Equal(t, CategoryVideo, video.Category)

	ogg := c.Classify(ctx, Candidate{Filename: "track.ogg", Size: 60 * MiB})
	assert.True(t, ogg.Accepted)
	assert.Equal(t, CategoryVideo, ogg.Category)

	bigAudio := c.Classify(ctx, Candidate{Filename: "song.mp3", Size: 60 * MiB})
	assert.False(t, bigAudio.Accepted)
	assert.Equal(t, CategoryAudio, bigAudio.Category)
	assert.Equal(t, ReasonOversize, bigAudio.Reason)

	bigVideo := c.Classify(ctx, Candidate{Filename: "movie.avi", Size: 100*MiB + 1})
	assert.Equal(t, ReasonOversize, bigVideo.Reason)

	// Content is never decoded for video; a bogus body passes.
	bogus := c.Classify(ctx, candidate("clip.webm", []byte("not really a video")))
	assert.True(t, bogus.Accepted)
	assert.Equal(t, "text/plain; charset=utf-8", bogus.DetectedType)
}

func TestClassifyUnsupported(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	for _, name := range []string{"setup.exe", "README", "archive.", "photo.jpg.php", "", "../../bin/sh"} {
		res := c.Classify(ctx, Candidate{Filename: name, Size: 10})
		assert.False(t, res.Accepted, name)
		assert.Equal(t, CategoryUnknown, res.Category, name)
		assert.Equal(t, ReasonUnsupportedType, res.Reason, name)
	}
}

func TestClassifySanitizesName(t *testing.T) {
	res := New(nil).Classify(context.Background(), Candidate{Filename: "../../etc/clip.MP4", Size: 1})

	assert.Equal(t, "etcclip.MP4", res.SanitizedName)
	assert.Equal(t, "mp4", res.Extension)
	assert.True(t, res.Accepted)
}

func TestClassifyNegativeSize(t *testing.T) {
	res := New(nil).Classify(context.Background(), Candidate{Filename: "a.mp3", Size: -1})
	assert.Equal(t, ReasonInvalidSize, res.Reason)
}

func TestClassifyAvatar(t *testing.T) {
	c := New(nil)
	ctx := context.Background()
	pngData := pngBytes(t, 16, 16)

	ok := c.ClassifyAvatar(ctx, Candidate{Filename: "me.png", Size: int64(len(pngData)), ContentType: "image/png; charset=binary", Content: bytes.NewReader(pngData)})
	require.True(t, ok.Accepted, ok.Message)
	assert.Equal(t, int64(MaxAvatarBytes), ok.SizeLimit)

	svg := c.ClassifyAvatar(ctx, Candidate{Filename: "me.svg", Size: 10, ContentType: "image/svg+xml", Content: strings.NewReader("<svg></svg>")})
	assert.Equal(t, ReasonUnsupportedType, svg.Reason)

	mime := c.ClassifyAvatar(ctx, Candidate{Filename: "me.png", Size: int64(len(pngData)), ContentType: "application/octet-stream", Content: bytes.NewReader(pngData)})
	assert.Equal(t, ReasonUnsupportedType, mime.Reason)

	big := c.ClassifyAvatar(ctx, Candidate{Filename: "me.png", Size: 6 * MiB, ContentType: "image/png"})
	assert.Equal(t, ReasonOversize, big.Reason)

	// 6 MiB passes the general image ceiling but not the avatar one.
	general := c.Classify(ctx, Candidate{Filename: "me.png", Size: 6 * MiB, Content: bytes.NewReader(pngData)})
	assert.True(t, general.Accepted, general.Message)

	corrupt := c.ClassifyAvatar(ctx, Candidate{Filename: "me.jpg", Size: 4, ContentType: "image/jpeg", Content: strings.NewReader("nope")})
	assert.Equal(t, ReasonCorrupt, corrupt.Reason)

	// Decodable content that is not what the declared type says.
	gifData := gifBytes(t)
	mismatch := c.ClassifyAvatar(ctx, Candidate{Filename: "me.png", Size: int64(len(gifData)), ContentType: "image/png", Content: bytes.NewReader(gifData)})
	assert.False(t, mismatch.Accepted)
	assert.Equal(t, ReasonUnsupportedType, mismatch.Reason)
	assert.Equal(t, "image/gif", mismatch.DetectedType)

	jpegData := jpegBytes(t, 8, 8)
	jpegAsGIF := c.ClassifyAvatar(ctx, Candidate{Filename: "me.gif", Size: int64(len(jpegData)), ContentType: "image/gif", Content: bytes.NewReader(jpegData)})
	assert.Equal(t, ReasonUnsupportedType, jpegAsGIF.Reason)

	matching := c.ClassifyAvatar(ctx, Candidate{Filename: "me.gif", Size: int64(len(gifData)), ContentType: "IMAGE/GIF", Content: bytes.NewReader(gifData)})
	assert.True(t, matching.Accepted, matching.Message)
}

func TestSniffedAs(t *testing.T) {
	assert.True(t, sniffedAs("image/png", "image/png; charset=binary"))
	assert.True(t, sniffedAs("image/vnd.mozilla.apng", "image/png"))
	assert.False(t, sniffedAs("image/png", "image/vnd.mozilla.apng"))
	assert.False(t, sniffedAs("image/gif", "image/png"))
	assert.False(t, sniffedAs("", "image/png"))
}

func TestClassifyFailsClosedWhenDecodeSlotsBusy(t *testing.T) {
	c := New(testConfig{timeout: 20 * time.Millisecond, slots: 1})
	require.NoError(t, c.decodeSlots.Acquire(context.Background(), 1))
	defer c.decodeSlots.Release(1)

	res := c.Classify(context.Background(), candidate("photo.jpg", jpegBytes(t, 8, 8)))

	assert.False(t, res.Accepted)
	assert.Equal(t, ReasonCorrupt, res.Reason)
	assert.Contains(t, res.Message, "timed out")
}

func TestClassifyConcurrentCallsAgree(t *testing.T) {
	c := New(testConfig{slots: 2})
	data := jpegBytes(t, 128, 128)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Classify(context.Background(), candidate("photo.jpg", data))
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		assert.Equal(t, results[0], res)
		assert.True(t, res.Accepted)
	}
}
