// Package media prepares raster images for embedding in generated documents.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"image"
	"image/png"
	"log/slog"
	"os"
	"strings"

	"github.com/disintegration/imaging"
)

// Logo dimensions in pixels; the source image is fitted inside this box.
const (
	logoMaxWidth  = 240
	logoMaxHeight = 120
)

// MaxPixels bounds the declared dimensions of an image accepted for decoding.
// Decoders allocate the full pixel buffer from the header, so the check runs
// before any pixel data is read.
const MaxPixels = 4096 * 4096

// ErrTooLarge reports an image whose header exceeds MaxPixels.
var ErrTooLarge = errors.New("media: image dimensions too large")

// Image is a PNG-encoded raster ready for HTML and PDF embedding.
type Image struct {
	PNG    []byte
	Width  int
	Height int
}

// DataURI returns the image as an inline URL usable in html/template.
func (i *Image) DataURI() template.URL {
	if i == nil || len(i.PNG) == 0 {
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(i.PNG))
}

// AspectRatio returns height / width.
func (i *Image) AspectRatio() float64 {
	if i == nil || i.Width == 0 {
		return 0
	}
	return float64(i.Height) / float64(i.Width)
}

// LoadLogo reads and normalises the company logo. A blank path, a missing file
// or an undecodable image yields nil: documents render without a logo.
func LoadLogo(path string, logger *slog.Logger) *Image {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if logger != nil {
			logger.Warn("logo unavailable", slog.String("path", path), slog.Any("error", err))
		}
		return nil
	}
	img, err := Fit(raw, logoMaxWidth, logoMaxHeight)
	if err != nil {
		if logger != nil {
			logger.Warn("logo decode failed", slog.String("path", path), slog.Any("error", err))
		}
		return nil
	}
	return img
}

// Fit decodes raw image bytes, shrinks them to fit within w x h keeping the
// aspect ratio and re-encodes as PNG. Images already inside the box are not
// enlarged.
func Fit(raw []byte, w, h int) (*Image, error) {
	src, err := decode(raw)
	if err != nil {
		return nil, err
	}
	bounds := src.Bounds()
	var out image.Image = src
	if bounds.Dx() > w || bounds.Dy() > h {
		out = imaging.Fit(src, w, h, imaging.Lanczos)
	}
	return encode(out)
}

// Thumbnail crops and scales to exactly w x h.
func Thumbnail(raw []byte, w, h int) (*Image, error) {
	src, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return encode(imaging.Thumbnail(src, w, h, imaging.Lanczos))
}

// DecodeBase64 accepts either bare base64 or a data URI.
func DecodeBase64(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, errors.New("media: empty image data")
	}
	if strings.HasPrefix(data, "data:") {
		_, payload, ok := strings.Cut(data, ",")
		if !ok {
			return nil, errors.New("media: malformed data uri")
		}
		data = payload
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("media: base64: %w", err)
	}
	return raw, nil
}

func decode(raw []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("media: decode: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	src, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("media: decode: %w", err)
	}
	return src, nil
}

func encode(img image.Image) (*Image, error) {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("media: encode: %w", err)
	}
	b := img.Bounds()
	return &Image{PNG: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}
