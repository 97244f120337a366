package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	domain "image-tier-api/internal/domain/user_image"
)

const (
	// MinWidth is the narrowest accepted upload. Height has no floor.
	MinWidth = 200
	// minHeightInMessage only shapes the error text, it is not enforced.
	minHeightInMessage = 200
	// DefaultMaxPixels bounds the declared area of an upload (40 MP).
	DefaultMaxPixels int64 = 40_000_000
)

var rasterTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/bmp":  {},
	"image/tiff": {},
	"image/webp": {},
}

// Source is an upload whose header passed validation. Image is set once
// the pixels have been decoded.
type Source struct {
	Image       image.Image
	Width       int
	Height      int
	ContentType string
	Extension   string

	data []byte
}

// Inspect validates raw upload bytes from their header alone. It rejects
// anything that is not a raster photo format, anything narrower than
// MinWidth and anything whose declared area exceeds maxPixels (<= 0 means
// DefaultMaxPixels). No pixel data is allocated.
func Inspect(data []byte, maxPixels int64) (*Source, error) {
	mt := mimetype.Detect(data)
	if _, ok := rasterTypes[mt.String()]; !ok {
		return nil, fmt.Errorf("%w: detected %s", domain.ErrUnsupportedFormat, mt.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedFormat, err)
	}
	if cfg.Width < MinWidth {
		return nil, fmt.Errorf("%w: image dimensions must be at least %dx%d",
			domain.ErrTooSmall, MinWidth, minHeightInMessage)
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels",
			domain.ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels)
	}

	return &Source{
		Width:       cfg.Width,
		Height:      cfg.Height,
		ContentType: mt.String(),
		Extension:   mt.Extension(),
		data:        data,
	}, nil
}

func (s *Source) decode() error {
	img, err := imaging.Decode(bytes.NewReader(s.data))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnsupportedFormat, err)
	}
	b := img.Bounds()
	s.Image, s.Width, s.Height = img, b.Dx(), b.Dy()

	return nil
}
