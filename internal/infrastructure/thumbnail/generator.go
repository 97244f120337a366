package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	domain "image-tier-api/internal/domain/user_image"
)

const (
	ContentType = "image/jpeg"
	extension   = "jpg"
)

type (
	// Artifact is one encoded derivative.
	Artifact struct {
		Name   string
		Width  int
		Height int
		Data   []byte
	}

	// Result is the outcome for one requested height. Exactly one of
	// Artifact and Err is set.
	Result struct {
		Height   int
		Artifact *Artifact
		Err      error
		Took     time.Duration
	}

	Generator struct {
		sem       *semaphore.Weighted
		quality   int
		maxPixels int64
	}
)

// NewGenerator shares sem between every call so that concurrent uploads
// never decode and resize more than its weight at once. quality <= 0 keeps
// the encoder default, maxPixels <= 0 uses DefaultMaxPixels.
func NewGenerator(sem *semaphore.Weighted, quality int, maxPixels int64) *Generator {
	return &Generator{sem: sem, quality: quality, maxPixels: maxPixels}
}

// Decode inspects the upload header and then decodes its pixels while
// holding one slot of the shared pool.
func (g *Generator) Decode(ctx context.Context, data []byte) (*Source, error) {
	src, err := Inspect(data, g.maxPixels)
	if err != nil {
		return nil, err
	}

	if err = g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer g.sem.Release(1)

	if err = src.decode(); err != nil {
		return nil, err
	}

	return src, nil
}

// Generate produces one result per height, in the order given. A failing
// height does not stop its siblings. Heights not started before ctx is done
// come back with ctx.Err().
func (g *Generator) Generate(ctx context.Context, src *Source, heights []int) []Result {
	results := make([]Result, len(heights))

	var eg errgroup.Group
	for i, h := range heights {
		results[i].Height = h
		eg.Go(func() error {
			if err := g.sem.Acquire(ctx, 1); err != nil {
				results[i].Err = err
				return nil
			}
			defer g.sem.Release(1)

			start := time.Now()
			art, err := g.GenerateOne(src, h)
			results[i].Took = time.Since(start)
			if err != nil {
				results[i].Err = fmt.Errorf("%w: height %d: %w", domain.ErrDerivativeGenerationFailed, h, err)
				return nil
			}
			results[i].Artifact = art
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

// GenerateOne resizes src to the given height, keeping the original aspect
// ratio, and encodes it as JPEG. Sizes above the source resolution are
// honoured.
func (g *Generator) GenerateOne(src *Source, height int) (art *Artifact, err error) {
	width, err := domain.CalculateWidth(src.Width, src.Height, height)
	if err != nil {
		return nil, err
	}
	if width < 1 {
		return nil, fmt.Errorf("%w: computed width %d for height %d", domain.ErrInvalidDimension, width, height)
	}

	defer func() {
		if r := recover(); r != nil {
			art, err = nil, fmt.Errorf("resize %dx%d: %v", width, height, r)
		}
	}()

	resized := imaging.Resize(opaque(src.Image), width, height, imaging.Lanczos)

	var opts []imaging.EncodeOption
	if g.quality > 0 {
		opts = append(opts, imaging.JPEGQuality(g.quality))
	}
	var buf bytes.Buffer
	if err = imaging.Encode(&buf, resized, imaging.JPEG, opts...); err != nil {
		return nil, fmt.Errorf("encode %dx%d: %w", width, height, err)
	}

	return &Artifact{
		Name:   Name(width, height),
		Width:  width,
		Height: height,
		Data:   buf.Bytes(),
	}, nil
}

// Name is the artifact file name for a derivative of the given size.
func Name(width, height int) string {
	return fmt.Sprintf("%dx%d.%s", width, height, extension)
}

// opaque copies img into a 3-channel equivalent: alpha is dropped, colour
// values are kept as they are.
func opaque(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
