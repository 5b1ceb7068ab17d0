package compress

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/dmitrijs2005/storjvault/internal/common"

	// webp sources
	_ "golang.org/x/image/webp"
)

// MaxImageBytes bounds the sources the image compressor will decode in
// memory.
const MaxImageBytes = 256 << 20

// ImageCompressor scales an image down and re-encodes it as jpeg or png.
type ImageCompressor struct{}

// Quality is the jpeg quality used for a reduction of pct percent.
func Quality(pct int) int {
	return min(100, max(10, 100-pct+10))
}

// Scale is the factor both image dimensions are multiplied by.
func Scale(pct int) float64 {
	return math.Max(0.7, 1-float64(pct)/200)
}

func (c *ImageCompressor) Compress(ctx context.Context, src io.Reader, opts Options) (*Result, error) {
	img, err := imaging.Decode(io.LimitReader(src, MaxImageBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, common.Errorf(common.ErrorValidation, "Image could not be decoded: %v", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scale := Scale(opts.Percentage)
	b := img.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))
	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	var buf bytes.Buffer
	res := &Result{}
	switch opts.Format {
	case "png":
		err = imaging.Encode(&buf, resized, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
		res.ContentType, res.Ext, res.Format = "image/png", ".png", "png"
	default:
		err = imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(Quality(opts.Percentage)))
		res.ContentType, res.Ext, res.Format = "image/jpeg", ".jpg", "jpeg"
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", res.Format, err)
	}

	res.Size = int64(buf.Len())
	res.Body = io.NopCloser(&buf)
	return res, nil
}
