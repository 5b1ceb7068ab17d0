// Package compress produces smaller copies of images and videos.
package compress

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/dmitrijs2005/storjvault/internal/server/keyspace"
)

const (
	MinPercentage = 10
	MaxPercentage = 90

	// FormatAuto picks jpeg for images and mp4 for videos.
	FormatAuto = "auto"
)

var (
	imageFormats = []string{FormatAuto, "jpeg", "jpg", "png"}
	videoFormats = []string{FormatAuto, "mp4"}
)

// Options controls one compression run. Percentage is the requested
// reduction, 10 to 90.
type Options struct {
	Percentage int
	Format     string
}

// Result is a compressed artifact. Callers must Close Body.
type Result struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
	// Ext is the extension matching the output format, with the dot.
	Ext    string
	Format string
}

// Transcoder re-encodes a video.
type Transcoder interface {
	Transcode(ctx context.Context, src io.Reader, opts Options) (*Result, error)
}

// Compressor dispatches on the file type of the source name.
type Compressor struct {
	images *ImageCompressor
	video  Transcoder
}

// New returns a Compressor. A nil video transcoder makes video compression
// report common.ErrorUnsupported.
func New(video Transcoder) *Compressor {
	return &Compressor{images: &ImageCompressor{}, video: video}
}

// FileType is "image", "video" or "other".
func FileType(name string) string {
	switch {
	case keyspace.IsVideo(name):
		return "video"
	case keyspace.IsImage(name):
		return "image"
	default:
		return "other"
	}
}

// SupportedFormats lists the output formats accepted for name.
func SupportedFormats(name string) []string {
	switch FileType(name) {
	case "image":
		return slices.Clone(imageFormats)
	case "video":
		return slices.Clone(videoFormats)
	default:
		return []string{}
	}
}

// Validate normalizes opts for name.
func Validate(name string, opts Options) (Options, error) {
	if opts.Percentage < MinPercentage || opts.Percentage > MaxPercentage {
		return opts, common.Errorf(common.ErrorValidation, "Percentage must be between %d-%d", MinPercentage, MaxPercentage)
	}
	if !keyspace.CanCompress(name) {
		return opts, common.Errorf(common.ErrorValidation, "File type not supported for compression")
	}
	opts.Format = strings.ToLower(strings.TrimSpace(opts.Format))
	if opts.Format == "" {
		opts.Format = FormatAuto
	}
	if !slices.Contains(SupportedFormats(name), opts.Format) {
		return opts, common.Errorf(common.ErrorValidation, "Format %q is not supported for this file", opts.Format)
	}
	return opts, nil
}

// Compress reads src, the content of a file called name, and returns the
// compressed artifact.
func (c *Compressor) Compress(ctx context.Context, name string, src io.Reader, opts Options) (*Result, error) {
	opts, err := Validate(name, opts)
	if err != nil {
		return nil, err
	}
	if keyspace.IsImage(name) {
		return c.images.Compress(ctx, src, opts)
	}
	if c.video == nil {
		return nil, common.Errorf(common.ErrorUnsupported, "Video compression is not configured on this server")
	}
	return c.video.Transcode(ctx, src, opts)
}

// VideoEnabled reports whether a transcoder is configured.
func (c *Compressor) VideoEnabled() bool { return c.video != nil }
