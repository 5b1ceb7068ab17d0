package compress

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

var (
	execCommandContext = exec.CommandContext
	openFile           = os.Open
)

// FFmpeg transcodes videos to H.264 mp4 with an external ffmpeg binary.
// The source is spooled to a temp file because mp4 inputs need seeking.
type FFmpeg struct {
	Path    string
	TempDir string
}

// CRF maps a reduction percentage to an x264 constant rate factor,
// 20 for 10% up to 36 for 90%.
func CRF(pct int) int {
	return 18 + pct/5
}

func (f *FFmpeg) Transcode(ctx context.Context, src io.Reader, opts Options) (*Result, error) {
	in, err := os.CreateTemp(f.TempDir, "storjvault-src-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(in.Name())

	if _, err := io.Copy(in, src); err != nil {
		in.Close()
		return nil, fmt.Errorf("spool source: %w", err)
	}
	if err := in.Close(); err != nil {
		return nil, fmt.Errorf("spool source: %w", err)
	}

	outPath := in.Name() + ".mp4"
	cmd := execCommandContext(ctx, f.Path,
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", in.Name(),
		"-c:v", "libx264", "-preset", "medium", "-crf", strconv.Itoa(CRF(opts.Percentage)),
		"-c:a", "aac", "-b:a", "128k",
		"-movflags", "+faststart",
		outPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(outPath)
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	out, err := openFile(outPath)
	if err != nil {
		os.Remove(outPath)
		return nil, fmt.Errorf("open transcoded file: %w", err)
	}
	st, err := out.Stat()
	if err != nil {
		out.Close()
		os.Remove(outPath)
		return nil, fmt.Errorf("stat transcoded file: %w", err)
	}

	return &Result{
		Body:        &tempFile{File: out},
		Size:        st.Size(),
		ContentType: "video/mp4",
		Ext:         ".mp4",
		Format:      "mp4",
	}, nil
}

// tempFile removes itself on Close.
type tempFile struct {
	*os.File
}

func (t *tempFile) Close() error {
	err := t.File.Close()
	if rmErr := os.Remove(t.Name()); err == nil {
		err = rmErr
	}
	return err
}
