package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"

	"dotgen/internal/application/port/output"
	"dotgen/internal/domain/entity"
)

var _ output.VideoEncoderPort = (*FFmpegEncoder)(nil)

// FFmpegEncoder pipes PNG frames into an ffmpeg process and returns the MP4
// it produces.
type FFmpegEncoder struct {
	binary     string
	background color.RGBA
}

func NewFFmpegEncoder(binary string, background color.RGBA) *FFmpegEncoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegEncoder{binary: binary, background: background}
}

// FFmpegAvailable reports whether binary resolves on PATH.
func FFmpegAvailable(binary string) bool {
	if binary == "" {
		binary = "ffmpeg"
	}
	_, err := exec.LookPath(binary)
	return err == nil
}

func (e *FFmpegEncoder) Ext() string {
	return "mp4"
}

func (e *FFmpegEncoder) Encode(ctx context.Context, frames []image.Image, fps int) (*entity.Video, error) {
	if len(frames) == 0 {
		return nil, entity.RenderFailure("ffmpeg: no frames", nil)
	}
	if fps <= 0 {
		return nil, entity.RenderFailure("ffmpeg: fps must be positive", nil)
	}

	dir, err := os.MkdirTemp("", "dotgen-video-*")
	if err != nil {
		return nil, entity.RenderFailure("ffmpeg: temp dir", err)
	}
	defer os.RemoveAll(dir)
	outPath := filepath.Join(dir, "out.mp4")

	cmd := exec.CommandContext(ctx, e.binary,
		"-y", "-loglevel", "error",
		"-f", "image2pipe", "-framerate", strconv.Itoa(fps), "-i", "-",
		"-c:v", "libx264", "-pix_fmt", "yuv420p", "-movflags", "+faststart",
		outPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, entity.RenderFailure("ffmpeg: stdin", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, entity.RenderFailure("ffmpeg: start", err)
	}

	writeErr := e.writeFrames(stdin, frames)
	closeErr := stdin.Close()
	if err := cmd.Wait(); err != nil {
		return nil, entity.RenderFailure(fmt.Sprintf("ffmpeg: %s", bytes.TrimSpace(stderr.Bytes())), err)
	}
	if writeErr != nil {
		return nil, entity.RenderFailure("ffmpeg: write frames", writeErr)
	}
	if closeErr != nil {
		return nil, entity.RenderFailure("ffmpeg: close stdin", closeErr)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, entity.RenderFailure("ffmpeg: read output", err)
	}
	return &entity.Video{Ext: e.Ext(), Data: data, FrameCount: len(frames)}, nil
}

func (e *FFmpegEncoder) writeFrames(w io.Writer, frames []image.Image) error {
	for _, frame := range frames {
		if err := imaging.Encode(w, EvenSize(frame, e.background), imaging.PNG); err != nil {
			return err
		}
	}
	return nil
}

// EvenSize pads img by one pixel on odd axes. yuv420p needs even dimensions.
func EvenSize(img image.Image, bg color.Color) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w%2 == 0 && h%2 == 0 {
		return img
	}
	canvas := imaging.New(w+w%2, h+h%2, bg)
	return imaging.Paste(canvas, img, image.Pt(0, 0))
}
