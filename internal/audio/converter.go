package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// Converter transcodes arbitrary container formats to 16 kHz mono WAV so
// the decoder only ever sees formats it handles natively.
type Converter interface {
	ToWAV(ctx context.Context, data []byte, format string) ([]byte, error)
}

// FFmpegConverter shells out to ffmpeg over stdin/stdout.
type FFmpegConverter struct {
	binary string
	log    *zap.Logger
}

func NewFFmpegConverter(binary string, log *zap.Logger) *FFmpegConverter {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegConverter{binary: binary, log: log}
}

func (c *FFmpegConverter) ToWAV(ctx context.Context, data []byte, format string) ([]byte, error) {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if format != "" {
		args = append(args, "-f", format)
	}
	args = append(args,
		"-i", "pipe:0",
		"-ar", fmt.Sprint(TargetRate),
		"-ac", "1",
		"-f", "wav",
		"pipe:1",
	)

	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Stdin = bytes.NewReader(data)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		c.log.Warn("ffmpeg conversion failed",
			zap.String("format", format),
			zap.String("stderr", stderr.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("ffmpeg: convert %s: %w", format, err)
	}
	return out.Bytes(), nil
}
