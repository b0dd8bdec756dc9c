// Package ffmpeg wraps the ffmpeg command line for preview clip generation.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/modelcycles/yongent/internal/config"
)

var commandContext = exec.CommandContext

// Clipper produces preview clips from downloaded audio.
type Clipper interface {
	MakeClip(ctx context.Context, inputPath, outputPath string) error
}

// CLI runs ffmpeg to cut a fixed-length clip with a fade-out at its tail.
type CLI struct {
	binary      string
	seconds     int
	fadeSeconds int
	bitrate     string
}

// NewCLI constructs a CLI clipper from configuration.
func NewCLI(cfg config.Clip) *CLI {
	binary := cfg.FFmpegBinary
	if binary == "" {
		binary = "ffmpeg"
	}
	seconds := cfg.Seconds
	if seconds <= 0 {
		seconds = 60
	}
	fade := cfg.FadeSeconds
	if fade < 0 || fade > seconds {
		fade = 5
	}
	bitrate := cfg.Bitrate
	if bitrate == "" {
		bitrate = "192k"
	}
	return &CLI{binary: binary, seconds: seconds, fadeSeconds: fade, bitrate: bitrate}
}

// MakeClip writes the first N seconds of inputPath to outputPath, fading out
// over the final fade window.
func (c *CLI) MakeClip(ctx context.Context, inputPath, outputPath string) error {
	if inputPath == "" {
		return errors.New("input path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}

	args := []string{
		"-y",
		"-i", inputPath,
		"-t", strconv.Itoa(c.seconds),
	}
	if c.fadeSeconds > 0 {
		fadeStart := c.seconds - c.fadeSeconds
		args = append(args, "-af", fmt.Sprintf("afade=t=out:st=%d:d=%d", fadeStart, c.fadeSeconds))
	}
	args = append(args,
		"-codec:a", "libmp3lame",
		"-b:a", c.bitrate,
		outputPath,
	)

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg clip failed: %w: %s", err, lastLine(output))
	}
	return nil
}

// ffmpeg reports its failure reason on the last stderr line.
func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

var _ Clipper = (*CLI)(nil)
