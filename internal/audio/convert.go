package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// Converter normalizes a compressed audio container (WebM from the host
// recorder) into a 16 kHz mono 16-bit PCM WAV file via ffmpeg.
type Converter struct {
	// FFmpegPath overrides encoder discovery; empty means look up
	// "ffmpeg" on PATH.
	FFmpegPath string
	Logger     *zap.Logger

	lookPath func(string) (string, error)
}

func NewConverter(ffmpegPath string, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{FFmpegPath: ffmpegPath, Logger: logger, lookPath: exec.LookPath}
}

// ConvertToWAV writes raw container bytes to outputPath as normalized WAV.
// When ffmpeg is unavailable or the conversion fails, the raw bytes are
// written through unchanged as a best-effort fallback; the downstream model
// may still be able to decode them. An error is returned only when nothing
// could be written at all.
func (c *Converter) ConvertToWAV(ctx context.Context, raw []byte, outputPath string) error {
	if len(raw) == 0 {
		return fmt.Errorf("no audio data to convert")
	}

	containerFile, err := os.CreateTemp("", "polyglot-*.webm")
	if err != nil {
		return fmt.Errorf("create temp container file: %w", err)
	}
	containerPath := containerFile.Name()
	defer os.Remove(containerPath)

	if _, err := containerFile.Write(raw); err != nil {
		containerFile.Close()
		return fmt.Errorf("write temp container file: %w", err)
	}
	if err := containerFile.Close(); err != nil {
		return fmt.Errorf("close temp container file: %w", err)
	}

	ffmpeg, err := c.resolveFFmpeg()
	if err != nil {
		c.Logger.Warn("ffmpeg not found; passing audio through unconverted", zap.Error(err))
		return c.passthrough(raw, outputPath)
	}

	// ffmpeg -i in.webm -vn -acodec pcm_s16le -ar 16000 -ac 1 -y out.wav
	cmd := exec.CommandContext(ctx, ffmpeg,
		"-i", containerPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y", outputPath,
	)
	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr

	c.Logger.Debug("converting audio", zap.String("ffmpeg", ffmpeg), zap.String("output", outputPath))
	if err := cmd.Run(); err != nil {
		c.Logger.Warn("ffmpeg conversion failed; passing audio through unconverted",
			zap.Error(err), zap.String("stderr", stderr.String()))
		return c.passthrough(raw, outputPath)
	}

	return nil
}

func (c *Converter) passthrough(raw []byte, outputPath string) error {
	if err := os.WriteFile(outputPath, raw, 0o644); err != nil {
		return fmt.Errorf("write audio passthrough: %w", err)
	}
	return nil
}

func (c *Converter) resolveFFmpeg() (string, error) {
	if c.FFmpegPath != "" {
		if _, err := os.Stat(c.FFmpegPath); err != nil {
			return "", fmt.Errorf("configured ffmpeg path: %w", err)
		}
		return c.FFmpegPath, nil
	}

	look := c.lookPath
	if look == nil {
		look = exec.LookPath
	}
	return look("ffmpeg")
}
