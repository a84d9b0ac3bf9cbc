package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/polyglot-cli/polyglot/internal/audio"
	"github.com/polyglot-cli/polyglot/internal/download"
	"github.com/polyglot-cli/polyglot/internal/platform"
	"github.com/polyglot-cli/polyglot/internal/whisper"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type transcribeOptions struct {
	input        string
	useStdin     bool
	model        string
	language     string
	modelDir     string
	autoDownload bool
}

func newTranscribeCmd(app *appState) *cobra.Command {
	opts := transcribeOptions{model: whisper.DefaultModel, autoDownload: true}

	cmd := &cobra.Command{
		Use:           "transcribe",
		Short:         "Transcribe audio to text and print a JSON result",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !opts.useStdin && strings.TrimSpace(opts.input) == "" {
				return errors.New("either --input or --stdin must be specified")
			}

			payload := app.runTranscribe(cmd.Context(), cmd.InOrStdin(), opts)
			if err := writeResult(cmd.OutOrStdout(), payload); err != nil {
				return err
			}
			if !payload.Success {
				return ErrResultFailure
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Input audio file path")
	cmd.Flags().BoolVar(&opts.useStdin, "stdin", false, "Read raw audio bytes (WebM) from stdin")
	cmd.Flags().StringVarP(&opts.model, "model", "m", opts.model, "Whisper model size: tiny|base|small|medium|large")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Language code hint (optional, auto-detect when empty)")
	cmd.Flags().StringVar(&opts.modelDir, "model-dir", "", "Directory where models are stored")
	cmd.Flags().BoolVar(&opts.autoDownload, "auto-download", opts.autoDownload, "Automatically download missing models")

	return cmd
}

// runTranscribe is the single linear path behind the transcribe command.
// Every failure is folded into the payload; nothing escapes as an error.
func (a *appState) runTranscribe(ctx context.Context, stdin io.Reader, opts transcribeOptions) transcriptionPayload {
	audioPath := opts.input

	if opts.useStdin {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return failedTranscription(fmt.Sprintf("read audio from stdin: %v", err))
		}

		wavFile, err := os.CreateTemp("", "polyglot-*.wav")
		if err != nil {
			return failedTranscription(fmt.Sprintf("create temp audio file: %v", err))
		}
		wavPath := wavFile.Name()
		wavFile.Close()
		// Removed on every exit path, success and failure alike.
		defer os.Remove(wavPath)

		convertFn := a.convertFn
		if convertFn == nil {
			convertFn = a.convertAudio
		}
		if err := convertFn(ctx, raw, wavPath); err != nil {
			return failedTranscription(fmt.Sprintf("Failed to convert audio format: %v", err))
		}
		audioPath = wavPath

		return a.transcribeToPayload(ctx, opts, audioPath)
	}

	if _, err := os.Stat(audioPath); err != nil {
		return failedTranscription(fmt.Sprintf("Input file not found: %s", audioPath))
	}

	return a.transcribeToPayload(ctx, opts, audioPath)
}

func (a *appState) transcribeToPayload(ctx context.Context, opts transcribeOptions, audioPath string) transcriptionPayload {
	transcribeFn := a.transcribeFn
	if transcribeFn == nil {
		transcribeFn = a.transcribeAudio
	}

	tr, err := transcribeFn(ctx, opts, audioPath)
	if err != nil {
		a.log().Warn("transcription failed", zap.Error(err))
		return failedTranscription(err.Error())
	}

	segments := make([]segmentPayload, 0, len(tr.Segments))
	for _, seg := range tr.Segments {
		segments = append(segments, segmentPayload{Start: seg.Start, End: seg.End, Text: seg.Text})
	}

	return transcriptionPayload{
		Success:  true,
		Text:     tr.Text,
		Language: tr.Language,
		Segments: segments,
	}
}

func (a *appState) transcribeAudio(ctx context.Context, opts transcribeOptions, audioPath string) (whisper.Transcription, error) {
	model, err := a.ensureModelAvailable(ctx, opts)
	if err != nil {
		return whisper.Transcription{}, err
	}

	engine, err := whisper.NewLocalEngine(a.log(), a.env.WhisperPath)
	if err != nil {
		return whisper.Transcription{}, err
	}

	language := sanitizeLanguage(opts.language)
	a.log().Info("transcribing...", zap.String("audio", audioPath), zap.String("model", model.Path), zap.String("language", language))
	stopSpinner := startSpinner(a.progressEnabled(), "Transcribing")
	started := time.Now()

	tr, err := engine.Transcribe(ctx, whisper.TranscriptionRequest{
		AudioPath: audioPath,
		ModelPath: model.Path,
		Language:  language,
	})
	stopSpinner()
	if err != nil {
		return whisper.Transcription{}, err
	}
	a.log().Info("transcription finished", zap.Duration("elapsed", time.Since(started)), zap.Int("segments", len(tr.Segments)))

	return tr, nil
}

func (a *appState) ensureModelAvailable(ctx context.Context, opts transcribeOptions) (whisper.ResolvedModel, error) {
	modelDir, err := a.modelStorageDir(opts.modelDir)
	if err != nil {
		return whisper.ResolvedModel{}, err
	}

	resolved, err := whisper.ResolveModel(opts.model, modelDir)
	if err != nil {
		return whisper.ResolvedModel{}, err
	}

	if !resolved.NeedsDownload {
		return resolved, nil
	}

	if !opts.autoDownload {
		return whisper.ResolvedModel{}, fmt.Errorf("model %q is missing at %s; run `polyglot setup --model %s` or use --auto-download=true", resolved.Name, resolved.Path, resolved.Name)
	}

	a.log().Info("model not found, downloading", zap.String("model", resolved.Name), zap.String("destination", resolved.Path))
	if err := download.DownloadFile(ctx, download.Options{
		URL:            resolved.URL,
		Destination:    resolved.Path,
		ExpectedSHA256: resolved.SHA256,
		NoProgress:     a.noProgress,
		Logger:         a.log(),
	}); err != nil {
		return whisper.ResolvedModel{}, fmt.Errorf("download model %q: %w", resolved.Name, err)
	}

	resolved.NeedsDownload = false
	return resolved, nil
}

func (a *appState) modelStorageDir(override string) (string, error) {
	if override == "" {
		override = a.env.ModelDir
	}
	dir, err := platform.ResolveModelDir(override)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory %s: %w", filepath.Clean(dir), err)
	}
	return dir, nil
}

func (a *appState) convertAudio(ctx context.Context, raw []byte, outputPath string) error {
	conv := audio.NewConverter(a.env.FFmpegPath, a.log())
	return conv.ConvertToWAV(ctx, raw, outputPath)
}
