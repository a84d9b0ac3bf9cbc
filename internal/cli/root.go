package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/polyglot-cli/polyglot/internal/config"
	"github.com/polyglot-cli/polyglot/internal/logging"
	"github.com/polyglot-cli/polyglot/internal/translate"
	"github.com/polyglot-cli/polyglot/internal/version"
	"github.com/polyglot-cli/polyglot/internal/whisper"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// ErrResultFailure marks a run whose failure has already been reported as a
// JSON document on stdout. The caller maps it to exit code 1 without
// printing anything further.
var ErrResultFailure = errors.New("command produced a failure result")

type appState struct {
	verbose    bool
	jsonLogs   bool
	noProgress bool

	logger *zap.Logger
	env    config.Env

	// Injectable seams for tests.
	transcribeFn func(ctx context.Context, opts transcribeOptions, audioPath string) (whisper.Transcription, error)
	convertFn    func(ctx context.Context, raw []byte, outputPath string) error
	translatorFn func(service string, opts translate.Options) (translate.Translator, error)
}

func NewRootCmd() *cobra.Command {
	app := &appState{}
	app.transcribeFn = app.transcribeAudio
	app.convertFn = app.convertAudio
	app.translatorFn = translate.New

	cmd := &cobra.Command{
		Use:           "polyglot",
		Short:         "Speech transcription and text translation helpers",
		Long:          "Single-shot helpers spawned by a host desktop application: transcribe audio with a local whisper model or translate text through LibreTranslate or Google Translate. Each run prints exactly one JSON result document on stdout.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Options{Verbose: app.verbose, JSON: app.jsonLogs})
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			app.logger = logger
			app.env = config.Load()
			return nil
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&app.verbose, "verbose", app.verbose, "Enable verbose logs")
	cmd.PersistentFlags().BoolVar(&app.jsonLogs, "json-logs", app.jsonLogs, "Log diagnostics as JSON")
	cmd.PersistentFlags().BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")

	cmd.AddCommand(newTranscribeCmd(app))
	cmd.AddCommand(newTranslateCmd(app))
	cmd.AddCommand(newSetupCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func sanitizeLanguage(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if trimmed == "" {
		return "auto"
	}
	return trimmed
}
