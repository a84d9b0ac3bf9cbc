package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/polyglot-cli/polyglot/internal/translate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type translateOptions struct {
	text     string
	useStdin bool
	target   string
	source   string
	service  string
	apiKey   string
	apiURL   string
}

func newTranslateCmd(app *appState) *cobra.Command {
	opts := translateOptions{
		source:  "auto",
		service: "libretranslate",
		apiURL:  "http://localhost:5000",
	}

	cmd := &cobra.Command{
		Use:           "translate",
		Short:         "Translate text and print a JSON result",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !opts.useStdin && !cmd.Flags().Changed("text") {
				return errors.New("either --text or --stdin must be specified")
			}

			// Environment defaults fill in what the flags left unset.
			if !cmd.Flags().Changed("api-url") && app.env.APIURL != "" {
				opts.apiURL = app.env.APIURL
			}
			if opts.apiKey == "" {
				opts.apiKey = app.env.APIKey
			}

			if opts.useStdin {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					payload := failedTranslation(opts.source, opts.target, opts.service, fmt.Sprintf("read text from stdin: %v", err))
					if werr := writeResult(cmd.OutOrStdout(), payload); werr != nil {
						return werr
					}
					return ErrResultFailure
				}
				opts.text = strings.TrimSpace(string(raw))
			}

			payload := app.runTranslate(cmd.Context(), opts)
			if err := writeResult(cmd.OutOrStdout(), payload); err != nil {
				return err
			}
			if !payload.Success {
				return ErrResultFailure
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "Text to translate")
	cmd.Flags().BoolVar(&opts.useStdin, "stdin", false, "Read text from stdin (overrides --text)")
	cmd.Flags().StringVar(&opts.target, "target", "", "Target language code")
	cmd.Flags().StringVar(&opts.source, "source", opts.source, "Source language code")
	cmd.Flags().StringVarP(&opts.service, "service", "s", opts.service, "Translation service: libretranslate|google")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "API key for Google Translate")
	cmd.Flags().StringVar(&opts.apiURL, "api-url", opts.apiURL, "LibreTranslate API URL")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

// runTranslate makes at most one outbound call and folds every failure into
// the payload.
func (a *appState) runTranslate(ctx context.Context, opts translateOptions) translationPayload {
	if strings.TrimSpace(opts.text) == "" {
		return failedTranslation(opts.source, opts.target, opts.service, "No text to translate")
	}

	translatorFn := a.translatorFn
	if translatorFn == nil {
		translatorFn = translate.New
	}

	translator, err := translatorFn(opts.service, translate.Options{
		BaseURL: opts.apiURL,
		APIKey:  opts.apiKey,
		Logger:  a.log(),
	})
	if err != nil {
		return failedTranslation(opts.source, opts.target, opts.service, err.Error())
	}

	a.log().Info("translating...", zap.String("service", translator.Name()), zap.String("source", opts.source), zap.String("target", opts.target))
	result, err := translator.Translate(ctx, translate.Request{
		Text:   opts.text,
		Source: opts.source,
		Target: opts.target,
	})
	if err != nil {
		a.log().Warn("translation failed", zap.String("service", translator.Name()), zap.Error(err))
		return failedTranslation(opts.source, opts.target, translator.Name(), err.Error())
	}

	return translationPayload{
		Success:        true,
		TranslatedText: result.TranslatedText,
		SourceLanguage: result.SourceLanguage,
		TargetLanguage: result.TargetLanguage,
		Service:        translator.Name(),
	}
}
