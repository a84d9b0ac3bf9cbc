package cli

import (
	"fmt"

	"github.com/polyglot-cli/polyglot/internal/download"
	"github.com/polyglot-cli/polyglot/internal/whisper"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// setup is an operator command: it pre-installs model files so the first
// transcription run by the host application does not block on a download.
func newSetupCmd(app *appState) *cobra.Command {
	var model, modelDir string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Download and verify speech model assets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := app.modelStorageDir(modelDir)
			if err != nil {
				return err
			}

			resolved, err := whisper.ResolveModel(model, dir)
			if err != nil {
				return err
			}

			if !resolved.NeedsDownload {
				if err := download.VerifyFileChecksum(resolved.Path, resolved.SHA256); err != nil {
					app.log().Warn("model checksum verification failed; downloading fresh copy", zap.String("model", resolved.Name), zap.Error(err))
					resolved.NeedsDownload = true
				}
			}

			if !resolved.NeedsDownload {
				app.log().Info("model already present", zap.String("model", resolved.Name), zap.String("path", resolved.Path))
				fmt.Fprintf(cmd.OutOrStdout(), "Model %s already present at %s\n", resolved.Name, resolved.Path)
				return nil
			}

			app.log().Info("downloading model", zap.String("model", resolved.Name), zap.String("path", resolved.Path))
			if err := download.DownloadFile(cmd.Context(), download.Options{
				URL:            resolved.URL,
				Destination:    resolved.Path,
				ExpectedSHA256: resolved.SHA256,
				NoProgress:     app.noProgress,
				Logger:         app.log(),
			}); err != nil {
				return fmt.Errorf("download model %s: %w", resolved.Name, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Model %s installed at %s\n", resolved.Name, resolved.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", whisper.DefaultModel, "Whisper model size: tiny|base|small|medium|large")
	cmd.Flags().StringVar(&modelDir, "model-dir", "", "Directory where models are stored")

	return cmd
}
