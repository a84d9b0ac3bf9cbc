package translate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// LibreTranslate talks to a self-hosted LibreTranslate server.
type LibreTranslate struct {
	BaseURL string
	Client  *http.Client
	Logger  *zap.Logger
}

func NewLibreTranslate(baseURL string, client *http.Client, logger *zap.Logger) *LibreTranslate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibreTranslate{
		BaseURL: baseURL,
		Client:  newHTTPClient(client),
		Logger:  logger,
	}
}

func (l *LibreTranslate) Name() string { return "LibreTranslate" }

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (l *LibreTranslate) Translate(ctx context.Context, req Request) (Result, error) {
	payload, err := json.Marshal(libreRequest{
		Q:      req.Text,
		Source: req.Source,
		Target: req.Target,
		Format: "text",
	})
	if err != nil {
		return Result{}, fmt.Errorf("LibreTranslate error: %v", err)
	}

	endpoint := strings.TrimRight(l.BaseURL, "/") + "/translate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("LibreTranslate error: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	l.Logger.Debug("calling LibreTranslate", zap.String("endpoint", endpoint), zap.String("target", req.Target))
	resp, err := l.Client.Do(httpReq)
	if err != nil {
		if isConnectionError(err) {
			return Result{}, errors.New("LibreTranslate service not available. Please start LibreTranslate server.")
		}
		return Result{}, fmt.Errorf("LibreTranslate error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("LibreTranslate error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("LibreTranslate API error: %d - %s", resp.StatusCode, string(body))
	}

	var parsed libreResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("LibreTranslate error: %v", err)
	}

	// LibreTranslate does not report back the detected language on this
	// endpoint; the requested source (possibly "auto") is echoed as-is.
	return Result{
		TranslatedText: parsed.TranslatedText,
		SourceLanguage: req.Source,
		TargetLanguage: req.Target,
	}, nil
}
