package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const googleEndpoint = "https://translation.googleapis.com/language/translate/v2"

// GoogleTranslate calls the Google Cloud Translation v2 REST API with a
// caller-supplied API key.
type GoogleTranslate struct {
	APIKey   string
	Endpoint string // overridable for tests
	Client   *http.Client
	Logger   *zap.Logger
}

func NewGoogleTranslate(apiKey string, client *http.Client, logger *zap.Logger) *GoogleTranslate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleTranslate{
		APIKey:   apiKey,
		Endpoint: googleEndpoint,
		Client:   newHTTPClient(client),
		Logger:   logger,
	}
}

func (g *GoogleTranslate) Name() string { return "Google Translate" }

type googleResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
}

func (g *GoogleTranslate) Translate(ctx context.Context, req Request) (Result, error) {
	if g.APIKey == "" {
		// Checked before any network traffic.
		return Result{}, errors.New("Google Translate API key not provided")
	}

	params := url.Values{}
	params.Set("key", g.APIKey)
	params.Set("q", req.Text)
	params.Set("target", req.Target)
	params.Set("format", "text")
	if req.Source != "auto" {
		params.Set("source", req.Source)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("Google Translate error: %v", err)
	}

	g.Logger.Debug("calling Google Translate", zap.String("target", req.Target))
	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("Google Translate error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("Google Translate error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("Google Translate API error: %d - %s", resp.StatusCode, string(body))
	}

	var parsed googleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("Google Translate error: %v", err)
	}
	if len(parsed.Data.Translations) == 0 {
		return Result{}, fmt.Errorf("Google Translate error: response contained no translations")
	}

	translation := parsed.Data.Translations[0]
	sourceLang := req.Source
	if translation.DetectedSourceLanguage != "" {
		sourceLang = translation.DetectedSourceLanguage
	}

	return Result{
		TranslatedText: translation.TranslatedText,
		SourceLanguage: sourceLang,
		TargetLanguage: req.Target,
	}, nil
}
