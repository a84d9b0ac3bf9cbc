package cli

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// The payload shapes below are the wire contract with the host application.
// Field order and names must stay stable.

type segmentPayload struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type transcriptionPayload struct {
	Success  bool             `json:"success"`
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Segments []segmentPayload `json:"segments"`
	Error    string           `json:"error,omitempty"`
}

type translationPayload struct {
	Success        bool   `json:"success"`
	TranslatedText string `json:"translated_text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Service        string `json:"service"`
	Error          string `json:"error,omitempty"`
}

// writeResult emits the one and only stdout document: pretty-printed JSON
// with non-ASCII characters and HTML-sensitive runes preserved literally.
func writeResult(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func failedTranscription(message string) transcriptionPayload {
	return transcriptionPayload{
		Language: "unknown",
		Segments: []segmentPayload{},
		Error:    message,
	}
}

func failedTranslation(source, target, service, message string) translationPayload {
	return translationPayload{
		SourceLanguage: source,
		TargetLanguage: target,
		Service:        service,
		Error:          message,
	}
}
