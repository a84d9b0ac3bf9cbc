// Package translate dispatches a single translation request to one of two
// providers: a self-hosted LibreTranslate server or the Google Translate v2
// REST API. One outbound call per invocation, no retries.
package translate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// requestTimeout bounds every outbound provider call.
const requestTimeout = 30 * time.Second

type Request struct {
	Text   string
	Source string // "auto" requests provider-side detection
	Target string
}

type Result struct {
	TranslatedText string
	SourceLanguage string
	TargetLanguage string
}

type Translator interface {
	// Name is the human-readable provider label reported in results.
	Name() string
	Translate(ctx context.Context, req Request) (Result, error)
}

type Options struct {
	BaseURL    string // LibreTranslate server, e.g. http://localhost:5000
	APIKey     string // Google Translate credential
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// New selects a provider by its CLI identifier. Unknown identifiers yield
// an error naming the service verbatim so the caller can surface it.
func New(service string, opts Options) (Translator, error) {
	switch strings.ToLower(strings.TrimSpace(service)) {
	case "libretranslate":
		return NewLibreTranslate(opts.BaseURL, opts.HTTPClient, opts.Logger), nil
	case "google":
		return NewGoogleTranslate(opts.APIKey, opts.HTTPClient, opts.Logger), nil
	default:
		return nil, fmt.Errorf("Unknown translation service: %s", service)
	}
}

func newHTTPClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: requestTimeout}
}

// isConnectionError reports whether err means the remote endpoint could not
// be reached at all (refused connection, unresolvable host), as opposed to
// an HTTP-level or timeout failure.
func isConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
