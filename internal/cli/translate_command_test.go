package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/polyglot-cli/polyglot/internal/translate"
	"github.com/stretchr/testify/require"
)

func newTranslateTestCmd(app *appState, args []string) (*bytes.Buffer, func() error) {
	out := new(bytes.Buffer)
	cmd := newTranslateCmd(app)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	return out, cmd.Execute
}

func TestTranslateEmptyTextShortCircuits(t *testing.T) {
	t.Parallel()

	factoryCalls := 0
	app := &appState{
		translatorFn: func(service string, opts translate.Options) (translate.Translator, error) {
			factoryCalls++
			return translate.New(service, opts)
		},
	}

	out, execute := newTranslateTestCmd(app, []string{"--text", "   ", "--target", "es"})
	err := execute()
	require.ErrorIs(t, err, ErrResultFailure)
	require.Zero(t, factoryCalls, "no provider may be constructed for empty input")

	doc := decodeResult(t, out.String())
	require.Equal(t, false, doc["success"])
	require.Equal(t, "No text to translate", doc["error"])
	require.Equal(t, "libretranslate", doc["service"])
	require.Equal(t, "auto", doc["source_language"])
	require.Equal(t, "es", doc["target_language"])
	require.Equal(t, "", doc["translated_text"])
}

func TestTranslateGoogleWithoutKeyMakesNoNetworkCall(t *testing.T) {
	t.Parallel()

	app := &appState{}
	out, execute := newTranslateTestCmd(app, []string{"--text", "hello", "--target", "es", "--service", "google"})

	err := execute()
	require.ErrorIs(t, err, ErrResultFailure)

	doc := decodeResult(t, out.String())
	require.Equal(t, false, doc["success"])
	require.Contains(t, doc["error"], "Google Translate API key not provided")
	require.Equal(t, "Google Translate", doc["service"])
}

func TestTranslateUnknownServiceNamesItVerbatim(t *testing.T) {
	t.Parallel()

	app := &appState{}
	out, execute := newTranslateTestCmd(app, []string{"--text", "hello", "--target", "es", "--service", "deepl"})

	err := execute()
	require.ErrorIs(t, err, ErrResultFailure)

	doc := decodeResult(t, out.String())
	require.Equal(t, false, doc["success"])
	require.Contains(t, doc["error"], "deepl")
	require.Equal(t, "deepl", doc["service"])
}

func TestTranslateLibreTranslateHappyPath(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/translate", r.URL.Path)
		w.Write([]byte(`{"translatedText":"hola"}`))
	}))
	defer server.Close()

	app := &appState{}
	out, execute := newTranslateTestCmd(app, []string{
		"--text", "hello", "--target", "es", "--service", "libretranslate", "--api-url", server.URL,
	})

	require.NoError(t, execute())

	doc := decodeResult(t, out.String())
	require.Equal(t, true, doc["success"])
	require.Equal(t, "hola", doc["translated_text"])
	require.Equal(t, "auto", doc["source_language"])
	require.Equal(t, "es", doc["target_language"])
	require.Equal(t, "LibreTranslate", doc["service"])
	require.NotContains(t, doc, "error")
}

func TestTranslateUnreachableServer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	app := &appState{}
	out, execute := newTranslateTestCmd(app, []string{"--text", "hello", "--target", "es", "--api-url", url})

	err := execute()
	require.ErrorIs(t, err, ErrResultFailure)

	doc := decodeResult(t, out.String())
	require.Equal(t, false, doc["success"])
	require.Contains(t, doc["error"], "LibreTranslate service not available")
	require.Equal(t, "LibreTranslate", doc["service"])
}

func TestTranslateStdinOverridesTextFlag(t *testing.T) {
	t.Parallel()

	var gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Q string `json:"q"`
		}
		require.NoError(t, decodeJSONBody(r, &body))
		gotText = body.Q
		w.Write([]byte(`{"translatedText":"ok"}`))
	}))
	defer server.Close()

	app := &appState{}
	out := new(bytes.Buffer)
	cmd := newTranslateCmd(app)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetIn(bytes.NewReader([]byte("  from stdin \n")))
	cmd.SetArgs([]string{"--text", "from flag", "--stdin", "--target", "de", "--api-url", server.URL})

	require.NoError(t, cmd.Execute())
	require.Equal(t, "from stdin", gotText, "stdin text should be trimmed and override --text")
}

func TestTranslateRequiresTargetFlag(t *testing.T) {
	t.Parallel()

	app := &appState{}
	out, execute := newTranslateTestCmd(app, []string{"--text", "hello"})

	err := execute()
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrResultFailure)
	require.Contains(t, err.Error(), "target")
	require.Empty(t, out.String())
}

func TestTranslateRequiresTextOrStdin(t *testing.T) {
	t.Parallel()

	app := &appState{}
	out, execute := newTranslateTestCmd(app, []string{"--target", "es"})

	err := execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "either --text or --stdin must be specified")
	require.Empty(t, out.String())
}

func decodeJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), v)
}
