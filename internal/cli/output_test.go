package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteResultPreservesNonASCII(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	payload := translationPayload{
		Success:        true,
		TranslatedText: "héllo 世界 & <co>",
		SourceLanguage: "auto",
		TargetLanguage: "ja",
		Service:        "LibreTranslate",
	}
	require.NoError(t, writeResult(out, payload))

	rendered := out.String()
	require.Contains(t, rendered, "héllo 世界 & <co>", "non-ASCII and HTML runes must survive literally")
	require.NotContains(t, rendered, `\u`)

	decodeResult(t, rendered)
}

func TestWriteResultPrettyPrints(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	require.NoError(t, writeResult(out, failedTranscription("boom")))

	require.True(t, strings.HasPrefix(out.String(), "{\n  \"success\""), "expected indented output, got: %s", out.String())
	require.True(t, strings.HasSuffix(out.String(), "}\n"))
}

func TestFailedTranscriptionShape(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	require.NoError(t, writeResult(out, failedTranscription("it broke")))

	doc := decodeResult(t, out.String())
	require.Equal(t, false, doc["success"])
	require.Equal(t, "it broke", doc["error"])
	require.Equal(t, "unknown", doc["language"])
	require.Equal(t, "", doc["text"])

	segments, ok := doc["segments"].([]any)
	require.True(t, ok, "segments must encode as a JSON array, not null")
	require.Empty(t, segments)
}

func TestFailedTranslationShape(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	require.NoError(t, writeResult(out, failedTranslation("auto", "es", "libretranslate", "down")))

	doc := decodeResult(t, out.String())
	require.Equal(t, false, doc["success"])
	require.Equal(t, "", doc["translated_text"])
	require.Equal(t, "auto", doc["source_language"])
	require.Equal(t, "es", doc["target_language"])
	require.Equal(t, "libretranslate", doc["service"])
	require.Equal(t, "down", doc["error"])
}
