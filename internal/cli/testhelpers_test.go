package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args []string) (stdout string, stderr string, err error) {
	t.Helper()

	cmd := NewRootCmd()
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)

	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// decodeResult asserts stdout holds exactly one valid JSON document and
// returns it as a generic map.
func decodeResult(t *testing.T, stdout string) map[string]any {
	t.Helper()

	dec := json.NewDecoder(bytes.NewReader([]byte(stdout)))
	var doc map[string]any
	require.NoError(t, dec.Decode(&doc), "stdout should contain valid JSON: %q", stdout)

	var extra any
	require.ErrorIs(t, dec.Decode(&extra), io.EOF, "stdout should contain exactly one JSON document")

	return doc
}
