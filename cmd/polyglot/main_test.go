package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/polyglot-cli/polyglot/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestShouldPrintUsageHint(t *testing.T) {
	t.Parallel()

	require.True(t, shouldPrintUsageHint(errors.New("unknown command \"bad\" for \"polyglot\"")))
	require.True(t, shouldPrintUsageHint(errors.New("unknown flag: --oops")))
	require.True(t, shouldPrintUsageHint(errors.New("required flag(s) \"target\" not set")))
	require.True(t, shouldPrintUsageHint(errors.New("either --input or --stdin must be specified")))
	require.False(t, shouldPrintUsageHint(errors.New("download model \"base\": context deadline exceeded")))
	require.False(t, shouldPrintUsageHint(nil))
}

func TestShouldNotPrintUsageHintForResultFailure(t *testing.T) {
	t.Parallel()

	require.False(t, shouldPrintUsageHint(cli.ErrResultFailure))
	require.False(t, shouldPrintUsageHint(fmt.Errorf("wrapped: %w", cli.ErrResultFailure)))
}

func TestHelpHintTarget(t *testing.T) {
	t.Parallel()

	root := cli.NewRootCmd()
	require.Equal(t, "polyglot", helpHintTarget(root, []string{"--badflag"}))
	require.Equal(t, "polyglot", helpHintTarget(root, []string{"badcmd"}))
	require.Equal(t, "polyglot transcribe", helpHintTarget(root, []string{"transcribe"}))
	require.Equal(t, "polyglot translate", helpHintTarget(root, []string{"translate", "--target"}))
}
