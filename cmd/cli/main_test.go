package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/scripthub/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_InvalidDefinitions(t *testing.T) {
	t.Parallel()

	// A definitions file with a syntax error must fail startup with a usage/config exit code.
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	err := os.WriteFile(filePath, []byte("script \"broken\" {\n  name = \"Broken\"\n"), 0600)
	require.NoError(t, err, "failed to set up test file")

	out := &bytes.Buffer{}
	runErr := run(context.Background(), out, &bytes.Buffer{}, []string{"--project-root", tempDir, "--definitions", filePath, "workflows"})

	require.Error(t, runErr)
	exitErr, ok := runErr.(*cli.ExitError)
	require.True(t, ok, "run() should return an ExitError")
	require.Equal(t, cli.ExitUsage, exitErr.Code)
	require.Contains(t, exitErr.Message, "failed to parse")
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error for --help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}
