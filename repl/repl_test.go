// Copyright © 2026 The jank authors

package repl

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jank-lang/jank-sub005/compiler"
	"github.com/jank-lang/jank-sub005/diagnostic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string) string {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	errc := make(chan error, 1)
	go func() {
		errc <- Run(context.Background(), compiler.NewDriver(nil, nil), "jank> ",
			WithStdin(inR),
			WithStderr(outW),
			WithHistoryFile(""),
			WithColor(diagnostic.ColorNever))
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup
	require.NoError(t, <-errc)
	return output.String()
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	histFile := filepath.Join(t.TempDir(), ".jank_history")

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	histFile := filepath.Join(t.TempDir(), ".jank_history")
	require.NoError(t, os.WriteFile(histFile, []byte("some history"), 0644)) //nolint:gosec // test fixture

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	data, err := os.ReadFile(histFile) //nolint:gosec // test fixture
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	ensureHistoryFilePermissions("")
}

func TestRun(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Literal",
			input:    "42\n",
			expected: []string{":kind :literal", ":value 42"},
		},
		{
			name:     "Continuation",
			input:    "(if true\n  1\n  2)\n",
			expected: []string{":kind :if", ":position :return"},
		},
		{
			name:     "Def then use",
			input:    "(def x 1)\nx\n",
			expected: []string{":kind :def", ":kind :var-deref"},
		},
		{
			name:     "Error",
			input:    "nope\n",
			expected: []string{"error[unresolved name]: unable to resolve symbol: nope", "--> <repl>:1:1"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := runReplWithString(t, tc.input)
			for _, want := range tc.expected {
				assert.Contains(t, got, want)
			}
		})
	}
}
