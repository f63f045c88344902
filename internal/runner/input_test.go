// internal/runner/input_test.go
package runner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInputFromFlag(t *testing.T) {
	text, err := ResolveInput("hello world", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestResolveInputFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instruction.txt")
	err := os.WriteFile(path, []byte("prompt from file"), 0644)
	require.NoError(t, err)

	text, err := ResolveInput("", path, nil)
	require.NoError(t, err)
	assert.Equal(t, "prompt from file", text)
}

func TestResolveInputFromStdin(t *testing.T) {
	reader := strings.NewReader("piped input")
	text, err := ResolveInput("", "", reader)
	require.NoError(t, err)
	assert.Equal(t, "piped input", text)
}

func TestResolveInputFlagTakesPrecedence(t *testing.T) {
	reader := strings.NewReader("stdin")
	text, err := ResolveInput("flag wins", "", reader)
	require.NoError(t, err)
	assert.Equal(t, "flag wins", text)
}

func TestResolveInputFileTakesPrecedenceOverStdin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instruction.txt")
	err := os.WriteFile(path, []byte("file wins"), 0644)
	require.NoError(t, err)

	reader := strings.NewReader("stdin")
	text, err := ResolveInput("", path, reader)
	require.NoError(t, err)
	assert.Equal(t, "file wins", text)
}

func TestResolveInputNoInput(t *testing.T) {
	_, err := ResolveInput("", "", nil)
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = ResolveInput("", "", strings.NewReader("  \n"))
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestResolveInputEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instruction.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0644))

	_, err := ResolveInput("", path, nil)
	assert.ErrorContains(t, err, "instruction file is empty")
}

func TestResolveInputFileMissing(t *testing.T) {
	_, err := ResolveInput("", "/nonexistent/path.txt", nil)
	require.Error(t, err)
}

func TestResolveInputBlankFlag(t *testing.T) {
	_, err := ResolveInput("   ", "", nil)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestReadFileOrStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.md")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0644))

	data, err := ReadFileOrStdin(path, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "from file", string(data))

	data, err = ReadFileOrStdin("-", strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(data))

	_, err = ReadFileOrStdin("-", nil)
	assert.Error(t, err)

	_, err = ReadFileOrStdin(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}
