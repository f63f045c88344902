// internal/runner/input.go
package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoInput is returned by ResolveInput when no source supplied text.
var ErrNoInput = errors.New("no instruction provided: use --instruction, --instruction-file, pipe to stdin, or --interactive")

// ResolveInput determines the user instruction from the available sources.
// Priority: flag > filePath > stdinReader.
// stdinReader may be nil if stdin is a TTY (no pipe).
func ResolveInput(flag, filePath string, stdinReader io.Reader) (string, error) {
	if text := strings.TrimSpace(flag); text != "" {
		return text, nil
	}

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("reading instruction file: %w", err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", fmt.Errorf("instruction file is empty: %s", filePath)
		}
		return text, nil
	}

	if stdinReader != nil {
		data, err := io.ReadAll(stdinReader)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			return text, nil
		}
	}

	return "", ErrNoInput
}

// ReadFileOrStdin reads path, or all of stdin when path is "-".
func ReadFileOrStdin(path string, stdin io.Reader) ([]byte, error) {
	if path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return data, nil
	}
	if stdin == nil {
		return nil, fmt.Errorf("reading stdin: no input attached")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}
