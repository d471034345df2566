// Package iotext reads and writes the UTF-8 text files cloakctl operates on.
package iotext

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// ReadTextFile reads a file and validates that its contents are UTF-8 text.
func ReadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("read %s: contents are not valid UTF-8 text", path)
	}
	return string(data), nil
}

// WriteTextFile writes text to a file, creating parent directories as needed.
func WriteTextFile(path, text string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ResolveInput treats the argument as a path if a regular file exists there,
// otherwise as literal text. The second return reports whether a file was
// read.
func ResolveInput(arg string) (string, bool, error) {
	info, err := os.Stat(arg)
	if err != nil || info.IsDir() {
		return arg, false, nil
	}

	text, err := ReadTextFile(arg)
	if err != nil {
		return "", true, err
	}
	return text, true, nil
}
