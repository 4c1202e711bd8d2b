package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const DefaultFilename = "export.csv"

// Write stores the server-built CSV verbatim under dir and returns the path
// written. Only the base name of filename is used.
func Write(dir, filename, csvData string) (string, error) {
	name := safeName(filename)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(csvData), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

func safeName(filename string) string {
	name := strings.TrimSpace(filepath.Base(strings.ReplaceAll(filename, "\\", "/")))
	switch name {
	case "", ".", "/", "..":
		return DefaultFilename
	}
	return name
}
