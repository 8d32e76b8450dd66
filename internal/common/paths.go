package common

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// CleanPath sanitizes a file path and makes it absolute
func CleanPath(p string) (string, error) {
	cleaned := filepath.Clean(p)

	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid path: contains directory traversal")
	}

	if !filepath.IsAbs(cleaned) {
		abs, err := filepath.Abs(cleaned)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		cleaned = abs
	}

	return cleaned, nil
}

// TargetPath returns where a remote entry is stored inside outputDir.
// Directory segments of the remote path are flattened to the base name.
func TargetPath(outputDir, remotePath string) (string, error) {
	name := path.Base(strings.TrimSuffix(remotePath, "/"))
	if name == "" || name == "." || name == ".." || name == "/" || strings.ContainsAny(name, `\`) {
		return "", fmt.Errorf("invalid file name in remote path %q", remotePath)
	}
	return filepath.Join(outputDir, name), nil
}
