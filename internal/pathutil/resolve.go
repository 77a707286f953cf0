// Package pathutil expands user-supplied file paths.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand turns a --config or --output argument into an absolute path.
// A leading "~" is replaced with the home directory; an empty path stays
// empty so callers can fall back to their default location.
func Expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}

	return filepath.Abs(path)
}
