// Package safeio holds the file IO conventions shared by every pass:
// permissive reads that tolerate undecodable byte sequences, strict
// UTF-8 writes, and mode-preserving rewrites.
package safeio

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// ReadFileLenient reads a file and decodes it as UTF-8, replacing any
// malformed byte sequence with the Unicode replacement character instead
// of failing. Firmware trees routinely contain property files with stray
// bytes from vendor tooling.
func ReadFileLenient(path string) (string, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- paths come from an enumerated working tree
	if err != nil {
		return "", err
	}
	decoded, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return string(decoded), nil
}

// WriteFileStrict writes UTF-8 text, rejecting content that is not valid
// UTF-8, and preserves the existing file mode when the file already
// exists. New files get 0644.
func WriteFileStrict(path string, content string) error {
	if !utf8.ValidString(content) {
		return fmt.Errorf("refusing to write invalid UTF-8 to %s", path)
	}
	var mode os.FileMode = 0o644
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode() & 0o777
		if mode == 0 {
			mode = 0o644
		}
	}
	return os.WriteFile(path, []byte(content), mode)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}
