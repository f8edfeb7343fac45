// Package propfile implements the property-file model used across the
// porting pipeline: permissive reads, line-oriented prefix rewrites,
// key lookups, and the idempotent update-or-append primitive.
//
// A property file is a sequence of lines, each either a comment/blank
// line or a key=value pair. Files are only written back when the
// effective content actually changed.
package propfile

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hyperport/hyperport/pkg/logger"
	"github.com/hyperport/hyperport/pkg/safeio"
)

// Name is the canonical property file name inside firmware partitions.
const Name = "build.prop"

// Enumerate returns every build.prop under root, in deterministic
// (lexical) order. A missing root yields an empty slice.
func Enumerate(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	matches, err := doublestar.Glob(os.DirFS(root), "**/"+Name)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(matches))
	for _, rel := range matches {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(rel)))
	}
	return paths, nil
}

// Lookup returns the value of the first line whose trimmed form starts
// with key=, and whether such a line exists.
func Lookup(content, key string) (string, bool) {
	prefix := key + "="
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, prefix) {
			return strings.TrimSpace(trimmed[len(prefix):]), true
		}
	}
	return "", false
}

// LookupFile is Lookup against a file on disk.
func LookupFile(path, key string) (string, bool, error) {
	content, err := safeio.ReadFileLenient(path)
	if err != nil {
		return "", false, err
	}
	val, ok := Lookup(content, key)
	return val, ok, nil
}

// WriteIfChanged writes content to path only when it differs from the
// previous content. Returns whether a write happened.
func WriteIfChanged(path, previous, content string) (bool, error) {
	if content == previous {
		return false, nil
	}
	if err := safeio.WriteFileStrict(path, content); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateOrAppend sets key to value in the file at path. An existing
// assignment is rewritten only when its text differs from key=value;
// a missing key is appended as a new line preceded by a blank line.
// A missing file is a no-op.
func UpdateOrAppend(path, key, value string) error {
	if !safeio.FileExists(path) {
		return nil
	}
	content, err := safeio.ReadFileLenient(path)
	if err != nil {
		return err
	}

	pattern := regexp.MustCompile(regexp.QuoteMeta(key) + "=.*")
	replacement := key + "=" + value

	if match := pattern.FindString(content); match != "" {
		if match == replacement {
			return nil
		}
		logger.Debug("Updating property",
			logger.String("file", filepath.Base(path)),
			logger.String("key", key),
			logger.String("value", value))
		return safeio.WriteFileStrict(path, pattern.ReplaceAllLiteralString(content, replacement))
	}

	logger.Debug("Appending property",
		logger.String("file", filepath.Base(path)),
		logger.String("key", key),
		logger.String("value", value))
	return safeio.WriteFileStrict(path, content+"\n"+replacement+"\n")
}
