// Package filestore persists uploaded files and serves them back by key.
package filestore

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"regexp"
	"strconv"
	"strings"
)

var ErrNotFound = errors.New("file not found")

type FileStore interface {
	// Save writes r under exactly name and returns the key to open it by.
	Save(ctx context.Context, name string, r io.Reader) (key string, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}

var nonWord = regexp.MustCompile(`[^\w\-]+`)

// StoredName derives the on-disk name for an uploaded file:
// <sanitized-base>_<stamp><ext>. Only the base name of original is used and
// every run of characters outside [A-Za-z0-9_-] becomes a single underscore.
func StoredName(original string, stamp int64) string {
	original = strings.ReplaceAll(original, `\`, "/")
	base := path.Base(original)
	if base == "." || base == "/" {
		base = ""
	}

	ext := path.Ext(base)
	base = nonWord.ReplaceAllString(strings.TrimSuffix(base, ext), "_")
	return base + "_" + strconv.FormatInt(stamp, 10) + ext
}

// ContentType guesses a MIME type from the key's extension.
func ContentType(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
