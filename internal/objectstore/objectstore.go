// Package objectstore uploads site images to an S3-compatible bucket and
// maps their public URLs back to object paths.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

// Store is one bucket of publicly readable objects.
type Store interface {
	// Upload writes the object at objectPath and returns its public URL.
	Upload(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectPath string) error
	// PathFromURL derives the object path from a URL returned by Upload.
	PathFromURL(publicURL string) (string, bool)
}

var ErrNotConfigured = errors.New("armazenamento de imagens não configurado")

// Noop fails uploads and deletes; used when no storage driver is configured.
type Noop struct{}

func (Noop) Upload(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", ErrNotConfigured
}

func (Noop) Delete(context.Context, string) error { return ErrNotConfigured }

func (Noop) PathFromURL(string) (string, bool) { return "", false }

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectPath builds "<prefix>/<unixmilli>-<seq>-<name>" with the file name
// reduced to URL-safe characters. seq tells apart files of one upload.
func ObjectPath(prefix, filename string, now time.Time, seq int) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = unsafeNameChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		name = "image"
	}
	return fmt.Sprintf("%s/%d-%d-%s", strings.Trim(prefix, "/"), now.UnixMilli(), seq, name)
}

func cleanKey(objectPath string) (string, error) {
	key := strings.Trim(strings.TrimSpace(objectPath), "/")
	if key == "" {
		return "", errors.New("object path is required")
	}
	return key, nil
}

// pathUnder returns the part of publicURL after base, unescaped.
func pathUnder(base, publicURL string) (string, bool) {
	base = strings.TrimRight(base, "/") + "/"
	if base == "/" || !strings.HasPrefix(publicURL, base) {
		return "", false
	}
	rest := strings.TrimPrefix(publicURL, base)
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	unescaped, err := url.PathUnescape(rest)
	if err != nil || unescaped == "" {
		return "", false
	}
	return unescaped, true
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
