// Package storage keeps uploaded document scans in an object store and
// hands out the public URLs recorded on applications and employees.
package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrInvalidKey = errors.New("invalid object key")
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// FileStorage is implemented by every object backend.
type FileStorage interface {
	// Put stores r under key and returns the object's public URL.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes the object; a missing object returns ErrNotFound.
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// CleanKey normalizes a slash separated key and rejects keys that would
// escape the store root.
func CleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", ErrInvalidKey
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" || cleaned == "." {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// SafeName reduces an uploaded file name to characters that are safe in
// keys and URLs.
func SafeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}

// publicURL joins base, the files route and the escaped key.
func publicURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/files/" + strings.Join(segments, "/")
}

// KeyFromURL accepts either a bare key or a URL produced by a FileStorage
// with the given base and returns the key.
func KeyFromURL(base, ref string) (string, error) {
	prefix := strings.TrimRight(base, "/") + "/files/"
	if strings.HasPrefix(ref, prefix) {
		ref = strings.TrimPrefix(ref, prefix)
		unescaped, err := url.PathUnescape(ref)
		if err != nil {
			return "", ErrInvalidKey
		}
		ref = unescaped
	} else if strings.Contains(ref, "://") {
		return "", ErrInvalidKey
	}
	return CleanKey(ref)
}
