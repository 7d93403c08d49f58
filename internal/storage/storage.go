// Package storage defines the file store the cover service persists
// templates, staged uploads and generated covers through, with local-disk
// and S3 implementations. The Supabase bucket implementation lives in the
// supabase package.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidPath = errors.New("invalid file path")
)

// FileStore is a flat, path-addressed blob store. Paths always use forward
// slashes and are relative to the store root.
type FileStore interface {
	ReadBytes(ctx context.Context, p string) ([]byte, error)
	// WriteBytes must never expose a partially written file to List or ReadBytes.
	WriteBytes(ctx context.Context, p string, data []byte) error
	Delete(ctx context.Context, p string) error
	// List returns the base names of files directly inside dir.
	List(ctx context.Context, dir string) ([]string, error)
	PublicURL(p string) string
}

// CleanPath normalizes p and rejects absolute paths or paths escaping the root.
func CleanPath(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" || strings.HasPrefix(p, "/") {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

// ContentType guesses a MIME type from the file extension.
func ContentType(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
