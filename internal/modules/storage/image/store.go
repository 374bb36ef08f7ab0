// Package image stores article images on local disk or S3 and removes the
// ones no article references any more.
package image

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefix is the directory (or key prefix) all article images live under.
const Prefix = "berita"

// ErrInvalidPath is returned for stored paths outside Prefix.
var ErrInvalidPath = errors.New("image path outside storage prefix")

// Object describes a stored image.
type Object struct {
	Path       string
	Size       int64
	ModifiedAt time.Time
}

// Store persists validated uploads. Paths returned by Put are relative,
// like "berita/<uuid>.png", and are what articles record.
type Store interface {
	Put(ctx context.Context, u *Upload) (string, error)
	Delete(ctx context.Context, path string) error
	List(ctx context.Context) ([]Object, error)
	URL(path string) string
}

func newObjectPath(ext string) string {
	if ext == "" {
		ext = ".bin"
	}
	return Prefix + "/" + strings.ReplaceAll(uuid.NewString(), "-", "") + ext
}

// cleanPath normalizes p and rejects anything that escapes Prefix.
func cleanPath(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if !strings.HasPrefix(p, Prefix+"/") || p == Prefix+"/" {
		return "", ErrInvalidPath
	}
	return p, nil
}
