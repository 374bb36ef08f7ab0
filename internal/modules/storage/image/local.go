package image

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps images under <root>/berita, served by the API at
// urlPrefix.
type LocalStore struct {
	root      string
	urlPrefix string
}

// NewLocalStore creates the image directory if needed.
func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(root, Prefix), 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &LocalStore{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *LocalStore) Put(ctx context.Context, u *Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p := newObjectPath(u.Extension)
	full := filepath.Join(s.root, filepath.FromSlash(p))
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, u.Data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write image: %w", err)
	}
	return p, nil
}

// Delete removes the file. A file that is already gone is not an error.
func (s *LocalStore) Delete(ctx context.Context, p string) error {
	clean, err := cleanPath(p)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean))); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func (s *LocalStore) List(ctx context.Context) ([]Object, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, Prefix))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list images: %w", err)
	}
	out := make([]Object, 0, len(entries))
	for _, ent := range entries {
		if ent.IsDir() || strings.HasSuffix(ent.Name(), ".tmp") {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			continue
		}
		out = append(out, Object{
			Path:       Prefix + "/" + ent.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	return out, nil
}

func (s *LocalStore) URL(p string) string {
	if p == "" {
		return ""
	}
	return s.urlPrefix + "/" + strings.TrimLeft(p, "/")
}
