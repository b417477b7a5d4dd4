// Package filestore stores equipment and group images as blobs addressed by
// relative path.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidPath is returned for paths that escape the storage root.
var ErrInvalidPath = errors.New("invalid file path")

// Store is an opaque blob store.
type Store interface {
	// Upload writes r under prefix and returns the stored relative path.
	Upload(ctx context.Context, prefix, filename string, r io.Reader) (string, error)
	// PublicURL returns the URL the stored path is served from.
	PublicURL(p string) string
	// Delete removes the stored path. Deleting a missing path is not an error.
	Delete(ctx context.Context, p string) error
}

// allowedExt lists accepted image extensions.
var allowedExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

// ErrUnsupportedType is returned for files with an unsupported extension.
var ErrUnsupportedType = errors.New("unsupported image type")

// Local stores blobs on the local filesystem under a base directory and
// serves them from baseURL.
type Local struct {
	basePath string
	baseURL  string
	now      func() time.Time
}

// NewLocal creates a Local store, creating basePath if needed.
func NewLocal(basePath, baseURL string) (*Local, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &Local{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}, nil
}

// Upload implements Store. Files land in prefix/YYYY/MM/DD with a unique name.
func (s *Local) Upload(ctx context.Context, prefix, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	now := s.now()
	rel := path.Join(prefix, now.Format("2006/01/02"), now.Format("2006-01-02")+"-"+uuid.New().String()+ext)

	full, err := s.resolve(rel)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(full) //nolint:errcheck // best-effort cleanup of partial file.

		return "", fmt.Errorf("writing upload file: %w", err)
	}

	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("closing upload file: %w", err)
	}

	return rel, nil
}

// PublicURL implements Store.
func (s *Local) PublicURL(p string) string {
	return s.baseURL + "/" + strings.TrimLeft(p, "/")
}

// Delete implements Store.
func (s *Local) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full, err := s.resolve(p)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting file: %w", err)
	}

	return nil
}

// resolve maps a relative path to a filesystem path inside basePath.
func (s *Local) resolve(rel string) (string, error) {
	clean := path.Clean("/" + rel)
	if clean == "/" || strings.Contains(rel, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}

	return filepath.Join(s.basePath, filepath.FromSlash(clean)), nil
}
