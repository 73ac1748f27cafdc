package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ImageStore keeps uploaded meal photos on an afero filesystem
type ImageStore struct {
	fs afero.Fs
}

// NewImageStore creates an ImageStore rooted at dir on the host disk
func NewImageStore(dir string) *ImageStore {
	return NewAferoStore(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// NewAferoStore creates an ImageStore on any afero filesystem
func NewAferoStore(fs afero.Fs) *ImageStore {
	return &ImageStore{fs: fs}
}

// Save writes the image under a fresh name in the user's folder and returns its path
func (s *ImageStore) Save(ctx context.Context, userID uint, ext string, reader io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		ext = "bin"
	}

	dir := fmt.Sprintf("users/%d", userID)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return "", 0, err
	}

	name := path.Join(dir, uuid.NewString()+"."+ext)
	f, err := s.fs.Create(name)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	n, err := io.Copy(f, reader)
	if err != nil {
		_ = s.fs.Remove(name)
		return "", 0, err
	}
	return name, n, nil
}

// Get opens a stored image for reading
func (s *ImageStore) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.fs.OpenFile(name, os.O_RDONLY, 0)
}

// Delete removes a stored image
func (s *ImageStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.fs.Remove(name)
}
