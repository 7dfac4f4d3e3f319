package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// AvatarStore persists an uploaded avatar and returns its public path.
type AvatarStore interface {
	Save(ctx context.Context, ext, contentType string, r io.Reader) (string, error)
}

// avatarFilename builds a collision-free filename for an upload.
func avatarFilename(ext string) string {
	return "avatar-" + uuid.New().String() + ext
}

// LocalStore writes avatars to a directory served statically at /uploads.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(_ context.Context, ext, _ string, r io.Reader) (string, error) {
	name := avatarFilename(ext)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}

	return "/uploads/avatars/" + name, nil
}
