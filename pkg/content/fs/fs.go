package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/marmos91/sharefs/pkg/content"
)

// FSContentStore stores each blob as a file under basePath.
//
// Files are sharded by the first two characters of the ID to keep directory
// sizes bounded. Writes go to a temporary file in the same directory and are
// renamed into place, so readers never observe partial content.
type FSContentStore struct {
	basePath string
}

// NewFSContentStore creates the base directory if needed.
func NewFSContentStore(basePath string) (*FSContentStore, error) {
	if basePath == "" {
		return nil, fmt.Errorf("filesystem content store: base path is required")
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content directory: %w", err)
	}
	return &FSContentStore{basePath: basePath}, nil
}

func (s *FSContentStore) filePath(id content.ContentID) (string, error) {
	name := string(id)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("content %q: %w", name, content.ErrInvalidContentID)
	}

	shard := name
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return filepath.Join(s.basePath, shard, name), nil
}

func (s *FSContentStore) ReadContent(ctx context.Context, id content.ContentID) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.filePath(id)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("content %s: %w", id, content.ErrContentNotFound)
		}
		return nil, fmt.Errorf("failed to open content %s: %w", id, err)
	}
	return f, nil
}

func (s *FSContentStore) WriteContent(ctx context.Context, id content.ContentID, data []byte) error {
	_, err := s.WriteFrom(ctx, id, strings.NewReader(string(data)))
	return err
}

func (s *FSContentStore) WriteFrom(ctx context.Context, id content.ContentID, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	path, err := s.filePath(id)
	if err != nil {
		return 0, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create shard directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	n, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		if copyErr != nil {
			return 0, fmt.Errorf("failed to write content %s: %w", id, copyErr)
		}
		return 0, fmt.Errorf("failed to close content %s: %w", id, closeErr)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("failed to commit content %s: %w", id, err)
	}
	return n, nil
}

func (s *FSContentStore) Delete(ctx context.Context, id content.ContentID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.filePath(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete content %s: %w", id, err)
	}
	return nil
}

func (s *FSContentStore) ContentExists(ctx context.Context, id content.ContentID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	path, err := s.filePath(id)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat content %s: %w", id, err)
	}
}
