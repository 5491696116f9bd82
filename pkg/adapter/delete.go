package adapter

import (
	"context"
	"time"

	"github.com/marmos91/sharefs/internal/logger"
	"github.com/marmos91/sharefs/pkg/sharefile"
)

// Delete removes the file or folder at path.
//
// Files need CanDeleteChildItems on their folder; folders need
// CanDeleteCurrentItem on themselves. Success means path no longer resolves.
func (a *Adapter) Delete(ctx context.Context, path string) error {
	start := time.Now()
	return a.finish("delete", path, start, a.deleteItem(ctx, path))
}

// DeleteDir is Delete; folders are removed with their contents.
func (a *Adapter) DeleteDir(ctx context.Context, dir string) error {
	start := time.Now()
	return a.finish("delete_dir", dir, start, a.deleteItem(ctx, dir))
}

func (a *Adapter) deleteItem(ctx context.Context, path string) error {
	item, err := a.resolve(ctx, path)
	if err != nil {
		return err
	}
	if err := a.authorize(ctx, item, sharefile.CanDeleteCurrentItem); err != nil {
		return err
	}

	if err := a.client.DeleteItem(ctx, item.ID); err != nil {
		return err
	}

	_, err = a.metadata(ctx, path)
	switch {
	case IsNotFound(err):
		return nil
	case err != nil:
		return err
	default:
		logger.Warn("delete %q: item %s still resolves after removal", path, item.ID)
		return ErrNotFound
	}
}

// ReadAndDelete returns the raw content of the file at path and removes it.
// Requires both CanDownload and the delete right.
func (a *Adapter) ReadAndDelete(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()
	data, err := a.readAndDelete(ctx, path)
	return data, a.finish("read_and_delete", path, start, err)
}

func (a *Adapter) readAndDelete(ctx context.Context, path string) ([]byte, error) {
	item, err := a.resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := a.authorize(ctx, item, sharefile.CanDownload, sharefile.CanDeleteCurrentItem); err != nil {
		return nil, err
	}

	data, err := a.client.ItemContents(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordBytes("read", int64(len(data)))

	// The content is returned even if the removal cannot be confirmed.
	if err := a.deleteItem(ctx, path); err != nil {
		if !IsNotFound(err) {
			return nil, err
		}
		logger.Warn("read and delete %q: content read but removal not confirmed", path)
	}
	return data, nil
}
