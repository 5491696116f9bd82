package adapter

import (
	"bytes"
	"context"
	"time"

	"github.com/marmos91/sharefs/internal/logger"
	"github.com/marmos91/sharefs/pkg/sharefile"
)

// Rename moves the item at path to newPath. Requires CanUpload on the
// destination folder.
//
// Success means newPath resolves afterwards. The source is not checked: the
// remote system may briefly report both.
func (a *Adapter) Rename(ctx context.Context, path, newPath string) error {
	start := time.Now()
	return a.finish("rename", path, start, a.rename(ctx, path, newPath))
}

func (a *Adapter) rename(ctx context.Context, path, newPath string) error {
	// ========================================================================
	// Step 1: Destination folder must accept uploads
	// ========================================================================

	target, err := a.resolve(ctx, dirname(newPath))
	if err != nil {
		return err
	}
	if err := a.authorize(ctx, target, sharefile.CanUpload); err != nil {
		return err
	}

	// ========================================================================
	// Step 2: Rename and reparent in a single update
	// ========================================================================

	item, err := a.resolve(ctx, path)
	if err != nil {
		return err
	}

	name := basename(newPath)
	patch := sharefile.ItemPatch{Name: name, FileName: name, ParentID: target.ID}
	if err := a.client.UpdateItem(ctx, item.ID, patch); err != nil {
		return err
	}

	// ========================================================================
	// Step 3: Verify
	// ========================================================================

	if _, err := a.metadata(ctx, newPath); err != nil {
		if IsNotFound(err) {
			logger.Warn("rename %q -> %q: update accepted but destination does not resolve", path, newPath)
		}
		return err
	}
	return nil
}

// Copy copies the item at path to newPath. Requires CanUpload on the
// destination folder.
//
// When the directories differ but the file names match (ASCII case-insensitive)
// the remote copy primitive is used. Otherwise the content is downloaded and
// uploaded again under the new name, which is not atomic.
func (a *Adapter) Copy(ctx context.Context, path, newPath string) error {
	start := time.Now()
	return a.finish("copy", path, start, a.copy(ctx, path, newPath))
}

func (a *Adapter) copy(ctx context.Context, path, newPath string) error {
	target, err := a.resolve(ctx, dirname(newPath))
	if err != nil {
		return err
	}
	if err := a.authorize(ctx, target, sharefile.CanUpload); err != nil {
		return err
	}

	item, err := a.resolve(ctx, path)
	if err != nil {
		return err
	}

	if useRemoteCopy(path, newPath) {
		logger.Debug("copy %q -> %q: remote copy into %s", path, newPath, target.ID)
		if err := a.client.CopyItem(ctx, target.ID, item.ID, true); err != nil {
			return err
		}
	} else {
		logger.Debug("copy %q -> %q: download and upload", path, newPath)
		data, err := a.client.ItemContents(ctx, item.ID)
		if err != nil {
			return err
		}
		if _, err := a.upload(ctx, newPath, bytes.NewReader(data)); err != nil {
			return err
		}
	}

	_, err = a.metadata(ctx, newPath)
	return err
}

// useRemoteCopy reports whether path and newPath live in different folders
// under the same name, the only case the remote copy primitive can express.
func useRemoteCopy(path, newPath string) bool {
	return !equalFoldASCII(dirname(path), dirname(newPath)) &&
		equalFoldASCII(basename(path), basename(newPath))
}
