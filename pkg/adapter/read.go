package adapter

import (
	"context"
	"time"

	"github.com/marmos91/sharefs/pkg/sharefile"
)

// Has returns the metadata of the item at path, or ErrNotFound.
func (a *Adapter) Has(ctx context.Context, path string) (*Metadata, error) {
	start := time.Now()
	md, err := a.metadata(ctx, path)
	return md, a.finish("has", path, start, err)
}

// Exists is Has reduced to a boolean. Only remote failures are errors.
func (a *Adapter) Exists(ctx context.Context, path string) (bool, error) {
	_, err := a.Has(ctx, path)
	switch {
	case err == nil:
		return true, nil
	case IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// GetMetadata returns the metadata of the item at path.
func (a *Adapter) GetMetadata(ctx context.Context, path string) (*Metadata, error) {
	start := time.Now()
	md, err := a.metadata(ctx, path)
	return md, a.finish("get_metadata", path, start, err)
}

// GetSize returns the full metadata record; callers read Size.
func (a *Adapter) GetSize(ctx context.Context, path string) (*Metadata, error) {
	return a.GetMetadata(ctx, path)
}

// GetMimetype returns the full metadata record; callers read Mimetype.
func (a *Adapter) GetMimetype(ctx context.Context, path string) (*Metadata, error) {
	return a.GetMetadata(ctx, path)
}

// GetTimestamp returns the full metadata record; callers read Timestamp.
func (a *Adapter) GetTimestamp(ctx context.Context, path string) (*Metadata, error) {
	return a.GetMetadata(ctx, path)
}

func (a *Adapter) metadata(ctx context.Context, path string) (*Metadata, error) {
	item, err := a.resolve(ctx, path)
	if err != nil {
		return nil, err
	}

	md := a.normalize(item, dirname(path), nil, nil)
	if isRoot(path) {
		md.Path = path
	}
	return md, nil
}

// Read downloads the file at path. Requires CanDownload.
func (a *Adapter) Read(ctx context.Context, path string) (*Metadata, error) {
	start := time.Now()
	md, err := a.read(ctx, path)
	return md, a.finish("read", path, start, err)
}

func (a *Adapter) read(ctx context.Context, path string) (*Metadata, error) {
	item, err := a.resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := a.authorize(ctx, item, sharefile.CanDownload); err != nil {
		return nil, err
	}

	data, err := a.client.ItemContents(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordBytes("read", int64(len(data)))

	return a.normalize(item, dirname(path), data, nil), nil
}

// ReadStream opens the file at path for streaming. Requires CanDownload.
// The caller must close Metadata.Stream.
func (a *Adapter) ReadStream(ctx context.Context, path string) (*Metadata, error) {
	start := time.Now()
	md, err := a.readStream(ctx, path)
	return md, a.finish("read_stream", path, start, err)
}

func (a *Adapter) readStream(ctx context.Context, path string) (*Metadata, error) {
	item, err := a.resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := a.authorize(ctx, item, sharefile.CanDownload); err != nil {
		return nil, err
	}

	url, err := a.client.DownloadURL(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	stream, err := a.client.OpenURL(ctx, url)
	if err != nil {
		return nil, err
	}

	return a.normalize(item, dirname(path), nil, stream), nil
}
