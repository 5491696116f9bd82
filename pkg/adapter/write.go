package adapter

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/marmos91/sharefs/pkg/sharefile"
)

// Write uploads contents to path, replacing any existing file. Requires
// CanUpload on the destination folder. The result carries Contents.
func (a *Adapter) Write(ctx context.Context, path string, contents []byte) (*Metadata, error) {
	return a.putBytes(ctx, "write", path, contents)
}

// Update is Write; the remote upload always overwrites.
func (a *Adapter) Update(ctx context.Context, path string, contents []byte) (*Metadata, error) {
	return a.putBytes(ctx, "update", path, contents)
}

// Put is Write.
func (a *Adapter) Put(ctx context.Context, path string, contents []byte) (*Metadata, error) {
	return a.putBytes(ctx, "put", path, contents)
}

// WriteStream uploads everything read from r to path. The reader is consumed
// but not closed.
func (a *Adapter) WriteStream(ctx context.Context, path string, r io.Reader) (*Metadata, error) {
	return a.putStream(ctx, "write_stream", path, r)
}

// UpdateStream is WriteStream.
func (a *Adapter) UpdateStream(ctx context.Context, path string, r io.Reader) (*Metadata, error) {
	return a.putStream(ctx, "update_stream", path, r)
}

func (a *Adapter) putBytes(ctx context.Context, op, path string, contents []byte) (*Metadata, error) {
	start := time.Now()

	md, err := a.upload(ctx, path, bytes.NewReader(contents))
	if err == nil {
		a.metrics.RecordBytes("write", int64(len(contents)))
		md.Contents = contents
	}
	return md, a.finish(op, path, start, err)
}

func (a *Adapter) putStream(ctx context.Context, op, path string, r io.Reader) (*Metadata, error) {
	start := time.Now()
	md, err := a.upload(ctx, path, r)
	return md, a.finish(op, path, start, err)
}

// upload streams r into the parent folder of path with overwrite enabled,
// then re-resolves path for the result.
func (a *Adapter) upload(ctx context.Context, path string, r io.Reader) (*Metadata, error) {
	parent, err := a.resolve(ctx, dirname(path))
	if err != nil {
		return nil, err
	}
	if err := a.authorize(ctx, parent, sharefile.CanUpload); err != nil {
		return nil, err
	}

	if err := a.client.UploadStreamed(ctx, r, parent.ID, basename(path), false, true); err != nil {
		return nil, err
	}

	return a.metadata(ctx, path)
}
