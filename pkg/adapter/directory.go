package adapter

import (
	"context"
	"time"

	"github.com/marmos91/sharefs/pkg/sharefile"
)

// CreateDir creates the folder at dir. Requires CanAddFolder on its parent.
// An existing folder is kept and reported as created.
func (a *Adapter) CreateDir(ctx context.Context, dir string) (*Metadata, error) {
	start := time.Now()
	md, err := a.createDir(ctx, dir)
	return md, a.finish("create_dir", dir, start, err)
}

func (a *Adapter) createDir(ctx context.Context, dir string) (*Metadata, error) {
	parent, err := a.resolve(ctx, dirname(dir))
	if err != nil {
		return nil, err
	}
	if err := a.authorize(ctx, parent, sharefile.CanAddFolder); err != nil {
		return nil, err
	}

	name := basename(dir)
	if err := a.client.CreateFolder(ctx, parent.ID, name, name, true); err != nil {
		return nil, err
	}

	return a.metadata(ctx, dir)
}
