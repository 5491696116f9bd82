package adapter

import (
	"context"
	"strings"

	"github.com/marmos91/sharefs/internal/logger"
	"github.com/marmos91/sharefs/pkg/sharefile"
)

// remotePath maps a logical path to the absolute path sent to the client.
// "." and "" are the root; the prefix is applied; exactly one leading slash
// is kept.
func (a *Adapter) remotePath(logical string) string {
	if logical == "." {
		logical = ""
	}
	return "/" + strings.Trim(a.applyPrefix(logical), "/")
}

// resolve looks up the item at a logical path.
//
// Returns ErrNotFound when nothing lives at the path or the node is neither a
// file nor a folder. Any other client error is returned unchanged.
func (a *Adapter) resolve(ctx context.Context, logical string) (*sharefile.Item, error) {
	remote := a.remotePath(logical)

	item, err := a.client.ItemByPath(ctx, remote)
	if err != nil {
		if sharefile.IsNotFound(err) {
			logger.Debug("resolve %q (%s): not found", logical, remote)
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch item.Kind {
	case sharefile.KindFile, sharefile.KindFolder:
		logger.Debug("resolve %q (%s): %s %s", logical, remote, item.Kind, item.ID)
		return item, nil
	default:
		logger.Debug("resolve %q (%s): unsupported type %q", logical, remote, item.ODataType)
		return nil, ErrNotFound
	}
}
