package adapter

import (
	"context"
	"time"

	"github.com/marmos91/sharefs/pkg/sharefile"
)

// ListContents lists the folder at dir. With recursive, descendants follow
// the direct children depth-first.
//
// Listing the root ("" or "/") lists the home folder instead. Listing a file
// yields an empty result.
func (a *Adapter) ListContents(ctx context.Context, dir string, recursive bool) ([]*Metadata, error) {
	start := time.Now()
	entries, err := a.listContents(ctx, dir, recursive)
	return entries, a.finish("list_contents", dir, start, err)
}

func (a *Adapter) listContents(ctx context.Context, dir string, recursive bool) ([]*Metadata, error) {
	if isRoot(dir) {
		home, err := a.client.HomeFolderName(ctx)
		if err != nil {
			return nil, err
		}
		if home != "" {
			dir = home
		}
	}

	item, err := a.resolve(ctx, dir)
	if err != nil {
		return nil, err
	}

	return a.buildList(ctx, item, dir, recursive)
}

// buildList lists folder seen from base. Each recursion receives its own
// base string, so sibling branches never share path state.
func (a *Adapter) buildList(ctx context.Context, folder *sharefile.Item, base string, recursive bool) ([]*Metadata, error) {
	entries := make([]*Metadata, 0)
	if folder.IsFile() {
		return entries, nil
	}

	withChildren, err := a.client.ItemByID(ctx, folder.ID, true)
	if err != nil {
		return nil, err
	}

	children := make([]*sharefile.Item, 0, len(withChildren.Children))
	for _, child := range withChildren.Children {
		if child.IsFile() || child.IsFolder() {
			children = append(children, child)
		}
	}

	for _, child := range children {
		entries = append(entries, a.normalize(child, base, nil, nil))
	}

	if !recursive {
		return entries, nil
	}

	for _, child := range children {
		if !child.IsFolder() {
			continue
		}
		descendants, err := a.buildList(ctx, child, base+"/"+child.Name, true)
		if err != nil {
			return nil, err
		}
		entries = append(entries, descendants...)
	}
	return entries, nil
}
