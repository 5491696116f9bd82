package adapter

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/marmos91/sharefs/pkg/sharefile"
)

// fakeClient serves a fixed set of items and records the calls it sees.
// Methods not needed by a test fall through to the nil embedded interface.
type fakeClient struct {
	sharefile.Client

	byPath map[string]*sharefile.Item
	byID   map[string]*sharefile.Item

	pathErr  error
	idErr    error
	children map[string][]*sharefile.Item

	mu    sync.Mutex
	calls []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		byPath:   make(map[string]*sharefile.Item),
		byID:     make(map[string]*sharefile.Item),
		children: make(map[string][]*sharefile.Item),
	}
}

func (f *fakeClient) add(path string, item *sharefile.Item) *sharefile.Item {
	f.byPath[path] = item
	f.byID[item.ID] = item
	return item
}

func (f *fakeClient) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeClient) ItemByPath(_ context.Context, path string) (*sharefile.Item, error) {
	f.record("ItemByPath %s", path)
	if f.pathErr != nil {
		return nil, f.pathErr
	}
	item, ok := f.byPath[path]
	if !ok {
		return nil, fmt.Errorf("path %s: %w", path, sharefile.ErrItemNotFound)
	}
	return item.Clone(), nil
}

func (f *fakeClient) ItemByID(_ context.Context, id string, withChildren bool) (*sharefile.Item, error) {
	f.record("ItemByID %s %t", id, withChildren)
	if f.idErr != nil {
		return nil, f.idErr
	}
	item, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("id %s: %w", id, sharefile.ErrItemNotFound)
	}
	c := item.Clone()
	if withChildren {
		c.Children = f.children[id]
	}
	return c, nil
}

func (f *fakeClient) ItemContents(_ context.Context, id string) ([]byte, error) {
	f.record("ItemContents %s", id)
	return []byte("contents of " + id), nil
}

func (f *fakeClient) DownloadURL(_ context.Context, id string) (string, error) {
	return "fake://" + id, nil
}

func (f *fakeClient) OpenURL(_ context.Context, url string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("cannot open %s", url)
}

func (f *fakeClient) DeleteItem(_ context.Context, id string) error {
	f.record("DeleteItem %s", id)
	return nil
}

func (f *fakeClient) HomeFolderName(context.Context) (string, error) {
	return "Personal Folders", nil
}

func folderItem(id, name, parent string, caps sharefile.Capabilities) *sharefile.Item {
	return &sharefile.Item{
		ID: id, Kind: sharefile.KindFolder, ODataType: sharefile.ODataTypeFolder,
		Name: name, ParentID: parent, Info: caps,
	}
}

func fileItem(id, name, parent string, caps sharefile.Capabilities) *sharefile.Item {
	return &sharefile.Item{
		ID: id, Kind: sharefile.KindFile, ODataType: sharefile.ODataTypeFile,
		Name: name, ParentID: parent, Info: caps,
	}
}
