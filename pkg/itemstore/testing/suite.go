package testing

import (
	"context"
	"errors"
	"testing"

	"github.com/marmos91/sharefs/pkg/itemstore"
	"github.com/marmos91/sharefs/pkg/sharefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StoreTestSuite is a conformance suite for itemstore.Store implementations.
type StoreTestSuite struct {
	// NewStore creates a fresh, empty store for each test. The suite closes it.
	NewStore func(t *testing.T) itemstore.Store
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("PutThenGet", suite.TestPutThenGet)
	t.Run("GetMissing", suite.TestGetMissing)
	t.Run("ListChildrenSorted", suite.TestListChildrenSorted)
	t.Run("ListChildrenEmpty", suite.TestListChildrenEmpty)
	t.Run("Reparent", suite.TestReparent)
	t.Run("Delete", suite.TestDelete)
	t.Run("ChildrenNotPersisted", suite.TestChildrenNotPersisted)
	t.Run("ReturnsCopies", suite.TestReturnsCopies)
}

func (suite *StoreTestSuite) newStore(t *testing.T) itemstore.Store {
	store := suite.NewStore(t)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func folder(id, name, parent string) *sharefile.Item {
	return &sharefile.Item{
		ID:        id,
		Kind:      sharefile.KindFolder,
		ODataType: sharefile.ODataTypeFolder,
		Name:      name,
		ParentID:  parent,
		Info:      sharefile.FullCapabilities(),
	}
}

func file(id, name, parent string, size int64) *sharefile.Item {
	return &sharefile.Item{
		ID:        id,
		Kind:      sharefile.KindFile,
		ODataType: sharefile.ODataTypeFile,
		Name:      name,
		ParentID:  parent,
		Size:      size,
		Info:      sharefile.Capabilities{sharefile.CanDownload: true},
	}
}

func (suite *StoreTestSuite) TestPutThenGet(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	want := file("f1", "report.pdf", "root", 42)
	want.ClientModifiedDate = "2024-01-02T03:04:05Z"
	require.NoError(t, store.PutItem(ctx, want))

	got, err := store.GetItem(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func (suite *StoreTestSuite) TestGetMissing(t *testing.T) {
	store := suite.newStore(t)

	_, err := store.GetItem(context.Background(), "nope")
	assert.True(t, errors.Is(err, itemstore.ErrNotFound), "got %v", err)
}

func (suite *StoreTestSuite) TestListChildrenSorted(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutItem(ctx, folder("root", "", "")))
	require.NoError(t, store.PutItem(ctx, file("c", "c.txt", "root", 1)))
	require.NoError(t, store.PutItem(ctx, file("a", "a.txt", "root", 1)))
	require.NoError(t, store.PutItem(ctx, folder("b", "b", "root")))
	require.NoError(t, store.PutItem(ctx, file("x", "x.txt", "b", 1)))

	children, err := store.ListChildren(ctx, "root")
	require.NoError(t, err)

	names := make([]string, len(children))
	for i, c := range children {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"a.txt", "b", "c.txt"}, names)
}

func (suite *StoreTestSuite) TestListChildrenEmpty(t *testing.T) {
	store := suite.newStore(t)

	children, err := store.ListChildren(context.Background(), "root")
	require.NoError(t, err)
	assert.NotNil(t, children)
	assert.Empty(t, children)
}

func (suite *StoreTestSuite) TestReparent(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutItem(ctx, folder("src", "src", "")))
	require.NoError(t, store.PutItem(ctx, folder("dst", "dst", "")))
	require.NoError(t, store.PutItem(ctx, file("f", "a.txt", "src", 1)))

	moved := file("f", "b.txt", "dst", 1)
	require.NoError(t, store.PutItem(ctx, moved))

	srcChildren, err := store.ListChildren(ctx, "src")
	require.NoError(t, err)
	assert.Empty(t, srcChildren)

	dstChildren, err := store.ListChildren(ctx, "dst")
	require.NoError(t, err)
	require.Len(t, dstChildren, 1)
	assert.Equal(t, "b.txt", dstChildren[0].Name)
}

func (suite *StoreTestSuite) TestDelete(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutItem(ctx, folder("root", "", "")))
	require.NoError(t, store.PutItem(ctx, file("f", "a.txt", "root", 1)))
	require.NoError(t, store.DeleteItem(ctx, "f"))

	_, err := store.GetItem(ctx, "f")
	assert.True(t, errors.Is(err, itemstore.ErrNotFound))

	children, err := store.ListChildren(ctx, "root")
	require.NoError(t, err)
	assert.Empty(t, children)

	err = store.DeleteItem(ctx, "f")
	assert.True(t, errors.Is(err, itemstore.ErrNotFound))
}

func (suite *StoreTestSuite) TestChildrenNotPersisted(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	root := folder("root", "", "")
	root.Children = []*sharefile.Item{file("ghost", "ghost.txt", "root", 1)}
	require.NoError(t, store.PutItem(ctx, root))

	got, err := store.GetItem(ctx, "root")
	require.NoError(t, err)
	assert.Nil(t, got.Children)

	_, err = store.GetItem(ctx, "ghost")
	assert.True(t, errors.Is(err, itemstore.ErrNotFound))
}

func (suite *StoreTestSuite) TestReturnsCopies(t *testing.T) {
	store := suite.newStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutItem(ctx, file("f", "a.txt", "", 1)))

	got, err := store.GetItem(ctx, "f")
	require.NoError(t, err)
	got.Name = "mutated"
	got.Info[sharefile.CanUpload] = true

	again, err := store.GetItem(ctx, "f")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", again.Name)
	assert.False(t, again.Info.Allows(sharefile.CanUpload))
}
