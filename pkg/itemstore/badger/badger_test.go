package badger

import (
	"context"
	"testing"

	"github.com/marmos91/sharefs/pkg/itemstore"
	itemstoretesting "github.com/marmos91/sharefs/pkg/itemstore/testing"
	"github.com/marmos91/sharefs/pkg/sharefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerItemStore(t *testing.T) {
	suite := &itemstoretesting.StoreTestSuite{
		NewStore: func(t *testing.T) itemstore.Store {
			store, err := NewBadgerItemStore(context.Background(), BadgerItemStoreConfig{
				DBPath: t.TempDir(),
			})
			require.NoError(t, err)
			return store
		},
	}

	suite.Run(t)
}

func TestBadgerItemStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewBadgerItemStore(ctx, BadgerItemStoreConfig{DBPath: dir})
	require.NoError(t, err)
	require.NoError(t, store.PutItem(ctx, &sharefile.Item{ID: "root", Kind: sharefile.KindFolder}))
	require.NoError(t, store.PutItem(ctx, &sharefile.Item{ID: "f1", Kind: sharefile.KindFile, Name: "a.txt", ParentID: "root"}))
	require.NoError(t, store.Close())

	store, err = NewBadgerItemStore(ctx, BadgerItemStoreConfig{DBPath: dir})
	require.NoError(t, err)
	defer store.Close()

	children, err := store.ListChildren(ctx, "root")
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "a.txt", children[0].Name)
}

func TestNewBadgerItemStore_RequiresPath(t *testing.T) {
	_, err := NewBadgerItemStore(context.Background(), BadgerItemStoreConfig{})
	assert.Error(t, err)
}
