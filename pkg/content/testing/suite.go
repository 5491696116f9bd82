package testing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/marmos91/sharefs/pkg/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StoreTestSuite is a conformance suite for content.Store implementations.
//
// Usage:
//
//	func TestMyContentStore(t *testing.T) {
//	    suite := &contenttesting.StoreTestSuite{
//	        NewStore: func(t *testing.T) content.Store { return mystore.New() },
//	    }
//	    suite.Run(t)
//	}
type StoreTestSuite struct {
	// NewStore creates a fresh, empty store for each test.
	NewStore func(t *testing.T) content.Store
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("WriteThenRead", suite.TestWriteThenRead)
	t.Run("WriteOverwrites", suite.TestWriteOverwrites)
	t.Run("WriteFrom", suite.TestWriteFrom)
	t.Run("ReadMissing", suite.TestReadMissing)
	t.Run("Exists", suite.TestExists)
	t.Run("DeleteIsIdempotent", suite.TestDeleteIsIdempotent)
	t.Run("EmptyContent", suite.TestEmptyContent)
	t.Run("CallerBufferIsolation", suite.TestCallerBufferIsolation)
}

func (suite *StoreTestSuite) TestWriteThenRead(t *testing.T) {
	store := suite.NewStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteContent(ctx, "item-1", []byte("hello")))

	data, err := content.ReadAll(ctx, store, "item-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func (suite *StoreTestSuite) TestWriteOverwrites(t *testing.T) {
	store := suite.NewStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteContent(ctx, "item-1", []byte("first version")))
	require.NoError(t, store.WriteContent(ctx, "item-1", []byte("second")))

	data, err := content.ReadAll(ctx, store, "item-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func (suite *StoreTestSuite) TestWriteFrom(t *testing.T) {
	store := suite.NewStore(t)
	ctx := context.Background()

	payload := bytes.Repeat([]byte("abc"), 10_000)
	n, err := store.WriteFrom(ctx, "streamed", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)

	data, err := content.ReadAll(ctx, store, "streamed")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func (suite *StoreTestSuite) TestReadMissing(t *testing.T) {
	store := suite.NewStore(t)

	_, err := store.ReadContent(context.Background(), "missing")
	AssertErrorIs(t, content.ErrContentNotFound, err)
}

func (suite *StoreTestSuite) TestExists(t *testing.T) {
	store := suite.NewStore(t)
	ctx := context.Background()

	exists, err := store.ContentExists(ctx, "item-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.WriteContent(ctx, "item-1", []byte("x")))

	exists, err = store.ContentExists(ctx, "item-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func (suite *StoreTestSuite) TestDeleteIsIdempotent(t *testing.T) {
	store := suite.NewStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteContent(ctx, "item-1", []byte("x")))
	require.NoError(t, store.Delete(ctx, "item-1"))
	require.NoError(t, store.Delete(ctx, "item-1"))

	exists, err := store.ContentExists(ctx, "item-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func (suite *StoreTestSuite) TestEmptyContent(t *testing.T) {
	store := suite.NewStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteContent(ctx, "empty", nil))

	data, err := content.ReadAll(ctx, store, "empty")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func (suite *StoreTestSuite) TestCallerBufferIsolation(t *testing.T) {
	store := suite.NewStore(t)
	ctx := context.Background()

	buf := []byte("original")
	require.NoError(t, store.WriteContent(ctx, "item-1", buf))
	copy(buf, "XXXXXXXX")

	rc, err := store.ReadContent(ctx, "item-1")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data)
}

// AssertErrorIs checks if the error matches the expected error using errors.Is.
func AssertErrorIs(t *testing.T, expected error, actual error) {
	t.Helper()
	if !errors.Is(actual, expected) {
		t.Errorf("Expected error %v, got %v", expected, actual)
	}
}
