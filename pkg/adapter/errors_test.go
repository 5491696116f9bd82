package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marmos91/sharefs/pkg/metrics"
	"github.com/marmos91/sharefs/pkg/sharefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedOp struct {
	op      string
	outcome string
}

type recordingMetrics struct {
	ops   []recordedOp
	bytes map[string]int64
}

func (m *recordingMetrics) RecordOperation(op, outcome string, _ time.Duration) {
	m.ops = append(m.ops, recordedOp{op, outcome})
}

func (m *recordingMetrics) RecordBytes(direction string, n int64) {
	if m.bytes == nil {
		m.bytes = make(map[string]int64)
	}
	m.bytes[direction] += n
}

func TestRemoteFailuresAreHardErrors(t *testing.T) {
	boom := errors.New("connection reset")
	client := newFakeClient()
	client.pathErr = boom
	a := New(client)

	_, err := a.Has(context.Background(), "anything")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.ErrorIs(t, err, boom)

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "has", remote.Op)
	assert.Equal(t, "anything", remote.Path)
	assert.Contains(t, remote.Error(), "connection reset")

	exists, err := a.Exists(context.Background(), "anything")
	assert.False(t, exists)
	assert.ErrorIs(t, err, boom)
}

func TestParentLookupFailureIsHardError(t *testing.T) {
	boom := errors.New("token expired")
	client := newFakeClient()
	client.add("/f.txt", fileItem("f", "f.txt", "root", sharefile.FullCapabilities()))
	client.idErr = boom
	a := New(client)

	_, err := a.Read(context.Background(), "f.txt")
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsNotFound(err))
}

func TestUnsupportedKindsDoNotResolve(t *testing.T) {
	client := newFakeClient()
	client.add("/link", &sharefile.Item{ID: "l", Kind: sharefile.KindOther, ODataType: "ShareFile.Api.Models.Link"})
	a := New(client)

	_, err := a.Has(context.Background(), "link")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_PathNormalization(t *testing.T) {
	cases := []struct {
		prefix  string
		logical string
		remote  string
	}{
		{"", "", "/"},
		{"", "/", "/"},
		{"", ".", "/"},
		{"", "a/b/", "/a/b"},
		{"", "//a", "/a"},
		{"base", "", "/base"},
		{"base/", "x.txt", "/base/x.txt"},
		{"/base//", "/x.txt", "/base/x.txt"},
	}

	for _, tc := range cases {
		a := New(newFakeClient(), WithPrefix(tc.prefix))
		assert.Equal(t, tc.remote, a.remotePath(tc.logical), "prefix %q path %q", tc.prefix, tc.logical)
	}
}

func TestGate_FileChecksParentOnce(t *testing.T) {
	client := newFakeClient()
	client.add("/dir", folderItem("dir", "dir", "root", sharefile.Capabilities{sharefile.CanDeleteChildItems: true}))
	file := client.add("/dir/f.txt", fileItem("f", "f.txt", "dir", sharefile.Capabilities{sharefile.CanDeleteCurrentItem: false}))
	a := New(client)
	ctx := context.Background()

	ok, err := a.permits(ctx, file, sharefile.CanDeleteCurrentItem)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"ItemByID dir false"}, client.calls)

	ok, err = a.permits(ctx, file, sharefile.CanDownload)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.False(t, file.Info.Allows(sharefile.CanDeleteChildItems), "the item is not mutated")
}

func TestGate_ParentlessFileUsesOwnFlagsWithRewrite(t *testing.T) {
	a := New(newFakeClient())
	file := fileItem("f", "f.txt", "", sharefile.Capabilities{
		sharefile.CanDeleteCurrentItem: true,
	})

	ok, err := a.permits(context.Background(), file, sharefile.CanDeleteCurrentItem)
	require.NoError(t, err)
	assert.False(t, ok, "CanDeleteCurrentItem is rewritten to CanDeleteChildItems")
}

func TestGate_FolderUsesOwnFlags(t *testing.T) {
	client := newFakeClient()
	a := New(client)
	folder := folderItem("d", "d", "root", sharefile.Capabilities{
		sharefile.CanDeleteCurrentItem: true,
		sharefile.CanUpload:            false,
	})

	ok, err := a.permits(context.Background(), folder, sharefile.CanDeleteCurrentItem)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.permits(context.Background(), folder, sharefile.CanUpload)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = a.permits(context.Background(), folder, sharefile.CanAddFolder)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Empty(t, client.calls, "folders need no extra lookup")
}

func TestListContents_FiltersUnsupportedKinds(t *testing.T) {
	client := newFakeClient()
	client.add("/dir", folderItem("dir", "dir", "root", nil))
	client.children["dir"] = []*sharefile.Item{
		fileItem("z", "z.txt", "dir", nil),
		{ID: "n", Kind: sharefile.KindOther, ODataType: "ShareFile.Api.Models.Note", Name: "note", ParentID: "dir"},
		fileItem("a", "a.txt", "dir", nil),
	}
	a := New(client)

	entries, err := a.ListContents(context.Background(), "dir", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/z.txt", "dir/a.txt"}, paths(entries), "client order is kept")
}

func TestReadStream_OpenFailureIsHardError(t *testing.T) {
	client := newFakeClient()
	client.add("/f.txt", fileItem("f", "f.txt", "", sharefile.Capabilities{sharefile.CanDownload: true}))
	a := New(client)

	_, err := a.ReadStream(context.Background(), "f.txt")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestDelete_UnconfirmedRemovalIsNotFound(t *testing.T) {
	client := newFakeClient()
	client.add("/dir", folderItem("dir", "dir", "", sharefile.Capabilities{sharefile.CanDeleteCurrentItem: true}))
	a := New(client)

	// The fake never removes anything, so the item still resolves.
	err := a.DeleteDir(context.Background(), "dir")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, client.calls, "DeleteItem dir")
}

func TestReadAndDelete_ReturnsContentWhenRemovalUnconfirmed(t *testing.T) {
	client := newFakeClient()
	client.add("/dir", folderItem("dir", "dir", "", sharefile.FullCapabilities()))
	client.add("/dir/f.txt", fileItem("f", "f.txt", "dir", nil))
	a := New(client)

	data, err := a.ReadAndDelete(context.Background(), "dir/f.txt")
	require.NoError(t, err)
	assert.Equal(t, "contents of f", string(data))
}

func TestMetricsOutcomes(t *testing.T) {
	rec := &recordingMetrics{}
	a, _ := newTestAdapter(t, WithMetrics(rec))
	ctx := context.Background()

	_, err := a.Write(ctx, "a.txt", []byte("12345"))
	require.NoError(t, err)
	_, err = a.Read(ctx, "a.txt")
	require.NoError(t, err)
	_, err = a.Read(ctx, "missing.txt")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []recordedOp{
		{"write", metrics.OutcomeOK},
		{"read", metrics.OutcomeOK},
		{"read", metrics.OutcomeNotFound},
	}, rec.ops)
	assert.Equal(t, int64(5), rec.bytes["write"])
	assert.Equal(t, int64(5), rec.bytes["read"])

	failing := newFakeClient()
	failing.pathErr = errors.New("down")
	New(failing, WithMetrics(rec)).Has(ctx, "x")
	assert.Equal(t, recordedOp{"has", metrics.OutcomeError}, rec.ops[len(rec.ops)-1])
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify("op", "p", nil))
	assert.Equal(t, ErrNotFound, classify("op", "p", ErrNotFound))

	inner := &RemoteError{Op: "first", Path: "a", Err: errors.New("x")}
	assert.Same(t, inner, classify("second", "b", inner))
}
