package adapter

import (
	"testing"
	"time"

	"github.com/marmos91/sharefs/pkg/sharefile"
	"github.com/stretchr/testify/assert"
)

func TestDirname(t *testing.T) {
	cases := map[string]string{
		"":         "",
		"/":        "/",
		"a":        "",
		"a/":       "",
		"a/b":      "a",
		"a/b/":     "a",
		"/a":       "/",
		"a/b/c.md": "a/b",
	}
	for in, want := range cases {
		assert.Equal(t, want, dirname(in), "dirname(%q)", in)
	}
}

func TestBasename(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"/":       "",
		"a":       "a",
		"a/b.txt": "b.txt",
		"a/b/":    "b",
	}
	for in, want := range cases {
		assert.Equal(t, want, basename(in), "basename(%q)", in)
	}
}

func TestSplitExtension(t *testing.T) {
	cases := []struct{ name, stem, ext string }{
		{"report.pdf", "report", "pdf"},
		{"archive.tar.gz", "archive.tar", "gz"},
		{"README", "README", ""},
		{".profile", "", "profile"},
		{"trailing.", "trailing", ""},
	}
	for _, tc := range cases {
		stem, ext := splitExtension(tc.name)
		assert.Equal(t, tc.stem, stem, tc.name)
		assert.Equal(t, tc.ext, ext, tc.name)
	}
}

func TestUseRemoteCopy(t *testing.T) {
	cases := []struct {
		src, dst string
		want     bool
	}{
		{"a/x.txt", "b/x.txt", true},
		{"a/x.txt", "B/X.TXT", true},
		{"a/x.txt", "A/x.txt", false},
		{"a/x.txt", "a/y.txt", false},
		{"a/x.txt", "b/y.txt", false},
		{"x.txt", "b/x.txt", true},
		{"a/é.txt", "b/É.txt", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, useRemoteCopy(tc.src, tc.dst), "%s -> %s", tc.src, tc.dst)
	}
}

func TestItemTimestampPreference(t *testing.T) {
	item := &sharefile.Item{
		ClientCreatedDate: "2020-01-01T00:00:00Z",
		CreationDate:      "2021-01-01T00:00:00Z",
		ProgenyEditDate:   "2022-01-01T00:00:00Z",
	}
	assert.Equal(t, 2020, itemTimestamp(item).Year())

	item.ClientModifiedDate = "2023-06-01T10:00:00.123Z"
	assert.Equal(t, 2023, itemTimestamp(item).Year())

	assert.True(t, itemTimestamp(&sharefile.Item{}).IsZero())
	assert.True(t, itemTimestamp(&sharefile.Item{CreationDate: "yesterday"}).IsZero())

	zoneless := itemTimestamp(&sharefile.Item{ProgenyEditDate: "2019-05-14T09:39:38.527"})
	assert.True(t, zoneless.Equal(time.Date(2019, 5, 14, 9, 39, 38, 527000000, time.UTC)))
}

func TestNormalize_HomeLabelCollapses(t *testing.T) {
	a := New(newFakeClient(), WithHomeFolderLabel("Home"))
	md := a.normalize(fileItem("f", "x.txt", "h", nil), "Home", nil, nil)
	assert.Equal(t, "Home/x.txt", md.Path)
	assert.Equal(t, "", md.Dirname)

	md = a.normalize(folderItem("d", "sub", "h", nil), ".", nil, nil)
	assert.Equal(t, "sub", md.Path)
	assert.Equal(t, TypeDir, md.Type)
	assert.Equal(t, "inode/directory", md.Mimetype)
}
