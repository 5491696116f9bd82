package adapter

import (
	"io"
	"strings"
	"time"

	"github.com/marmos91/sharefs/pkg/mimetype"
	"github.com/marmos91/sharefs/pkg/sharefile"
)

// timestampLayouts are tried in order. Remote dates are RFC 3339 but some
// deployments omit the zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// itemTimestamp returns the first non-empty remote date, parsed. Missing or
// unparseable dates yield the zero time.
func itemTimestamp(item *sharefile.Item) time.Time {
	for _, candidate := range []string{
		item.ClientModifiedDate,
		item.ClientCreatedDate,
		item.CreationDate,
		item.ProgenyEditDate,
	} {
		if candidate == "" {
			continue
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t
			}
		}
		return time.Time{}
	}
	return time.Time{}
}

// normalize builds the Metadata for item seen from the directory base.
// contents and stream are attached as given; callers pass at most one.
func (a *Adapter) normalize(item *sharefile.Item, base string, contents []byte, stream io.ReadCloser) *Metadata {
	if base == "." {
		base = ""
	}
	p := strings.Trim(base+"/"+item.Name, "/")

	stem, ext := splitExtension(item.Name)
	md := &Metadata{
		Path:      p,
		Size:      item.Size,
		Timestamp: itemTimestamp(item),
		Dirname:   a.displayDirname(p),
		Basename:  stem,
		Filename:  stem,
		Extension: ext,
		ID:        item.ID,
		ODataType: item.ODataType,
		ParentID:  item.ParentID,
		Contents:  contents,
		Stream:    stream,
	}

	if item.IsFile() {
		md.Type = TypeFile
		md.Mimetype = a.mime.Guess(item.Name, contents)
	} else {
		md.Type = TypeDir
		md.Mimetype = mimetype.Directory
	}

	if a.returnItem {
		md.Item = item
	}
	return md
}

// displayDirname collapses the home folder label to the root.
func (a *Adapter) displayDirname(p string) string {
	dir := dirname(p)
	if dir == a.homeLabel {
		return ""
	}
	return dir
}
