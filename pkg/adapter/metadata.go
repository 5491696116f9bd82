package adapter

import (
	"io"
	"time"

	"github.com/marmos91/sharefs/pkg/sharefile"
)

// Entry types reported in Metadata.Type.
const (
	TypeFile = "file"
	TypeDir  = "dir"
)

// Metadata is the uniform record returned for any resolved file or folder.
//
// The shape is the same for files and folders; file-oriented fields are zero
// for folders.
type Metadata struct {
	// Path is the logical path, without leading or trailing slashes. The
	// root keeps the caller's spelling ("" or "/").
	Path string

	// Type is TypeFile or TypeDir.
	Type string

	// Size is the remote byte count.
	Size int64

	// Mimetype is guessed for files and mimetype.Directory for folders.
	Mimetype string

	// Timestamp is the first available remote date, zero when none is set.
	Timestamp time.Time

	// Dirname is the directory part of Path. The root and the home folder
	// label both collapse to "".
	Dirname string

	// Basename and Filename are both the leaf name without its extension.
	Basename string
	Filename string

	// Extension is the text after the last dot of the leaf name.
	Extension string

	// ID is the remote item identifier.
	ID string

	// ODataType is the remote type discriminator.
	ODataType string

	// ParentID is the containing folder's identifier, "" at the root.
	ParentID string

	// Contents holds the file body for buffered reads and writes.
	Contents []byte

	// Stream is set by ReadStream. The caller must close it.
	Stream io.ReadCloser

	// Item is the raw remote item, populated only with WithReturnItem.
	Item *sharefile.Item
}

// IsFile reports whether the record describes a file.
func (m *Metadata) IsFile() bool {
	return m.Type == TypeFile
}

// IsDir reports whether the record describes a folder.
func (m *Metadata) IsDir() bool {
	return m.Type == TypeDir
}
