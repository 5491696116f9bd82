package sharefile

import (
	"context"
	"io"
)

// Client is the remote document-store collaborator used by the adapter.
//
// Implementations own the session, request signing and transfer protocol.
// They must be safe for concurrent use; the adapter itself holds no state
// between calls.
type Client interface {
	// ItemByPath resolves an absolute, slash-separated remote path.
	// Returns an error wrapping ErrItemNotFound when nothing lives there.
	ItemByPath(ctx context.Context, path string) (*Item, error)

	// ItemByID fetches an item by identifier. When withChildren is true the
	// Children slice is populated with the item's direct children in the
	// order the remote system reports them.
	ItemByID(ctx context.Context, id string, withChildren bool) (*Item, error)

	// ItemContents downloads the full content of a file.
	ItemContents(ctx context.Context, id string) ([]byte, error)

	// DownloadURL returns a URL from which the file content can be streamed.
	DownloadURL(ctx context.Context, id string) (string, error)

	// OpenURL opens a URL returned by DownloadURL. The caller closes the
	// returned reader.
	OpenURL(ctx context.Context, url string) (io.ReadCloser, error)

	// UploadStreamed uploads r as filename inside the folder parentID.
	UploadStreamed(ctx context.Context, r io.Reader, parentID, filename string, unzip, overwrite bool) error

	// UpdateItem renames and/or reparents an item.
	UpdateItem(ctx context.Context, id string, patch ItemPatch) error

	// CopyItem copies sourceID into the folder targetParentID.
	CopyItem(ctx context.Context, targetParentID, sourceID string, overwrite bool) error

	// DeleteItem removes an item (folders recursively).
	DeleteItem(ctx context.Context, id string) error

	// CreateFolder creates a folder named name inside parentID.
	CreateFolder(ctx context.Context, parentID, name, description string, overwrite bool) error

	// HomeFolderName returns the name of the caller's home folder, the
	// folder substituted when the filesystem root is listed.
	HomeFolderName(ctx context.Context) (string, error)
}
