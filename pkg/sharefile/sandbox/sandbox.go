// Package sandbox emulates a ShareFile account on local storage.
//
// The sandbox implements sharefile.Client so the adapter and the CLI can run
// without network access. The account tree looks like a real one:
//
//	/                     account root
//	/Personal Folders     the caller's home folder
//
// Items live in an itemstore.Store and file bytes in a content.Store, so the
// same emulation can be ephemeral (memory stores) or persistent (badger plus
// filesystem or S3).
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/sharefs/internal/logger"
	"github.com/marmos91/sharefs/pkg/content"
	"github.com/marmos91/sharefs/pkg/itemstore"
	"github.com/marmos91/sharefs/pkg/sharefile"
)

const (
	// RootID is the fixed identifier of the account root, so persistent
	// stores can be reopened.
	RootID = "root"

	// DefaultHomeFolder is the name of the home folder created on first use.
	DefaultHomeFolder = "Personal Folders"

	urlScheme = "sandbox://items/"
)

var (
	// ErrConflict indicates a name collision the request did not allow to overwrite.
	ErrConflict = errors.New("sandbox: item already exists")

	// ErrNotAFolder indicates a folder operation addressed a file.
	ErrNotAFolder = errors.New("sandbox: item is not a folder")

	// ErrNotAFile indicates a content operation addressed a folder.
	ErrNotAFile = errors.New("sandbox: item is not a file")

	// ErrRootImmutable indicates an attempt to delete, move or rename the root.
	ErrRootImmutable = errors.New("sandbox: the account root cannot be modified")
)

// Config configures a sandbox Client.
type Config struct {
	// Items persists the item tree. Required.
	Items itemstore.Store

	// Content persists file bodies. Required.
	Content content.Store

	// HomeFolder is the home folder name. Defaults to DefaultHomeFolder.
	HomeFolder string

	// DefaultCapabilities is granted to every item the sandbox creates.
	// Nil grants every known capability.
	DefaultCapabilities sharefile.Capabilities

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Client is an in-process sharefile.Client.
//
// Mutations are serialized by a single mutex; lookups go straight to the
// stores.
type Client struct {
	items    itemstore.Store
	blobs    content.Store
	home     string
	defaults sharefile.Capabilities
	now      func() time.Time

	mu sync.Mutex
}

var _ sharefile.Client = (*Client)(nil)

// New opens the sandbox, creating the root and home folder when missing.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Items == nil {
		return nil, fmt.Errorf("sandbox: item store is required")
	}
	if cfg.Content == nil {
		return nil, fmt.Errorf("sandbox: content store is required")
	}

	c := &Client{
		items:    cfg.Items,
		blobs:    cfg.Content,
		home:     cfg.HomeFolder,
		defaults: cfg.DefaultCapabilities,
		now:      cfg.Now,
	}
	if c.home == "" {
		c.home = DefaultHomeFolder
	}
	if c.defaults == nil {
		c.defaults = sharefile.FullCapabilities()
	}
	if c.now == nil {
		c.now = time.Now
	}

	if err := c.bootstrap(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) bootstrap(ctx context.Context) error {
	_, err := c.items.GetItem(ctx, RootID)
	switch {
	case err == nil:
	case errors.Is(err, itemstore.ErrNotFound):
		root := c.newItem(sharefile.KindFolder, "Root", "")
		root.ID = RootID
		if err := c.items.PutItem(ctx, root); err != nil {
			return fmt.Errorf("sandbox: create root: %w", err)
		}
		logger.Debug("sandbox: created account root")
	default:
		return fmt.Errorf("sandbox: load root: %w", err)
	}

	home, err := c.findChild(ctx, RootID, c.home)
	if err != nil {
		return err
	}
	if home == nil {
		if err := c.items.PutItem(ctx, c.newItem(sharefile.KindFolder, c.home, RootID)); err != nil {
			return fmt.Errorf("sandbox: create home folder: %w", err)
		}
		logger.Debug("sandbox: created home folder %q", c.home)
	}
	return nil
}

func (c *Client) newItem(kind sharefile.Kind, name, parentID string) *sharefile.Item {
	now := sharefile.FormatTimestamp(c.now())
	item := &sharefile.Item{
		ID:                 uuid.NewString(),
		Kind:               kind,
		Name:               name,
		ParentID:           parentID,
		ClientCreatedDate:  now,
		ClientModifiedDate: now,
		CreationDate:       now,
		Info:               c.defaults.Clone(),
	}
	switch kind {
	case sharefile.KindFile:
		item.ODataType = sharefile.ODataTypeFile
	case sharefile.KindFolder:
		item.ODataType = sharefile.ODataTypeFolder
		item.ProgenyEditDate = now
	}
	return item
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sharefile.ErrItemNotFound)
}

// getItem translates store misses into sharefile.ErrItemNotFound.
func (c *Client) getItem(ctx context.Context, id string) (*sharefile.Item, error) {
	item, err := c.items.GetItem(ctx, id)
	if errors.Is(err, itemstore.ErrNotFound) {
		return nil, notFound("item %s", id)
	}
	return item, err
}

func (c *Client) getFolder(ctx context.Context, id string) (*sharefile.Item, error) {
	item, err := c.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsFolder() {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotAFolder)
	}
	return item, nil
}

// findChild returns nil without error when parentID has no child called name.
func (c *Client) findChild(ctx context.Context, parentID, name string) (*sharefile.Item, error) {
	children, err := c.items.ListChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if child.Name == name {
			return child, nil
		}
	}
	return nil, nil
}

// ItemByPath walks the tree from the account root. Names match exactly.
func (c *Client) ItemByPath(ctx context.Context, path string) (*sharefile.Item, error) {
	current, err := c.getItem(ctx, RootID)
	if err != nil {
		return nil, err
	}

	for _, name := range strings.Split(path, "/") {
		if name == "" {
			continue
		}
		if !current.IsFolder() {
			return nil, notFound("path %q", path)
		}
		next, err := c.findChild(ctx, current.ID, name)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, notFound("path %q", path)
		}
		current = next
	}
	return current, nil
}

func (c *Client) ItemByID(ctx context.Context, id string, withChildren bool) (*sharefile.Item, error) {
	item, err := c.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if withChildren && item.IsFolder() {
		children, err := c.items.ListChildren(ctx, id)
		if err != nil {
			return nil, err
		}
		item.Children = children
	}
	return item, nil
}

func (c *Client) ItemContents(ctx context.Context, id string) ([]byte, error) {
	rc, err := c.openContent(ctx, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return io.ReadAll(rc)
}

func (c *Client) openContent(ctx context.Context, id string) (io.ReadCloser, error) {
	item, err := c.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsFile() {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotAFile)
	}

	rc, err := c.blobs.ReadContent(ctx, content.ContentID(id))
	if errors.Is(err, content.ErrContentNotFound) {
		// Metadata without a blob is an empty file.
		return io.NopCloser(strings.NewReader("")), nil
	}
	return rc, err
}

func (c *Client) DownloadURL(ctx context.Context, id string) (string, error) {
	item, err := c.getItem(ctx, id)
	if err != nil {
		return "", err
	}
	if !item.IsFile() {
		return "", fmt.Errorf("item %s: %w", id, ErrNotAFile)
	}
	return urlScheme + id, nil
}

func (c *Client) OpenURL(ctx context.Context, url string) (io.ReadCloser, error) {
	id, ok := strings.CutPrefix(url, urlScheme)
	if !ok || id == "" {
		return nil, fmt.Errorf("sandbox: unsupported download url %q", url)
	}
	return c.openContent(ctx, id)
}

func (c *Client) UploadStreamed(ctx context.Context, r io.Reader, parentID, filename string, unzip, overwrite bool) error {
	if filename == "" || strings.Contains(filename, "/") {
		return fmt.Errorf("sandbox: invalid file name %q", filename)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	parent, err := c.getFolder(ctx, parentID)
	if err != nil {
		return err
	}

	item, err := c.findChild(ctx, parent.ID, filename)
	if err != nil {
		return err
	}
	switch {
	case item == nil:
		item = c.newItem(sharefile.KindFile, filename, parent.ID)
	case !overwrite:
		return fmt.Errorf("upload %q: %w", filename, ErrConflict)
	case !item.IsFile():
		return fmt.Errorf("upload %q: %w", filename, ErrNotAFile)
	default:
		item.ClientModifiedDate = sharefile.FormatTimestamp(c.now())
	}

	n, err := c.blobs.WriteFrom(ctx, content.ContentID(item.ID), r)
	if err != nil {
		return fmt.Errorf("sandbox: store content: %w", err)
	}
	item.Size = n

	if err := c.items.PutItem(ctx, item); err != nil {
		return err
	}
	return c.touch(ctx, parent)
}

// touch records a change below folder.
func (c *Client) touch(ctx context.Context, folder *sharefile.Item) error {
	folder.ProgenyEditDate = sharefile.FormatTimestamp(c.now())
	return c.items.PutItem(ctx, folder)
}

func (c *Client) UpdateItem(ctx context.Context, id string, patch sharefile.ItemPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == RootID {
		return ErrRootImmutable
	}

	item, err := c.getItem(ctx, id)
	if err != nil {
		return err
	}

	name := item.Name
	switch {
	case patch.FileName != "":
		name = patch.FileName
	case patch.Name != "":
		name = patch.Name
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("sandbox: invalid name %q", name)
	}

	parentID := item.ParentID
	if patch.ParentID != "" {
		parentID = patch.ParentID
	}
	parent, err := c.getFolder(ctx, parentID)
	if err != nil {
		return err
	}
	if err := c.checkNotAncestor(ctx, item.ID, parent.ID); err != nil {
		return err
	}

	if name != item.Name || parentID != item.ParentID {
		existing, err := c.findChild(ctx, parentID, name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != item.ID {
			return fmt.Errorf("update %q: %w", name, ErrConflict)
		}
	}

	item.Name = name
	item.ParentID = parentID
	item.ClientModifiedDate = sharefile.FormatTimestamp(c.now())
	if err := c.items.PutItem(ctx, item); err != nil {
		return err
	}
	return c.touch(ctx, parent)
}

// checkNotAncestor rejects moving a folder into its own subtree.
func (c *Client) checkNotAncestor(ctx context.Context, id, targetParentID string) error {
	for cursor := targetParentID; cursor != ""; {
		if cursor == id {
			return fmt.Errorf("sandbox: cannot move %s below itself", id)
		}
		item, err := c.getItem(ctx, cursor)
		if err != nil {
			return err
		}
		cursor = item.ParentID
	}
	return nil
}

func (c *Client) CopyItem(ctx context.Context, targetParentID, sourceID string, overwrite bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	source, err := c.getItem(ctx, sourceID)
	if err != nil {
		return err
	}
	target, err := c.getFolder(ctx, targetParentID)
	if err != nil {
		return err
	}
	if source.IsFolder() {
		if err := c.checkNotAncestor(ctx, source.ID, target.ID); err != nil {
			return err
		}
	}

	existing, err := c.findChild(ctx, target.ID, source.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.ID == source.ID {
			return fmt.Errorf("copy %q onto itself: %w", source.Name, ErrConflict)
		}
		if !overwrite {
			return fmt.Errorf("copy %q: %w", source.Name, ErrConflict)
		}
		if err := c.deleteTree(ctx, existing); err != nil {
			return err
		}
	}

	if err := c.copyTree(ctx, source, target.ID); err != nil {
		return err
	}
	return c.touch(ctx, target)
}

func (c *Client) copyTree(ctx context.Context, source *sharefile.Item, parentID string) error {
	dup := c.newItem(source.Kind, source.Name, parentID)
	dup.Size = source.Size
	dup.Info = source.Info.Clone()

	if source.IsFile() {
		data, err := c.ItemContents(ctx, source.ID)
		if err != nil {
			return err
		}
		if err := c.blobs.WriteContent(ctx, content.ContentID(dup.ID), data); err != nil {
			return err
		}
	}
	if err := c.items.PutItem(ctx, dup); err != nil {
		return err
	}
	if !source.IsFolder() {
		return nil
	}

	children, err := c.items.ListChildren(ctx, source.ID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := c.copyTree(ctx, child, dup.ID); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == RootID {
		return ErrRootImmutable
	}

	item, err := c.getItem(ctx, id)
	if err != nil {
		return err
	}
	if err := c.deleteTree(ctx, item); err != nil {
		return err
	}

	if parent, err := c.getItem(ctx, item.ParentID); err == nil {
		return c.touch(ctx, parent)
	}
	return nil
}

// deleteTree removes descendants before the item itself so an interrupted
// delete never leaves orphans.
func (c *Client) deleteTree(ctx context.Context, item *sharefile.Item) error {
	if item.IsFolder() {
		children, err := c.items.ListChildren(ctx, item.ID)
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := c.deleteTree(ctx, child); err != nil {
				return err
			}
		}
	}
	if item.IsFile() {
		if err := c.blobs.Delete(ctx, content.ContentID(item.ID)); err != nil {
			return err
		}
	}
	return c.items.DeleteItem(ctx, item.ID)
}

func (c *Client) CreateFolder(ctx context.Context, parentID, name, description string, overwrite bool) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("sandbox: invalid folder name %q", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	parent, err := c.getFolder(ctx, parentID)
	if err != nil {
		return err
	}

	existing, err := c.findChild(ctx, parent.ID, name)
	if err != nil {
		return err
	}
	if existing != nil {
		switch {
		case !overwrite:
			return fmt.Errorf("create folder %q: %w", name, ErrConflict)
		case existing.IsFolder():
			return nil
		default:
			if err := c.deleteTree(ctx, existing); err != nil {
				return err
			}
		}
	}

	if err := c.items.PutItem(ctx, c.newItem(sharefile.KindFolder, name, parent.ID)); err != nil {
		return err
	}
	return c.touch(ctx, parent)
}

func (c *Client) HomeFolderName(ctx context.Context) (string, error) {
	return c.home, nil
}

// SetCapabilities replaces the capability bag of the item at path.
func (c *Client) SetCapabilities(ctx context.Context, path string, caps sharefile.Capabilities) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.ItemByPath(ctx, path)
	if err != nil {
		return err
	}
	item.Info = caps.Clone()
	return c.items.PutItem(ctx, item)
}

// Close releases both stores.
func (c *Client) Close() error {
	return errors.Join(c.items.Close(), closeContent(c.blobs))
}

func closeContent(store content.Store) error {
	if closer, ok := store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
