package sharefile

import "time"

// OData type names reported by the remote API for the two item kinds the
// adapter understands.
const (
	ODataTypeFile   = "ShareFile.Api.Models.File"
	ODataTypeFolder = "ShareFile.Api.Models.Folder"
)

// Kind is the variant of a remote item.
type Kind int

const (
	// KindOther covers every remote node that is neither a file nor a folder
	// (links, notes, symbolic links, ...). The adapter treats these as
	// unresolvable.
	KindOther Kind = iota
	KindFile
	KindFolder
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	default:
		return "other"
	}
}

// KindFromODataType maps the remote odata.type discriminator to a Kind.
func KindFromODataType(odataType string) Kind {
	switch odataType {
	case ODataTypeFile:
		return KindFile
	case ODataTypeFolder:
		return KindFolder
	default:
		return KindOther
	}
}

// Item is a snapshot of a node in the remote tree.
//
// Items are produced by a Client and are never cached by the adapter: every
// operation works on freshly fetched snapshots.
type Item struct {
	// ID is the opaque identifier, stable for the lifetime of the node.
	ID string `json:"id"`

	// Kind is derived from ODataType.
	Kind Kind `json:"kind"`

	// ODataType is the raw remote type discriminator.
	ODataType string `json:"odata_type"`

	// Name is the leaf name component (the remote FileName).
	Name string `json:"name"`

	// ParentID references the containing folder. Empty only for the store root.
	ParentID string `json:"parent_id,omitempty"`

	// Size is the content length in bytes. Only meaningful for files.
	Size int64 `json:"size"`

	// Candidate timestamps as reported by the remote system, in RFC 3339 form.
	// The adapter uses the first non-empty one in declaration order.
	ClientModifiedDate string `json:"client_modified_date,omitempty"`
	ClientCreatedDate  string `json:"client_created_date,omitempty"`
	CreationDate       string `json:"creation_date,omitempty"`
	ProgenyEditDate    string `json:"progeny_edit_date,omitempty"`

	// Info holds the capability flags granted to the caller on this item.
	Info Capabilities `json:"info,omitempty"`

	// Children is populated only when the item was fetched with children.
	Children []*Item `json:"children,omitempty"`
}

// IsFile reports whether the item is a file.
func (i *Item) IsFile() bool {
	return i != nil && i.Kind == KindFile
}

// IsFolder reports whether the item is a folder.
func (i *Item) IsFolder() bool {
	return i != nil && i.Kind == KindFolder
}

// HasParent reports whether the item references a containing folder.
func (i *Item) HasParent() bool {
	return i != nil && i.ParentID != ""
}

// Clone returns a deep copy of the item, children included.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}

	c := *i
	c.Info = i.Info.Clone()
	if i.Children != nil {
		c.Children = make([]*Item, len(i.Children))
		for idx, child := range i.Children {
			c.Children[idx] = child.Clone()
		}
	}
	return &c
}

// ItemPatch describes the fields UpdateItem may change. Empty fields are left
// untouched by the remote system.
type ItemPatch struct {
	Name     string
	FileName string
	ParentID string
}

// FormatTimestamp renders a time in the form items carry their dates.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
