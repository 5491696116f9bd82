package rest

import "github.com/marmos91/sharefs/pkg/sharefile"

type apiRef struct {
	ID string `json:"Id"`
}

// apiItem is the wire form of an item.
type apiItem struct {
	ODataType          string         `json:"odata.type"`
	ID                 string         `json:"Id"`
	Name               string         `json:"Name"`
	FileName           string         `json:"FileName"`
	FileSizeBytes      int64          `json:"FileSizeBytes"`
	ClientModifiedDate string         `json:"ClientModifiedDate,omitempty"`
	ClientCreatedDate  string         `json:"ClientCreatedDate,omitempty"`
	CreationDate       string         `json:"CreationDate,omitempty"`
	ProgenyEditDate    string         `json:"ProgenyEditDate,omitempty"`
	Parent             *apiRef        `json:"Parent,omitempty"`
	Info               map[string]any `json:"Info,omitempty"`
	Children           []apiItem      `json:"Children,omitempty"`
}

func (w *apiItem) toItem(withChildren bool) *sharefile.Item {
	name := w.FileName
	if name == "" {
		name = w.Name
	}

	item := &sharefile.Item{
		ID:                 w.ID,
		Kind:               sharefile.KindFromODataType(w.ODataType),
		ODataType:          w.ODataType,
		Name:               name,
		Size:               w.FileSizeBytes,
		ClientModifiedDate: w.ClientModifiedDate,
		ClientCreatedDate:  w.ClientCreatedDate,
		CreationDate:       w.CreationDate,
		ProgenyEditDate:    w.ProgenyEditDate,
		Info:               sharefile.CapabilitiesFromInfo(w.Info),
	}
	if w.Parent != nil {
		item.ParentID = w.Parent.ID
	}

	if withChildren {
		item.Children = make([]*sharefile.Item, 0, len(w.Children))
		for i := range w.Children {
			item.Children = append(item.Children, w.Children[i].toItem(false))
		}
	}
	return item
}

type downloadSpec struct {
	DownloadURL string `json:"DownloadUrl"`
}

type uploadRequest struct {
	Method    string `json:"Method"`
	Raw       bool   `json:"Raw"`
	FileName  string `json:"FileName"`
	Overwrite bool   `json:"Overwrite"`
	Unzip     bool   `json:"Unzip"`
}

type uploadSpec struct {
	ChunkURI  string `json:"ChunkUri"`
	FinishURI string `json:"FinishUri"`
}

type itemPatch struct {
	Name     string  `json:"Name,omitempty"`
	FileName string  `json:"FileName,omitempty"`
	Parent   *apiRef `json:"Parent,omitempty"`
}

type folderRequest struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
}
