// Package dto defines the wire shapes of the files API.
package dto

import (
	"github.com/Laisky/laisky-files-api/internal/web/files/model"
)

// RootSentinel is the public stand-in for a nil parent id.
const RootSentinel = "0"

// UploadRequest is the JSON body of POST /files.
// Data carries the base64 payload for non-folder types.
type UploadRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// File is the public projection of a file node.
// The storage path is an internal detail and never leaves the service.
type File struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

// NewFile projects a model node into its public shape.
func NewFile(f *model.File) *File {
	parent := RootSentinel
	if f.ParentID != nil {
		parent = f.ParentID.Hex()
	}

	return &File{
		ID:       f.GetID(),
		UserID:   f.OwnerID.Hex(),
		Name:     f.Name,
		Type:     string(f.Kind),
		IsPublic: f.IsPublic,
		ParentID: parent,
	}
}

// NewFiles projects a list page.
func NewFiles(files []*model.File) []*File {
	out := make([]*File, 0, len(files))
	for _, f := range files {
		out = append(out, NewFile(f))
	}

	return out
}
