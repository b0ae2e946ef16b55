package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind classifies a file node.
type Kind string

const (
	// KindFolder groups other nodes, never carries a payload
	KindFolder Kind = "folder"
	// KindFile carries an opaque payload
	KindFile Kind = "file"
	// KindImage carries an image payload and gets thumbnail renditions
	KindImage Kind = "image"
)

// Valid reports whether k is one of the supported node kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFolder, KindFile, KindImage:
		return true
	default:
		return false
	}
}

// File is the metadata record for one folder, file, or image.
//
// Invariants:
//   - ParentID nil means root-level, otherwise it references an existing
//     node of kind folder.
//   - KindFolder implies LocalPath is empty; file/image nodes get
//     LocalPath set only after the blob write succeeded.
//   - IsPublic flips only through an explicit publish/unpublish by the owner.
type File struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID  `bson:"owner_id" json:"owner_id"`
	Name      string              `bson:"name" json:"name"`
	Kind      Kind                `bson:"kind" json:"kind"`
	IsPublic  bool                `bson:"is_public" json:"is_public"`
	ParentID  *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	LocalPath string              `bson:"local_path,omitempty" json:"-"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

// GetID get id
func (f *File) GetID() string {
	return f.ID.Hex()
}

// IsFolder reports whether the node is a folder.
func (f *File) IsFolder() bool {
	return f.Kind == KindFolder
}
