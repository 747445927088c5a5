package models

import "time"

// File type values. Files and images behave identically ("leaf" records);
// folders carry no content and may be parents of other records.
const (
	TypeFolder = "folder"
	TypeFile   = "file"
	TypeImage  = "image"
)

// RootParentID is the external sentinel for "no parent" (top level).
// Internally a root record is stored with a NULL parent reference,
// represented in Go as an empty ParentID.
const RootParentID = "0"

// File describes a stored file or folder.
type File struct {
	// ID is the server-generated record id.
	ID string
	// UserID is the owner, fixed at creation.
	UserID string
	// Name is the client-supplied display name, never empty.
	Name string
	// Type is one of TypeFolder, TypeFile, TypeImage.
	Type string
	// IsPublic permits anonymous content access. The only mutable field.
	IsPublic bool
	// ParentID references a folder record, or is empty for top-level
	// records.
	ParentID string
	// StorageKey is the content-store key of the payload. Set for leaf
	// records, empty for folders.
	StorageKey string

	CreatedAt time.Time
}

// IsFolder reports whether the record is a folder.
func (f *File) IsFolder() bool { return f.Type == TypeFolder }

// IsValidType reports whether t is an accepted file type.
func IsValidType(t string) bool {
	return t == TypeFolder || t == TypeFile || t == TypeImage
}

// PublicParentID maps the internal parent reference to the external
// representation: the root sentinel "0" when empty, the id otherwise.
func (f *File) PublicParentID() string {
	if f.ParentID == "" {
		return RootParentID
	}
	return f.ParentID
}
