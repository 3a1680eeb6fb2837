package models

const (
	KindFile     = "file"
	KindFolder   = "folder"
	KindDocument = "document"

	FolderMimeType = "application/vnd.google-apps.folder"
)

// ResourceRef is the canonical form of a user supplied
// URL or bare ID after resolution.
type ResourceRef struct {
	// Kind is one of KindFile, KindFolder or KindDocument
	Kind string

	// Id is the Drive identifier of the resource
	Id string

	// SourceUrl is the input the reference was derived
	// from, or an empty string for bare ID inputs
	SourceUrl string

	// DocType is set for KindDocument references and is one
	// of "document", "spreadsheets" or "presentation"
	DocType string
}

// FolderNode is a single entry of a folder listing.
// A node with the folder MIME type carries its
// children while file nodes are leaves.
type FolderNode struct {
	Id       string
	Name     string
	MimeType string
	Children []*FolderNode
}

func (n *FolderNode) IsFolder() bool {
	return n.MimeType == FolderMimeType
}

// GDriveFile holds the file details fetched from GDrive API v3:
// https://developers.google.com/drive/api/v3/reference/files
type GDriveFile struct {
	Id          string
	Name        string
	Size        int64
	MimeType    string
	Md5Checksum string
}
