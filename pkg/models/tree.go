package models

import (
	"path"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// TreeEntry is one file or directory listed under a commit
type TreeEntry struct {
	Path string
	Size int64
	Type plumbing.ObjectType
	Mode filemode.FileMode
	// URL is where the entry content can be fetched with the raw accept header
	URL string
}

// Name returns the base name of the entry path
func (e TreeEntry) Name() string {
	return path.Base(strings.TrimSuffix(e.Path, "/"))
}

// IsFile reports whether the entry is a blob
func (e TreeEntry) IsFile() bool {
	return e.Type == plumbing.BlobObject
}

// TypeName returns a short human label for the entry type
func (e TreeEntry) TypeName() string {
	switch e.Type {
	case plumbing.BlobObject:
		return "file"
	case plumbing.TreeObject:
		return "dir"
	case plumbing.CommitObject:
		return "submodule"
	default:
		return "unknown"
	}
}
