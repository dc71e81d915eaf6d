package domain

import (
	"fmt"
	"sort"
)

// EntryKind is the type of a directory entry as reported by the contents API.
type EntryKind string

const (
	KindFile      EntryKind = "file"
	KindDir       EntryKind = "dir"
	KindSymlink   EntryKind = "symlink"
	KindSubmodule EntryKind = "submodule"
)

// DirectoryEntry is one item of a single directory level.
type DirectoryEntry struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Kind EntryKind `json:"kind"`
	URL  string    `json:"url,omitempty"`
}

// BrowseURL links to the entry on the repository's main branch.
func (e DirectoryEntry) BrowseURL(ref RepositoryRef) string {
	return fmt.Sprintf("https://github.com/%s/%s/tree/main/%s", ref.Owner, ref.Repo, e.Path)
}

// SortEntries orders entries by kind, then by name, both ascending.
// The slice is sorted in place and returned for convenience.
func SortEntries(entries []DirectoryEntry) []DirectoryEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind < entries[j].Kind
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}
