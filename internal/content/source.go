// Package content enumerates the markup files that back the post feed.
package content

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Extensions recognized as post files.
var Extensions = []string{".md", ".mdx", ".markdown"}

// Entry is one content file and the slug derived from its name.
type Entry struct {
	Name string
	Slug string
}

// Source is a flat directory of content files.
type Source interface {
	Entries() ([]Entry, error)
	Open(name string) (fs.File, error)
}

type DirSource struct {
	fsys fs.FS
	root string
}

// NewDirSource reads entries from a directory on disk.
func NewDirSource(dir string) *DirSource {
	return &DirSource{fsys: os.DirFS(dir), root: dir}
}

// NewFSSource reads entries from the root of fsys.
func NewFSSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys, root: "."}
}

func (s *DirSource) String() string {
	return s.root
}

// Entries returns content files sorted by name. Hidden files, files starting
// with an underscore, directories and unknown extensions are ignored.
func (s *DirSource) Entries() ([]Entry, error) {
	dirEntries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory %s: %w", s.root, err)
	}

	var entries []Entry
	for _, d := range dirEntries {
		name := d.Name()
		if d.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		if !IsContentFile(name) {
			continue
		}
		entries = append(entries, Entry{Name: name, Slug: Slug(name)})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func (s *DirSource) Open(name string) (fs.File, error) {
	return s.fsys.Open(name)
}

func IsContentFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Slug derives the public identifier from a file name: the extension is
// dropped and the rest is normalized to NFC so that names written by
// different filesystems compare equal.
func Slug(name string) string {
	base := path.Base(name)
	return norm.NFC.String(strings.TrimSuffix(base, path.Ext(base)))
}
