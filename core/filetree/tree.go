// Package filetree turns the flat object key listing of a function repository into
// the directory tree shown by the code viewer.
package filetree

import (
	"sort"
	"strconv"
	"strings"
)

type Kind int

const (
	Directory Kind = iota
	File
)

func (k Kind) String() string {
	switch k {
	case Directory:
		return "directory"
	case File:
		return "file"
	default:
		return "unknown"
	}
}

// Node is a directory or file in a built tree. Children is non-nil for directories
// and nil for files.
type Node struct {
	Name     string  `json:"name"`
	Kind     Kind    `json:"kind"`
	Key      string  `json:"key"`
	Path     string  `json:"path"`
	Children []*Node `json:"children,omitempty"`
}

func (n *Node) IsDir() bool {
	return n.Kind == Directory
}

const dirKeyPrefix = "d:"

// DirKey returns the selection key of the directory at dirPath.
func DirKey(dirPath string) string {
	return dirKeyPrefix + dirPath
}

// FileKey returns the selection key of the file at position index of the sorted input.
func FileKey(index int) string {
	return strconv.Itoa(index)
}

// FileIndex parses a file key back into its position in the sorted input.
func FileIndex(key string) (int, bool) {
	if strings.HasPrefix(key, dirKeyPrefix) {
		return 0, false
	}
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// Sorted returns a sorted copy of paths. File keys index into this order.
func Sorted(paths []string) []string {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)
	return sorted
}

type builder struct {
	roots []*Node
	dirs  map[string]*Node
}

// Build returns the top level nodes of the tree described by paths.
//
// Every entry becomes exactly one file leaf, except directory markers: entries with a
// trailing slash, or entries that are themselves a directory prefix of another entry.
// Those only make sure the directory exists, so "a/b" next to "a/b/c" yields the
// directory a/b holding file c and no file named b. Siblings appear in the sorted
// order of the input.
func Build(paths []string) []*Node {
	sorted := Sorted(paths)

	prefixes := make(map[string]struct{})
	for _, p := range sorted {
		for i := 0; i < len(p); i++ {
			if p[i] == '/' {
				prefixes[p[:i]] = struct{}{}
			}
		}
	}

	b := &builder{
		roots: make([]*Node, 0),
		dirs:  make(map[string]*Node),
	}
	for index, p := range sorted {
		trimmed := strings.TrimSuffix(p, "/")
		if trimmed == "" {
			continue
		}
		_, isPrefix := prefixes[trimmed]
		if strings.HasSuffix(p, "/") || isPrefix {
			b.directory(trimmed)
			continue
		}

		dirPath, name := splitLast(trimmed)
		file := &Node{
			Name: name,
			Kind: File,
			Key:  FileKey(index),
			Path: p,
		}
		if dirPath == "" {
			b.roots = append(b.roots, file)
			continue
		}
		parent := b.directory(dirPath)
		parent.Children = append(parent.Children, file)
	}
	return b.roots
}

// directory returns the directory node for dirPath, creating it and any missing
// ancestors.
func (b *builder) directory(dirPath string) *Node {
	if dir, ok := b.dirs[dirPath]; ok {
		return dir
	}

	parentPath, name := splitLast(dirPath)
	dir := &Node{
		Name:     name,
		Kind:     Directory,
		Key:      DirKey(dirPath),
		Path:     dirPath,
		Children: make([]*Node, 0),
	}
	b.dirs[dirPath] = dir

	if parentPath == "" {
		b.roots = append(b.roots, dir)
	} else {
		parent := b.directory(parentPath)
		parent.Children = append(parent.Children, dir)
	}
	return dir
}

func splitLast(p string) (string, string) {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}
