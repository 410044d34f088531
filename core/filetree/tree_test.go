package filetree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(nodes []*Node) []string {
	res := make([]string, 0, len(nodes))
	for _, n := range nodes {
		res = append(res, n.Name)
	}
	return res
}

func TestBuildEmpty(t *testing.T) {
	tree := Build(nil)
	assert.NotNil(t, tree)
	assert.Equal(t, 0, len(tree))

	tree = Build([]string{})
	assert.Equal(t, 0, len(tree))
}

func TestBuildSiblingOrder(t *testing.T) {
	tree := Build([]string{"b/x", "a/y"})
	require.Equal(t, 2, len(tree))
	assert.Equal(t, []string{"a", "b"}, names(tree))
	assert.Equal(t, Directory, tree[0].Kind)
	assert.Equal(t, []string{"y"}, names(tree[0].Children))
}

func TestBuildSharedPrefix(t *testing.T) {
	tree := Build([]string{"src/b.js", "src/a.js"})
	require.Equal(t, 1, len(tree))

	src := tree[0]
	assert.Equal(t, "src", src.Name)
	assert.Equal(t, Directory, src.Kind)
	assert.Equal(t, "d:src", src.Key)
	require.Equal(t, 2, len(src.Children))
	assert.Equal(t, []string{"a.js", "b.js"}, names(src.Children))

	for _, c := range src.Children {
		assert.Equal(t, File, c.Kind)
		assert.Nil(t, c.Children)
	}
	// keys are positions in the sorted input
	assert.Equal(t, "0", src.Children[0].Key)
	assert.Equal(t, "1", src.Children[1].Key)
}

func TestBuildEveryPathIsOneLeaf(t *testing.T) {
	paths := []string{
		"README.md",
		"src/index.js",
		"src/lib/util.js",
		"src/lib/deep/x.js",
		"package.json",
		"test/index.test.js",
	}
	tree := Build(paths)

	seen := make(map[string]int)
	Walk(tree, func(n *Node, ancestors []string) bool {
		if n.Kind == File {
			full := strings.Join(append(append([]string{}, ancestors...), n.Name), "/")
			assert.Equal(t, n.Path, full)
			seen[full]++
		}
		return true
	})

	assert.Equal(t, len(paths), len(seen))
	for _, p := range paths {
		assert.Equal(t, 1, seen[p], p)
	}
}

func TestBuildRootFilesAreLeaves(t *testing.T) {
	tree := Build([]string{"main.go", "go.mod"})
	require.Equal(t, 2, len(tree))
	assert.Equal(t, []string{"go.mod", "main.go"}, names(tree))
	for _, n := range tree {
		assert.Equal(t, File, n.Kind)
	}
}

func TestBuildDirectoryMarkers(t *testing.T) {
	tree := Build([]string{"myfunc", "myfunc/index.js", "myfunc/lib/", "myfunc/lib/a.js"})
	require.Equal(t, 1, len(tree))

	root := tree[0]
	assert.Equal(t, "myfunc", root.Name)
	assert.Equal(t, Directory, root.Kind)
	assert.Equal(t, []string{"index.js", "lib"}, names(root.Children))

	lib := root.Children[1]
	assert.Equal(t, Directory, lib.Kind)
	assert.Equal(t, []string{"a.js"}, names(lib.Children))

	assert.Equal(t, []string{"myfunc/index.js", "myfunc/lib/a.js"}, Files(tree))
	assert.Equal(t, 4, CountNodes(tree))
}

func TestBuildIdempotent(t *testing.T) {
	paths := []string{"a/b/c.txt", "a/d.txt", "e.txt"}
	assert.Equal(t, Build(paths), Build(paths))
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	paths := []string{"z.txt", "a.txt"}
	Build(paths)
	assert.Equal(t, []string{"z.txt", "a.txt"}, paths)
}

func TestLookup(t *testing.T) {
	paths := []string{"src/b.js", "src/a.js", "README.md"}
	tree := Build(paths)
	sorted := Sorted(paths)

	n, ok := Lookup(tree, "d:src")
	require.True(t, ok)
	assert.Equal(t, Directory, n.Kind)

	n, ok = Lookup(tree, "2")
	require.True(t, ok)
	assert.Equal(t, sorted[2], n.Path)
	assert.Equal(t, "src/b.js", n.Path)

	_, ok = Lookup(tree, "17")
	assert.False(t, ok)
}

func TestFileIndex(t *testing.T) {
	tests := []struct {
		key   string
		index int
		ok    bool
	}{
		{"0", 0, true},
		{"12", 12, true},
		{"d:src", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		i, ok := FileIndex(tt.key)
		assert.Equal(t, tt.ok, ok, tt.key)
		if ok {
			assert.Equal(t, tt.index, i)
		}
	}
}
