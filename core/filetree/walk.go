package filetree

// Walk visits every node depth first in display order. fn receives the node and the
// names of its ancestors. Returning false skips the node's children.
func Walk(nodes []*Node, fn func(n *Node, ancestors []string) bool) {
	walk(nodes, nil, fn)
}

func walk(nodes []*Node, ancestors []string, fn func(*Node, []string) bool) {
	for _, n := range nodes {
		if !fn(n, ancestors) || n.Kind != Directory {
			continue
		}
		walk(n.Children, append(ancestors[:len(ancestors):len(ancestors)], n.Name), fn)
	}
}

// Lookup finds the node with the given key.
func Lookup(nodes []*Node, key string) (*Node, bool) {
	var found *Node
	Walk(nodes, func(n *Node, _ []string) bool {
		if found != nil {
			return false
		}
		if n.Key == key {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Files returns the path of every file leaf in display order.
func Files(nodes []*Node) []string {
	files := make([]string, 0)
	Walk(nodes, func(n *Node, _ []string) bool {
		if n.Kind == File {
			files = append(files, n.Path)
		}
		return true
	})
	return files
}

// CountNodes counts all nodes in a tree.
func CountNodes(nodes []*Node) int {
	count := 0
	for _, n := range nodes {
		count++
		if n.Kind == Directory {
			count += CountNodes(n.Children)
		}
	}
	return count
}
