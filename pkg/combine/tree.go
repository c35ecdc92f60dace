// File: pkg/combine/tree.go
package combine

import (
	"sort"
	"strings"
)

type treeNode struct {
	name     string
	children map[string]*treeNode
}

// GenerateTree renders slash-separated relative paths as a directory tree.
// Directories are listed before files, each group sorted case-insensitively.
func GenerateTree(paths []string) string {
	root := &treeNode{children: map[string]*treeNode{}}
	for _, p := range paths {
		node := root
		for _, segment := range strings.Split(p, "/") {
			if segment == "" {
				continue
			}
			child, ok := node.children[segment]
			if !ok {
				child = &treeNode{name: segment, children: map[string]*treeNode{}}
				node.children[segment] = child
			}
			node = child
		}
	}

	var lines []string
	renderTree(root, "", &lines)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderTree(node *treeNode, prefix string, lines *[]string) {
	entries := make([]*treeNode, 0, len(node.children))
	for _, child := range node.children {
		entries = append(entries, child)
	}
	sort.Slice(entries, func(i, j int) bool {
		iDir, jDir := len(entries[i].children) > 0, len(entries[j].children) > 0
		if iDir != jDir {
			return iDir
		}
		li, lj := strings.ToLower(entries[i].name), strings.ToLower(entries[j].name)
		if li != lj {
			return li < lj
		}
		return entries[i].name < entries[j].name
	})

	for i, entry := range entries {
		connector := "├── "
		extension := "│   "
		if i == len(entries)-1 {
			connector = "└── "
			extension = "    "
		}
		if len(entry.children) > 0 {
			*lines = append(*lines, prefix+connector+entry.name+"/")
			renderTree(entry, prefix+extension, lines)
		} else {
			*lines = append(*lines, prefix+connector+entry.name)
		}
	}
}
