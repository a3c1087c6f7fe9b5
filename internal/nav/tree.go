// Package nav models the site navigation declaration the plugin merges
// generated documents into. The host generator hands the declaration over as
// a loosely-typed tree of strings and single-key maps; this package converts
// it into an explicit tagged form at the boundary and runs the merge, search,
// and rewrite passes over that.
package nav

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"
)

var (
	// ErrInvalidEntry reports a navigation element that is neither a path
	// string nor a single-key group mapping.
	ErrInvalidEntry = errors.New("nav: invalid navigation entry")
)

// Node is one element of a navigation tree: either a leaf referencing a page
// path or a named group holding an ordered subtree. A node is a group when
// Name is set. Leaves may carry an explicit Title when the declaration used a
// titled entry.
type Node struct {
	Title    string
	Path     string
	Name     string
	Children []*Node
}

// Leaf builds a leaf node for a page path.
func Leaf(p string) *Node {
	return &Node{Path: p}
}

// Group builds a named group node.
func Group(name string, children ...*Node) *Node {
	return &Node{Name: name, Children: children}
}

// IsLeaf reports whether the node references a page rather than a group.
func (n *Node) IsLeaf() bool {
	return n != nil && n.Name == ""
}

// Decode converts the loosely-typed declaration (strings and single-key
// maps, as produced by YAML) into tagged nodes. Group values must be lists;
// a scalar string value is accepted as a titled page entry.
func Decode(raw []any) ([]*Node, error) {
	nodes := make([]*Node, 0, len(raw))
	for _, element := range raw {
		switch value := element.(type) {
		case string:
			nodes = append(nodes, Leaf(value))
		case map[string]any:
			node, err := decodeMapping(value)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		default:
			return nil, fmt.Errorf("%w: unsupported element %T", ErrInvalidEntry, element)
		}
	}
	return nodes, nil
}

func decodeMapping(value map[string]any) (*Node, error) {
	if len(value) != 1 {
		return nil, fmt.Errorf("%w: mappings must have exactly one key, got %d", ErrInvalidEntry, len(value))
	}
	for key, inner := range value {
		switch sub := inner.(type) {
		case string:
			return &Node{Title: key, Path: sub}, nil
		case []any:
			children, err := Decode(sub)
			if err != nil {
				return nil, err
			}
			return Group(key, children...), nil
		default:
			return nil, fmt.Errorf("%w: group %q must map to a list or a path", ErrInvalidEntry, key)
		}
	}
	return nil, ErrInvalidEntry
}

// Encode converts tagged nodes back into the loosely-typed declaration shape.
func Encode(nodes []*Node) []any {
	raw := make([]any, 0, len(nodes))
	for _, node := range nodes {
		switch {
		case node.IsLeaf() && node.Title != "":
			raw = append(raw, map[string]any{node.Title: node.Path})
		case node.IsLeaf():
			raw = append(raw, node.Path)
		default:
			raw = append(raw, map[string]any{node.Name: Encode(node.Children)})
		}
	}
	return raw
}

// Build constructs a tree mirroring the navigation layout from file paths.
// Each directory segment below the specification root becomes a group named
// after the raw segment; the root segment itself does not. Leaves keep the
// full relative path. Paths are expected pre-sorted.
func Build(paths []string) []*Node {
	root := Group("/") // scratch group, never encoded
	for _, p := range paths {
		current := root
		if dir := path.Dir(p); dir != "." {
			segments := strings.Split(dir, "/")
			for _, segment := range segments[1:] {
				current = EnsureGroup(current, segment)
			}
		}
		current.Children = append(current.Children, Leaf(p))
	}
	return root.Children
}

// EnsureGroup returns the group with the exact name directly under parent,
// appending a new empty group at the end when absent.
func EnsureGroup(parent *Node, name string) *Node {
	for _, child := range parent.Children {
		if !child.IsLeaf() && child.Name == name {
			return child
		}
	}
	group := Group(name)
	parent.Children = append(parent.Children, group)
	return group
}

// Merge folds the source tree into the destination group in source order.
// Leaves are appended unless an identical leaf already exists at that level.
// Groups are resolved by display name: a match recurses into the existing
// entry, a miss appends a new empty group and recurses into it. Merging the
// same source twice therefore changes nothing.
func Merge(dst *Node, src []*Node) {
	for _, element := range src {
		if element.IsLeaf() {
			if !containsLeaf(dst.Children, element.Path) {
				dst.Children = append(dst.Children, Leaf(element.Path))
			}
			continue
		}

		name := DisplayName(element.Name)
		target := findGroup(dst.Children, name)
		if target == nil {
			target = Group(name)
			dst.Children = append(dst.Children, target)
		}
		Merge(target, element.Children)
	}
}

// RewriteSuffix rewrites every leaf under the node whose path ends with the
// from suffix to end with to instead, preserving directory and stem.
func RewriteSuffix(n *Node, from, to string) {
	for _, child := range n.Children {
		if child.IsLeaf() {
			if strings.HasSuffix(child.Path, from) {
				child.Path = strings.TrimSuffix(child.Path, from) + to
			}
			continue
		}
		RewriteSuffix(child, from, to)
	}
}

// LeavesWithSuffix collects, in tree order, the path of every leaf under the
// node ending with the given suffix.
func LeavesWithSuffix(n *Node, suffix string) []string {
	var paths []string
	var walk func(node *Node)
	walk = func(node *Node) {
		for _, child := range node.Children {
			if child.IsLeaf() {
				if strings.HasSuffix(child.Path, suffix) {
					paths = append(paths, child.Path)
				}
				continue
			}
			walk(child)
		}
	}
	walk(n)
	return paths
}

// DisplayName normalizes a raw directory segment for navigation display:
// underscores become spaces, the first rune is uppercased and the rest
// lowercased.
func DisplayName(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	if name == "" {
		return name
	}
	runes := []rune(strings.ToLower(name))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func containsLeaf(nodes []*Node, path string) bool {
	for _, node := range nodes {
		if node.IsLeaf() && node.Path == path {
			return true
		}
	}
	return false
}

func findGroup(nodes []*Node, name string) *Node {
	for _, node := range nodes {
		if !node.IsLeaf() && node.Name == name {
			return node
		}
	}
	return nil
}
