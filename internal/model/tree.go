package model

import "sort"

// TreeNode is one part in the inheritance tree. Each node carries the parts
// that name it as their base inline, so the tree can be rendered at any depth.
//
// Example:
//
//	R (root) -> children: [R-0603 -> children: [R-0603-10k]]
type TreeNode struct {
	UUID     string      `json:"uuid" yaml:"uuid"`
	MPN      string      `json:"MPN,omitempty" yaml:"MPN,omitempty"`
	Base     string      `json:"base,omitempty" yaml:"base,omitempty"`
	Cycle    bool        `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// treeItem is a node still to be expanded, with the uuids on its path from
// the root.
type treeItem struct {
	uuid      string
	node      *TreeNode
	ancestors map[string]bool
}

// BuildInheritanceTree arranges the pool by base reference. Parts without a
// base, or whose base is not in the pool, are roots. Parts that only appear
// in a base cycle are rooted at the smallest uuid of the cycle and the
// back-reference is emitted as a leaf marked Cycle.
func BuildInheritanceTree(pool Pool) []*TreeNode {
	children := make(map[string][]string, len(pool))
	var roots []string
	for _, id := range pool.Keys() {
		p := pool[id]
		if p == nil {
			continue
		}
		if p.Base == nil || *p.Base == "" || pool[*p.Base] == nil {
			roots = append(roots, id)
			continue
		}
		children[*p.Base] = append(children[*p.Base], id)
	}

	visited := make(map[string]bool, len(pool))
	var out []*TreeNode
	expand := func(id string) {
		root := newTreeNode(id, pool[id])
		out = append(out, root)
		visited[id] = true

		queue := []treeItem{{uuid: id, node: root, ancestors: map[string]bool{id: true}}}
		for len(queue) > 0 {
			item := queue[0]
			queue = queue[1:]

			for _, child := range children[item.uuid] {
				node := newTreeNode(child, pool[child])
				item.node.Children = append(item.node.Children, node)
				if item.ancestors[child] {
					node.Cycle = true
					continue
				}
				visited[child] = true

				ancestors := make(map[string]bool, len(item.ancestors)+1)
				for k := range item.ancestors {
					ancestors[k] = true
				}
				ancestors[child] = true
				queue = append(queue, treeItem{uuid: child, node: node, ancestors: ancestors})
			}
		}
	}

	for _, id := range roots {
		expand(id)
	}
	// Keys are sorted, so the first unvisited part of a cycle is its smallest uuid.
	for _, id := range pool.Keys() {
		if pool[id] != nil && !visited[id] {
			expand(id)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out
}

func newTreeNode(id string, p *Part) *TreeNode {
	n := &TreeNode{UUID: id}
	if p.MPN != nil {
		n.MPN = p.MPN.Value
	}
	if p.Base != nil {
		n.Base = *p.Base
	}
	return n
}
