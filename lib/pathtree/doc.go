// Package pathtree implements a generic path-indexed trie. Every value in a
// PathTree is identified by a path, an ordered sequence of key fragments.
// Any prefix of a path addresses a position in the tree, so operations can
// act on a single value, on every value below a position, or remove a
// position together with everything beneath it.
//
// Key Components:
//
//   - Node: The addressable unit of the tree. A node holds an optional leaf
//     value and a mapping from the next fragment to exactly one child node.
//     A node without a leaf is a pure routing branch.
//
//   - PathTree: Owns the root node. The root always exists, even when the
//     tree is logically empty, and can never be detached.
//
// Ownership:
//
//	Every node exclusively owns its children. Deleting a position detaches
//	the whole subtree from its parent in one step. Values are stored as
//	shared handles (*V): the tree never mutates a value once inserted.
//	Replacing, clearing or deleting a position only drops the tree's handle,
//	so callers that obtained a handle earlier keep a valid value.
//
// Depth:
//
//	There is no maximum path length. All walks, including the subtree
//	enumeration of GetAll and Walk, use an explicit stack instead of
//	recursion.
//
// Thread Safety:
//
//	A PathTree is not safe for concurrent use. Concurrent callers must
//	serialize access, see the lstore package for a lock-guarded wrapper.
//
// Usage Example:
//
//	tree := pathtree.New[string, bool]()
//	yes := true
//	tree.Insert([]string{"foo", "bar"}, &yes)
//
//	if v := tree.Get([]string{"foo", "bar"}); v != nil {
//	    fmt.Println(*v) // true
//	}
//
//	for _, e := range tree.GetAll([]string{"foo"}) {
//	    fmt.Println(e.Path, e.Value)
//	}
package pathtree
