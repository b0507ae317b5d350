package pathtree

// --------------------------------------------------------------------------
// Node
// --------------------------------------------------------------------------

// Node is a single position in a PathTree.
// leaf == nil means "no value stored here", not "value is nil".
type Node[K comparable, V any] struct {
	leaf     *V
	branches map[K]*Node[K, V]
}

// Entry pairs the full path of a node (measured from the root of the tree)
// with the node's leaf value. Value is nil if the node has no value.
type Entry[K comparable, V any] struct {
	Path  []K
	Value *V
}

// WalkFunc is called for every node visited by Walk. The path is a fresh
// slice owned by the callee. Returning false stops the walk.
type WalkFunc[K comparable, V any] func(path []K, value *V) bool

// newNode creates an empty, leaf-less node. The branch map is allocated lazily.
func newNode[K comparable, V any]() *Node[K, V] {
	return &Node[K, V]{}
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// Value returns the shared handle of the value stored at this node or nil.
func (n *Node[K, V]) Value() *V {
	return n.leaf
}

// HasValue reports whether a value is stored at this node.
func (n *Node[K, V]) HasValue() bool {
	return n.leaf != nil
}

// ListBranches returns the fragments of the immediate children of this node.
// The order is unspecified.
func (n *Node[K, V]) ListBranches() []K {
	branches := make([]K, 0, len(n.branches))
	for fragment := range n.branches {
		branches = append(branches, fragment)
	}
	return branches
}

// GetBranch returns the immediate child for a fragment or nil.
// The returned node can be mutated directly, e.g. to continue path resolution
// below a sub-position.
func (n *Node[K, V]) GetBranch(fragment K) *Node[K, V] {
	return n.branches[fragment]
}

// Len returns the number of nodes in the subtree rooted at n (including n).
func (n *Node[K, V]) Len() int {
	count := 0
	n.each(func(*Node[K, V]) {
		count++
	})
	return count
}

// ValueCount returns the number of nodes holding a value in the subtree rooted at n.
func (n *Node[K, V]) ValueCount() int {
	count := 0
	n.each(func(node *Node[K, V]) {
		if node.leaf != nil {
			count++
		}
	})
	return count
}

// each calls fn for every node of the subtree without building paths
func (n *Node[K, V]) each(fn func(*Node[K, V])) {
	stack := []*Node[K, V]{n}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(curr)
		for _, child := range curr.branches {
			stack = append(stack, child)
		}
	}
}

// --------------------------------------------------------------------------
// Read Operations
// --------------------------------------------------------------------------

// GetRef walks from n along path and returns the node at the end of it.
// It returns nil as soon as a fragment is missing.
func (n *Node[K, V]) GetRef(path []K) *Node[K, V] {
	curr := n
	for _, fragment := range path {
		next, ok := curr.branches[fragment]
		if !ok {
			return nil
		}
		curr = next
	}
	return curr
}

// Get returns the value handle stored at path.
// A missing path and a path without a value both return nil, use GetRef to
// tell them apart.
func (n *Node[K, V]) Get(path []K) *V {
	node := n.GetRef(path)
	if node == nil {
		return nil
	}
	return node.leaf
}

// GetAll returns one entry for the node at path and one for every descendant.
// Every entry carries the node's full path, i.e. path followed by the
// fragments below it. The order of the entries is unspecified. If path does
// not resolve the result is empty.
func (n *Node[K, V]) GetAll(path []K) []Entry[K, V] {
	var entries []Entry[K, V]
	n.Walk(path, func(p []K, value *V) bool {
		entries = append(entries, Entry[K, V]{Path: p, Value: value})
		return true
	})
	return entries
}

// Walk visits the node at path and all of its descendants (depth first,
// unspecified sibling order) and calls fn for each. Nothing is visited if the
// path does not resolve.
func (n *Node[K, V]) Walk(path []K, fn WalkFunc[K, V]) {
	start := n.GetRef(path)
	if start == nil {
		return
	}

	type frame struct {
		node *Node[K, V]
		path []K
	}

	stack := []frame{{node: start, path: clonePath(path, 0)}}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(curr.path, curr.node.leaf) {
			return
		}

		for fragment, child := range curr.node.branches {
			childPath := clonePath(curr.path, 1)
			childPath = append(childPath, fragment)
			stack = append(stack, frame{node: child, path: childPath})
		}
	}
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

// Insert stores value at path, creating every missing node on the way.
// It returns the previous value handle of the position or nil.
// Inserting a nil handle leaves the position without a value.
func (n *Node[K, V]) Insert(path []K, value *V) *V {
	curr := n
	for _, fragment := range path {
		next, ok := curr.branches[fragment]
		if !ok {
			if curr.branches == nil {
				curr.branches = make(map[K]*Node[K, V])
			}
			next = newNode[K, V]()
			curr.branches[fragment] = next
		}
		curr = next
	}
	old := curr.leaf
	curr.leaf = value
	return old
}

// Clear removes the value at path but keeps the position and its descendants.
// It is a no-op if the path does not resolve. The removed handle is returned.
func (n *Node[K, V]) Clear(path []K) *V {
	node := n.GetRef(path)
	if node == nil {
		return nil
	}
	old := node.leaf
	node.leaf = nil
	return old
}

// Delete removes the position at path together with its whole subtree.
// For the empty path only the value of n is cleared since a node can not
// detach itself. Delete reports whether anything was removed.
func (n *Node[K, V]) Delete(path []K) bool {
	if len(path) == 0 {
		removed := n.leaf != nil
		n.leaf = nil
		return removed
	}

	parent := n.GetRef(path[:len(path)-1])
	if parent == nil {
		return false
	}

	last := path[len(path)-1]
	if _, ok := parent.branches[last]; !ok {
		return false
	}
	delete(parent.branches, last)
	return true
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// clonePath copies path into a new slice with room for extra more fragments.
func clonePath[K any](path []K, extra int) []K {
	p := make([]K, len(path), len(path)+extra)
	copy(p, path)
	return p
}
