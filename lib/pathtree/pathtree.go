package pathtree

// PathTree maps paths (ordered fragment sequences) to shared value handles.
// It owns the root node, which exists for the whole lifetime of the tree.
//
// All methods delegate to the root node, see Node for the semantics.
type PathTree[K comparable, V any] struct {
	root *Node[K, V]
}

// New constructs a new empty PathTree
func New[K comparable, V any]() *PathTree[K, V] {
	return &PathTree[K, V]{
		root: newNode[K, V](),
	}
}

// Root returns the root node of the tree. It is never nil.
func (t *PathTree[K, V]) Root() *Node[K, V] {
	return t.root
}

// GetRef returns the node at path or nil
func (t *PathTree[K, V]) GetRef(path []K) *Node[K, V] {
	return t.root.GetRef(path)
}

// Get returns the value handle at path or nil
func (t *PathTree[K, V]) Get(path []K) *V {
	return t.root.Get(path)
}

// GetAll returns the entries of the subtree rooted at path, see Node.GetAll
func (t *PathTree[K, V]) GetAll(path []K) []Entry[K, V] {
	return t.root.GetAll(path)
}

// Walk visits the subtree rooted at path, see Node.Walk
func (t *PathTree[K, V]) Walk(path []K, fn WalkFunc[K, V]) {
	t.root.Walk(path, fn)
}

// ListBranches lists the immediate child fragments of the root
func (t *PathTree[K, V]) ListBranches() []K {
	return t.root.ListBranches()
}

// GetBranch returns the child of the root for a fragment or nil
func (t *PathTree[K, V]) GetBranch(fragment K) *Node[K, V] {
	return t.root.GetBranch(fragment)
}

// Insert stores value at path and returns the previous handle
func (t *PathTree[K, V]) Insert(path []K, value *V) *V {
	return t.root.Insert(path, value)
}

// Clear removes the value at path, keeping descendants
func (t *PathTree[K, V]) Clear(path []K) *V {
	return t.root.Clear(path)
}

// Delete removes path and everything beneath it
func (t *PathTree[K, V]) Delete(path []K) bool {
	return t.root.Delete(path)
}

// Len returns the number of nodes in the tree, including the root
func (t *PathTree[K, V]) Len() int {
	return t.root.Len()
}
