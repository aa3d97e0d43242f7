// Package dlist implements the circular, intrusive, doubly linked list used
// to hold the core's process and timer queues.
//
// A List's zero value is not ready for use; call Init first (or use New).
// Nodes are embedded by value in caller-owned records (a process, a process
// timer) rather than allocated by this package — the list only links,
// unlinks, and walks caller-supplied *Node values, exactly as spec'd:
// "the core never allocates or frees these; it only links, unlinks, reads,
// and writes through caller-provided pointers."
//
// Node is generic over the owner type so that, unlike a raw next/prev
// pointer pair, a Node can be walked back to the record that embeds it
// without a separate lookup structure or unsafe pointer arithmetic — the
// owner reference is simply stored alongside the link pointers. This is
// the Go-native substitute for the C macro that recovers an embedding
// struct from a member pointer.
package dlist

// Node is one link in a circular doubly linked list, embedded by value in
// an owner record of type T (typically *T is the owner, e.g. Node[*Process]).
type Node[T any] struct {
	next, prev *Node[T]
	owner      T
	linked     bool
}

// Owner returns the record this node was initialized with.
func (n *Node[T]) Owner() T { return n.owner }

// Linked reports whether the node is currently linked into some List. A
// node must not be passed to List.Erase, List.InsertBefore, or
// List.InsertAfter as the reference node unless it satisfies the
// preconditions those operations document.
func (n *Node[T]) Linked() bool { return n.linked }

// NewNode constructs a standalone, unlinked node owned by owner.
func NewNode[T any](owner T) *Node[T] {
	n := &Node[T]{owner: owner}
	n.next, n.prev = n, n
	return n
}

// List is a circular doubly linked list with a sentinel head node. An empty
// list's sentinel points to itself in both directions, per spec.
type List[T any] struct {
	sentinel Node[T]
	size     int
}

// New returns an initialized, empty List.
func New[T any]() *List[T] {
	l := &List[T]{}
	l.Init()
	return l
}

// Init makes the sentinel self-referential, discarding any existing
// contents (linked nodes are left dangling; callers should not reuse them
// without re-initializing).
func (l *List[T]) Init() {
	l.sentinel.next = &l.sentinel
	l.sentinel.prev = &l.sentinel
	l.size = 0
}

// Empty reports whether the list holds no nodes.
func (l *List[T]) Empty() bool { return l.sentinel.next == &l.sentinel }

// Size returns the number of linked nodes. O(1): maintained incrementally,
// unlike the O(n) walk the abstract contract allows.
func (l *List[T]) Size() int { return l.size }

// Front returns the first node, or nil if the list is empty.
func (l *List[T]) Front() *Node[T] {
	if l.Empty() {
		return nil
	}
	return l.sentinel.next
}

// Back returns the last node, or nil if the list is empty.
func (l *List[T]) Back() *Node[T] {
	if l.Empty() {
		return nil
	}
	return l.sentinel.prev
}

// End reports whether n has reached the sentinel, i.e. iteration is done.
// Used as: for n := l.Front(); !l.End(n); n = n.Next() { ... }
func (l *List[T]) End(n *Node[T]) bool { return n == &l.sentinel }

// Next returns the node following n (which may be the sentinel; check with
// End before dereferencing Owner).
func (n *Node[T]) Next() *Node[T] { return n.next }

// Prev returns the node preceding n.
func (n *Node[T]) Prev() *Node[T] { return n.prev }

func (l *List[T]) insertBetween(n, before, after *Node[T]) {
	n.prev = before
	n.next = after
	before.next = n
	after.prev = n
	n.linked = true
	l.size++
}

// PushFront links n at the head of the list.
func (l *List[T]) PushFront(n *Node[T]) {
	l.insertBetween(n, &l.sentinel, l.sentinel.next)
}

// PushBack links n at the tail of the list.
func (l *List[T]) PushBack(n *Node[T]) {
	l.insertBetween(n, l.sentinel.prev, &l.sentinel)
}

// InsertBefore links n immediately before ref, which must already be
// linked into this list.
func (l *List[T]) InsertBefore(n, ref *Node[T]) {
	l.insertBetween(n, ref.prev, ref)
}

// InsertAfter links n immediately after ref, which must already be linked
// into this list.
func (l *List[T]) InsertAfter(n, ref *Node[T]) {
	l.insertBetween(n, ref, ref.next)
}

// Erase unlinks n from the list. n must currently be linked into this
// list; erasing a node not linked into it is undefined, per spec.
func (l *List[T]) Erase(n *Node[T]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.next, n.prev = n, n
	n.linked = false
	l.size--
}

// PopFront unlinks and returns the first node, or nil if empty.
func (l *List[T]) PopFront() *Node[T] {
	if l.Empty() {
		return nil
	}
	n := l.sentinel.next
	l.Erase(n)
	return n
}

// PopBack unlinks and returns the last node, or nil if empty.
func (l *List[T]) PopBack() *Node[T] {
	if l.Empty() {
		return nil
	}
	n := l.sentinel.prev
	l.Erase(n)
	return n
}

// Find walks the list looking for n, returning it if present, else nil.
// O(n), as the abstract contract allows.
func (l *List[T]) Find(n *Node[T]) *Node[T] {
	for cur := l.sentinel.next; cur != &l.sentinel; cur = cur.next {
		if cur == n {
			return cur
		}
	}
	return nil
}

// Do calls fn for every node currently in the list, in order, front to
// back. fn may unlink the current node (e.g. the owner terminates and
// removes itself) without disrupting the walk, because the next pointer
// is captured before fn runs — this is the "iterate with safe-remove"
// rule the broadcast path in process.Dispatcher relies on. fn must not
// unlink any node other than the one it is passed.
func (l *List[T]) Do(fn func(n *Node[T])) {
	for cur, next := l.sentinel.next, (*Node[T])(nil); cur != &l.sentinel; cur = next {
		next = cur.next
		fn(cur)
	}
}
