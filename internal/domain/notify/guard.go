package notify

import (
	"context"
	"sync"
	"sync/atomic"
)

// Guard records seen notification keys so one-time messages such as the
// class-change unlock are sent at most once per player.
type Guard interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord removes a key from the seen list, allowing a retry. Used
	// when a notification was recorded but the queue rejected it.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// node is a single entry in the eviction list.
type node struct {
	key  string
	next *node
}

func (n *node) reset() {
	n.key = ""
	n.next = nil
}

// inMemoryGuard implements Guard with a map plus a linked list for LIFO
// eviction in bounded mode. With maxSize <= 0 the guard is unbounded and
// never evicts.
type inMemoryGuard struct {
	mu       sync.RWMutex
	seen     map[string]*node
	head     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryGuard creates a guard with configuration options.
func NewInMemoryGuard(opts ...GuardOption) Guard {
	g := &inMemoryGuard{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.seen = make(map[string]*node)
	if g.maxSize > 0 {
		g.nodePool = sync.Pool{
			New: func() interface{} {
				return &node{}
			},
		}
	}
	return g
}

// SeenAndRecord implements Guard.SeenAndRecord.
func (g *inMemoryGuard) SeenAndRecord(ctx context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.seen[key]; exists {
		return true
	}

	if g.maxSize > 0 {
		if len(g.seen) >= g.maxSize {
			g.evictOldest()
		}
		n := g.nodePool.Get().(*node)
		n.key = key
		n.next = g.head
		g.head = n
		g.seen[key] = n
	} else {
		g.seen[key] = nil
	}
	g.size.Add(1)
	return false
}

// Unrecord implements Guard.Unrecord.
func (g *inMemoryGuard) Unrecord(ctx context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, exists := g.seen[key]
	if !exists {
		return
	}
	delete(g.seen, key)

	if g.maxSize > 0 && n != nil {
		if g.head == n {
			g.head = n.next
		} else {
			current := g.head
			for current != nil && current.next != n {
				current = current.next
			}
			if current != nil {
				current.next = n.next
			}
		}
		n.reset()
		g.nodePool.Put(n)
	}
	g.size.Add(-1)
}

// evictOldest removes the tail of the list. Must hold g.mu.
func (g *inMemoryGuard) evictOldest() {
	if len(g.seen) == 0 || g.head == nil {
		return
	}

	var prev *node
	current := g.head
	if current.next == nil {
		delete(g.seen, current.key)
		current.reset()
		g.nodePool.Put(current)
		g.head = nil
		g.size.Add(-1)
		return
	}

	for current.next != nil {
		prev = current
		current = current.next
	}
	if prev != nil {
		prev.next = nil
		delete(g.seen, current.key)
		current.reset()
		g.nodePool.Put(current)
		g.size.Add(-1)
	}
}

// Size returns the current number of recorded keys.
func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}
