package loc

import (
	"fmt"
	"sync"

	"fortio.org/safecast"
)

// Context owns one interning table and the arena backing every location
// value created through it. Handles stay valid until Close; values are
// never freed individually.
//
// A Context has two states: open (accepting interns) and closed. The
// transition happens exactly once, at Close, and is irreversible; any
// use after Close is a programming error and panics.
type Context struct {
	mu      sync.RWMutex
	closed  bool
	nodes   []node // arena; nodes[0] reserved for NoID
	index   map[nodeKey]ID
	strs    *stringTable
	fused   []fusedInfo
	opaques []opaqueInfo
	unknown ID
}

// NewContext creates an open Context with its Unknown singleton seeded.
func NewContext() *Context {
	c := &Context{
		index: make(map[nodeKey]ID, 64),
		strs:  newStringTable(),
	}
	c.nodes = append(c.nodes, node{})      // reserve NoID
	c.fused = append(c.fused, fusedInfo{}) // reserve slot 0
	c.opaques = append(c.opaques, opaqueInfo{})
	c.unknown = c.intern(nodeKey{kind: KindUnknown}, func(*Context) node {
		return node{Kind: KindUnknown}
	})
	return c
}

// Len returns the number of interned locations, the Unknown singleton
// included.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		panic("loc: Len on closed Context")
	}
	return len(c.nodes) - 1
}

// Close tears the Context down and releases its arenas in bulk. Every
// outstanding handle becomes invalid. Closing twice panics.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		panic("loc: Context closed twice")
	}
	c.closed = true
	c.nodes = nil
	c.index = nil
	c.strs = nil
	c.fused = nil
	c.opaques = nil
}

// intern returns the canonical ID for the given content, constructing
// and arena-allocating the node on first sight. Concurrent calls with
// equal content never race to two instances: the check-and-insert step
// is serialized under the write lock, so exactly one winner's node
// becomes canonical and every caller observes the same ID.
func (c *Context) intern(key nodeKey, build func(*Context) node) ID {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		panic("loc: intern on closed Context")
	}
	id, ok := c.index[key]
	c.mu.RUnlock()
	if ok {
		return id
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		panic("loc: intern on closed Context")
	}
	if id, ok := c.index[key]; ok {
		return id
	}
	n := build(c) // may append side-table slots; write lock held
	lenNodes, err := safecast.Conv[uint32](len(c.nodes))
	if err != nil {
		panic(fmt.Errorf("len(nodes) overflow: %w", err))
	}
	id = ID(lenNodes)
	c.nodes = append(c.nodes, n)
	c.index[key] = id
	return id
}

// internStr interns a string into the Context's string table.
func (c *Context) internStr(s string) StrID {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		panic("loc: intern on closed Context")
	}
	id, ok := c.strs.index[s]
	c.mu.RUnlock()
	if ok {
		return id
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		panic("loc: intern on closed Context")
	}
	return c.strs.intern(s)
}

// lookup returns the node for an ID.
func (c *Context) lookup(id ID) (node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		panic("loc: lookup on closed Context")
	}
	if !id.IsValid() || int(id) >= len(c.nodes) {
		return node{}, false
	}
	return c.nodes[id], true
}

// mustLookup panics when id is invalid.
func (c *Context) mustLookup(id ID) node {
	n, ok := c.lookup(id)
	if !ok {
		panic("loc: invalid location ID")
	}
	return n
}

// str resolves an interned string; panics on an invalid ID.
func (c *Context) str(id StrID) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		panic("loc: lookup on closed Context")
	}
	s, ok := c.strs.lookup(id)
	if !ok {
		panic("loc: invalid string ID")
	}
	return s
}

// fusedAt returns the element list for a fused slot. The returned slice
// points into the arena: read-only.
func (c *Context) fusedAt(slot uint32) []ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		panic("loc: lookup on closed Context")
	}
	if slot == 0 || int(slot) >= len(c.fused) {
		panic("loc: invalid fused slot")
	}
	return c.fused[slot].Elems
}

// opaqueAt returns the payload for an opaque slot.
func (c *Context) opaqueAt(slot uint32) opaqueInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		panic("loc: lookup on closed Context")
	}
	if slot == 0 || int(slot) >= len(c.opaques) {
		panic("loc: invalid opaque slot")
	}
	return c.opaques[slot]
}

// appendFused allocates a fused side-table slot. Write lock must be
// held (called from intern's build step only).
func (c *Context) appendFused(elems []ID) uint32 {
	c.fused = append(c.fused, fusedInfo{Elems: elems})
	slot, err := safecast.Conv[uint32](len(c.fused) - 1)
	if err != nil {
		panic(fmt.Errorf("fused slot overflow: %w", err))
	}
	return slot
}

// appendOpaque allocates an opaque side-table slot. Write lock must be
// held (called from intern's build step only).
func (c *Context) appendOpaque(info opaqueInfo) uint32 {
	c.opaques = append(c.opaques, info)
	slot, err := safecast.Conv[uint32](len(c.opaques) - 1)
	if err != nil {
		panic(fmt.Errorf("opaque slot overflow: %w", err))
	}
	return slot
}
