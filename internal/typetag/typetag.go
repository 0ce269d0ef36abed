// Package typetag issues process-stable runtime tokens for native types.
//
// Tags are used by the opaque location variant to record which type an
// untyped payload was stored with, so downcasts can be checked instead
// of reinterpreted. Tokens are stable within one process run only; they
// are never persisted. The registry is append-only and lives for the
// process lifetime.
package typetag

import (
	"reflect"
	"sync"
)

// Tag is a runtime token identifying a native type.
type Tag uint32

// NoTag marks the absence of a tag.
const NoTag Tag = 0

var registry = struct {
	mu   sync.RWMutex
	tags map[reflect.Type]Tag
	next Tag
}{
	tags: make(map[reflect.Type]Tag, 16),
	next: 1,
}

// For returns the tag for the concrete type T. The same type always
// receives the same token; no two distinct types share one.
func For[T any]() Tag {
	return forType(reflect.TypeOf((*T)(nil)).Elem())
}

// Of returns the tag for v's dynamic type, or NoTag when v is nil.
func Of(v any) Tag {
	t := reflect.TypeOf(v)
	if t == nil {
		return NoTag
	}
	return forType(t)
}

func forType(t reflect.Type) Tag {
	registry.mu.RLock()
	tag, ok := registry.tags[t]
	registry.mu.RUnlock()
	if ok {
		return tag
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if tag, ok := registry.tags[t]; ok {
		return tag
	}
	tag = registry.next
	registry.next++
	registry.tags[t] = tag
	return tag
}
