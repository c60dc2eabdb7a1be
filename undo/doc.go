// Package undo records layer snapshots in a fixed-size memory arena so that
// edits can be undone and redone.
//
// A Manager stores, for every edit, the pixels of the edited rectangle before
// the edit and (lazily, on first undo) after it. Both snapshots live in one
// span of a RingBuffer. When the arena is full or the entry limit is reached,
// the oldest entries are evicted, so memory use never exceeds the capacity
// given to NewManager.
//
// Typical use:
//
//	m := undo.NewManager(32<<20, 50)
//	m.Push(layer, dirty) // before applying the edit
//	applyEdit(layer)
//	...
//	if r, ok := m.Undo(); ok {
//	    canvas.RenderRect(false, r.Rect)
//	}
package undo
