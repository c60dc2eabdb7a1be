package undo

import (
	"errors"
	"image"

	"github.com/gogpu/ekaki"
)

// ErrInsufficientCapacity is logged when an edit is too large to be recorded.
// Push reports it as a false return; the edit itself is unaffected.
var ErrInsufficientCapacity = errors.New("undo: insufficient capacity")

// Result identifies the pixels restored by Undo or Redo.
type Result struct {
	Layer ekaki.EditableLayer
	Rect  image.Rectangle
}

type header struct {
	layer     ekaki.EditableLayer
	rect      image.Rectangle
	undo      ekaki.Region
	redo      ekaki.Region
	redoReady bool
}

// Manager is a bounded undo/redo log.
//
// Entries live between the oldest retained edit and the newest; index points
// at the entry the next Undo restores (-1 when there is nothing to undo).
// Entries after index form the redo history, which is discarded by Push.
//
// Manager is not safe for concurrent use.
type Manager struct {
	ring       *RingBuffer
	headers    []header
	index      int
	maxEntries int
}

// NewManager creates a log backed by capacity bytes holding at most
// maxEntries edits. maxEntries below 1 is treated as 1.
func NewManager(capacity, maxEntries int) *Manager {
	return &Manager{
		ring:       NewRingBuffer(capacity),
		index:      -1,
		maxEntries: max(maxEntries, 1),
	}
}

// Push snapshots rect of layer before it is edited. It must be called before
// the edit is applied.
//
// Any redo history is discarded first. Older entries are evicted until the
// snapshot fits. Push returns false, leaving the log unchanged, when rect is
// empty or the snapshot cannot fit even in an empty arena.
func (m *Manager) Push(layer ekaki.EditableLayer, rect image.Rectangle) bool {
	rect = rect.Intersect(layer.Bounds())
	if rect.Empty() {
		return false
	}

	w, h := rect.Dx(), rect.Dy()
	stride := w * 4
	size := stride * h * 2 // undo + redo
	if size > m.ring.Cap() {
		ekaki.Logger().Warn("undo: snapshot dropped",
			"err", ErrInsufficientCapacity, "rect", rect, "bytes", size, "capacity", m.ring.Cap())
		return false
	}

	for m.index+1 < len(m.headers) {
		m.headers = m.headers[:len(m.headers)-1]
		m.ring.Pop()
	}

	for len(m.headers) > 0 && (len(m.headers) >= m.maxEntries || size > m.ring.Remain()) {
		m.headers[0] = header{}
		m.headers = m.headers[1:]
		m.ring.Shift()
		m.index--
	}

	mem, ok := m.ring.Retain(size)
	if !ok {
		return false
	}

	half := stride * h
	hd := header{
		layer: layer,
		rect:  rect,
		undo:  ekaki.Region{Pix: mem[:half], Stride: stride, Width: w, Height: h},
		redo:  ekaki.Region{Pix: mem[half:], Stride: stride, Width: w, Height: h},
	}
	layer.ReadRaw(rect, hd.undo)

	m.headers = append(m.headers, hd)
	m.index++
	return true
}

// CanUndo reports whether Undo would restore anything.
func (m *Manager) CanUndo() bool {
	return m.index >= 0 && m.index < len(m.headers)
}

// Undo restores the pixels recorded by the most recent Push that has not been
// undone. On the first undo of an entry, the current content is saved so that
// Redo can reapply it.
func (m *Manager) Undo() (Result, bool) {
	if !m.CanUndo() {
		return Result{}, false
	}

	hd := &m.headers[m.index]
	m.index--

	if !hd.redoReady {
		hd.layer.ReadRaw(hd.rect, hd.redo)
		hd.redoReady = true
	}
	hd.layer.WriteRaw(hd.rect, hd.undo)
	return Result{Layer: hd.layer, Rect: hd.rect}, true
}

// CanRedo reports whether Redo would restore anything.
func (m *Manager) CanRedo() bool {
	return m.index+1 < len(m.headers)
}

// Redo reapplies the most recently undone edit.
func (m *Manager) Redo() (Result, bool) {
	if !m.CanRedo() {
		return Result{}, false
	}

	m.index++
	hd := &m.headers[m.index]
	hd.layer.WriteRaw(hd.rect, hd.redo)
	return Result{Layer: hd.layer, Rect: hd.rect}, true
}

// Clear drops every entry.
func (m *Manager) Clear() {
	clear(m.headers)
	m.headers = m.headers[:0]
	m.ring.Reset()
	m.index = -1
}

// Len returns the number of retained entries, including redo history.
func (m *Manager) Len() int { return len(m.headers) }

// Cap returns the arena size in bytes.
func (m *Manager) Cap() int { return m.ring.Cap() }
