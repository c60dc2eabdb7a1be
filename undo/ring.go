package undo

// span is a live allocation inside the arena.
type span struct {
	off, n int
}

func (s span) end() int { return s.off + s.n }

// RingBuffer is a fixed-capacity byte arena that hands out contiguous spans
// in FIFO order.
//
// Live spans form an ordered list from the oldest ("top") to the newest
// ("bottom"). New spans are placed right after the newest one, wrapping to
// offset zero when the tail is too short. Spans never overlap.
//
// The returned slices alias the arena and stay valid until their span is
// removed with Pop or Shift.
type RingBuffer struct {
	buf []byte

	// spans is a circular deque: the oldest live span is spans[head], the
	// newest is spans[(head+count-1)%len(spans)].
	spans []span
	head  int
	count int
}

// NewRingBuffer creates an arena of capacity bytes.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{buf: make([]byte, max(capacity, 0))}
}

// Cap returns the arena size in bytes.
func (r *RingBuffer) Cap() int { return len(r.buf) }

// Count returns the number of live spans.
func (r *RingBuffer) Count() int { return r.count }

func (r *RingBuffer) top() span    { return r.spans[r.head] }
func (r *RingBuffer) bottom() span { return r.spans[(r.head+r.count-1)%len(r.spans)] }

// Remain returns the largest span Retain is guaranteed to accept.
//
// With no live spans the whole arena is available. When the newest span sits
// before the oldest one the gap between them is returned; otherwise the larger
// of the tail after the newest span and the head before the oldest span. This
// is a conservative estimate, not the true free space.
func (r *RingBuffer) Remain() int {
	if r.count == 0 {
		return len(r.buf)
	}
	top, bottom := r.top(), r.bottom()
	next := bottom.end()
	if top.off > bottom.off {
		return top.off - next
	}
	return max(len(r.buf)-next, top.off)
}

// Retain reserves size contiguous bytes and returns them. It returns false
// when size is not positive or exceeds Remain.
func (r *RingBuffer) Retain(size int) ([]byte, bool) {
	if size <= 0 || size > r.Remain() {
		return nil, false
	}

	off := 0
	if r.count > 0 {
		top, bottom := r.top(), r.bottom()
		off = bottom.end()
		if top.off <= bottom.off && len(r.buf)-off < size {
			off = 0
		}
	}

	r.pushBack(span{off: off, n: size})
	return r.buf[off : off+size : off+size], true
}

// Push copies src into a newly retained span.
func (r *RingBuffer) Push(src []byte) bool {
	dst, ok := r.Retain(len(src))
	if !ok {
		return false
	}
	copy(dst, src)
	return true
}

// Pop removes the newest span and returns its bytes.
func (r *RingBuffer) Pop() ([]byte, bool) {
	if r.count == 0 {
		return nil, false
	}
	s := r.bottom()
	r.count--
	return r.buf[s.off:s.end():s.end()], true
}

// Shift removes the oldest span and returns its bytes.
func (r *RingBuffer) Shift() ([]byte, bool) {
	if r.count == 0 {
		return nil, false
	}
	s := r.top()
	r.head = (r.head + 1) % len(r.spans)
	r.count--
	return r.buf[s.off:s.end():s.end()], true
}

// Reset removes every span.
func (r *RingBuffer) Reset() {
	r.head = 0
	r.count = 0
}

func (r *RingBuffer) pushBack(s span) {
	if r.count == len(r.spans) {
		r.grow()
	}
	r.spans[(r.head+r.count)%len(r.spans)] = s
	r.count++
}

func (r *RingBuffer) grow() {
	n := max(2*len(r.spans), 8)
	spans := make([]span, n)
	for i := 0; i < r.count; i++ {
		spans[i] = r.spans[(r.head+i)%len(r.spans)]
	}
	r.spans = spans
	r.head = 0
}
