package paint

import "github.com/gogpu/ekaki"

// historySize is the number of points averaged when smoothing a stroke.
const historySize = 2

// pointHistory is a fixed-capacity FIFO of recent stroke points.
type pointHistory struct {
	pts  [historySize]ekaki.Vec2
	head int
	n    int
}

// seed fills the history with p.
func (h *pointHistory) seed(p ekaki.Vec2) {
	for i := range h.pts {
		h.pts[i] = p
	}
	h.head = 0
	h.n = len(h.pts)
}

// push appends p, evicting the oldest point when full.
func (h *pointHistory) push(p ekaki.Vec2) {
	if h.n < len(h.pts) {
		h.pts[(h.head+h.n)%len(h.pts)] = p
		h.n++
		return
	}
	h.pts[h.head] = p
	h.head = (h.head + 1) % len(h.pts)
}

// mean returns the average of the retained points.
func (h *pointHistory) mean() ekaki.Vec2 {
	if h.n == 0 {
		return ekaki.Vec2{}
	}
	var sum ekaki.Vec2
	for i := range h.n {
		sum = sum.Add(h.pts[(h.head+i)%len(h.pts)])
	}
	return sum.Div(float64(h.n))
}
