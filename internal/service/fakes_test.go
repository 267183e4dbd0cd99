package service

import (
	"fmt"
	"sync"

	"github.com/tejashwikalptaru/tonescope/internal/domain"
	"github.com/tejashwikalptaru/tonescope/internal/ports"
)

// fakeSurface records size changes and removal.
type fakeSurface struct {
	width, height int
	resizes       int
	removed       bool
}

func (s *fakeSurface) Size() (int, int) { return s.width, s.height }

func (s *fakeSurface) Resize(width, height int) {
	s.width, s.height = width, height
	s.resizes++
}

func (s *fakeSurface) Remove() { s.removed = true }

// fakeHost is a ports.Host whose frames and resizes are triggered by the test.
type fakeHost struct {
	name          string
	width, height int
	mountErr      error

	mounts    int
	surface   *fakeSurface
	draw      ports.DrawFunc
	observers map[int]func(int, int)
	nextID    int
}

func newFakeHost(name string, width, height int) *fakeHost {
	return &fakeHost{name: name, width: width, height: height, observers: make(map[int]func(int, int))}
}

func (h *fakeHost) Name() string      { return h.name }
func (h *fakeHost) Size() (int, int) { return h.width, h.height }

func (h *fakeHost) Mount(width, height int, draw ports.DrawFunc) (ports.Surface, error) {
	h.mounts++
	if h.mountErr != nil {
		return nil, h.mountErr
	}
	h.surface = &fakeSurface{width: width, height: height}
	h.draw = draw
	return h.surface, nil
}

func (h *fakeHost) ObserveResize(fn func(int, int)) func() {
	h.nextID++
	id := h.nextID
	h.observers[id] = fn
	return func() { delete(h.observers, id) }
}

// resize simulates the host being laid out at a new size.
func (h *fakeHost) resize(width, height int) {
	h.width, h.height = width, height
	for _, fn := range h.observers {
		fn(width, height)
	}
}

// frame runs one display frame at the surface size.
func (h *fakeHost) frame() *recordingPainter {
	p := &recordingPainter{width: h.surface.width, height: h.surface.height}
	h.draw(p)
	return p
}

type fakeResolver map[string]ports.Host

func (r fakeResolver) Lookup(selector string) (ports.Host, bool) {
	h, ok := r[selector]
	return h, ok
}

// recordingPainter records every call as an op string.
type recordingPainter struct {
	width, height int

	ops       []string
	rects     []domain.Rect
	polylines [][]domain.Point
	fill      domain.Color
	stroke    domain.Color
	weight    float64
}

func (p *recordingPainter) Width() int  { return p.width }
func (p *recordingPainter) Height() int { return p.height }
func (p *recordingPainter) Clear()      { p.ops = append(p.ops, "clear") }
func (p *recordingPainter) NoFill()     { p.ops = append(p.ops, "noFill") }
func (p *recordingPainter) NoStroke()   { p.ops = append(p.ops, "noStroke") }

func (p *recordingPainter) Fill(c domain.Color) {
	p.ops = append(p.ops, "fill")
	p.fill = c
}

func (p *recordingPainter) Stroke(c domain.Color) {
	p.ops = append(p.ops, "stroke")
	p.stroke = c
}

func (p *recordingPainter) StrokeWeight(w float64) {
	p.ops = append(p.ops, "strokeWeight")
	p.weight = w
}

func (p *recordingPainter) Rect(x, y, w, h float64) {
	p.ops = append(p.ops, "rect")
	p.rects = append(p.rects, domain.Rect{X: x, Y: y, W: w, H: h})
}

func (p *recordingPainter) Polyline(points []domain.Point) {
	p.ops = append(p.ops, fmt.Sprintf("polyline(%d)", len(points)))
	p.polylines = append(p.polylines, points)
}

// eventRecorder collects published event types.
type eventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *eventRecorder) handle(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) count(t domain.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type() == t {
			n++
		}
	}
	return n
}
