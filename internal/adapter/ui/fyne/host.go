package fyne

import (
	"log/slog"
	"math"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"github.com/tejashwikalptaru/tonescope/internal/ports"
)

// DefaultFPS is the frame rate used when a host is created with fps == 0.
const DefaultFPS = 60

// Host is a named Fyne container visualizers can mount into.
// Its layout reports size changes to resize observers.
type Host struct {
	name      string
	fps       int
	logger    *slog.Logger
	container *fyneapp.Container

	mu        sync.Mutex
	observers []observer
	nextID    int
	lastW     int
	lastH     int
}

type observer struct {
	id int
	fn func(width, height int)
}

var _ ports.Host = (*Host)(nil)

// NewHost creates an empty host. fps == 0 selects DefaultFPS; a negative fps
// disables the frame loop so frames are only drawn on explicit refreshes.
func NewHost(name string, fps int, logger *slog.Logger) *Host {
	if fps == 0 {
		fps = DefaultFPS
	}
	h := &Host{
		name:   name,
		fps:    fps,
		logger: logger.With(slog.String("host", name)),
	}
	h.container = container.New(&hostLayout{host: h})
	return h
}

// Container returns the Fyne object to place in a window.
func (h *Host) Container() *fyneapp.Container {
	return h.container
}

// Name implements ports.Host.
func (h *Host) Name() string {
	return h.name
}

// Size implements ports.Host.
func (h *Host) Size() (int, int) {
	s := h.container.Size()
	return toPixels(s.Width), toPixels(s.Height)
}

// Mount implements ports.Host.
func (h *Host) Mount(width, height int, draw ports.DrawFunc) (ports.Surface, error) {
	s := newSurface(h, width, height, draw)
	h.container.Add(s.view)
	if h.fps > 0 {
		s.loop = NewFrameLoop(h.fps, s.requestFrame)
		s.loop.Start()
	}
	h.logger.Debug("surface mounted", slog.Int("width", width), slog.Int("height", height))
	return s, nil
}

// ObserveResize implements ports.Host.
func (h *Host) ObserveResize(fn func(width, height int)) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.observers = append(h.observers, observer{id: id, fn: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, o := range h.observers {
				if o.id == id {
					h.observers = append(h.observers[:i:i], h.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Observers returns the number of active resize observers.
func (h *Host) Observers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}

// laidOut runs on the UI goroutine whenever the container is laid out.
func (h *Host) laidOut(size fyneapp.Size) {
	w, ht := toPixels(size.Width), toPixels(size.Height)

	h.mu.Lock()
	if w == h.lastW && ht == h.lastH {
		h.mu.Unlock()
		return
	}
	h.lastW, h.lastH = w, ht
	observers := h.observers
	h.mu.Unlock()

	for _, o := range observers {
		o.fn(w, ht)
	}
}

func toPixels(v float32) int {
	return int(math.Round(float64(v)))
}

// hostMinSize is the smallest size a host asks of its window. Surfaces do not
// contribute to it, otherwise a window could never shrink below a surface that
// grew with it.
var hostMinSize = fyneapp.NewSize(1, 1)

// hostLayout pins every surface to the top-left corner at its own size.
type hostLayout struct {
	host *Host
}

func (l *hostLayout) Layout(objects []fyneapp.CanvasObject, size fyneapp.Size) {
	for _, o := range objects {
		o.Move(fyneapp.NewPos(0, 0))
		o.Resize(o.MinSize())
	}
	l.host.laidOut(size)
}

func (l *hostLayout) MinSize([]fyneapp.CanvasObject) fyneapp.Size {
	return hostMinSize
}
