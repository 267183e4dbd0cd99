package fyne

import (
	"image"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/tonescope/internal/adapter/render/vgpaint"
	"github.com/tejashwikalptaru/tonescope/internal/ports"
)

// Surface is a transparent drawing area mounted in a Host.
type Surface struct {
	host *Host
	view *surfaceView
	loop *FrameLoop

	mu      sync.Mutex
	width   int
	height  int
	removed bool
}

var _ ports.Surface = (*Surface)(nil)

func newSurface(host *Host, width, height int, draw ports.DrawFunc) *Surface {
	s := &Surface{host: host, width: width, height: height}
	s.view = newSurfaceView(s, draw)
	return s
}

// Size implements ports.Surface.
func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Resize implements ports.Surface.
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	if s.removed {
		s.mu.Unlock()
		return
	}
	s.width, s.height = width, height
	s.mu.Unlock()

	s.view.Resize(fyneapp.NewSize(float32(width), float32(height)))
	s.view.Refresh()
}

// Remove implements ports.Surface.
func (s *Surface) Remove() {
	s.mu.Lock()
	if s.removed {
		s.mu.Unlock()
		return
	}
	s.removed = true
	s.mu.Unlock()

	if s.loop != nil {
		s.loop.Stop()
	}
	s.host.container.Remove(s.view)
	s.host.logger.Debug("surface removed")
}

// Image renders one frame at the surface size without going through Fyne.
func (s *Surface) Image() image.Image {
	w, h := s.Size()
	return s.view.generate(w, h)
}

func (s *Surface) requestFrame() {
	fyneapp.Do(s.view.raster.Refresh)
}

func (s *Surface) isRemoved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed
}

// surfaceView is the widget backing a Surface.
type surfaceView struct {
	widget.BaseWidget

	surface *Surface
	draw    ports.DrawFunc
	raster  *canvas.Raster
}

func newSurfaceView(s *Surface, draw ports.DrawFunc) *surfaceView {
	v := &surfaceView{surface: s, draw: draw}
	v.raster = canvas.NewRaster(v.generate)
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget.
func (v *surfaceView) CreateRenderer() fyneapp.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// MinSize keeps the view at the surface size.
func (v *surfaceView) MinSize() fyneapp.Size {
	w, h := v.surface.Size()
	return fyneapp.NewSize(float32(w), float32(h))
}

// generate is the raster callback; w and h are in device pixels.
func (v *surfaceView) generate(w, h int) image.Image {
	p := vgpaint.New(w, h)
	if !v.surface.isRemoved() && v.draw != nil {
		v.draw(p)
	}
	return p.Image()
}
