// Package ports define the host and drawing interfaces used by the visualizer.
// These interfaces allow the visualizer core to paint without depending on Fyne directly.
package ports

import (
	"github.com/tejashwikalptaru/tonescope/internal/domain"
)

// Painter is an immediate-mode drawing context handed to the draw callback once per frame.
// Coordinates are pixels with the origin at the top-left corner.
//
// Colors are passed through unvalidated; implementations decide how to
// treat out-of-range channels.
type Painter interface {
	// Width and Height return the drawing area in pixels.
	Width() int
	Height() int

	// Clear erases the whole drawing area to transparent.
	Clear()

	// Fill sets the fill color used by Rect; NoFill disables filling.
	Fill(c domain.Color)
	NoFill()

	// Stroke sets the outline color used by Rect and Polyline; NoStroke disables outlines.
	Stroke(c domain.Color)
	NoStroke()

	// StrokeWeight sets the outline thickness in pixels.
	StrokeWeight(w float64)

	// Rect draws a rectangle with its top-left corner at (x, y).
	Rect(x, y, w, h float64)

	// Polyline draws an open shape through the points, in order.
	Polyline(points []domain.Point)
}

// DrawFunc is the per-frame draw callback registered with a host.
type DrawFunc func(p Painter)

// Surface is a drawing surface mounted inside a host.
type Surface interface {
	// Size returns the surface size in pixels.
	Size() (width, height int)

	// Resize changes the surface size in pixels.
	Resize(width, height int)

	// Remove detaches the surface from its host and stops its frame loop.
	Remove()
}

// Host is a container a visualizer draws into (the "element").
//
// Thread-safety: methods are called from the UI goroutine.
type Host interface {
	// Name identifies the host in logs and events.
	Name() string

	// Size returns the measured size of the host in pixels (zero if not laid out yet).
	Size() (width, height int)

	// Mount creates a transparent surface of the given size inside the host.
	// The host's frame loop invokes draw once per display frame until the surface is removed.
	Mount(width, height int, draw DrawFunc) (Surface, error)

	// ObserveResize registers fn to be called whenever the measured size changes.
	// The returned function stops the observation.
	ObserveResize(fn func(width, height int)) (stop func())
}

// HostResolver resolves selectors to hosts.
type HostResolver interface {
	// Lookup returns the host registered for selector, or false.
	Lookup(selector string) (Host, bool)
}

// Target identifies where a visualizer is mounted: either a selector resolved
// through a HostResolver or a direct Host reference.
type Target struct {
	Selector string
	Host     Host
}

// BySelector targets the host registered under selector.
func BySelector(selector string) Target {
	return Target{Selector: selector}
}

// ByHost targets a host directly.
func ByHost(host Host) Target {
	return Target{Host: host}
}
