package fyne

import (
	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// TapArea wraps content and reports primary and secondary (right-click) taps.
// The application wraps a host container in it so clicking the visualizer
// controls it.
type TapArea struct {
	widget.BaseWidget

	content        fyneapp.CanvasObject
	onTap          func()
	onSecondaryTap func()
}

// NewTapArea creates a tap area around content. Either callback may be nil.
func NewTapArea(content fyneapp.CanvasObject, onTap, onSecondaryTap func()) *TapArea {
	t := &TapArea{
		content:        content,
		onTap:          onTap,
		onSecondaryTap: onSecondaryTap,
	}
	t.ExtendBaseWidget(t)
	return t
}

// CreateRenderer implements fyne.Widget.
func (t *TapArea) CreateRenderer() fyneapp.WidgetRenderer {
	return widget.NewSimpleRenderer(t.content)
}

// Tapped implements fyne.Tappable.
func (t *TapArea) Tapped(*fyneapp.PointEvent) {
	if t.onTap != nil {
		t.onTap()
	}
}

// TappedSecondary implements fyne.SecondaryTappable.
func (t *TapArea) TappedSecondary(*fyneapp.PointEvent) {
	if t.onSecondaryTap != nil {
		t.onSecondaryTap()
	}
}

// MouseIn implements desktop.Hoverable.
func (t *TapArea) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (t *TapArea) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (t *TapArea) MouseOut() {}

var _ fyneapp.Tappable = (*TapArea)(nil)
var _ fyneapp.SecondaryTappable = (*TapArea)(nil)
var _ desktop.Hoverable = (*TapArea)(nil)
