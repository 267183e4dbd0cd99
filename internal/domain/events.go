// Package domain defines events for the event-driven architecture.
// Events let the application react to visualizer lifecycle changes without callbacks.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Visualizer lifecycle events
	EventVisualizerStarted   EventType = "visualizer.started"
	EventVisualizerStopped   EventType = "visualizer.stopped"
	EventVisualizerDestroyed EventType = "visualizer.destroyed"

	// Visualizer appearance events
	EventModeChanged  EventType = "visualizer.mode_changed"
	EventStyleChanged EventType = "visualizer.style_changed"
	EventResized      EventType = "visualizer.resized"

	// Audio source events
	EventSourceEnded EventType = "source.ended"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// VisualizerStartedEvent is published when rendering is switched on.
type VisualizerStartedEvent struct {
	baseEvent
	Host string
}

// Type implements Event.
func (e VisualizerStartedEvent) Type() EventType { return EventVisualizerStarted }

// NewVisualizerStartedEvent creates a VisualizerStartedEvent.
func NewVisualizerStartedEvent(host string) VisualizerStartedEvent {
	return VisualizerStartedEvent{baseEvent: newBaseEvent(), Host: host}
}

// VisualizerStoppedEvent is published when rendering is switched off.
type VisualizerStoppedEvent struct {
	baseEvent
	Host string
}

// Type implements Event.
func (e VisualizerStoppedEvent) Type() EventType { return EventVisualizerStopped }

// NewVisualizerStoppedEvent creates a VisualizerStoppedEvent.
func NewVisualizerStoppedEvent(host string) VisualizerStoppedEvent {
	return VisualizerStoppedEvent{baseEvent: newBaseEvent(), Host: host}
}

// VisualizerDestroyedEvent is published once a visualizer has released its resources.
type VisualizerDestroyedEvent struct {
	baseEvent
	Host string
}

// Type implements Event.
func (e VisualizerDestroyedEvent) Type() EventType { return EventVisualizerDestroyed }

// NewVisualizerDestroyedEvent creates a VisualizerDestroyedEvent.
func NewVisualizerDestroyedEvent(host string) VisualizerDestroyedEvent {
	return VisualizerDestroyedEvent{baseEvent: newBaseEvent(), Host: host}
}

// ModeChangedEvent is published when the draw routine changes.
type ModeChangedEvent struct {
	baseEvent
	Host string
	Mode Mode
}

// Type implements Event.
func (e ModeChangedEvent) Type() EventType { return EventModeChanged }

// NewModeChangedEvent creates a ModeChangedEvent.
func NewModeChangedEvent(host string, mode Mode) ModeChangedEvent {
	return ModeChangedEvent{baseEvent: newBaseEvent(), Host: host, Mode: mode}
}

// StyleChangedEvent is published when a fill, stroke or weight setter runs.
type StyleChangedEvent struct {
	baseEvent
	Host         string
	FillColor    Color
	StrokeColor  Color
	StrokeWeight float64
}

// Type implements Event.
func (e StyleChangedEvent) Type() EventType { return EventStyleChanged }

// NewStyleChangedEvent creates a StyleChangedEvent.
func NewStyleChangedEvent(host string, fill, stroke Color, weight float64) StyleChangedEvent {
	return StyleChangedEvent{
		baseEvent:    newBaseEvent(),
		Host:         host,
		FillColor:    fill,
		StrokeColor:  stroke,
		StrokeWeight: weight,
	}
}

// ResizedEvent is published when the host's measured size changes.
type ResizedEvent struct {
	baseEvent
	Host   string
	Width  int
	Height int
}

// Type implements Event.
func (e ResizedEvent) Type() EventType { return EventResized }

// NewResizedEvent creates a ResizedEvent.
func NewResizedEvent(host string, width, height int) ResizedEvent {
	return ResizedEvent{baseEvent: newBaseEvent(), Host: host, Width: width, Height: height}
}

// SourceEndedEvent is published when a finite audio source runs out of samples.
type SourceEndedEvent struct {
	baseEvent
	Source string
}

// Type implements Event.
func (e SourceEndedEvent) Type() EventType { return EventSourceEnded }

// NewSourceEndedEvent creates a SourceEndedEvent.
func NewSourceEndedEvent(source string) SourceEndedEvent {
	return SourceEndedEvent{baseEvent: newBaseEvent(), Source: source}
}
