// Package ports define interfaces for dependency inversion.
// These interfaces keep the visualizer core independent of audio and UI frameworks.
package ports

// AudioSink receives blocks of mono samples from an audio node.
// Analysis taps implement this interface.
//
// Process is called from the audio node's own goroutine or stream thread,
// so implementations must be thread-safe and must not retain the slice.
type AudioSink interface {
	Process(samples []float32)
}

// AudioNode is a node of the audio processing graph that taps can attach to.
//
// Implementations must be thread-safe: Connect and Disconnect may be called
// from the UI goroutine while the node is producing samples.
type AudioNode interface {
	// Connect attaches a sink. Connecting the same sink twice is a no-op.
	Connect(sink AudioSink)

	// Disconnect detaches a sink. Unknown sinks are ignored.
	Disconnect(sink AudioSink)
}

// Analyser is an analysis tap: it consumes samples and exposes the latest
// computed snapshot without altering the signal.
type Analyser interface {
	AudioSink

	// Size returns the number of values Value produces.
	Size() int

	// Value returns the most recent snapshot. No freshness is guaranteed:
	// if no new samples arrived since the last call the previous data is reused.
	Value() []float32
}
