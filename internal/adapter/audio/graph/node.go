// Package graph provides the fan-out node shared by every audio source.
package graph

import (
	"sync"

	"github.com/tejashwikalptaru/tonescope/internal/ports"
)

// Node distributes sample blocks to the sinks connected to it.
// Sources embed Node to satisfy ports.AudioNode.
//
// Thread-safety: Connect, Disconnect and Emit may run concurrently.
type Node struct {
	mu    sync.RWMutex
	sinks []ports.AudioSink
}

// Connect implements ports.AudioNode.
func (n *Node) Connect(sink ports.AudioSink) {
	if sink == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, s := range n.sinks {
		if s == sink {
			return
		}
	}
	n.sinks = append(n.sinks, sink)
}

// Disconnect implements ports.AudioNode.
func (n *Node) Disconnect(sink ports.AudioSink) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, s := range n.sinks {
		if s == sink {
			n.sinks = append(n.sinks[:i:i], n.sinks[i+1:]...)
			return
		}
	}
}

// Connected reports how many sinks are attached.
func (n *Node) Connected() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.sinks)
}

// Emit pushes one block of mono samples to every connected sink.
func (n *Node) Emit(samples []float32) {
	if len(samples) == 0 {
		return
	}
	n.mu.RLock()
	sinks := n.sinks
	n.mu.RUnlock()

	for _, s := range sinks {
		s.Process(samples)
	}
}

// Downmix averages interleaved frames into mono. dst is reused when large enough.
func Downmix(dst, in []float32, channels int) []float32 {
	if channels <= 1 {
		return append(dst[:0], in...)
	}
	frames := len(in) / channels
	if cap(dst) < frames {
		dst = make([]float32, frames)
	}
	dst = dst[:frames]
	for i := range dst {
		var sum float32
		base := i * channels
		for ch := 0; ch < channels; ch++ {
			sum += in[base+ch]
		}
		dst[i] = sum / float32(channels)
	}
	return dst
}

var _ ports.AudioNode = (*Node)(nil)
