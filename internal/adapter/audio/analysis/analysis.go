// Package analysis provides pull-based analysis taps (spectrum and waveform)
// that attach to an audio node and expose the latest snapshot on demand.
package analysis

import (
	"sync"

	"github.com/tejashwikalptaru/tonescope/internal/domain"
	"github.com/tejashwikalptaru/tonescope/internal/ports"
)

// Resolution bounds shared by both taps.
const (
	MinResolution = 16
	MaxResolution = 16384
)

func validateResolution(field string, size int) error {
	if size < MinResolution || size > MaxResolution {
		return domain.NewValidationError(field, size, "must be between 16 and 16384", domain.ErrInvalidResolution)
	}
	if size&(size-1) != 0 {
		return domain.NewValidationError(field, size, "must be a power of two", domain.ErrInvalidResolution)
	}
	return nil
}

// ring is a fixed-size sample history. Callers hold the owning tap's lock.
type ring struct {
	buf  []float64
	head int // index of the oldest sample
}

func newRing(size int) ring {
	return ring{buf: make([]float64, size)}
}

func (r *ring) write(samples []float32) {
	n := len(r.buf)
	if len(samples) >= n {
		samples = samples[len(samples)-n:]
	}
	for _, s := range samples {
		r.buf[r.head] = float64(s)
		r.head = (r.head + 1) % n
	}
}

// ordered copies the history oldest first into dst.
func (r *ring) ordered(dst []float64) {
	k := copy(dst, r.buf[r.head:])
	copy(dst[k:], r.buf[:r.head])
}

// Waveform is a time-domain tap: Value returns the latest Size samples, oldest first.
type Waveform struct {
	size int

	mu      sync.Mutex
	history ring
}

// NewWaveform creates a waveform tap holding size samples.
func NewWaveform(size int) (*Waveform, error) {
	if err := validateResolution("waveformResolution", size); err != nil {
		return nil, err
	}
	return &Waveform{size: size, history: newRing(size)}, nil
}

// Size returns the number of samples Value returns.
func (w *Waveform) Size() int { return w.size }

// Process implements ports.AudioSink.
func (w *Waveform) Process(samples []float32) {
	w.mu.Lock()
	w.history.write(samples)
	w.mu.Unlock()
}

// Value returns the latest samples in [-1, 1] (not clamped).
func (w *Waveform) Value() []float32 {
	tmp := make([]float64, w.size)
	w.mu.Lock()
	w.history.ordered(tmp)
	w.mu.Unlock()

	out := make([]float32, w.size)
	for i, v := range tmp {
		out[i] = float32(v)
	}
	return out
}

var (
	_ ports.Analyser = (*Waveform)(nil)
	_ ports.Analyser = (*FFT)(nil)
)
