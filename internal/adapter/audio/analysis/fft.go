package analysis

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// DefaultSmoothing is the time-averaging constant applied between reads.
const DefaultSmoothing = 0.8

// FFT is a frequency-domain tap. A tap of size N analyses the last 2N samples
// and returns N magnitudes in decibels, lowest frequency first.
//
// Silent bins report -Inf; consumers clamp to their own display floor.
type FFT struct {
	size      int
	smoothing float64
	window    []float64

	mu       sync.Mutex
	history  ring
	smoothed []float64
}

// NewFFT creates a spectrum tap with size frequency bins.
func NewFFT(size int) (*FFT, error) {
	if err := validateResolution("spectrumResolution", size); err != nil {
		return nil, err
	}
	return &FFT{
		size:      size,
		smoothing: DefaultSmoothing,
		window:    window.Blackman(2 * size),
		history:   newRing(2 * size),
		smoothed:  make([]float64, size),
	}, nil
}

// SetSmoothing sets the averaging constant in [0, 1); 0 disables smoothing.
func (f *FFT) SetSmoothing(s float64) {
	f.mu.Lock()
	f.smoothing = math.Max(0, math.Min(s, 0.999))
	f.mu.Unlock()
}

// Size returns the number of bins Value returns.
func (f *FFT) Size() int { return f.size }

// Process implements ports.AudioSink.
func (f *FFT) Process(samples []float32) {
	f.mu.Lock()
	f.history.write(samples)
	f.mu.Unlock()
}

// Value computes the spectrum of the current sample history.
func (f *FFT) Value() []float32 {
	n := 2 * f.size
	frame := make([]float64, n)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.history.ordered(frame)
	for i := range frame {
		frame[i] *= f.window[i]
	}
	spectrum := fft.FFTReal(frame)

	out := make([]float32, f.size)
	for k := 0; k < f.size; k++ {
		mag := cmplx.Abs(spectrum[k]) / float64(n)
		f.smoothed[k] = f.smoothing*f.smoothed[k] + (1-f.smoothing)*mag
		out[k] = float32(toDecibels(f.smoothed[k]))
	}
	return out
}

func toDecibels(mag float64) float64 {
	if mag <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(mag)
}
