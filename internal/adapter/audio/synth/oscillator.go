// Package synth provides a synthetic audio node used for demos, tests and
// running without an input device.
package synth

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/tejashwikalptaru/tonescope/internal/adapter/audio/graph"
	"github.com/tejashwikalptaru/tonescope/internal/domain"
)

// Shape is an oscillator waveform.
type Shape string

// Available shapes.
const (
	ShapeSine     Shape = "sine"
	ShapeSquare   Shape = "square"
	ShapeSawtooth Shape = "sawtooth"
	ShapeTriangle Shape = "triangle"
)

// ParseShape converts a name to a Shape.
func ParseShape(name string) (Shape, error) {
	switch s := Shape(strings.ToLower(name)); s {
	case ShapeSine, ShapeSquare, ShapeSawtooth, ShapeTriangle:
		return s, nil
	case "saw":
		return ShapeSawtooth, nil
	default:
		return "", domain.NewValidationError("shape", name, "expected sine, square, sawtooth or triangle", nil)
	}
}

// Config controls an Oscillator.
type Config struct {
	Shape      Shape
	Frequency  float64 // Hz
	Amplitude  float64 // peak, 0..1
	SampleRate int
	BlockSize  int // samples per emitted block

	// SweepPeriod, when non-zero, glides the frequency up and down four
	// octaves above Frequency over this period.
	SweepPeriod time.Duration
}

// DefaultConfig returns a 440 Hz sine at 44.1 kHz.
func DefaultConfig() Config {
	return Config{
		Shape:      ShapeSine,
		Frequency:  440,
		Amplitude:  0.8,
		SampleRate: 44100,
		BlockSize:  512,
	}
}

// Oscillator generates a periodic signal and pushes it to connected sinks.
//
// Thread-safety: This implementation is thread-safe.
type Oscillator struct {
	graph.Node

	logger *slog.Logger

	mu      sync.Mutex
	cfg     Config
	phase   float64 // cycles, 0..1
	elapsed float64 // seconds rendered, drives the sweep
	running bool
}

// NewOscillator creates an oscillator; zero config fields take defaults.
func NewOscillator(cfg Config) *Oscillator {
	def := DefaultConfig()
	if cfg.Shape == "" {
		cfg.Shape = def.Shape
	}
	if cfg.Frequency <= 0 {
		cfg.Frequency = def.Frequency
	}
	if cfg.Amplitude == 0 {
		cfg.Amplitude = def.Amplitude
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = def.BlockSize
	}
	return &Oscillator{cfg: cfg}
}

// SetLogger sets the logger for this oscillator.
func (o *Oscillator) SetLogger(logger *slog.Logger) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.logger = logger
}

// SetFrequency changes the base frequency on the next block.
func (o *Oscillator) SetFrequency(hz float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if hz > 0 {
		o.cfg.Frequency = hz
	}
}

// SetShape changes the waveform on the next block.
func (o *Oscillator) SetShape(shape Shape) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cfg.Shape = shape
}

// Name identifies the source in logs and events.
func (o *Oscillator) Name() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return "synth:" + string(o.cfg.Shape)
}

// Render generates n samples, emits them to the connected sinks and returns them.
func (o *Oscillator) Render(n int) []float32 {
	block := o.generate(n)
	o.Emit(block)
	return block
}

func (o *Oscillator) generate(n int) []float32 {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]float32, n)
	dt := 1 / float64(o.cfg.SampleRate)
	for i := range out {
		out[i] = float32(o.cfg.Amplitude * sample(o.cfg.Shape, o.phase))
		o.phase += o.frequencyAt(o.elapsed) * dt
		o.phase -= math.Floor(o.phase)
		o.elapsed += dt
	}
	return out
}

func (o *Oscillator) frequencyAt(t float64) float64 {
	if o.cfg.SweepPeriod <= 0 {
		return o.cfg.Frequency
	}
	pos := 0.5 - 0.5*math.Cos(2*math.Pi*t/o.cfg.SweepPeriod.Seconds())
	return o.cfg.Frequency * math.Pow(2, 4*pos)
}

func sample(shape Shape, phase float64) float64 {
	switch shape {
	case ShapeSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case ShapeSawtooth:
		return 2*phase - 1
	case ShapeTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// Run emits one block per block period until ctx is cancelled.
// It returns nil on cancellation and ErrSourceRunning if already running.
func (o *Oscillator) Run(ctx context.Context) error {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return domain.ErrSourceRunning
	}
	o.running = true
	blockSize := o.cfg.BlockSize
	period := time.Duration(float64(time.Second) * float64(blockSize) / float64(o.cfg.SampleRate))
	logger := o.logger
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	if logger != nil {
		logger.Debug("oscillator running", slog.Duration("block_period", period))
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			o.Render(blockSize)
		}
	}
}
