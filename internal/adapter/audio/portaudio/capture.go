// Package portaudio captures microphone input through PortAudio and feeds it
// into the audio graph.
package portaudio

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	pa "github.com/gordonklaus/portaudio"

	"github.com/tejashwikalptaru/tonescope/internal/adapter/audio/graph"
	"github.com/tejashwikalptaru/tonescope/internal/domain"
)

var (
	initOnce sync.Once
	termOnce sync.Once
	initErr  error
)

// Initialize wraps pa.Initialize so multiple callers are safe.
func Initialize() error {
	initOnce.Do(func() {
		initErr = pa.Initialize()
	})
	return initErr
}

// Terminate balances Initialize.
func Terminate() {
	if initErr != nil {
		return
	}
	termOnce.Do(func() {
		_ = pa.Terminate()
	})
}

// Config controls how a Capture is opened.
type Config struct {
	DeviceName string // substring match, case-insensitive; empty picks the best input
	Channels   int
	BlockSize  int // frames per callback
}

const defaultBlockSize = 1024

// Capture is an audio node fed by a PortAudio input stream.
// Samples are downmixed to mono in the stream callback and pushed to sinks.
type Capture struct {
	graph.Node

	logger     *slog.Logger
	stream     *pa.Stream
	device     *pa.DeviceInfo
	sampleRate float64
	channels   int

	mono []float32 // callback scratch, owned by the stream thread

	mu     sync.Mutex
	active bool
}

// NewCapture opens, but does not start, an input stream.
// Initialize must have been called.
func NewCapture(cfg Config, logger *slog.Logger) (*Capture, error) {
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = defaultBlockSize
	}

	device, err := findDevice(cfg.DeviceName)
	if err != nil {
		return nil, domain.NewAudioSourceError("open", cfg.DeviceName, "no input device", err)
	}
	if cfg.Channels > device.MaxInputChannels {
		cfg.Channels = device.MaxInputChannels
	}

	c := &Capture{
		logger:     logger,
		device:     device,
		sampleRate: device.DefaultSampleRate,
		channels:   cfg.Channels,
		mono:       make([]float32, cfg.BlockSize),
	}

	stream, err := pa.OpenStream(pa.StreamParameters{
		Input: pa.StreamDeviceParameters{
			Device:   device,
			Channels: cfg.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      c.sampleRate,
		FramesPerBuffer: cfg.BlockSize,
	}, c.process)
	if err != nil {
		return nil, domain.NewAudioSourceError("open", device.Name, "cannot open stream", err)
	}
	c.stream = stream

	if logger != nil {
		logger.Info("capture opened",
			slog.String("device", device.Name),
			slog.Float64("sample_rate", c.sampleRate),
			slog.Int("channels", c.channels))
	}
	return c, nil
}

// Name identifies the source in logs and events.
func (c *Capture) Name() string { return "mic:" + c.device.Name }

// SampleRate returns the stream sample rate.
func (c *Capture) SampleRate() float64 { return c.sampleRate }

func (c *Capture) process(in []float32) {
	c.mono = graph.Downmix(c.mono, in, c.channels)
	c.Emit(c.mono)
}

// Run starts the stream and keeps it running until ctx is cancelled.
func (c *Capture) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.stream == nil {
		c.mu.Unlock()
		return domain.ErrSourceClosed
	}
	if c.active {
		c.mu.Unlock()
		return domain.ErrSourceRunning
	}
	if err := c.stream.Start(); err != nil {
		c.mu.Unlock()
		return domain.NewAudioSourceError("start", c.device.Name, "cannot start stream", err)
	}
	c.active = true
	c.mu.Unlock()

	<-ctx.Done()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
	if err := c.stream.Stop(); err != nil && !isInvalidStreamState(err) {
		return domain.NewAudioSourceError("stop", c.device.Name, "cannot stop stream", err)
	}
	return nil
}

// Close releases the stream. Closing a running capture fails with
// ErrSourceRunning; closing twice is a no-op.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return nil
	}
	if c.active {
		return domain.ErrSourceRunning
	}
	err := c.stream.Close()
	c.stream = nil
	return err
}

func findDevice(name string) (*pa.DeviceInfo, error) {
	devices, err := pa.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}

	defaultIndex := -1
	if def, err := pa.DefaultInputDevice(); err == nil && def != nil {
		defaultIndex = def.Index
	}
	return selectDevice(devices, name, defaultIndex)
}

// selectDevice returns the first input whose name contains name, or when
// name is empty the highest scoring input.
func selectDevice(devices []*pa.DeviceInfo, name string, defaultIndex int) (*pa.DeviceInfo, error) {
	if name != "" {
		needle := strings.ToLower(name)
		for _, d := range devices {
			if d == nil || d.MaxInputChannels <= 0 {
				continue
			}
			if strings.Contains(strings.ToLower(d.Name), needle) {
				return d, nil
			}
		}
		return nil, fmt.Errorf("audio device %q not found", name)
	}

	type scored struct {
		dev   *pa.DeviceInfo
		score int
	}
	keywords := []string{"monitor", "loopback", "stereo mix", "what u hear"}

	var results []scored
	for _, d := range devices {
		if d == nil || d.MaxInputChannels <= 0 {
			continue
		}
		score := d.MaxInputChannels
		if d.Index == defaultIndex {
			score += 50
		}
		lower := strings.ToLower(d.Name)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				score += 20
				break
			}
		}
		if strings.Contains(lower, "default") {
			score += 10
		}
		results = append(results, scored{dev: d, score: score})
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no audio input device found")
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return strings.ToLower(results[i].dev.Name) < strings.ToLower(results[j].dev.Name)
		}
		return results[i].score > results[j].score
	})
	return results[0].dev, nil
}

// isInvalidStreamState reports whether err comes from stopping a stopped stream.
func isInvalidStreamState(err error) bool {
	return err != nil && strings.Contains(err.Error(), "-9986")
}
