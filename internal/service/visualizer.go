// Package service provides the visualizer core and the services around it.
package service

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/tejashwikalptaru/tonescope/internal/adapter/audio/analysis"
	"github.com/tejashwikalptaru/tonescope/internal/domain"
	"github.com/tejashwikalptaru/tonescope/internal/ports"
)

// Visualizer binds an audio node to a drawing surface mounted in a host and
// paints either spectrum bars or a waveform polyline every frame.
//
// The host drives drawing and resizing from its UI goroutine. Setters may be
// called from any goroutine and take effect on the next frame.
type Visualizer struct {
	// Dependencies (injected)
	logger *slog.Logger
	bus    ports.EventBus
	host   ports.Host
	source ports.AudioNode

	// Analysis taps, connected to source for the visualizer's lifetime
	fft  ports.Analyser
	wave ports.Analyser

	surface       ports.Surface
	stopObserving func()

	// State
	mu        sync.Mutex
	running   bool
	destroyed bool
	width     int
	height    int
	mode      domain.Mode
	fill      domain.Color
	stroke    domain.Color
	weight    float64
}

// NewVisualizer resolves target to a host, attaches analysis taps to source
// and mounts a drawing surface. Rendering stays off until Start is called.
//
// Zero config fields take their defaults; a zero width or height falls back
// to the host's measured size and then to domain.DefaultWidth/DefaultHeight.
// bus and resolver may be nil.
func NewVisualizer(
	logger *slog.Logger,
	bus ports.EventBus,
	resolver ports.HostResolver,
	target ports.Target,
	source ports.AudioNode,
	cfg domain.VisualizerConfig,
) (*Visualizer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	host := resolveTarget(resolver, target)
	if host == nil {
		logger.Warn("visualizer target not found", slog.String("target", target.Selector))
		return nil, domain.NewElementNotFoundError(target.Selector)
	}
	if source == nil {
		return nil, domain.NewValidationError("source", nil, "audio node is required", nil)
	}

	cfg = cfg.WithDefaults()
	fft, err := analysis.NewFFT(cfg.SpectrumResolution)
	if err != nil {
		return nil, err
	}
	wave, err := analysis.NewWaveform(cfg.WaveformResolution)
	if err != nil {
		return nil, err
	}

	hostW, hostH := host.Size()
	v := &Visualizer{
		logger: logger.With(slog.String("component", "visualizer"), slog.String("host", host.Name())),
		bus:    bus,
		host:   host,
		source: source,
		fft:    fft,
		wave:   wave,
		width:  pickSize(cfg.Width, hostW, domain.DefaultWidth),
		height: pickSize(cfg.Height, hostH, domain.DefaultHeight),
		mode:   cfg.Mode,
		fill:   *cfg.FillColor,
		stroke: *cfg.StrokeColor,
		weight: cfg.StrokeWeight,
	}

	source.Connect(fft)
	source.Connect(wave)
	v.stopObserving = host.ObserveResize(v.onResize)

	v.mu.Lock()
	width, height := v.width, v.height
	v.mu.Unlock()

	surface, err := host.Mount(width, height, v.drawFrame)
	if err != nil {
		v.stopObserving()
		source.Disconnect(fft)
		source.Disconnect(wave)
		return nil, err
	}
	// The host may have reported a new size while mounting.
	v.mu.Lock()
	v.surface = surface
	resized := v.width != width || v.height != height
	width, height = v.width, v.height
	v.mu.Unlock()
	if resized {
		surface.Resize(width, height)
	}

	v.logger.Info("visualizer created",
		slog.Int("width", width),
		slog.Int("height", height),
		slog.String("mode", string(cfg.Mode)),
		slog.Int("spectrum_resolution", cfg.SpectrumResolution),
		slog.Int("waveform_resolution", cfg.WaveformResolution))

	return v, nil
}

func resolveTarget(resolver ports.HostResolver, target ports.Target) ports.Host {
	if target.Host != nil {
		if isNilHost(target.Host) {
			return nil
		}
		return target.Host
	}
	if resolver == nil || target.Selector == "" {
		return nil
	}
	host, ok := resolver.Lookup(target.Selector)
	if !ok || host == nil || isNilHost(host) {
		return nil
	}
	return host
}

// isNilHost reports whether h holds a nil reference value such as a nil *Host.
func isNilHost(h ports.Host) bool {
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func pickSize(configured, measured, fallback int) int {
	if configured > 0 {
		return configured
	}
	if measured > 0 {
		return measured
	}
	return fallback
}

// Start switches rendering on. Calling it while running does nothing.
func (v *Visualizer) Start() {
	v.mu.Lock()
	if v.running || v.destroyed {
		v.mu.Unlock()
		return
	}
	v.running = true
	v.mu.Unlock()

	v.logger.Debug("visualizer started")
	v.publish(domain.NewVisualizerStartedEvent(v.host.Name()))
}

// Stop switches rendering off; frames are cleared but nothing is drawn.
// Calling it while stopped does nothing.
func (v *Visualizer) Stop() {
	v.mu.Lock()
	if !v.running {
		v.mu.Unlock()
		return
	}
	v.running = false
	v.mu.Unlock()

	v.logger.Debug("visualizer stopped")
	v.publish(domain.NewVisualizerStoppedEvent(v.host.Name()))
}

// Running reports whether frames are being drawn.
func (v *Visualizer) Running() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.running
}

// SetMode selects the draw routine for the next frame.
// Modes other than spectrum and waveform draw nothing.
func (v *Visualizer) SetMode(mode domain.Mode) {
	v.mu.Lock()
	v.mode = mode
	v.mu.Unlock()

	v.publish(domain.NewModeChangedEvent(v.host.Name(), mode))
}

// Mode returns the current draw routine.
func (v *Visualizer) Mode() domain.Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// SetFillColor sets the bar color used in spectrum mode.
func (v *Visualizer) SetFillColor(c domain.Color) {
	v.mu.Lock()
	v.fill = c
	v.mu.Unlock()
	v.publishStyle()
}

// SetStrokeColor sets the line color used in waveform mode.
func (v *Visualizer) SetStrokeColor(c domain.Color) {
	v.mu.Lock()
	v.stroke = c
	v.mu.Unlock()
	v.publishStyle()
}

// SetStrokeWeight sets the line thickness used in waveform mode.
func (v *Visualizer) SetStrokeWeight(w float64) {
	v.mu.Lock()
	v.weight = w
	v.mu.Unlock()
	v.publishStyle()
}

// Settings returns the current look.
func (v *Visualizer) Settings() ports.VisualizerSettings {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ports.VisualizerSettings{
		Mode:         v.mode,
		FillColor:    v.fill,
		StrokeColor:  v.stroke,
		StrokeWeight: v.weight,
	}
}

// Size returns the current canvas size in pixels.
func (v *Visualizer) Size() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// HostName returns the name of the host the visualizer is mounted in.
func (v *Visualizer) HostName() string {
	return v.host.Name()
}

// Destroy stops rendering, stops observing the host, removes the surface and
// disconnects both taps from the audio node. Later calls only log.
func (v *Visualizer) Destroy() {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		v.logger.Debug("visualizer already destroyed")
		return
	}
	v.destroyed = true
	v.running = false
	surface := v.surface
	v.mu.Unlock()

	v.stopObserving()
	if surface != nil {
		surface.Remove()
	}
	v.source.Disconnect(v.fft)
	v.source.Disconnect(v.wave)

	v.logger.Info("visualizer destroyed")
	v.publish(domain.NewVisualizerDestroyedEvent(v.host.Name()))
}

// drawFrame is the per-frame callback registered with the host.
func (v *Visualizer) drawFrame(p ports.Painter) {
	v.mu.Lock()
	running, mode := v.running && !v.destroyed, v.mode
	fill, stroke, weight := v.fill, v.stroke, v.weight
	v.mu.Unlock()

	p.Clear()
	if !running {
		return
	}

	width, height := float64(p.Width()), float64(p.Height())
	switch mode {
	case domain.ModeSpectrum:
		p.NoStroke()
		p.Fill(fill)
		for _, r := range SpectrumBars(v.fft.Value(), width, height) {
			p.Rect(r.X, r.Y, r.W, r.H)
		}
	case domain.ModeWaveform:
		p.NoFill()
		p.StrokeWeight(weight)
		p.Stroke(stroke)
		p.Polyline(WaveformVertices(v.wave.Value(), width, height))
	}
}

// onResize is the host's resize observer.
func (v *Visualizer) onResize(width, height int) {
	v.mu.Lock()
	if v.destroyed || (width == v.width && height == v.height) {
		v.mu.Unlock()
		return
	}
	v.width, v.height = width, height
	surface := v.surface
	v.mu.Unlock()

	if surface != nil {
		surface.Resize(width, height)
	}
	v.logger.Debug("visualizer resized", slog.Int("width", width), slog.Int("height", height))
	v.publish(domain.NewResizedEvent(v.host.Name(), width, height))
}

func (v *Visualizer) publishStyle() {
	s := v.Settings()
	v.publish(domain.NewStyleChangedEvent(v.host.Name(), s.FillColor, s.StrokeColor, s.StrokeWeight))
}

func (v *Visualizer) publish(e domain.Event) {
	if v.bus != nil {
		v.bus.Publish(e)
	}
}
