package domain

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Mode selects the draw routine used by a visualizer.
type Mode string

// Available visualization modes.
const (
	ModeSpectrum Mode = "spectrum"
	ModeWaveform Mode = "waveform"
)

// ParseMode converts a user-supplied name into a Mode.
// The names "fft" and "oscilloscope" are accepted as aliases.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "spectrum", "fft":
		return ModeSpectrum, nil
	case "waveform", "oscilloscope", "scope":
		return ModeWaveform, nil
	default:
		return "", NewValidationError("mode", name, "expected spectrum or waveform", nil)
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeWaveform {
		return ModeSpectrum
	}
	return ModeWaveform
}

// Color is an RGBA color with channels in 0-255 space.
// Channels are not range checked; out-of-range values are
// handed to the painter as-is.
type Color struct {
	R, G, B, A float64
}

// RGB creates an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA creates a color with an explicit alpha channel.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// String formats the color as a comma separated channel list.
func (c Color) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", c.R, c.G, c.B, c.A)
}

// HueColor returns a fully saturated color for hue h (degrees) with the given alpha.
func HueColor(h, alpha float64) Color {
	r, g, b := colorful.Hsv(h, 1, 1).RGB255()
	return RGBA(float64(r), float64(g), float64(b), alpha)
}

// Hue returns the hue of the color in degrees.
func (c Color) Hue() float64 {
	h, _, _ := colorful.Color{R: clampUnit(c.R / 255), G: clampUnit(c.G / 255), B: clampUnit(c.B / 255)}.Hsv()
	return h
}

// ParseColor parses "r,g,b", "r,g,b,a", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s)
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, NewValidationError("color", s, "expected 3 or 4 channels", nil)
	}
	channels := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Color{}, NewValidationError("color", s, "channel is not a number", err)
		}
		channels[i] = v
	}
	if len(channels) == 3 {
		return RGB(channels[0], channels[1], channels[2]), nil
	}
	return RGBA(channels[0], channels[1], channels[2], channels[3]), nil
}

func parseHexColor(s string) (Color, error) {
	alpha := 255.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, NewValidationError("color", s, "invalid alpha", err)
		}
		alpha = float64(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, NewValidationError("color", s, "invalid hex color", err)
	}
	r, g, b := c.RGB255()
	return RGBA(float64(r), float64(g), float64(b), alpha), nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Point is a vertex in surface pixel coordinates (origin top-left).
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in surface pixel coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Default visualizer settings.
const (
	DefaultWidth              = 1000
	DefaultHeight             = 150
	DefaultSpectrumResolution = 1024
	DefaultWaveformResolution = 512
	DefaultStrokeWeight       = 2.0
)

// Default colors.
var (
	DefaultFillColor   = RGBA(0, 255, 255, 200)
	DefaultStrokeColor = RGB(0, 255, 255)
)

// VisualizerConfig holds the recognized construction options.
// Zero values mean "use the default"; Width and Height fall back to the
// host's measured size before the fixed defaults.
type VisualizerConfig struct {
	Width              int
	Height             int
	Mode               Mode
	SpectrumResolution int
	WaveformResolution int
	FillColor          *Color
	StrokeColor        *Color
	StrokeWeight       float64
}

// DefaultVisualizerConfig returns a config with every option set to its default,
// except the size which is left to the host.
func DefaultVisualizerConfig() VisualizerConfig {
	fill := DefaultFillColor
	stroke := DefaultStrokeColor
	return VisualizerConfig{
		Mode:               ModeSpectrum,
		SpectrumResolution: DefaultSpectrumResolution,
		WaveformResolution: DefaultWaveformResolution,
		FillColor:          &fill,
		StrokeColor:        &stroke,
		StrokeWeight:       DefaultStrokeWeight,
	}
}

// WithDefaults returns a copy with unset options filled in.
func (c VisualizerConfig) WithDefaults() VisualizerConfig {
	def := DefaultVisualizerConfig()
	if c.Mode == "" {
		c.Mode = def.Mode
	}
	if c.SpectrumResolution == 0 {
		c.SpectrumResolution = def.SpectrumResolution
	}
	if c.WaveformResolution == 0 {
		c.WaveformResolution = def.WaveformResolution
	}
	if c.FillColor == nil {
		c.FillColor = def.FillColor
	}
	if c.StrokeColor == nil {
		c.StrokeColor = def.StrokeColor
	}
	if c.StrokeWeight == 0 {
		c.StrokeWeight = def.StrokeWeight
	}
	return c
}
