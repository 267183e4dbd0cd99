package service

import (
	"math"

	"github.com/tejashwikalptaru/tonescope/internal/domain"
)

// Decibel range mapped onto the bar height.
const (
	MinDecibels = -140.0
	MaxDecibels = 0.0
)

// SpectrumBars lays out one bar per spectrum value across a width x height area.
// Bar i starts at i*width/n, is one pixel wider than its slot so neighbours
// overlap, and rises from the bottom edge to a height proportional to its
// decibel value clamped to [MinDecibels, MaxDecibels].
func SpectrumBars(values []float32, width, height float64) []domain.Rect {
	if len(values) == 0 {
		return nil
	}
	bw := width / float64(len(values))
	bars := make([]domain.Rect, len(values))
	for i, v := range values {
		h := barHeight(float64(v), height)
		bars[i] = domain.Rect{X: float64(i) * bw, Y: height - h, W: bw + 1, H: h}
	}
	return bars
}

func barHeight(db, height float64) float64 {
	switch {
	case math.IsNaN(db) || db <= MinDecibels:
		return 0
	case db >= MaxDecibels:
		return height
	}
	return (db - MinDecibels) / (MaxDecibels - MinDecibels) * height
}

// WaveformVertices maps samples onto polyline vertices. Vertex i sits at
// x = i*width/n and y = the linear map of the sample from [-1, 1] onto
// [0, height]. Samples outside [-1, 1] are not clamped.
func WaveformVertices(values []float32, width, height float64) []domain.Point {
	if len(values) == 0 {
		return nil
	}
	step := width / float64(len(values))
	points := make([]domain.Point, len(values))
	for i, v := range values {
		points[i] = domain.Point{X: float64(i) * step, Y: (float64(v) + 1) / 2 * height}
	}
	return points
}
