package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpectrumBars(t *testing.T) {
	values := []float32{-140, -70, 0, 10, -200, float32(math.NaN()), float32(math.Inf(-1))}
	wantHeights := []float64{0, 70, 140, 140, 0, 0, 0}

	bars := SpectrumBars(values, 70, 140)

	require.Len(t, bars, len(values))
	for i, b := range bars {
		assert.InDelta(t, float64(i)*10, b.X, 1e-9, "bar %d x", i)
		assert.InDelta(t, 11, b.W, 1e-9, "bar %d width", i)
		assert.InDelta(t, wantHeights[i], b.H, 1e-9, "bar %d height", i)
		assert.InDelta(t, 140-wantHeights[i], b.Y, 1e-9, "bar %d y", i)
	}
}

func TestSpectrumBarsEmpty(t *testing.T) {
	assert.Nil(t, SpectrumBars(nil, 100, 100))
}

func TestWaveformVertices(t *testing.T) {
	points := WaveformVertices([]float32{-1, 0, 1, 1.5}, 100, 50)

	require.Len(t, points, 4)
	wantX := []float64{0, 25, 50, 75}
	wantY := []float64{0, 25, 50, 62.5}
	for i, p := range points {
		assert.InDelta(t, wantX[i], p.X, 1e-9)
		assert.InDelta(t, wantY[i], p.Y, 1e-9)
	}

	assert.Nil(t, WaveformVertices(nil, 100, 50))
}
