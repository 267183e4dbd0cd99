package wavfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/tonescope/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/tonescope/internal/domain"
	"github.com/tejashwikalptaru/tonescope/internal/logger"
	"github.com/tejashwikalptaru/tonescope/internal/testutil"
)

type blockSink struct {
	mu     sync.Mutex
	blocks [][]float32
}

func (b *blockSink) Process(samples []float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blocks = append(b.blocks, append([]float32(nil), samples...))
}

func (b *blockSink) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.blocks)
}

// writeWAV writes 16-bit PCM frames to a temporary file.
func writeWAV(t *testing.T, name string, sampleRate, channels int, data []int) string {
	t.Helper()
	return writeWAVWithMetadata(t, name, sampleRate, channels, data, nil)
}

func writeWAVWithMetadata(t *testing.T, name string, sampleRate, channels int, data []int, meta *wav.Metadata) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	enc.Metadata = meta
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
	return path
}

func TestOpenMono(t *testing.T) {
	path := writeWAV(t, "tone.wav", 8000, 1, []int{0, 16384, -16384, 32767})

	p, err := Open(path, Options{Logger: logger.NewTestLogger()})
	require.NoError(t, err)

	assert.Equal(t, "tone", p.Title())
	assert.Equal(t, 8000, p.SampleRate())
	assert.Equal(t, 4, p.Len())
	assert.Equal(t, 500*time.Microsecond, p.Duration())
	assert.InDeltaSlice(t, []float32{0, 0.5, -0.5, 32767.0 / 32768}, p.samples, 1e-6)
}

func TestOpenReadsInfoTitle(t *testing.T) {
	path := writeWAVWithMetadata(t, "take-3.wav", 8000, 1, []int{0, 0, 0, 0}, &wav.Metadata{Title: "Sweep Test"})

	p, err := Open(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, "Sweep Test", p.Title())
	assert.Equal(t, 4, p.Len())
}

func TestOpenStereoDownmix(t *testing.T) {
	// Two frames: (L=16384, R=0) and (L=-16384, R=-16384).
	path := writeWAV(t, "stereo.wav", 44100, 2, []int{16384, 0, -16384, -16384})

	p, err := Open(path, Options{})
	require.NoError(t, err)

	require.Equal(t, 2, p.Len())
	assert.InDeltaSlice(t, []float32{0.25, -0.5}, p.samples, 1e-6)
}

func TestOpenErrors(t *testing.T) {
	var srcErr *domain.AudioSourceError

	_, err := Open(filepath.Join(t.TempDir(), "missing.wav"), Options{})
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "open", srcErr.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)

	junk := filepath.Join(t.TempDir(), "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("definitely not a riff file"), 0o600))
	_, err = Open(junk, Options{})
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "decode", srcErr.Op)
}

func TestNextBlocks(t *testing.T) {
	data := make([]int, 10)
	for i := range data {
		data[i] = i * 1000
	}
	path := writeWAV(t, "ramp.wav", 8000, 1, data)

	p, err := Open(path, Options{BlockSize: 4})
	require.NoError(t, err)
	sink := &blockSink{}
	p.Connect(sink)

	assert.True(t, p.Next())
	assert.True(t, p.Next())
	assert.True(t, p.Next())
	assert.False(t, p.Next(), "file is exhausted")

	require.Len(t, sink.blocks, 3)
	assert.Len(t, sink.blocks[0], 4)
	assert.Len(t, sink.blocks[2], 2, "last block is short")

	p.Rewind()
	assert.True(t, p.Next())
	assert.Len(t, sink.blocks, 4)
}

func TestNextLoops(t *testing.T) {
	path := writeWAV(t, "loop.wav", 8000, 1, []int{1, 2, 3})

	p, err := Open(path, Options{BlockSize: 2, Loop: true})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.True(t, p.Next())
	}

	p.SetLoop(false)
	for p.Next() {
	}
	assert.False(t, p.Next())
}

func TestRunPublishesSourceEnded(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	bus := eventbus.NewSyncEventBus(logger.NewTestLogger())
	defer bus.Close()

	ended := make(chan domain.Event, 1)
	bus.Subscribe(domain.EventSourceEnded, func(e domain.Event) { ended <- e })

	// 400 samples at 8 kHz in 80-sample blocks: five 10ms ticks.
	path := writeWAV(t, "short.wav", 8000, 1, make([]int, 400))
	p, err := Open(path, Options{BlockSize: 80, Bus: bus})
	require.NoError(t, err)
	sink := &blockSink{}
	p.Connect(sink)

	require.NoError(t, p.Run(context.Background()))

	select {
	case e := <-ended:
		assert.Equal(t, p.Name(), e.(domain.SourceEndedEvent).Source)
	default:
		t.Fatal("expected a SourceEndedEvent")
	}
	assert.Equal(t, 5, sink.count())
}

func TestRunCancel(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	path := writeWAV(t, "long.wav", 8000, 1, make([]int, 800))
	p, err := Open(path, Options{BlockSize: 80, Loop: true})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	err = p.Run(ctx)
	assert.True(t, errors.Is(err, domain.ErrSourceRunning))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
