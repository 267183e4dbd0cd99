// Package wavfile streams a decoded WAV file into the audio graph.
package wavfile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"

	"github.com/tejashwikalptaru/tonescope/internal/adapter/audio/graph"
	"github.com/tejashwikalptaru/tonescope/internal/domain"
	"github.com/tejashwikalptaru/tonescope/internal/ports"
)

// DefaultBlockSize is the number of samples emitted per block.
const DefaultBlockSize = 1024

// Options configures a Player.
type Options struct {
	Loop      bool
	BlockSize int
	Logger    *slog.Logger
	Bus       ports.EventBus // receives SourceEndedEvent; may be nil
}

// Player holds a whole WAV file in memory as mono samples and emits it
// block by block in real time.
//
// Thread-safety: This implementation is thread-safe.
type Player struct {
	graph.Node

	path       string
	title      string
	sampleRate int
	samples    []float32

	blockSize int
	logger    *slog.Logger
	bus       ports.EventBus

	mu      sync.Mutex
	loop    bool
	pos     int
	running bool
}

// Open decodes the file at path.
func Open(path string, opts Options) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewAudioSourceError("open", path, "cannot open file", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, domain.NewAudioSourceError("decode", path, "not a valid WAV file", nil)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, domain.NewAudioSourceError("decode", path, "cannot read PCM data", err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = buf.SourceBitDepth
	}
	channels := int(dec.NumChans)
	if channels == 0 || bitDepth == 0 || dec.SampleRate == 0 {
		return nil, domain.NewAudioSourceError("decode", path, "incomplete format chunk", nil)
	}

	// 8-bit PCM is unsigned, wider depths are signed.
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}
	interleaved := make([]float32, len(buf.Data))
	scale := float32(int(1) << (bitDepth - 1))
	for i, v := range buf.Data {
		interleaved[i] = float32(v-offset) / scale
	}

	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}

	p := &Player{
		path:       path,
		title:      readTitle(f, path),
		sampleRate: int(dec.SampleRate),
		samples:    graph.Downmix(nil, interleaved, channels),
		blockSize:  opts.BlockSize,
		logger:     opts.Logger,
		bus:        opts.Bus,
		loop:       opts.Loop,
	}
	if p.logger != nil {
		p.logger.Info("wav loaded",
			slog.String("path", path),
			slog.String("title", p.title),
			slog.Int("sample_rate", p.sampleRate),
			slog.Int("channels", channels),
			slog.Int("bit_depth", bitDepth),
			slog.Duration("duration", p.Duration()))
	}
	return p, nil
}

// readTitle tries embedded tags, then the RIFF INFO chunk, then the file name.
func readTitle(f *os.File, path string) string {
	if _, err := f.Seek(0, io.SeekStart); err == nil {
		if m, err := tag.ReadFrom(f); err == nil && m != nil {
			if title := strings.TrimSpace(m.Title()); title != "" {
				return title
			}
		}
	}

	if _, err := f.Seek(0, io.SeekStart); err == nil {
		dec := wav.NewDecoder(f)
		dec.ReadMetadata()
		if dec.Metadata != nil {
			if title := strings.TrimSpace(dec.Metadata.Title); title != "" {
				return title
			}
		}
	}

	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Name identifies the source in logs and events.
func (p *Player) Name() string { return "wav:" + p.path }

// Title returns the display title.
func (p *Player) Title() string { return p.title }

// SampleRate returns the file's sample rate in Hz.
func (p *Player) SampleRate() int { return p.sampleRate }

// Len returns the number of mono samples.
func (p *Player) Len() int { return len(p.samples) }

// Duration returns the playing time of the file.
func (p *Player) Duration() time.Duration {
	if p.sampleRate == 0 {
		return 0
	}
	return time.Duration(len(p.samples)) * time.Second / time.Duration(p.sampleRate)
}

// SetLoop enables or disables looping at the end of the file.
func (p *Player) SetLoop(loop bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loop = loop
}

// Rewind moves the read position back to the start.
func (p *Player) Rewind() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = 0
}

// Next emits the next block to connected sinks.
// It returns false once the file is exhausted and looping is off.
func (p *Player) Next() bool {
	block, ok := p.advance()
	if !ok {
		return false
	}
	p.Emit(block)
	return true
}

func (p *Player) advance() ([]float32, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pos >= len(p.samples) {
		if !p.loop || len(p.samples) == 0 {
			return nil, false
		}
		p.pos = 0
	}
	end := p.pos + p.blockSize
	if end > len(p.samples) {
		end = len(p.samples)
	}
	block := p.samples[p.pos:end]
	p.pos = end
	return block, true
}

// Run emits blocks at the file's sample rate until the file ends or ctx is
// cancelled. Reaching the end publishes a SourceEndedEvent.
func (p *Player) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return domain.ErrSourceRunning
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	period := time.Duration(float64(time.Second) * float64(p.blockSize) / float64(p.sampleRate))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !p.Next() {
				if p.logger != nil {
					p.logger.Info("wav finished", slog.String("path", p.path))
				}
				if p.bus != nil {
					p.bus.Publish(domain.NewSourceEndedEvent(p.Name()))
				}
				return nil
			}
		}
	}
}
