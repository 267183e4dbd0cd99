package fyne

import (
	"sync"
	"time"
)

// FrameLoop calls tick at a fixed rate on its own goroutine.
type FrameLoop struct {
	interval time.Duration
	tick     func()

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewFrameLoop creates a loop running at fps frames per second.
func NewFrameLoop(fps int, tick func()) *FrameLoop {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &FrameLoop{
		interval: time.Second / time.Duration(fps),
		tick:     tick,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the loop. Later calls do nothing.
func (l *FrameLoop) Start() {
	l.startOnce.Do(func() {
		go l.run()
	})
}

func (l *FrameLoop) run() {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.tick()
		case <-l.stop:
			return
		}
	}
}

// Stop ends the loop and waits for the goroutine to exit.
// It is safe to call multiple times, and before Start.
func (l *FrameLoop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
	started := true
	l.startOnce.Do(func() { started = false })
	if started {
		<-l.done
	}
}
