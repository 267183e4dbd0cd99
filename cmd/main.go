// Package main is the entry point for tonescope, a real-time audio
// spectrum and waveform visualizer.
//
// Build:
//
//	go build -o build/tonescope ./cmd
//
// Run:
//
//	./build/tonescope -source synth -mode waveform
//	./build/tonescope -source wav -file song.wav -loop
//	./build/tonescope -source mic -device "usb"
//
// Keys: space start/stop, m toggle mode, c cycle colors, +/- line weight,
// r reset the look.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tejashwikalptaru/tonescope/internal/adapter/audio/synth"
	"github.com/tejashwikalptaru/tonescope/internal/app"
	"github.com/tejashwikalptaru/tonescope/internal/domain"
	"github.com/tejashwikalptaru/tonescope/internal/logger"
)

func main() {
	config, showVersion, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if showVersion {
		fmt.Println(app.GetVersionInfo().FullString())
		return
	}

	// Create the application with dependency injection
	application, err := app.NewApplication(config)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	// Run application (blocks until the window closed)
	application.Run()
}

// parseFlags builds the application config from command line arguments.
// Visualizer options that are not given stay unset so saved preferences apply.
func parseFlags(args []string) (app.Config, bool, error) {
	config := app.DefaultConfig()
	fs := flag.NewFlagSet("tonescope", flag.ContinueOnError)

	var (
		mode, fill, stroke, shape, level string
		sweep                            time.Duration
		showVersion                      bool
	)
	fs.StringVar(&config.Source, "source", config.Source, "audio source: synth, wav or mic")
	fs.StringVar(&config.File, "file", "", "WAV file for the wav source")
	fs.BoolVar(&config.Loop, "loop", false, "loop the wav source")
	fs.StringVar(&config.Device, "device", "", "input device name (substring) for the mic source")
	fs.StringVar(&shape, "shape", string(config.Synth.Shape), "synth waveform: sine, square, sawtooth or triangle")
	fs.Float64Var(&config.Synth.Frequency, "freq", config.Synth.Frequency, "synth frequency in Hz")
	fs.DurationVar(&sweep, "sweep", 0, "synth sweep period, 0 for a steady tone")
	fs.StringVar(&mode, "mode", "", "visualization: spectrum (fft) or waveform (oscilloscope)")
	fs.StringVar(&fill, "fill", "", `bar color, "r,g,b[,a]" or "#rrggbb[aa]"`)
	fs.StringVar(&stroke, "stroke", "", `line color, "r,g,b[,a]" or "#rrggbb[aa]"`)
	fs.Float64Var(&config.Visualizer.StrokeWeight, "weight", 0, "line weight in pixels")
	fs.IntVar(&config.Visualizer.Width, "width", 0, "canvas width, 0 to follow the window")
	fs.IntVar(&config.Visualizer.Height, "height", 0, "canvas height, 0 to follow the window")
	fs.IntVar(&config.Visualizer.SpectrumResolution, "fft-size", domain.DefaultSpectrumResolution, "spectrum bins (power of two)")
	fs.IntVar(&config.Visualizer.WaveformResolution, "wave-size", domain.DefaultWaveformResolution, "waveform samples (power of two)")
	fs.IntVar(&config.FPS, "fps", config.FPS, "frames per second")
	fs.StringVar(&level, "log-level", "", "log level: debug, info, warn or error (default from "+logger.EnvLevel+")")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format: text or json")
	fs.BoolVar(&showVersion, "version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return config, false, err
	}

	var err error
	if config.Synth.Shape, err = synth.ParseShape(shape); err != nil {
		return config, false, err
	}
	config.Synth.SweepPeriod = sweep
	if mode != "" {
		if config.Visualizer.Mode, err = domain.ParseMode(mode); err != nil {
			return config, false, err
		}
	}
	if fill != "" {
		c, err := domain.ParseColor(fill)
		if err != nil {
			return config, false, err
		}
		config.Visualizer.FillColor = &c
	}
	if stroke != "" {
		c, err := domain.ParseColor(stroke)
		if err != nil {
			return config, false, err
		}
		config.Visualizer.StrokeColor = &c
	}
	config.LogLevel = logger.ParseLevel(level, config.LogLevel)

	return config, showVersion, nil
}
