// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/tejashwikalptaru/tonescope/internal/adapter/audio/portaudio"
	"github.com/tejashwikalptaru/tonescope/internal/adapter/audio/synth"
	"github.com/tejashwikalptaru/tonescope/internal/adapter/audio/wavfile"
	"github.com/tejashwikalptaru/tonescope/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/tonescope/internal/adapter/repository/memory"
	fyneui "github.com/tejashwikalptaru/tonescope/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/tonescope/internal/domain"
	"github.com/tejashwikalptaru/tonescope/internal/logger"
	"github.com/tejashwikalptaru/tonescope/internal/ports"
	"github.com/tejashwikalptaru/tonescope/internal/service"
)

// Source kinds selectable with Config.Source.
const (
	SourceSynth = "synth"
	SourceWAV   = "wav"
	SourceMic   = "mic"
)

// audioSource is an audio node that produces samples until its context ends.
type audioSource interface {
	ports.AudioNode
	Name() string
	Run(ctx context.Context) error
}

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App
	config  Config

	// Infrastructure
	eventBus ports.EventBus
	source   audioSource
	capture  *portaudio.Capture

	// Repositories
	preferencesRepo ports.PreferencesRepository

	// Services
	preferenceService *service.PreferenceService
	visualizer        *service.Visualizer

	// UI
	window   fyne.Window
	host     *fyneui.Host
	registry *fyneui.Registry

	// Lifecycle
	cancel       context.CancelFunc
	sourceDone   sync.WaitGroup
	shutdownOnce sync.Once

	// Palette cycling
	hue    float64
	hueSet bool
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// Source selects the audio node: synth, wav or mic
	Source string

	// File is the WAV file played by the wav source
	File string

	// Loop restarts the wav source when it ends
	Loop bool

	// Device is a substring of the input device name for the mic source
	Device string

	// Synth configures the synth source
	Synth synth.Config

	// HostName is the selector the visualizer is mounted under
	HostName string

	// FPS is the frame rate; negative disables the frame loop
	FPS int

	// AutoStart starts rendering as soon as the application runs
	AutoStart bool

	// Visualizer holds options set on the command line; unset options come
	// from saved preferences, then defaults
	Visualizer domain.VisualizerConfig

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// LogFormat is "text" or "json"
	LogFormat string

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	synthCfg := synth.DefaultConfig()
	synthCfg.Frequency = 220
	synthCfg.SweepPeriod = 0
	return Config{
		AppID:     "com.tonescope.app",
		AppName:   "Tonescope",
		Source:    SourceSynth,
		Synth:     synthCfg,
		HostName:  "visualizer",
		FPS:       fyneui.DefaultFPS,
		AutoStart: true,
		LogLevel:  loggerCfg.Level,
		LogFormat: loggerCfg.Format,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(config Config) (*Application, error) {
	app := &Application{config: config}

	// Step 1: Create Fyne application
	if config.TestFyneApp != nil {
		app.fyneApp = config.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(config.AppID)
	}

	// Step 2: Create logger
	app.logger = logger.NewLogger(logger.Config{
		Level:  config.LogLevel,
		Format: config.LogFormat,
	})
	app.logger.Info("initializing application",
		slog.String("app_id", config.AppID),
		slog.String("version", GetVersionInfo().FullString()))

	// Step 3: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus(app.logger.With(slog.String("component", "eventbus")))

	// Step 4: Create the audio source
	if err := app.createSource(); err != nil {
		return nil, err
	}

	// Step 5: Create repositories and services
	app.preferencesRepo = memory.NewPreferencesRepository(app.fyneApp.Preferences())
	app.preferenceService = service.NewPreferenceService(app.logger, app.preferencesRepo, app.eventBus)

	// Step 6: Create the window and the host the visualizer mounts into
	app.registry = fyneui.NewRegistry()
	app.host = fyneui.NewHost(config.HostName, config.FPS, app.logger)
	app.registry.Register(app.host)

	app.window = app.fyneApp.NewWindow(fmt.Sprintf("%s - %s", config.AppName, app.source.Name()))
	app.window.SetPadded(false)
	app.window.SetContent(fyneui.NewTapArea(app.host.Container(), app.toggleRunning, app.toggleMode))
	app.window.Canvas().SetOnTypedRune(app.HandleRune)

	// Step 7: Create the visualizer
	vis, err := service.NewVisualizer(
		app.logger,
		app.eventBus,
		app.registry,
		ports.BySelector("#"+config.HostName),
		app.source,
		app.preferenceService.Overlay(config.Visualizer),
	)
	if err != nil {
		app.closeSource()
		return nil, fmt.Errorf("failed to create visualizer: %w", err)
	}
	app.visualizer = vis

	width, height := vis.Size()
	app.window.Resize(fyne.NewSize(float32(width), float32(height)))

	app.eventBus.Subscribe(domain.EventSourceEnded, app.onSourceEnded)

	return app, nil
}

func (a *Application) createSource() error {
	switch a.config.Source {
	case SourceSynth, "":
		osc := synth.NewOscillator(a.config.Synth)
		osc.SetLogger(a.logger.With(slog.String("source", "synth")))
		a.source = osc

	case SourceWAV:
		if a.config.File == "" {
			return domain.NewValidationError("file", "", "the wav source needs a file", nil)
		}
		player, err := wavfile.Open(a.config.File, wavfile.Options{
			Loop:   a.config.Loop,
			Logger: a.logger.With(slog.String("source", "wav")),
			Bus:    a.eventBus,
		})
		if err != nil {
			return fmt.Errorf("failed to open wav source: %w", err)
		}
		a.source = player

	case SourceMic:
		if err := portaudio.Initialize(); err != nil {
			return domain.NewAudioSourceError("init", "portaudio", "cannot initialize", err)
		}
		capture, err := portaudio.NewCapture(portaudio.Config{DeviceName: a.config.Device},
			a.logger.With(slog.String("source", "mic")))
		if err != nil {
			portaudio.Terminate()
			return fmt.Errorf("failed to open mic source: %w", err)
		}
		a.capture = capture
		a.source = capture

	default:
		return domain.NewValidationError("source", a.config.Source, "expected synth, wav or mic", nil)
	}
	return nil
}

func (a *Application) closeSource() {
	if a.capture == nil {
		return
	}
	if err := a.capture.Close(); err != nil {
		a.logger.Warn("failed to close capture", slog.Any("error", err))
	}
	portaudio.Terminate()
	a.capture = nil
}

// Visualizer returns the visualizer.
func (a *Application) Visualizer() *service.Visualizer {
	return a.visualizer
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// HandleRune implements the keyboard controls.
func (a *Application) HandleRune(r rune) {
	v := a.visualizer
	switch r {
	case ' ':
		a.toggleRunning()
	case 'm', 'M':
		a.toggleMode()
	case 'c', 'C':
		a.cyclePalette()
	case '+', '=':
		v.SetStrokeWeight(v.Settings().StrokeWeight + 1)
	case '-', '_':
		if w := v.Settings().StrokeWeight; w > 1 {
			v.SetStrokeWeight(w - 1)
		}
	case 'r', 'R':
		a.resetLook()
	}
}

func (a *Application) toggleRunning() {
	if a.visualizer.Running() {
		a.visualizer.Stop()
	} else {
		a.visualizer.Start()
	}
}

func (a *Application) toggleMode() {
	a.visualizer.SetMode(a.visualizer.Mode().Toggle())
}

// cyclePalette rotates both colors 60 degrees around the hue wheel.
func (a *Application) cyclePalette() {
	s := a.visualizer.Settings()
	if !a.hueSet {
		a.hue = s.FillColor.Hue()
		a.hueSet = true
	}
	a.hue = math.Mod(a.hue+60, 360)
	a.visualizer.SetFillColor(domain.HueColor(a.hue, s.FillColor.A))
	a.visualizer.SetStrokeColor(domain.HueColor(a.hue, s.StrokeColor.A))
}

// resetLook restores the default look and forgets saved preferences.
// Storage is cleared after the setters so their events do not mark it dirty again.
func (a *Application) resetLook() {
	a.hueSet = false
	a.visualizer.SetMode(domain.ModeSpectrum)
	a.visualizer.SetFillColor(domain.DefaultFillColor)
	a.visualizer.SetStrokeColor(domain.DefaultStrokeColor)
	a.visualizer.SetStrokeWeight(domain.DefaultStrokeWeight)

	if err := a.preferenceService.ResetToDefaults(); err != nil {
		a.logger.Warn("failed to reset preferences", slog.Any("error", err))
	}
}

func (a *Application) onSourceEnded(event domain.Event) {
	e, ok := event.(domain.SourceEndedEvent)
	if !ok {
		return
	}
	a.logger.Info("audio source ended", slog.String("source", e.Source))
	fyne.Do(a.visualizer.Stop)
}

// StartSource runs the audio source on its own goroutine until Shutdown.
func (a *Application) StartSource() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.sourceDone.Add(1)
	go func() {
		defer a.sourceDone.Done()
		if err := a.source.Run(ctx); err != nil {
			a.logger.Error("audio source failed", slog.String("source", a.source.Name()), slog.Any("error", err))
		}
	}()
}

// Run starts the application.
// This is called from main.go after the application is created.
func (a *Application) Run() {
	a.StartSource()
	if a.config.AutoStart {
		a.visualizer.Start()
	}

	a.logger.Info("tonescope started", slog.String("source", a.source.Name()))

	// Show and run UI (blocks until the window is closed)
	a.window.ShowAndRun()
}

// Shutdown gracefully shuts down the application.
// It's safe to call multiple times (idempotent).
func (a *Application) Shutdown() error {
	var err error
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if a.cancel != nil {
			a.cancel()
		}
		a.sourceDone.Wait()

		a.visualizer.Destroy()

		if perr := a.preferenceService.Shutdown(); perr != nil {
			a.logger.Warn("failed to save preferences", slog.Any("error", perr))
			err = perr
		}

		a.closeSource()

		if berr := a.eventBus.Close(); berr != nil {
			a.logger.Warn("failed to close event bus", slog.Any("error", berr))
		}

		a.logger.Info("application shutdown complete")
	})
	return err
}
