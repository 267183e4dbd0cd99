package service

import (
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/tonescope/internal/domain"
	"github.com/tejashwikalptaru/tonescope/internal/ports"
)

// PreferenceService keeps the visualizer look in sync with persisted preferences.
// It caches the settings, follows mode and style events from the bus and
// writes the cache back on Save.
//
// All operations are thread-safe via sync.RWMutex.
type PreferenceService struct {
	// Dependencies (injected)
	logger     *slog.Logger
	repository ports.PreferencesRepository
	bus        ports.EventBus

	// Cached preferences
	settings ports.VisualizerSettings
	found    bool
	dirty    bool
	subs     []domain.SubscriptionID

	// Concurrency control
	mu sync.RWMutex
}

// NewPreferenceService creates a preference service and loads saved settings.
// A load failure is logged and leaves the defaults in place.
func NewPreferenceService(
	logger *slog.Logger,
	repository ports.PreferencesRepository,
	bus ports.EventBus,
) *PreferenceService {
	s := &PreferenceService{
		logger:     logger.With(slog.String("component", "preferences")),
		repository: repository,
		bus:        bus,
		settings: ports.VisualizerSettings{
			Mode:         domain.ModeSpectrum,
			FillColor:    domain.DefaultFillColor,
			StrokeColor:  domain.DefaultStrokeColor,
			StrokeWeight: domain.DefaultStrokeWeight,
		},
	}

	settings, found, err := repository.LoadSettings()
	switch {
	case err != nil:
		s.logger.Warn("failed to load preferences, using defaults", slog.Any("error", err))
	case found:
		s.settings = settings
		s.found = true
	}

	s.subs = []domain.SubscriptionID{
		bus.Subscribe(domain.EventModeChanged, s.onModeChanged),
		bus.Subscribe(domain.EventStyleChanged, s.onStyleChanged),
	}

	s.logger.Debug("preference service initialized", slog.Bool("found", s.found))
	return s
}

// Settings returns the cached settings and whether they came from storage.
func (s *PreferenceService) Settings() (ports.VisualizerSettings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, s.found
}

// Overlay fills the options cfg leaves unset with the saved settings.
// Options set in cfg win; without saved settings cfg is returned unchanged.
func (s *PreferenceService) Overlay(cfg domain.VisualizerConfig) domain.VisualizerConfig {
	settings, found := s.Settings()
	if !found {
		return cfg
	}
	if cfg.Mode == "" {
		cfg.Mode = settings.Mode
	}
	if cfg.FillColor == nil {
		fill := settings.FillColor
		cfg.FillColor = &fill
	}
	if cfg.StrokeColor == nil {
		stroke := settings.StrokeColor
		cfg.StrokeColor = &stroke
	}
	if cfg.StrokeWeight == 0 {
		cfg.StrokeWeight = settings.StrokeWeight
	}
	return cfg
}

func (s *PreferenceService) onModeChanged(event domain.Event) {
	e, ok := event.(domain.ModeChangedEvent)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Mode = e.Mode
	s.dirty = true
}

func (s *PreferenceService) onStyleChanged(event domain.Event) {
	e, ok := event.(domain.StyleChangedEvent)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.FillColor = e.FillColor
	s.settings.StrokeColor = e.StrokeColor
	s.settings.StrokeWeight = e.StrokeWeight
	s.dirty = true
}

// Save persists the cached settings if they changed since loading.
func (s *PreferenceService) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	if err := s.repository.SaveSettings(s.settings); err != nil {
		return err
	}
	s.dirty = false
	s.found = true
	s.logger.Debug("preferences saved", slog.String("mode", string(s.settings.Mode)))
	return nil
}

// ResetToDefaults clears storage and the cache.
func (s *PreferenceService) ResetToDefaults() error {
	s.mu.Lock()
	s.settings = ports.VisualizerSettings{
		Mode:         domain.ModeSpectrum,
		FillColor:    domain.DefaultFillColor,
		StrokeColor:  domain.DefaultStrokeColor,
		StrokeWeight: domain.DefaultStrokeWeight,
	}
	s.found = false
	s.dirty = false
	s.mu.Unlock()

	return s.repository.Clear()
}

// Shutdown saves pending changes and stops following events.
func (s *PreferenceService) Shutdown() error {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, id := range subs {
		s.bus.Unsubscribe(id)
	}
	return s.Save()
}
