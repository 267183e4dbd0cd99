package memory

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/tonescope/internal/domain"
	"github.com/tejashwikalptaru/tonescope/internal/ports"
)

const (
	keyMode         = "visualizer.mode"
	keyFillColor    = "visualizer.fill_color"
	keyStrokeColor  = "visualizer.stroke_color"
	keyStrokeWeight = "visualizer.stroke_weight"
)

// PreferencesRepository implements ports.PreferencesRepository using Fyne preferences.
// Colors are stored in the "r,g,b,a" form accepted by domain.ParseColor.
//
// Thread-safe: All operations protected by sync.RWMutex.
type PreferencesRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewPreferencesRepository creates a new preferences' repository.
// The preferences parameter should be obtained from fyne.CurrentApp().Preferences().
func NewPreferencesRepository(prefs fyne.Preferences) *PreferencesRepository {
	return &PreferencesRepository{
		prefs: prefs,
	}
}

// SaveSettings persists the visualizer settings.
func (r *PreferencesRepository) SaveSettings(s ports.VisualizerSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyMode, string(s.Mode))
	r.prefs.SetString(keyFillColor, s.FillColor.String())
	r.prefs.SetString(keyStrokeColor, s.StrokeColor.String())
	r.prefs.SetFloat(keyStrokeWeight, s.StrokeWeight)
	return nil
}

// LoadSettings retrieves the saved settings, falling back to defaults.
func (r *PreferencesRepository) LoadSettings() (ports.VisualizerSettings, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings := ports.VisualizerSettings{
		Mode:         domain.ModeSpectrum,
		FillColor:    domain.DefaultFillColor,
		StrokeColor:  domain.DefaultStrokeColor,
		StrokeWeight: domain.DefaultStrokeWeight,
	}

	mode := r.prefs.String(keyMode)
	if mode == "" {
		return settings, false, nil
	}

	var err error
	if settings.Mode, err = domain.ParseMode(mode); err != nil {
		return settings, false, domain.NewRepositoryError("load", "preferences", "invalid mode", err)
	}
	if settings.FillColor, err = domain.ParseColor(r.prefs.StringWithFallback(keyFillColor, domain.DefaultFillColor.String())); err != nil {
		return settings, false, domain.NewRepositoryError("load", "preferences", "invalid fill color", err)
	}
	if settings.StrokeColor, err = domain.ParseColor(r.prefs.StringWithFallback(keyStrokeColor, domain.DefaultStrokeColor.String())); err != nil {
		return settings, false, domain.NewRepositoryError("load", "preferences", "invalid stroke color", err)
	}
	settings.StrokeWeight = r.prefs.FloatWithFallback(keyStrokeWeight, domain.DefaultStrokeWeight)

	return settings, true, nil
}

// Clear removes all saved preferences.
func (r *PreferencesRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.RemoveValue(keyMode)
	r.prefs.RemoveValue(keyFillColor)
	r.prefs.RemoveValue(keyStrokeColor)
	r.prefs.RemoveValue(keyStrokeWeight)

	return nil
}

// Verify interface implementation
var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)
