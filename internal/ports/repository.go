// Package ports define repository interfaces for data persistence abstraction.
package ports

import (
	"github.com/tejashwikalptaru/tonescope/internal/domain"
)

// VisualizerSettings is the user-adjustable look of a visualizer.
type VisualizerSettings struct {
	Mode         domain.Mode
	FillColor    domain.Color
	StrokeColor  domain.Color
	StrokeWeight float64
}

// PreferencesRepository handles the persistence of visualizer preferences.
// This abstracts the Fyne preferences storage.
//
// Thread-safety: Implementations must be thread-safe.
type PreferencesRepository interface {
	// SaveSettings persists the visualizer settings.
	//
	// Returns an error if saving fails.
	SaveSettings(settings VisualizerSettings) error

	// LoadSettings retrieves the saved settings.
	// If nothing was saved, returns (settings, false, nil) with default values.
	//
	// Returns the settings, whether they were found, or an error if loading fails.
	LoadSettings() (VisualizerSettings, bool, error)

	// Clear removes all saved preferences.
	//
	// Returns an error if clearing fails.
	Clear() error
}
