package memory

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/tonescope/internal/domain"
	"github.com/tejashwikalptaru/tonescope/internal/ports"
)

// Helper to create a test preferences repository
func newTestPreferencesRepository() *PreferencesRepository {
	app := test.NewApp()
	prefs := app.Preferences()

	return NewPreferencesRepository(prefs)
}

func TestPreferencesRepository_LoadSettings_Default(t *testing.T) {
	repo := newTestPreferencesRepository()

	settings, found, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, domain.ModeSpectrum, settings.Mode)
	assert.Equal(t, domain.DefaultFillColor, settings.FillColor)
	assert.Equal(t, domain.DefaultStrokeColor, settings.StrokeColor)
	assert.Equal(t, domain.DefaultStrokeWeight, settings.StrokeWeight)
}

func TestPreferencesRepository_SaveAndLoadSettings(t *testing.T) {
	repo := newTestPreferencesRepository()

	want := ports.VisualizerSettings{
		Mode:         domain.ModeWaveform,
		FillColor:    domain.RGBA(255, 0, 128, 64),
		StrokeColor:  domain.RGB(12.5, 200, 3),
		StrokeWeight: 4.5,
	}
	require.NoError(t, repo.SaveSettings(want))

	got, found, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestPreferencesRepository_LoadSettings_Corrupt(t *testing.T) {
	app := test.NewApp()
	prefs := app.Preferences()
	repo := NewPreferencesRepository(prefs)

	prefs.SetString(keyMode, "waveform")
	prefs.SetString(keyFillColor, "not-a-color")

	_, found, err := repo.LoadSettings()
	assert.False(t, found)

	var repoErr *domain.RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "load", repoErr.Op)

	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestPreferencesRepository_Clear(t *testing.T) {
	repo := newTestPreferencesRepository()

	require.NoError(t, repo.SaveSettings(ports.VisualizerSettings{
		Mode:         domain.ModeWaveform,
		FillColor:    domain.RGB(1, 2, 3),
		StrokeColor:  domain.RGB(4, 5, 6),
		StrokeWeight: 1,
	}))

	require.NoError(t, repo.Clear())

	settings, found, err := repo.LoadSettings()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, domain.ModeSpectrum, settings.Mode)
}
