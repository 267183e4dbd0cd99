package app

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tejashwikalptaru/tonescope/internal/adapter/repository/memory"
	fyneui "github.com/tejashwikalptaru/tonescope/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/tonescope/internal/domain"
	"github.com/tejashwikalptaru/tonescope/internal/testutil"
)

func testConfig(fyneApp fyne.App) Config {
	config := DefaultConfig()
	config.TestFyneApp = fyneApp
	config.FPS = -1
	config.AutoStart = false
	return config
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "com.tonescope.app", config.AppID)
	assert.Equal(t, "Tonescope", config.AppName)
	assert.Equal(t, SourceSynth, config.Source)
	assert.Equal(t, "visualizer", config.HostName)
	assert.True(t, config.AutoStart)
	assert.Equal(t, 220.0, config.Synth.Frequency)
}

func TestNewApplication(t *testing.T) {
	app, err := NewApplication(testConfig(test.NewApp()))
	require.NoError(t, err)
	require.NotNil(t, app)

	assert.NotNil(t, app.GetEventBus())
	assert.NotNil(t, app.GetFyneApp())

	vis := app.Visualizer()
	require.NotNil(t, vis)
	assert.False(t, vis.Running())
	assert.Equal(t, "visualizer", vis.HostName())

	w, h := vis.Size()
	assert.Equal(t, domain.DefaultWidth, w)
	assert.Equal(t, domain.DefaultHeight, h)

	assert.NoError(t, app.Shutdown())
}

func TestNewApplication_InvalidSource(t *testing.T) {
	config := testConfig(test.NewApp())
	config.Source = "radio"

	_, err := NewApplication(config)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "source", verr.Field)
}

func TestNewApplication_WAVSourceNeedsFile(t *testing.T) {
	config := testConfig(test.NewApp())
	config.Source = SourceWAV

	_, err := NewApplication(config)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "file", verr.Field)

	config.File = "/does/not/exist.wav"
	_, err = NewApplication(config)
	var srcErr *domain.AudioSourceError
	assert.ErrorAs(t, err, &srcErr)
}

func TestHandleRune(t *testing.T) {
	app, err := NewApplication(testConfig(test.NewApp()))
	require.NoError(t, err)
	defer app.Shutdown()
	vis := app.Visualizer()

	app.HandleRune(' ')
	assert.True(t, vis.Running())
	app.HandleRune(' ')
	assert.False(t, vis.Running())

	app.HandleRune('m')
	assert.Equal(t, domain.ModeWaveform, vis.Mode())
	app.HandleRune('M')
	assert.Equal(t, domain.ModeSpectrum, vis.Mode())

	app.HandleRune('+')
	assert.Equal(t, 3.0, vis.Settings().StrokeWeight)
	app.HandleRune('-')
	app.HandleRune('-')
	app.HandleRune('-')
	assert.Equal(t, 1.0, vis.Settings().StrokeWeight, "weight stops at one")

	// Cyan rotated by 60 degrees is blue.
	app.HandleRune('c')
	s := vis.Settings()
	assert.InDelta(t, 0, s.FillColor.R, 1)
	assert.InDelta(t, 0, s.FillColor.G, 1)
	assert.InDelta(t, 255, s.FillColor.B, 1)
	assert.Equal(t, domain.DefaultFillColor.A, s.FillColor.A)
	assert.Equal(t, domain.DefaultStrokeColor.A, s.StrokeColor.A)

	app.HandleRune('r')
	s = vis.Settings()
	assert.Equal(t, domain.DefaultFillColor, s.FillColor)
	assert.Equal(t, domain.DefaultStrokeWeight, s.StrokeWeight)

	app.HandleRune('x')
}

func TestTapControls(t *testing.T) {
	app, err := NewApplication(testConfig(test.NewApp()))
	require.NoError(t, err)
	defer app.Shutdown()

	area, ok := app.window.Content().(*fyneui.TapArea)
	require.True(t, ok, "the host is wrapped in a tap area")

	vis := app.Visualizer()
	test.Tap(area)
	assert.True(t, vis.Running())
	test.Tap(area)
	assert.False(t, vis.Running())

	test.TapSecondary(area)
	assert.Equal(t, domain.ModeWaveform, vis.Mode())
}

func TestPreferencesRestored(t *testing.T) {
	fyneApp := test.NewApp()

	first, err := NewApplication(testConfig(fyneApp))
	require.NoError(t, err)
	first.Visualizer().SetMode(domain.ModeWaveform)
	first.Visualizer().SetStrokeWeight(6)
	require.NoError(t, first.Shutdown())

	second, err := NewApplication(testConfig(fyneApp))
	require.NoError(t, err)
	defer second.Shutdown()

	s := second.Visualizer().Settings()
	assert.Equal(t, domain.ModeWaveform, s.Mode)
	assert.Equal(t, 6.0, s.StrokeWeight)

	config := testConfig(fyneApp)
	config.Visualizer.Mode = domain.ModeSpectrum
	third, err := NewApplication(config)
	require.NoError(t, err)
	defer third.Shutdown()
	assert.Equal(t, domain.ModeSpectrum, third.Visualizer().Mode(), "explicit options win over preferences")
}

func TestResetLookClearsSavedPreferences(t *testing.T) {
	fyneApp := test.NewApp()

	first, err := NewApplication(testConfig(fyneApp))
	require.NoError(t, err)
	first.Visualizer().SetMode(domain.ModeWaveform)
	require.NoError(t, first.Shutdown())

	second, err := NewApplication(testConfig(fyneApp))
	require.NoError(t, err)
	require.Equal(t, domain.ModeWaveform, second.Visualizer().Mode())

	second.HandleRune('r')
	assert.Equal(t, domain.ModeSpectrum, second.Visualizer().Mode())
	require.NoError(t, second.Shutdown())

	_, found, err := memory.NewPreferencesRepository(fyneApp.Preferences()).LoadSettings()
	require.NoError(t, err)
	assert.False(t, found, "reset must not be saved back on shutdown")
}

func TestSourceLifecycle(t *testing.T) {
	app, err := NewApplication(testConfig(test.NewApp()))
	require.NoError(t, err)

	defer testutil.VerifyNoLeaks(t, goleak.IgnoreCurrent())
	app.StartSource()

	require.NoError(t, app.Shutdown())
	assert.NoError(t, app.Shutdown(), "shutdown is idempotent")
}
