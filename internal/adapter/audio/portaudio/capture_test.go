package portaudio

import (
	"context"
	"errors"
	"testing"

	pa "github.com/gordonklaus/portaudio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/tonescope/internal/domain"
)

func testDevices() []*pa.DeviceInfo {
	return []*pa.DeviceInfo{
		{Index: 0, Name: "HDMI Output", MaxOutputChannels: 8},
		{Index: 1, Name: "Built-in Microphone", MaxInputChannels: 1},
		{Index: 2, Name: "Monitor of Speakers", MaxInputChannels: 2},
		{Index: 3, Name: "USB Interface", MaxInputChannels: 2},
	}
}

func TestSelectDeviceByName(t *testing.T) {
	d, err := selectDevice(testDevices(), "usb", -1)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Index)

	_, err = selectDevice(testDevices(), "hdmi", -1)
	assert.Error(t, err, "output-only devices are not matched")
}

func TestSelectDevicePrefersDefault(t *testing.T) {
	d, err := selectDevice(testDevices(), "", 1)
	require.NoError(t, err)
	assert.Equal(t, "Built-in Microphone", d.Name)
}

func TestSelectDevicePrefersMonitor(t *testing.T) {
	d, err := selectDevice(testDevices(), "", -1)
	require.NoError(t, err)
	assert.Equal(t, "Monitor of Speakers", d.Name)
}

func TestSelectDeviceNoInputs(t *testing.T) {
	_, err := selectDevice([]*pa.DeviceInfo{{Name: "Speakers", MaxOutputChannels: 2}}, "", -1)
	assert.Error(t, err)
}

type sumSink struct{ got []float32 }

func (s *sumSink) Process(samples []float32) { s.got = append(s.got, samples...) }

func TestProcessDownmixes(t *testing.T) {
	c := &Capture{channels: 2}
	sink := &sumSink{}
	c.Connect(sink)

	c.process([]float32{1, 0, 0.5, 0.5, -1, 1})

	assert.Equal(t, []float32{0.5, 0.5, 0}, sink.got)
}

func TestIsInvalidStreamState(t *testing.T) {
	assert.True(t, isInvalidStreamState(errors.New("Stream is stopped (PaErrorCode -9986)")))
	assert.False(t, isInvalidStreamState(errors.New("Device unavailable")))
	assert.False(t, isInvalidStreamState(nil))
}

func TestRunAfterClose(t *testing.T) {
	c := &Capture{}

	err := c.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceClosed)
	assert.NoError(t, c.Close(), "closing a closed capture is a no-op")
}

func TestRunAndCloseWhileActive(t *testing.T) {
	c := &Capture{stream: &pa.Stream{}, active: true}

	assert.ErrorIs(t, c.Run(context.Background()), domain.ErrSourceRunning)
	assert.ErrorIs(t, c.Close(), domain.ErrSourceRunning)
	assert.NotNil(t, c.stream, "a running stream is kept")
}
