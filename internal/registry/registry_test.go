package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, est := range All() {
		parsed, err := Parse(string(est))
		require.NoError(t, err)
		assert.Equal(t, est, parsed)
	}

	_, err := Parse("kalman9000")
	assert.ErrorIs(t, err, ErrUnknownEstimator)
}

func TestLookupUnknown(t *testing.T) {
	r := New(1)

	_, err := r.Lookup(Estimator("bogus"))
	assert.ErrorIs(t, err, ErrUnknownEstimator)
}

func TestSimulatorDims(t *testing.T) {
	r := New(3)

	spec, err := r.Lookup(Simulator)
	require.NoError(t, err)
	assert.Equal(t, "statecoord-simulator --dim 3", spec.Command)
}

func TestComposeCommandAllFlagsSupported(t *testing.T) {
	r := New(1)
	all := Throttle{IR: true, IMU: true, OpticalFlow: true, CameraPose: true}

	cmd, err := r.ComposeCommand(UKF7D, all)
	require.NoError(t, err)
	assert.Equal(t,
		"statecoord-ukf7d --ir-throttled --imu-throttled --optical-flow-throttled --camera-pose-throttled",
		cmd)
}

func TestComposeCommandDropsUnsupportedFlags(t *testing.T) {
	r := New(1)
	all := Throttle{IR: true, IMU: true, OpticalFlow: true, CameraPose: true}

	cmd, err := r.ComposeCommand(EMA, all)
	require.NoError(t, err)
	assert.Equal(t, "statecoord-ema", cmd)

	cmd, err = r.ComposeCommand(UKF2D, all)
	require.NoError(t, err)
	assert.Equal(t, "statecoord-ukf2d --ir-throttled --imu-throttled", cmd)
}

func TestComposeCommandNoFlags(t *testing.T) {
	r := New(1)

	cmd, err := r.ComposeCommand(UKF7D, Throttle{})
	require.NoError(t, err)
	assert.Equal(t, "statecoord-ukf7d", cmd)
}
