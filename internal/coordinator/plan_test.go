package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadframe/statecoord/internal/registry"
)

func TestPlanDedupsPrimaryInOthers(t *testing.T) {
	reg := registry.New(1)

	cmds, err := Plan(reg, registry.EMA,
		[]registry.Estimator{registry.EMA, registry.UKF7D}, registry.Throttle{})
	require.NoError(t, err)

	require.Len(t, cmds, 2)
	assert.Equal(t, registry.EMA, cmds[0].Estimator)
	assert.Equal(t, registry.UKF7D, cmds[1].Estimator)
}

func TestPlanUKF2DImpliesEMA(t *testing.T) {
	reg := registry.New(1)

	cmds, err := Plan(reg, registry.UKF2D, nil, registry.Throttle{})
	require.NoError(t, err)

	require.Len(t, cmds, 2)
	assert.Equal(t, registry.UKF2D, cmds[0].Estimator)
	assert.Equal(t, registry.EMA, cmds[1].Estimator)
}

func TestPlanUKF2DWithEMAInOthers(t *testing.T) {
	reg := registry.New(1)

	cmds, err := Plan(reg, registry.UKF2D,
		[]registry.Estimator{registry.EMA, registry.Simulator}, registry.Throttle{})
	require.NoError(t, err)

	// The implied auxiliary EMA and the requested one collapse to a single
	// launch.
	require.Len(t, cmds, 3)
	assert.Equal(t, registry.UKF2D, cmds[0].Estimator)
	assert.Equal(t, registry.EMA, cmds[1].Estimator)
	assert.Equal(t, registry.Simulator, cmds[2].Estimator)
}

func TestPlanComposesThrottleFlags(t *testing.T) {
	reg := registry.New(1)

	cmds, err := Plan(reg, registry.UKF7D, nil,
		registry.Throttle{IR: true, CameraPose: true})
	require.NoError(t, err)

	require.Len(t, cmds, 1)
	assert.Equal(t, "statecoord-ukf7d --ir-throttled --camera-pose-throttled", cmds[0].Line)
}

func TestPlanUnknownEstimatorAborts(t *testing.T) {
	reg := registry.New(1)

	cmds, err := Plan(reg, registry.EMA,
		[]registry.Estimator{registry.Estimator("bogus")}, registry.Throttle{})

	assert.ErrorIs(t, err, registry.ErrUnknownEstimator)
	assert.Nil(t, cmds)
}
