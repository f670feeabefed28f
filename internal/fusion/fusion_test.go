package fusion

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadframe/statecoord/internal/logging"
	"github.com/quadframe/statecoord/internal/monitoring"
	"github.com/quadframe/statecoord/internal/state"
)

type capturePublisher struct {
	records []state.Record
	err     error
}

func (p *capturePublisher) Publish(r *state.Record) error {
	if p.err != nil {
		return p.err
	}
	p.records = append(p.records, *r)
	return nil
}

func newEngine(t *testing.T, policy state.MergePolicy, gw Publisher) *Engine {
	t.Helper()
	metrics := monitoring.NewMetricsWith(prometheus.NewRegistry())
	return New(Config{Policy: policy}, gw, logging.NewDevelopment(), metrics)
}

func TestPassthroughIdentity(t *testing.T) {
	gw := &capturePublisher{}
	e := newEngine(t, state.Passthrough(), gw)

	msg := &state.Record{
		Position:    state.Vector3{X: 1, Y: 2, Z: 3},
		Velocity:    state.Vector3{X: 4, Y: 5, Z: 6},
		Orientation: state.Identity(),
	}
	e.OnPrimary(msg)

	require.Len(t, gw.records, 1)
	assert.Equal(t, msg.Position, gw.records[0].Position)
	assert.Equal(t, msg.Velocity, gw.records[0].Velocity)
}

func TestCrossSourceComposition(t *testing.T) {
	gw := &capturePublisher{}
	e := newEngine(t, state.AuxiliaryPlanar(), gw)

	e.OnAuxiliary(&state.Record{
		Position: state.Vector3{X: 1, Y: 2},
		Velocity: state.Vector3{X: 3, Y: 4},
	})
	e.OnPrimary(&state.Record{
		Position: state.Vector3{Z: 5},
		Velocity: state.Vector3{Z: 6},
	})

	require.Len(t, gw.records, 1)
	out := gw.records[0]
	assert.Equal(t, state.Vector3{X: 1, Y: 2, Z: 5}, out.Position)
	assert.Equal(t, state.Vector3{X: 3, Y: 4, Z: 6}, out.Velocity)
}

func TestNeutralDefaultsBeforeFirstAuxiliary(t *testing.T) {
	gw := &capturePublisher{}
	e := newEngine(t, state.AuxiliaryPlanar(), gw)

	e.OnPrimary(&state.Record{
		Position: state.Vector3{X: 7, Y: 8, Z: 9},
		Velocity: state.Vector3{X: 7, Y: 8, Z: 9},
	})

	require.Len(t, gw.records, 1)
	out := gw.records[0]
	// Planar fields fall back to zero, not to the primary's values.
	assert.Equal(t, state.Vector3{X: 0, Y: 0, Z: 9}, out.Position)
	assert.Equal(t, state.Vector3{X: 0, Y: 0, Z: 9}, out.Velocity)
}

func TestAuxiliaryNeverPublishes(t *testing.T) {
	gw := &capturePublisher{}
	e := newEngine(t, state.AuxiliaryPlanar(), gw)

	for i := 0; i < 10; i++ {
		e.OnAuxiliary(&state.Record{Position: state.Vector3{X: float64(i)}})
	}

	assert.Empty(t, gw.records)
}

func TestOnePublishPerPrimaryMessage(t *testing.T) {
	gw := &capturePublisher{}
	e := newEngine(t, state.Passthrough(), gw)

	for i := 0; i < 25; i++ {
		e.OnPrimary(&state.Record{Position: state.Vector3{X: float64(i)}})
	}

	require.Len(t, gw.records, 25)
	for i, r := range gw.records {
		assert.Equal(t, float64(i), r.Position.X)
	}
}

func TestLatestAuxiliaryWins(t *testing.T) {
	gw := &capturePublisher{}
	e := newEngine(t, state.AuxiliaryPlanar(), gw)

	e.OnAuxiliary(&state.Record{Position: state.Vector3{X: 1}})
	e.OnAuxiliary(&state.Record{Position: state.Vector3{X: 2}})
	e.OnPrimary(&state.Record{})

	require.Len(t, gw.records, 1)
	assert.Equal(t, 2.0, gw.records[0].Position.X)
}

func TestFusionStampUsesClock(t *testing.T) {
	gw := &capturePublisher{}
	fused := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	metrics := monitoring.NewMetricsWith(prometheus.NewRegistry())
	e := New(Config{
		Policy: state.Passthrough(),
		Clock:  func() time.Time { return fused },
	}, gw, logging.NewDevelopment(), metrics)

	measured := fused.Add(-time.Minute)
	e.OnPrimary(&state.Record{Stamp: measured})

	require.Len(t, gw.records, 1)
	assert.Equal(t, fused, gw.records[0].Stamp)
}

func TestPublishErrorDoesNotPanic(t *testing.T) {
	gw := &capturePublisher{err: errors.New("broker gone")}
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetricsWith(reg)
	e := New(Config{Policy: state.Passthrough()}, gw, logging.NewDevelopment(), metrics)

	e.OnPrimary(&state.Record{})

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PublishErrors))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PublishesTotal))
}
