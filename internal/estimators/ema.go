package estimators

import (
	"github.com/quadframe/statecoord/internal/state"
)

// EMA smooths noisy planar and vertical samples with an exponential moving
// average. It is the cheapest estimator and the auxiliary source for the
// low-dimensional filter's horizontal plane.
type EMA struct {
	alpha float64
	traj  *Trajectory
	pos   *Sensor
	flow  *Sensor

	smoothed state.Vector3
	prev     state.Vector3
	primed   bool
	out      state.Record
}

// NewEMA creates the moving-average worker. alpha in (0, 1]; higher trusts
// the newest sample more.
func NewEMA(alpha float64) *EMA {
	return &EMA{
		alpha: alpha,
		traj:  NewTrajectory(3),
		pos:   NewSensor(0.08, 11),
		flow:  NewSensor(0.05, 13),
	}
}

// Step consumes one noisy sample and returns the smoothed estimate.
func (e *EMA) Step(dt float64) *state.Record {
	truthPos, _, _, _ := e.traj.Advance(dt)

	sample := state.Vector3{
		X: e.pos.Reading(truthPos.X),
		Y: e.pos.Reading(truthPos.Y),
		Z: e.pos.Reading(truthPos.Z),
	}

	if !e.primed {
		e.smoothed = sample
		e.prev = sample
		e.primed = true
	} else {
		e.prev = e.smoothed
		e.smoothed.X = e.alpha*sample.X + (1-e.alpha)*e.smoothed.X
		e.smoothed.Y = e.alpha*sample.Y + (1-e.alpha)*e.smoothed.Y
		e.smoothed.Z = e.alpha*sample.Z + (1-e.alpha)*e.smoothed.Z
	}

	e.out.Position = e.smoothed
	// Velocity falls out of the smoothed position by finite difference.
	e.out.Velocity = state.Vector3{
		X: e.flow.Reading((e.smoothed.X - e.prev.X) / dt),
		Y: e.flow.Reading((e.smoothed.Y - e.prev.Y) / dt),
		Z: (e.smoothed.Z - e.prev.Z) / dt,
	}
	e.out.Orientation = state.Identity()
	return &e.out
}

// Smoothed exposes the current average for tests.
func (e *EMA) Smoothed() state.Vector3 { return e.smoothed }
