package estimators

import (
	"github.com/quadframe/statecoord/internal/state"
)

// SimulatorWorker publishes simulated ground truth straight from the
// reference trajectory, restricted to the requested number of spatial
// dimensions. Ground truth carries zero covariance.
type SimulatorWorker struct {
	traj *Trajectory
	out  state.Record
}

// NewSimulator creates the worker. dims is 1, 2, or 3.
func NewSimulator(dims int) *SimulatorWorker {
	return &SimulatorWorker{traj: NewTrajectory(dims)}
}

// Step advances the simulated motion and returns the exact state.
func (s *SimulatorWorker) Step(dt float64) *state.Record {
	pos, vel, yaw, yawRate := s.traj.Advance(dt)
	s.out = state.Record{
		Position:        pos,
		Velocity:        vel,
		Orientation:     YawQuaternion(yaw),
		AngularVelocity: state.Vector3{Z: yawRate},
	}
	return &s.out
}
