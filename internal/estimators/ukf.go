package estimators

import (
	"fmt"

	"github.com/milosgajdos/go-estimate/kalman/ukf"
	"gonum.org/v1/gonum/mat"

	"github.com/quadframe/statecoord/internal/registry"
	"github.com/quadframe/statecoord/internal/state"
)

// covIndex flattens a (row, col) pair of the 6x6 wire covariance.
func covIndex(row, col int) int { return row*6 + col }

// UKFWorker runs an unscented Kalman filter over synthetic noisy
// measurements of the reference trajectory.
//
// The 2-state variant estimates only altitude and vertical velocity, which
// is exactly why the coordinator pairs it with the EMA for the horizontal
// plane. The 7-state variant estimates the full planar pose, altitude, and
// yaw.
type UKFWorker struct {
	full bool // 7-state when true, 2-state otherwise
	traj *Trajectory
	meas *Sensor

	f *ukf.UKF
	x *mat.VecDense

	// measureEvery > 1 models throttled sensor topics: the filter then
	// updates on every Nth tick and coasts on prediction in between.
	measureEvery int
	ticks        int

	out state.Record
}

// UKFConfig selects the worker variant.
type UKFConfig struct {
	Estimator registry.Estimator // registry.UKF2D or registry.UKF7D
	Throttle  registry.Throttle
	Dt        float64 // filter step, seconds
}

// NewUKFWorker builds the filter for the requested variant.
func NewUKFWorker(cfg UKFConfig) (*UKFWorker, error) {
	if cfg.Dt <= 0 {
		cfg.Dt = defaultRate.Seconds()
	}

	var nx, ny int
	switch cfg.Estimator {
	case registry.UKF2D:
		nx, ny = 2, 1
	case registry.UKF7D:
		nx, ny = 7, 4
	default:
		return nil, fmt.Errorf("no UKF variant for estimator %q", cfg.Estimator)
	}

	model, err := newCVModel(nx, ny, cfg.Dt)
	if err != nil {
		return nil, err
	}
	q, err := diagNoise(nx, 1e-4)
	if err != nil {
		return nil, err
	}
	r, err := diagNoise(ny, 2.5e-3)
	if err != nil {
		return nil, err
	}

	x := mat.NewVecDense(nx, nil)
	p := mat.NewSymDense(nx, nil)
	for i := 0; i < nx; i++ {
		p.SetSym(i, i, 0.5)
	}

	f, err := ukf.New(model, &initCond{x: x, p: p}, q, r, &ukf.Config{
		Alpha: 0.75,
		Beta:  2.0,
		Kappa: 3.0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build UKF: %w", err)
	}

	w := &UKFWorker{
		full:         cfg.Estimator == registry.UKF7D,
		traj:         NewTrajectory(3),
		meas:         NewSensor(0.05, 29),
		f:            f,
		x:            x,
		measureEvery: 1,
	}
	if cfg.Throttle != (registry.Throttle{}) {
		// Throttled sensor topics arrive at a quarter of the raw rate.
		w.measureEvery = 4
	}
	return w, nil
}

// newCVModel assembles the propagation and observation matrices for a
// constant-velocity state of the given size.
func newCVModel(nx, ny int, dt float64) (*cvModel, error) {
	a := mat.NewDense(nx, nx, nil)
	for i := 0; i < nx; i++ {
		a.Set(i, i, 1)
	}
	c := mat.NewDense(ny, nx, nil)

	switch nx {
	case 2: // [z, vz], measure z
		a.Set(0, 1, dt)
		c.Set(0, 0, 1)
	case 7: // [x, y, z, vx, vy, vz, yaw], measure [x, y, z, yaw]
		a.Set(0, 3, dt)
		a.Set(1, 4, dt)
		a.Set(2, 5, dt)
		c.Set(0, 0, 1)
		c.Set(1, 1, 1)
		c.Set(2, 2, 1)
		c.Set(3, 6, 1)
	default:
		return nil, fmt.Errorf("unsupported state size %d", nx)
	}

	return &cvModel{a: a, c: c}, nil
}

// Step advances the filter one tick and returns the current estimate.
func (w *UKFWorker) Step(dt float64) *state.Record {
	truthPos, _, truthYaw, truthYawRate := w.traj.Advance(dt)
	w.ticks++

	pred, err := w.f.Predict(w.x, nil)
	if err != nil {
		return nil
	}
	est := pred

	if w.ticks%w.measureEvery == 0 {
		z := w.measurement(truthPos, truthYaw)
		est, err = w.f.Update(pred.Val(), nil, z)
		if err != nil {
			return nil
		}
	}
	w.x.CloneFromVec(est.Val())
	cov := est.Cov()

	if w.full {
		w.fillFull(cov, truthYawRate)
	} else {
		w.fillVertical(cov)
	}
	return &w.out
}

func (w *UKFWorker) measurement(pos state.Vector3, yaw float64) mat.Vector {
	if w.full {
		return mat.NewVecDense(4, []float64{
			w.meas.Reading(pos.X),
			w.meas.Reading(pos.Y),
			w.meas.Reading(pos.Z),
			w.meas.Reading(yaw),
		})
	}
	return mat.NewVecDense(1, []float64{w.meas.Reading(pos.Z)})
}

// fillVertical publishes only the vertical axis; the planar fields stay at
// their neutral zero so the coordinator can spot that they carry nothing.
func (w *UKFWorker) fillVertical(cov mat.Symmetric) {
	w.out = state.Record{
		Position:    state.Vector3{Z: w.x.AtVec(0)},
		Velocity:    state.Vector3{Z: w.x.AtVec(1)},
		Orientation: state.Identity(),
	}
	w.out.PoseCovariance[covIndex(2, 2)] = cov.At(0, 0)
	w.out.TwistCovariance[covIndex(2, 2)] = cov.At(1, 1)
}

func (w *UKFWorker) fillFull(cov mat.Symmetric, yawRate float64) {
	w.out = state.Record{
		Position:        state.Vector3{X: w.x.AtVec(0), Y: w.x.AtVec(1), Z: w.x.AtVec(2)},
		Velocity:        state.Vector3{X: w.x.AtVec(3), Y: w.x.AtVec(4), Z: w.x.AtVec(5)},
		Orientation:     YawQuaternion(w.x.AtVec(6)),
		AngularVelocity: state.Vector3{Z: yawRate},
	}
	for i := 0; i < 3; i++ {
		w.out.PoseCovariance[covIndex(i, i)] = cov.At(i, i)
		w.out.TwistCovariance[covIndex(i, i)] = cov.At(i+3, i+3)
	}
	// Yaw uncertainty lands in the rotation-about-z slot.
	w.out.PoseCovariance[covIndex(5, 5)] = cov.At(6, 6)
}
