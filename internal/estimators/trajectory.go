package estimators

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/quadframe/statecoord/internal/state"
)

// Trajectory is the reference flight path the workers observe: a slow circle
// in the horizontal plane with a sinusoidal bob on the vertical axis. Which
// axes actually move depends on the spatial dimension count.
type Trajectory struct {
	dims   int // 1: z only, 2: x/y only, 3: all axes
	radius float64
	omega  float64 // angular rate of the circle, rad/s
	zMean  float64 // hover altitude
	zAmp   float64
	zFreq  float64
	t      float64
}

// NewTrajectory builds the reference path for the given dimension count.
// Out-of-range values clamp to 3.
func NewTrajectory(dims int) *Trajectory {
	if dims < 1 || dims > 3 {
		dims = 3
	}
	return &Trajectory{
		dims:   dims,
		radius: 1.5,
		omega:  0.4,
		zMean:  0.5,
		zAmp:   0.2,
		zFreq:  0.25,
	}
}

// Advance moves the path forward by dt seconds and returns the true state.
func (tr *Trajectory) Advance(dt float64) (pos, vel state.Vector3, yaw, yawRate float64) {
	tr.t += dt

	if tr.dims >= 2 {
		angle := tr.omega * tr.t
		pos.X = tr.radius * math.Cos(angle)
		pos.Y = tr.radius * math.Sin(angle)
		vel.X = -tr.radius * tr.omega * math.Sin(angle)
		vel.Y = tr.radius * tr.omega * math.Cos(angle)
		// The body yaws along the tangent of the circle.
		yaw = math.Mod(angle+math.Pi/2, 2*math.Pi)
		yawRate = tr.omega
	}
	if tr.dims == 1 || tr.dims == 3 {
		phase := 2 * math.Pi * tr.zFreq * tr.t
		pos.Z = tr.zMean + tr.zAmp*math.Sin(phase)
		vel.Z = tr.zAmp * 2 * math.Pi * tr.zFreq * math.Cos(phase)
	} else {
		pos.Z = tr.zMean
	}
	return pos, vel, yaw, yawRate
}

// Sensor adds gaussian noise to true values, standing in for the raw sensor
// stack that feeds the real estimators.
type Sensor struct {
	dist distuv.Normal
}

// NewSensor creates a noise source with the given standard deviation.
func NewSensor(sigma float64, seed uint64) *Sensor {
	return &Sensor{dist: distuv.Normal{
		Mu:    0,
		Sigma: sigma,
		Src:   rand.NewSource(seed),
	}}
}

// Reading perturbs a true value.
func (s *Sensor) Reading(truth float64) float64 {
	return truth + s.dist.Rand()
}

// YawQuaternion converts a yaw angle to the wire orientation.
func YawQuaternion(yaw float64) state.Quaternion {
	return state.Quaternion{
		Z: math.Sin(yaw / 2),
		W: math.Cos(yaw / 2),
	}
}
