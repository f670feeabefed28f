// Package state defines the estimate schema exchanged on every channel,
// the wire codec, and the per-field merge policy used during fusion.
package state

import "time"

// Vector3 is a 3-vector in the body or world frame.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is a unit quaternion. Identity is (0, 0, 0, 1).
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Identity returns the identity rotation.
func Identity() Quaternion {
	return Quaternion{W: 1}
}

// Covariance is a 6x6 symmetric matrix flattened row-major.
type Covariance [36]float64

// Record is the canonical estimate message. Every estimator channel and the
// fused output channel carry this schema.
type Record struct {
	// Stamp on the output channel is the fusion time, not the source
	// measurement time.
	Stamp           time.Time  `json:"stamp"`
	Position        Vector3    `json:"position"`
	Velocity        Vector3    `json:"velocity"`
	Orientation     Quaternion `json:"orientation"`
	AngularVelocity Vector3    `json:"angular_velocity"`
	PoseCovariance  Covariance `json:"pose_covariance"`
	TwistCovariance Covariance `json:"twist_covariance"`
}

// NewRecord returns a record with a well-formed identity orientation and
// zero everything else.
func NewRecord() *Record {
	return &Record{Orientation: Identity()}
}
