package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordIdentityOrientation(t *testing.T) {
	r := NewRecord()

	assert.Equal(t, Quaternion{W: 1}, r.Orientation)
	assert.Zero(t, r.Position)
	assert.Zero(t, r.Velocity)
}

func TestCodecRoundTrip(t *testing.T) {
	in := &Record{
		Stamp:           time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Position:        Vector3{X: 1.5, Y: -2.25, Z: 0.75},
		Velocity:        Vector3{X: 0.1, Y: 0.2, Z: -0.3},
		Orientation:     Quaternion{X: 0, Y: 0, Z: 0.7071, W: 0.7071},
		AngularVelocity: Vector3{Z: 0.5},
	}
	in.PoseCovariance[0] = 0.01
	in.PoseCovariance[7] = 0.02
	in.TwistCovariance[35] = 0.3

	payload, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestPassthroughPolicy(t *testing.T) {
	p := Passthrough()

	assert.Equal(t, SourcePrimary, p.PlanarPosition)
	assert.Equal(t, SourcePrimary, p.PlanarVelocity)
	assert.Equal(t, SourcePrimary, p.VerticalPosition)
	assert.Equal(t, SourcePrimary, p.Orientation)
	assert.Equal(t, SourcePrimary, p.PoseCovariance)
	assert.Equal(t, SourcePrimary, p.TwistCovariance)
}

func TestAuxiliaryPlanarPolicy(t *testing.T) {
	p := AuxiliaryPlanar()

	// Only the horizontal plane comes from the auxiliary source.
	assert.Equal(t, SourceAuxiliary, p.PlanarPosition)
	assert.Equal(t, SourceAuxiliary, p.PlanarVelocity)
	assert.Equal(t, SourcePrimary, p.VerticalPosition)
	assert.Equal(t, SourcePrimary, p.VerticalVelocity)
	assert.Equal(t, SourcePrimary, p.Orientation)
	assert.Equal(t, SourcePrimary, p.AngularVelocity)
	assert.Equal(t, SourcePrimary, p.PoseCovariance)
	assert.Equal(t, SourcePrimary, p.TwistCovariance)
}

func TestMergeCrossSourceComposition(t *testing.T) {
	primary := &Record{
		Position:    Vector3{X: 100, Y: 200, Z: 5},
		Velocity:    Vector3{X: 300, Y: 400, Z: 6},
		Orientation: Quaternion{W: 1},
	}
	primary.PoseCovariance[0] = 9
	aux := &Record{
		Position: Vector3{X: 1, Y: 2, Z: 99},
		Velocity: Vector3{X: 3, Y: 4, Z: 99},
	}

	now := time.Now()
	dst := NewRecord()
	AuxiliaryPlanar().Merge(dst, primary, aux, now)

	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 5}, dst.Position)
	assert.Equal(t, Vector3{X: 3, Y: 4, Z: 6}, dst.Velocity)
	assert.Equal(t, now, dst.Stamp)
	// Covariance is copied wholesale from the primary message.
	assert.Equal(t, primary.PoseCovariance, dst.PoseCovariance)
	assert.Equal(t, primary.TwistCovariance, dst.TwistCovariance)
}

func TestMergePassthroughIdentity(t *testing.T) {
	primary := &Record{
		Position:        Vector3{X: 1, Y: 2, Z: 3},
		Velocity:        Vector3{X: 4, Y: 5, Z: 6},
		Orientation:     Quaternion{X: 0.1, W: 0.9},
		AngularVelocity: Vector3{X: 7, Y: 8, Z: 9},
	}
	aux := &Record{Position: Vector3{X: -1, Y: -2, Z: -3}}

	dst := NewRecord()
	Passthrough().Merge(dst, primary, aux, time.Now())

	assert.Equal(t, primary.Position, dst.Position)
	assert.Equal(t, primary.Velocity, dst.Velocity)
	assert.Equal(t, primary.Orientation, dst.Orientation)
	assert.Equal(t, primary.AngularVelocity, dst.AngularVelocity)
}
