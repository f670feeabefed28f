package state

import "time"

// Source identifies which input stream owns a field group during fusion.
type Source int

const (
	// SourcePrimary draws the field group from the primary channel message.
	SourcePrimary Source = iota
	// SourceAuxiliary draws the field group from the auxiliary cache.
	SourceAuxiliary
)

// MergePolicy assigns a source to every field group of a Record. Keeping the
// provenance rule as data lets it be inspected and tested apart from the
// message plumbing.
type MergePolicy struct {
	PlanarPosition   Source // x, y
	VerticalPosition Source // z
	PlanarVelocity   Source // vel_x, vel_y
	VerticalVelocity Source // vel_z
	Orientation      Source
	AngularVelocity  Source
	PoseCovariance   Source
	TwistCovariance  Source
}

// Passthrough returns the policy for a complete primary estimator: every
// field group comes from the primary message.
func Passthrough() MergePolicy {
	return MergePolicy{}
}

// AuxiliaryPlanar returns the policy for an incomplete primary estimator
// paired with a planar auxiliary source: x, y and their velocities come from
// the auxiliary cache. The primary stays authoritative for the vertical axis,
// the full rotation, and both covariance blocks; the auxiliary uncertainty is
// deliberately not merged into the reported covariance.
func AuxiliaryPlanar() MergePolicy {
	return MergePolicy{
		PlanarPosition: SourceAuxiliary,
		PlanarVelocity: SourceAuxiliary,
	}
}

// Merge assembles dst from the primary message and the auxiliary snapshot
// according to the policy, stamping dst with the given fusion time. dst is
// updated in place so the caller can reuse one output record.
func (p MergePolicy) Merge(dst, primary, aux *Record, now time.Time) {
	dst.Stamp = now

	dst.Position.X = pick(p.PlanarPosition, primary.Position.X, aux.Position.X)
	dst.Position.Y = pick(p.PlanarPosition, primary.Position.Y, aux.Position.Y)
	dst.Position.Z = pick(p.VerticalPosition, primary.Position.Z, aux.Position.Z)

	dst.Velocity.X = pick(p.PlanarVelocity, primary.Velocity.X, aux.Velocity.X)
	dst.Velocity.Y = pick(p.PlanarVelocity, primary.Velocity.Y, aux.Velocity.Y)
	dst.Velocity.Z = pick(p.VerticalVelocity, primary.Velocity.Z, aux.Velocity.Z)

	if p.Orientation == SourceAuxiliary {
		dst.Orientation = aux.Orientation
	} else {
		dst.Orientation = primary.Orientation
	}
	if p.AngularVelocity == SourceAuxiliary {
		dst.AngularVelocity = aux.AngularVelocity
	} else {
		dst.AngularVelocity = primary.AngularVelocity
	}
	if p.PoseCovariance == SourceAuxiliary {
		dst.PoseCovariance = aux.PoseCovariance
	} else {
		dst.PoseCovariance = primary.PoseCovariance
	}
	if p.TwistCovariance == SourceAuxiliary {
		dst.TwistCovariance = aux.TwistCovariance
	} else {
		dst.TwistCovariance = primary.TwistCovariance
	}
}

func pick(s Source, primary, aux float64) float64 {
	if s == SourceAuxiliary {
		return aux
	}
	return primary
}
