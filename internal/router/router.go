// Package router maps the primary estimator choice to the set of channel
// subscriptions the coordinator needs. The topology table here is the single
// source of truth for which fields come from where; it is never inferred from
// which processes happen to be running.
package router

import (
	"github.com/quadframe/statecoord/internal/registry"
	"github.com/quadframe/statecoord/internal/state"
)

// Role says what a subscription feeds.
type Role int

const (
	// RolePrimary messages drive fusion and trigger a publish.
	RolePrimary Role = iota
	// RoleAuxiliary messages only update the auxiliary cache.
	RoleAuxiliary
)

// Subscription binds a channel to a handler role.
type Subscription struct {
	Topic string
	Role  Role
}

// Topic returns the channel name for an estimator under the given prefix.
func Topic(prefix string, est registry.Estimator) string {
	return prefix + "/" + string(est)
}

// ResolveSubscriptions returns the subscriptions for a primary estimator.
// The low-dimensional filter only estimates the vertical axis, so it is
// paired with the EMA channel as an auxiliary source for the horizontal
// plane; every other choice subscribes to exactly its own channel.
func ResolveSubscriptions(prefix string, primary registry.Estimator) []Subscription {
	switch primary {
	case registry.UKF2D:
		return []Subscription{
			{Topic: Topic(prefix, registry.UKF2D), Role: RolePrimary},
			{Topic: Topic(prefix, registry.EMA), Role: RoleAuxiliary},
		}
	case registry.EMA, registry.UKF7D, registry.Simulator:
		return []Subscription{
			{Topic: Topic(prefix, primary), Role: RolePrimary},
		}
	}
	return nil
}

// PolicyFor returns the merge policy matching the primary's topology.
func PolicyFor(primary registry.Estimator) state.MergePolicy {
	if primary == registry.UKF2D {
		return state.AuxiliaryPlanar()
	}
	return state.Passthrough()
}

// AuxiliaryFor returns the estimator that supplements the primary, if any.
func AuxiliaryFor(primary registry.Estimator) (registry.Estimator, bool) {
	if primary == registry.UKF2D {
		return registry.EMA, true
	}
	return "", false
}
