// Package registry is the static catalog of estimator processes: which
// external command runs each estimator and which throttle flags that
// estimator understands.
package registry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Estimator identifies one of the known estimation sources.
type Estimator string

const (
	// EMA smooths raw sensor samples with an exponential moving average.
	EMA Estimator = "ema"
	// UKF2D is the low-dimensional filter: altitude and vertical velocity
	// only. It is always paired with the EMA for the horizontal plane.
	UKF2D Estimator = "ukf2d"
	// UKF7D is the high-dimensional full-pose filter.
	UKF7D Estimator = "ukf7d"
	// Simulator publishes simulated ground truth.
	Simulator Estimator = "simulator"
)

// ErrUnknownEstimator reports an identifier outside the closed enumeration.
var ErrUnknownEstimator = errors.New("unknown estimator")

// All returns every known estimator.
func All() []Estimator {
	return []Estimator{EMA, UKF2D, UKF7D, Simulator}
}

// Parse validates a user-supplied identifier.
func Parse(s string) (Estimator, error) {
	switch Estimator(s) {
	case EMA, UKF2D, UKF7D, Simulator:
		return Estimator(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEstimator, s)
}

// Throttle selects which sensor topics the estimator processes should read
// from their throttled variants.
type Throttle struct {
	IR          bool
	IMU         bool
	OpticalFlow bool
	CameraPose  bool
}

// Spec describes how to run one estimator process.
type Spec struct {
	// Command is the base launch command, argv joined by spaces.
	Command string
	// Supported lists which throttle flags the process accepts. Unsupported
	// flags are silently dropped during composition.
	Supported Throttle
}

// Registry maps estimator identifiers to their launch specs.
type Registry struct {
	specs map[Estimator]Spec
}

// New builds the catalog. simDims (1, 2, or 3) is forwarded only to the
// simulator command.
func New(simDims int) *Registry {
	return &Registry{
		specs: map[Estimator]Spec{
			EMA: {
				Command: "statecoord-ema",
			},
			UKF2D: {
				Command:   "statecoord-ukf2d",
				Supported: Throttle{IR: true, IMU: true},
			},
			UKF7D: {
				Command:   "statecoord-ukf7d",
				Supported: Throttle{IR: true, IMU: true, OpticalFlow: true, CameraPose: true},
			},
			Simulator: {
				Command: "statecoord-simulator --dim " + strconv.Itoa(simDims),
			},
		},
	}
}

// Lookup returns the spec for an estimator.
func (r *Registry) Lookup(est Estimator) (Spec, error) {
	spec, ok := r.specs[est]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownEstimator, est)
	}
	return spec, nil
}

// ComposeCommand returns the full launch command for an estimator: the base
// command plus the requested throttle flags the estimator supports, in the
// canonical order ir, imu, optical-flow, camera-pose.
func (r *Registry) ComposeCommand(est Estimator, requested Throttle) (string, error) {
	spec, err := r.Lookup(est)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(spec.Command)
	if requested.IR && spec.Supported.IR {
		sb.WriteString(" --ir-throttled")
	}
	if requested.IMU && spec.Supported.IMU {
		sb.WriteString(" --imu-throttled")
	}
	if requested.OpticalFlow && spec.Supported.OpticalFlow {
		sb.WriteString(" --optical-flow-throttled")
	}
	if requested.CameraPose && spec.Supported.CameraPose {
		sb.WriteString(" --camera-pose-throttled")
	}
	return sb.String(), nil
}
