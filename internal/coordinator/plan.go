package coordinator

import (
	"github.com/quadframe/statecoord/internal/registry"
	"github.com/quadframe/statecoord/internal/router"
	"github.com/quadframe/statecoord/internal/supervisor"
)

// Plan composes the ordered launch set: the primary first, its auxiliary
// source if the topology requires one, then the requested extra estimators.
// Duplicate ids collapse to a single launch. An unknown id aborts the whole
// plan before any process is started.
func Plan(reg *registry.Registry, primary registry.Estimator, others []registry.Estimator, throttle registry.Throttle) ([]supervisor.Command, error) {
	selected := []registry.Estimator{primary}
	if aux, ok := router.AuxiliaryFor(primary); ok {
		selected = append(selected, aux)
	}
	selected = append(selected, others...)

	var cmds []supervisor.Command
	seen := make(map[registry.Estimator]bool)
	for _, est := range selected {
		if seen[est] {
			continue
		}
		line, err := reg.ComposeCommand(est, throttle)
		if err != nil {
			return nil, err
		}
		seen[est] = true
		cmds = append(cmds, supervisor.Command{Estimator: est, Line: line})
	}
	return cmds, nil
}
