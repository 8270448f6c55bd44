package provisioning

import "context"

// compensation is a reverse-action recorded after a forward step succeeds.
type compensation struct {
	name string
	run  func(ctx context.Context) error
}

// CompensationResult is the tracked outcome of one compensating action.
type CompensationResult struct {
	Name string
	Err  error
}

// compensationLog holds compensations in forward order and executes them in
// reverse. Every action runs even if an earlier one fails; each outcome is
// reported rather than inferred.
type compensationLog struct {
	actions []compensation
}

func (l *compensationLog) push(name string, run func(ctx context.Context) error) {
	l.actions = append(l.actions, compensation{name: name, run: run})
}

func (l *compensationLog) execute(ctx context.Context) []CompensationResult {
	results := make([]CompensationResult, 0, len(l.actions))
	for i := len(l.actions) - 1; i >= 0; i-- {
		action := l.actions[i]
		results = append(results, CompensationResult{
			Name: action.name,
			Err:  action.run(ctx),
		})
	}
	return results
}
