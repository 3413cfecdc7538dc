package common

import (
	"context"

	"github.com/stridehq/backend/pkg/xcontext"
)

// SagaStep is one step of a multi-write sequence. Compensate undoes the
// effect of a completed Run when a later step fails. Compensate may be nil
// for steps with nothing to undo.
type SagaStep struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// RunSaga executes steps in order. When a step fails, the compensations of
// every previously completed step run in reverse order, then the step error
// is returned. Compensation failures are logged but do not stop the unwind.
func RunSaga(ctx context.Context, steps ...SagaStep) error {
	completed := make([]SagaStep, 0, len(steps))
	for _, step := range steps {
		if err := step.Run(ctx); err != nil {
			for i := len(completed) - 1; i >= 0; i-- {
				if completed[i].Compensate == nil {
					continue
				}

				if cerr := completed[i].Compensate(ctx); cerr != nil {
					xcontext.Logger(ctx).Errorf(
						"Cannot compensate step %s: %v", completed[i].Name, cerr)
				}
			}

			return err
		}

		completed = append(completed, step)
	}

	return nil
}
