package saga

import (
	"context"

	"restaurant-discovery-be/internal/pkg/logger"
)

// Step pairs a forward action with the compensation that undoes it. The
// action leaves whatever the compensation needs in the saga Context.
type Step struct {
	Name       string
	Action     func(ctx context.Context, sc *Context) error
	Compensate func(ctx context.Context, sc *Context) error
}

// Coordinator runs steps strictly in declared order. When a step's action
// fails it compensates every already-completed step in reverse order, then
// surfaces the original error. A step's effect is never left live once a
// later step in the same saga has failed.
type Coordinator struct {
	logger logger.ILogger
}

func NewCoordinator(l logger.ILogger) *Coordinator {
	return &Coordinator{logger: l}
}

func (c *Coordinator) Execute(ctx context.Context, sc *Context, steps []Step) error {
	for i, step := range steps {
		if err := step.Action(ctx, sc); err != nil {
			c.logger.Error("saga", "step action failed, unwinding", map[string]interface{}{
				"saga_id": sc.Id().String(),
				"step":    step.Name,
				"error":   err.Error(),
			})
			c.unwind(ctx, sc, steps[:i])
			// Compensation errors never replace the triggering error.
			return err
		}
	}
	return nil
}

func (c *Coordinator) unwind(ctx context.Context, sc *Context, completed []Step) {
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx, sc); err != nil {
			// Logged only: one failed compensation must not stop the sweep.
			c.logger.Error("saga", "compensation failed", map[string]interface{}{
				"saga_id": sc.Id().String(),
				"step":    step.Name,
				"error":   err.Error(),
			})
		}
	}
}
