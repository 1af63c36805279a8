package upload

import (
	"context"
	"imageLocator/internal/lib/logger/sl"
	"log/slog"
)

type compensation struct {
	name string
	undo func(ctx context.Context) error
}

// saga collects reverse actions of completed forward steps.
type saga struct {
	log   *slog.Logger
	steps []compensation
}

func newSaga(log *slog.Logger) *saga {
	return &saga{log: log}
}

func (s *saga) add(name string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, compensation{name: name, undo: undo})
}

// runOne undoes the named step right away and forgets it.
func (s *saga) runOne(ctx context.Context, name string) {
	for i := len(s.steps) - 1; i >= 0; i-- {
		if s.steps[i].name != name {
			continue
		}

		step := s.steps[i]
		s.steps = append(s.steps[:i], s.steps[i+1:]...)
		s.undo(ctx, step)

		return
	}
}

// compensate undoes every remaining step, last added first. Failures are
// logged and do not stop the rest.
func (s *saga) compensate(ctx context.Context) {
	for i := len(s.steps) - 1; i >= 0; i-- {
		s.undo(ctx, s.steps[i])
	}

	s.steps = nil
}

func (s *saga) undo(ctx context.Context, step compensation) {
	if err := step.undo(ctx); err != nil {
		s.log.Error("compensation failed", slog.String("step", step.name), sl.Err(err))
	}
}
