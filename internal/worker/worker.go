package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"imageLocator/internal/prediction"
	"imageLocator/internal/tasks"
	"log/slog"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Dispatcher
type Dispatcher interface {
	Dispatch(ctx context.Context, entries []tasks.GeocodeEntry) prediction.Result
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Expander
type Expander interface {
	Expand(ctx context.Context, archiveID int64)
}

// Worker executes queued tasks.
type Worker struct {
	log        *slog.Logger
	dispatcher Dispatcher
	expander   Expander
}

func New(log *slog.Logger, dispatcher Dispatcher, expander Expander) *Worker {
	return &Worker{
		log:        log,
		dispatcher: dispatcher,
		expander:   expander,
	}
}

// ProcessMessage handles one raw queue message. Returned errors concern the
// message itself; task failures are recorded by the task handlers.
func (w *Worker) ProcessMessage(ctx context.Context, message []byte) error {
	const op = "worker.ProcessMessage"

	log := w.log.With(slog.String("op", op))

	var env tasks.Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		return fmt.Errorf("%s: unmarshal envelope: %w", op, err)
	}

	log = log.With(slog.String("type", env.Type))

	switch env.Type {
	case tasks.TypeGeocodeDispatch:
		var payload tasks.GeocodeDispatch
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return fmt.Errorf("%s: unmarshal %s: %w", op, env.Type, err)
		}

		res := w.dispatcher.Dispatch(ctx, payload.Entries)
		log.Info("geocode dispatch handled",
			slog.Int("tasks", len(payload.Entries)),
			slog.Int("accepted", len(res.Success)),
			slog.Int("rejected", len(res.Errors)),
		)

	case tasks.TypeArchiveExpand:
		var payload tasks.ArchiveExpand
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return fmt.Errorf("%s: unmarshal %s: %w", op, env.Type, err)
		}

		w.expander.Expand(ctx, payload.ArchiveID)
		log.Info("archive expansion handled", slog.Int64("archive_id", payload.ArchiveID))

	default:
		return fmt.Errorf("%s: unknown task type %q", op, env.Type)
	}

	return nil
}
