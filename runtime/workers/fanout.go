package workers

import (
	"context"
	"log/slog"

	"blog-lab/contract"
	"blog-lab/domain/event"
)

// FanoutWorker drains one bus subscription and hands every event to a
// set of in-process sinks (projections, indexes). Best-effort: a failing
// sink is logged and skipped, never retried.
type FanoutWorker struct {
	log   *slog.Logger
	sub   contract.ISubscription
	sinks []contract.EventSink
}

func NewFanoutWorker(log *slog.Logger, sub contract.ISubscription, sinks ...contract.EventSink) *FanoutWorker {
	return &FanoutWorker{log: log, sub: sub, sinks: sinks}
}

func (w *FanoutWorker) Run(ctx context.Context) error {
	defer w.sub.Cancel()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout", "topic", w.sub.Topic())
			return nil
		case e, ok := <-w.sub.Events():
			if !ok {
				return nil
			}
			w.Fanout(ctx, e)
		}
	}
}

// Fanout delivers one event to every sink.
func (w *FanoutWorker) Fanout(ctx context.Context, e event.ChangeEvent) {
	for _, sink := range w.sinks {
		if err := sink.Consume(ctx, e); err != nil {
			w.log.Warn("Sink rejected event", "topic", e.Topic(), "error", err)
		}
	}
}
