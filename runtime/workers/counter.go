package workers

import (
	"context"
	"log/slog"
	"time"

	"blog-lab/contract"
	"blog-lab/domain/event"
)

// CounterWorker publishes a monotonically increasing integer on the
// "count" topic once per interval. It has no store dependency and does
// not start counting until the topic has its first subscriber.
type CounterWorker struct {
	log      *slog.Logger
	bus      contract.IBus
	interval time.Duration
	count    int
}

func NewCounterWorker(log *slog.Logger, bus contract.IBus, interval time.Duration) *CounterWorker {
	return &CounterWorker{log: log, bus: bus, interval: interval}
}

func (w *CounterWorker) Run(ctx context.Context) error {
	w.log.Info("Starting counter heartbeat", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	started := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !started {
				if w.bus.SubscriberCount(event.TopicCount) == 0 {
					continue
				}
				started = true
			}
			w.count++
			w.bus.Publish(event.TopicCount, event.CountTick{Count: w.count})
		}
	}
}
