//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"blog-lab/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself: the supervisor recovers its panics.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName retrieves the type name of the worker via reflection,
// avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) WorkerName {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return WorkerName(t.Name())
}

type EventSink interface {
	Consume(ctx context.Context, e event.ChangeEvent) error
}

// ISubscription is a cancellable handle on a single topic.
// Events() yields every event published to the topic after Subscribe,
// in publish order, until Cancel is called.
type ISubscription interface {
	Topic() string
	Events() <-chan event.ChangeEvent
	Cancel()
}

// IBus fans committed change events out to current subscribers.
// Publish never blocks on slow consumers; a topic with zero
// subscribers is a no-op.
type IBus interface {
	Publish(topic string, e event.ChangeEvent)
	Subscribe(topic string) ISubscription
	SubscriberCount(topic string) int
	Close()
}
