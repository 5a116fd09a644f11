// Package bus decouples mutation commit from notification delivery.
// Publish fans an event out to every current subscriber of a topic;
// each subscriber owns an unbounded queue so a slow consumer never
// blocks the mutation path.
package bus

import (
	"log/slog"
	"sync"

	"blog-lab/contract"
	"blog-lab/domain/event"
)

type Bus struct {
	mu     sync.RWMutex
	log    *slog.Logger
	topics map[string]map[*Subscription]struct{}
	closed bool
}

func New(log *slog.Logger) *Bus {
	return &Bus{
		log:    log,
		topics: make(map[string]map[*Subscription]struct{}),
	}
}

// Publish enqueues e for every subscriber currently attached to topic.
// It returns promptly regardless of consumer pace. Publishing to a topic
// with zero subscribers is a no-op.
func (b *Bus) Publish(topic string, e event.ChangeEvent) {
	b.mu.RLock()
	subscribers := make([]*Subscription, 0, len(b.topics[topic]))
	for s := range b.topics[topic] {
		subscribers = append(subscribers, s)
	}
	b.mu.RUnlock()

	if len(subscribers) == 0 {
		b.log.Debug("No subscriber for topic, dropping event", "topic", topic)
		return
	}
	for _, s := range subscribers {
		s.enqueue(e)
	}
}

// Subscribe attaches a new independent subscriber to topic. Every event
// published to the topic after this call is delivered on the handle's
// Events channel, in publish order, until the handle is cancelled.
func (b *Bus) Subscribe(topic string) contract.ISubscription {
	s := &Subscription{
		topic:  topic,
		bus:    b,
		notify: make(chan struct{}, 1),
		out:    make(chan event.ChangeEvent),
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		s.stop()
		close(s.out)
		return s
	}
	if _, ok := b.topics[topic]; !ok {
		b.topics[topic] = make(map[*Subscription]struct{})
	}
	b.topics[topic][s] = struct{}{}
	b.mu.Unlock()

	go s.pump()
	return s
}

// SubscriberCount reports how many subscribers are currently attached to topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// Close cancels every subscription. The bus accepts no subscribers afterwards.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	var all []*Subscription
	for _, subscribers := range b.topics {
		for s := range subscribers {
			all = append(all, s)
		}
	}
	b.topics = make(map[string]map[*Subscription]struct{})
	b.mu.Unlock()

	for _, s := range all {
		s.stop()
	}
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if subscribers, ok := b.topics[s.topic]; ok {
		delete(subscribers, s)
		// No empty sets left behind once the last subscriber leaves.
		if len(subscribers) == 0 {
			delete(b.topics, s.topic)
		}
	}
}
