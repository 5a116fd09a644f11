package bus

import (
	"sync"

	"blog-lab/domain/event"
)

// Subscription is a cancellable handle on a single topic. Events are
// buffered in an unbounded in-memory queue and handed to the consumer
// one at a time as it reads from Events. Unbounded buffering is a
// deliberate tradeoff: the producer must never feel backpressure.
type Subscription struct {
	topic string
	bus   *Bus

	mu        sync.Mutex
	queue     []event.ChangeEvent
	cancelled bool

	notify chan struct{}
	out    chan event.ChangeEvent
	done   chan struct{}
	once   sync.Once
}

func (s *Subscription) Topic() string {
	return s.topic
}

// Events yields the subscription's events in publish order. The channel
// is closed once the subscription is cancelled.
func (s *Subscription) Events() <-chan event.ChangeEvent {
	return s.out
}

// Cancel detaches the subscription from the bus. Calling it again is a
// no-op; events not yet consumed are dropped.
func (s *Subscription) Cancel() {
	s.bus.remove(s)
	s.stop()
}

func (s *Subscription) stop() {
	s.once.Do(func() {
		s.mu.Lock()
		s.cancelled = true
		s.mu.Unlock()
		close(s.done)
	})
}

func (s *Subscription) enqueue(e event.ChangeEvent) {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, e)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// pump drains the queue into the out channel at the consumer's pace.
func (s *Subscription) pump() {
	defer close(s.out)
	for {
		select {
		case <-s.done:
			return
		case <-s.notify:
		}

		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			next := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			select {
			case s.out <- next:
			case <-s.done:
				return
			}
		}
	}
}
