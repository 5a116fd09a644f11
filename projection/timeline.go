// Package projection builds local read models from observed change
// events. It consumes, orders, and deduplicates; it never emits events.
package projection

import (
	"context"
	"sync"

	"blog-lab/domain"
	"blog-lab/domain/event"
)

// Timeline is the live list of currently published posts, in the order
// they became visible.
type Timeline struct {
	mu    sync.RWMutex
	posts []domain.Post
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

func (t *Timeline) Consume(_ context.Context, e event.ChangeEvent) error {
	changed, ok := e.(event.PostChanged)
	if !ok {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	switch changed.Mutation {
	case event.Created:
		t.posts = append(t.remove(changed.Post.ID), changed.Post)
	case event.Updated:
		for i, p := range t.posts {
			if p.ID == changed.Post.ID {
				t.posts[i] = changed.Post
			}
		}
	case event.Deleted:
		t.posts = t.remove(changed.Post.ID)
	}
	return nil
}

// remove must be called with the lock held.
func (t *Timeline) remove(id string) []domain.Post {
	out := t.posts[:0:0]
	for _, p := range t.posts {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// Posts returns a copy of the current timeline.
func (t *Timeline) Posts() []domain.Post {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]domain.Post(nil), t.posts...)
}
