package projection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"blog-lab/domain"
	"blog-lab/domain/event"
)

func created(p domain.Post) event.PostChanged {
	return event.PostChanged{Mutation: event.Created, Post: p}
}

func Test_Timeline_Tracks_Visibility(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	ctx := context.Background()

	first := domain.Post{ID: "p1", Title: "GraphQL 101", Published: true}
	second := domain.Post{ID: "p2", Title: "Flying", Published: true}

	req.NoError(timeline.Consume(ctx, created(first)))
	req.NoError(timeline.Consume(ctx, created(second)))
	req.Equal([]domain.Post{first, second}, timeline.Posts())

	// An update replaces in place, keeping timeline order.
	retitled := first
	retitled.Title = "GraphQL 201"
	req.NoError(timeline.Consume(ctx, event.PostChanged{Mutation: event.Updated, Post: retitled}))
	req.Equal([]domain.Post{retitled, second}, timeline.Posts())

	req.NoError(timeline.Consume(ctx, event.PostChanged{Mutation: event.Deleted, Post: retitled}))
	req.Equal([]domain.Post{second}, timeline.Posts())
}

func Test_Timeline_Deduplicates_Created(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	ctx := context.Background()

	post := domain.Post{ID: "p1", Title: "GraphQL 101", Published: true}
	req.NoError(timeline.Consume(ctx, created(post)))
	// A post unpublished and republished arrives as CREATED twice.
	req.NoError(timeline.Consume(ctx, created(post)))
	req.Len(timeline.Posts(), 1)
}

func Test_Timeline_Ignores_Foreign_Events(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()

	err := timeline.Consume(context.Background(), event.CountTick{Count: 1})
	req.NoError(err)
	req.Empty(timeline.Posts())
}
