package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"blog-lab/domain"
	"blog-lab/domain/event"
)

func newIndex(t *testing.T) *PostIndex {
	t.Helper()
	index, err := NewPostIndex()
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	return index
}

func consume(t *testing.T, index *PostIndex, mutation event.MutationType, post domain.Post) {
	t.Helper()
	err := index.Consume(context.Background(), event.PostChanged{Mutation: mutation, Post: post})
	require.NoError(t, err)
}

func Test_Index_Matches_Title_And_Body(t *testing.T) {
	req := require.New(t)
	index := newIndex(t)
	ctx := context.Background()

	consume(t, index, event.Created, domain.Post{ID: "p1", Title: "GraphQL 101", Body: "queries and mutations"})
	consume(t, index, event.Created, domain.Post{ID: "p2", Title: "Flying", Body: "all about graphql subscriptions"})
	consume(t, index, event.Created, domain.Post{ID: "p3", Title: "Music", Body: "no relation"})

	ids, err := index.Search(ctx, "graphql", 10)
	req.NoError(err)
	req.ElementsMatch([]string{"p1", "p2"}, ids)

	ids, err = index.Search(ctx, "subscriptions", 10)
	req.NoError(err)
	req.Equal([]string{"p2"}, ids)
}

func Test_Index_Follows_Visibility_Changes(t *testing.T) {
	req := require.New(t)
	index := newIndex(t)
	ctx := context.Background()

	post := domain.Post{ID: "p1", Title: "GraphQL 101", Body: "queries"}
	consume(t, index, event.Created, post)

	// Retitling replaces the document instead of duplicating it.
	post.Title = "REST 101"
	consume(t, index, event.Updated, post)

	ids, err := index.Search(ctx, "graphql", 10)
	req.NoError(err)
	req.Empty(ids)
	ids, err = index.Search(ctx, "rest", 10)
	req.NoError(err)
	req.Equal([]string{"p1"}, ids)

	consume(t, index, event.Deleted, post)
	ids, err = index.Search(ctx, "rest", 10)
	req.NoError(err)
	req.Empty(ids)
}

func Test_Index_Respects_Limit(t *testing.T) {
	req := require.New(t)
	index := newIndex(t)

	consume(t, index, event.Created, domain.Post{ID: "p1", Title: "GraphQL basics"})
	consume(t, index, event.Created, domain.Post{ID: "p2", Title: "GraphQL advanced"})
	consume(t, index, event.Created, domain.Post{ID: "p3", Title: "GraphQL internals"})

	ids, err := index.Search(context.Background(), "graphql", 2)
	req.NoError(err)
	req.Len(ids, 2)
}
