package test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"blog-lab/bus"
	"blog-lab/contract"
	"blog-lab/domain"
	"blog-lab/domain/event"
	apperrors "blog-lab/errors"
	"blog-lab/integrity"
	"blog-lab/projection"
	"blog-lab/repositories"
	"blog-lab/runtime/workers"
	"blog-lab/search"
	"blog-lab/services"
)

type app struct {
	cfg           Config
	store         *repositories.Store
	bus           *bus.Bus
	mutations     services.IMutationService
	queries       *services.QueryService
	subscriptions *services.SubscriptionService
}

func startApp(t *testing.T) app {
	t.Helper()
	req := require.New(t)

	cfg, err := LoadConfig()
	req.NoError(err)

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	store, err := repositories.Open(log)
	req.NoError(err)
	changeBus := bus.New(log)
	t.Cleanup(func() {
		changeBus.Close()
		_ = store.Close()
	})

	enforcer := integrity.NewEnforcer(store)
	return app{
		cfg:           cfg,
		store:         store,
		bus:           changeBus,
		mutations:     services.NewMutationService(log, store, enforcer, changeBus),
		queries:       services.NewQueryService(store),
		subscriptions: services.NewSubscriptionService(changeBus),
	}
}

func (a app) nextEvent(t *testing.T, sub contract.ISubscription) event.ChangeEvent {
	t.Helper()
	select {
	case e := <-sub.Events():
		return e
	case <-time.After(a.cfg.EventTimeout):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

// Test_Publish_Scenario walks the whole lifecycle of a post: drafted,
// published, amended, retracted, while a feed subscriber watches the
// "post" topic.
func Test_Publish_Scenario(t *testing.T) {
	req := require.New(t)
	a := startApp(t)
	ctx := context.Background()

	mike, err := a.mutations.CreateUser(ctx, domain.CreateUserInput{
		Name:  "Mike",
		Email: "mike@example.com",
		Age:   lo.ToPtr(28),
	})
	req.NoError(err)

	feed := a.subscriptions.SubscribePosts()
	defer feed.Cancel()

	// A draft stays invisible to the feed.
	draft, err := a.mutations.CreatePost(ctx, domain.CreatePostInput{
		Title:  "GraphQL 101",
		Body:   "queries and mutations",
		Author: mike.ID,
	})
	req.NoError(err)

	// Publishing surfaces it as a creation.
	published, err := a.mutations.UpdatePost(ctx, draft.ID, domain.PostPatch{Published: lo.ToPtr(true)})
	req.NoError(err)
	req.Equal(event.PostChanged{Mutation: event.Created, Post: published}, a.nextEvent(t, feed))

	// A comment thread opens on the post.
	thread := a.subscriptions.SubscribeComments(draft.ID)
	defer thread.Cancel()
	comment, err := a.mutations.CreateComment(ctx, domain.CreateCommentInput{
		Text:   "Looking forward to part two",
		Author: mike.ID,
		Post:   draft.ID,
	})
	req.NoError(err)
	req.Equal(event.CommentChanged{Mutation: event.Created, Comment: comment}, a.nextEvent(t, thread))

	// Retracting the post reads as a deletion carrying the last public
	// snapshot.
	_, err = a.mutations.UpdatePost(ctx, draft.ID, domain.PostPatch{Published: lo.ToPtr(false)})
	req.NoError(err)
	req.Equal(event.PostChanged{Mutation: event.Deleted, Post: published}, a.nextEvent(t, feed))

	// The store still holds everything; only visibility changed.
	posts, err := a.queries.Posts(nil)
	req.NoError(err)
	req.Len(posts, 1)
	comments, err := a.queries.PostComments(posts[0])
	req.NoError(err)
	req.Len(comments, 1)
}

// Test_Read_Models_Scenario runs the timeline projection and the search
// index behind a supervised fanout worker and checks both converge on
// the published set.
func Test_Read_Models_Scenario(t *testing.T) {
	req := require.New(t)
	a := startApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	timeline := projection.NewTimeline()
	index, err := search.NewPostIndex()
	req.NoError(err)
	t.Cleanup(func() { _ = index.Close() })

	supervisor := workers.NewSupervisor(log)
	supervisor.Add(workers.NewFanoutWorker(log, a.subscriptions.SubscribePosts(), timeline, index))
	go supervisor.Run(ctx)

	mike, err := a.mutations.CreateUser(ctx, domain.CreateUserInput{Name: "Mike", Email: "mike@example.com"})
	req.NoError(err)
	visible, err := a.mutations.CreatePost(ctx, domain.CreatePostInput{
		Title: "GraphQL 101", Body: "queries", Published: true, Author: mike.ID,
	})
	req.NoError(err)
	_, err = a.mutations.CreatePost(ctx, domain.CreatePostInput{
		Title: "Hidden draft", Body: "graphql secrets", Author: mike.ID,
	})
	req.NoError(err)

	req.Eventually(func() bool {
		return len(timeline.Posts()) == 1
	}, a.cfg.EventTimeout, 10*time.Millisecond)
	req.Equal(visible.ID, timeline.Posts()[0].ID)

	req.Eventually(func() bool {
		ids, err := index.Search(ctx, "graphql", 10)
		return err == nil && len(ids) == 1 && ids[0] == visible.ID
	}, a.cfg.EventTimeout, 10*time.Millisecond)
}

// Test_Counter_Scenario checks the heartbeat over the real bus and
// supervisor wiring.
func Test_Counter_Scenario(t *testing.T) {
	req := require.New(t)
	a := startApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	supervisor := workers.NewSupervisor(log)
	supervisor.Add(workers.NewCounterWorker(log, a.bus, a.cfg.CountInterval))
	go supervisor.Run(ctx)

	counts := a.subscriptions.SubscribeCount()
	defer counts.Cancel()

	previous := 0
	for i := 0; i < 3; i++ {
		tick, ok := a.nextEvent(t, counts).(event.CountTick)
		req.True(ok)
		req.Greater(tick.Count, previous)
		previous = tick.Count
	}
}

// Test_User_Deletion_Scenario covers the full cascade with a second
// author involved.
func Test_User_Deletion_Scenario(t *testing.T) {
	req := require.New(t)
	a := startApp(t)
	ctx := context.Background()

	mike, err := a.mutations.CreateUser(ctx, domain.CreateUserInput{Name: "Mike", Email: "mike@example.com"})
	req.NoError(err)
	anna, err := a.mutations.CreateUser(ctx, domain.CreateUserInput{Name: "Anna", Email: "anna@example.com"})
	req.NoError(err)

	mikePost, err := a.mutations.CreatePost(ctx, domain.CreatePostInput{
		Title: "GraphQL 101", Published: true, Author: mike.ID,
	})
	req.NoError(err)
	annaPost, err := a.mutations.CreatePost(ctx, domain.CreatePostInput{
		Title: "Flying", Published: true, Author: anna.ID,
	})
	req.NoError(err)

	_, err = a.mutations.CreateComment(ctx, domain.CreateCommentInput{
		Text: "Nice", Author: anna.ID, Post: mikePost.ID,
	})
	req.NoError(err)
	_, err = a.mutations.CreateComment(ctx, domain.CreateCommentInput{
		Text: "Wow", Author: mike.ID, Post: annaPost.ID,
	})
	req.NoError(err)

	_, err = a.mutations.DeleteUser(ctx, mike.ID)
	req.NoError(err)

	_, err = a.store.FindUser(mike.ID)
	req.ErrorIs(err, apperrors.ErrUserNotFound)

	// Anna keeps her post; every reference to Mike is gone.
	users, err := a.queries.Users(nil)
	req.NoError(err)
	req.Len(users, 1)
	posts, err := a.queries.Posts(nil)
	req.NoError(err)
	req.Len(posts, 1)
	req.Equal(annaPost.ID, posts[0].ID)
	comments, err := a.queries.Comments()
	req.NoError(err)
	req.Empty(comments)
}
