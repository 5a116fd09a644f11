package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"

	"blog-lab/bus"
	"blog-lab/domain"
	"blog-lab/integrity"
	"blog-lab/internal"
	"blog-lab/projection"
	"blog-lab/repositories"
	"blog-lab/runtime/workers"
	"blog-lab/search"
	"blog-lab/services"
)

// Exit codes to provide meaningful status to the operating system or service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// main is a thin wrapper: call run() and translate its outcome into
	// an OS exit code, letting every defer execute on the way out.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "blogd terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Volatile store (in-memory Badger)
	store, err := repositories.Open(logger)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		logger.Info("Closing store...")
		_ = store.Close()
	}()

	// 3. Core wiring: enforcer, bus, services
	changeBus := bus.New(logger)
	defer changeBus.Close()

	enforcer := integrity.NewEnforcer(store)
	mutations := services.NewMutationService(logger, store, enforcer, changeBus)
	queries := services.NewQueryService(store)
	subscriptions := services.NewSubscriptionService(changeBus)

	// 4. Read models fed from the "post" topic
	timeline := projection.NewTimeline()
	postIndex, err := search.NewPostIndex()
	if err != nil {
		return exitRuntime, err
	}
	defer postIndex.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	supervisor := workers.NewSupervisor(logger)
	supervisor.Add(
		workers.NewFanoutWorker(logger, subscriptions.SubscribePosts(), timeline, postIndex),
		workers.NewCounterWorker(logger, changeBus, config.CountInterval),
		workers.NewTelemetryWorker(logger, config.TelemetryInterval),
	)

	// 5. Seed fixtures so subscribers have something to watch
	if err := seed(ctx, mutations); err != nil {
		return exitRuntime, err
	}

	logger.Info("blogd is up")
	supervisor.Run(ctx)

	// 6. Shutdown report
	users, _ := queries.Users(nil)
	posts, _ := queries.Posts(nil)
	comments, _ := queries.Comments()
	internal.WriteStoreReport(os.Stdout, users, posts, comments)

	return exitOK, nil
}

// seed loads the canonical demo fixtures from the tutorial dataset.
func seed(ctx context.Context, mutations services.IMutationService) error {
	mike, err := mutations.CreateUser(ctx, domain.CreateUserInput{
		Name:  "Mike",
		Email: "mike@example.com",
		Age:   lo.ToPtr(28),
	})
	if err != nil {
		return err
	}
	post, err := mutations.CreatePost(ctx, domain.CreatePostInput{
		Title:     "GraphQL 101",
		Body:      "",
		Published: false,
		Author:    mike.ID,
	})
	if err != nil {
		return err
	}
	_, err = mutations.UpdatePost(ctx, post.ID, domain.PostPatch{
		Published: lo.ToPtr(true),
	})
	return err
}
