package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"blog-lab/contract"
	"blog-lab/domain"
	"blog-lab/domain/event"
	apperrors "blog-lab/errors"
	"blog-lab/integrity"
	"blog-lab/repositories"
)

type IMutationService interface {
	CreateUser(ctx context.Context, input domain.CreateUserInput) (domain.User, error)
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error)
	DeleteUser(ctx context.Context, id string) (domain.User, error)
	CreatePost(ctx context.Context, input domain.CreatePostInput) (domain.Post, error)
	UpdatePost(ctx context.Context, id string, patch domain.PostPatch) (domain.Post, error)
	DeletePost(ctx context.Context, id string) (domain.Post, error)
	CreateComment(ctx context.Context, input domain.CreateCommentInput) (domain.Comment, error)
	UpdateComment(ctx context.Context, id string, patch domain.CommentPatch) (domain.Comment, error)
	DeleteComment(ctx context.Context, id string) (domain.Comment, error)
}

// MutationService orchestrates every write: validate against the current
// store, mutate (with cascades), then publish the derived change events.
// A single mutex serializes the whole validate-mutate-publish step, so no
// reader ever observes a partial mutation.
type MutationService struct {
	mu       sync.Mutex
	log      *slog.Logger
	store    *repositories.Store
	enforcer *integrity.Enforcer
	bus      contract.IBus
	validate *validator.Validate
}

func NewMutationService(log *slog.Logger, store *repositories.Store,
	enforcer *integrity.Enforcer, bus contract.IBus) *MutationService {
	return &MutationService{
		log:      log,
		store:    store,
		enforcer: enforcer,
		bus:      bus,
		validate: validator.New(),
	}
}

func (s *MutationService) CreateUser(ctx context.Context, input domain.CreateUserInput) (domain.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	available, err := s.enforcer.EmailAvailable(input.Email, "")
	if err != nil {
		return domain.User{}, err
	}
	if !available {
		return domain.User{}, apperrors.ErrEmailTaken
	}
	user, err := s.store.InsertUser(domain.User{
		Name:  input.Name,
		Email: input.Email,
		Age:   input.Age,
	})
	if err != nil {
		return domain.User{}, err
	}
	s.log.Debug("User created", "id", user.ID)
	return user, nil
}

func (s *MutationService) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error) {
	if err := s.validate.Struct(patch); err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.FindUser(id); err != nil {
		return domain.User{}, err
	}
	if patch.Email != nil {
		available, err := s.enforcer.EmailAvailable(*patch.Email, id)
		if err != nil {
			return domain.User{}, err
		}
		if !available {
			return domain.User{}, apperrors.ErrEmailTaken
		}
	}
	return s.store.UpdateUser(id, func(u *domain.User) {
		if patch.Name != nil {
			u.Name = *patch.Name
		}
		if patch.Email != nil {
			u.Email = *patch.Email
		}
		if patch.Age != nil {
			u.Age = patch.Age
		}
	})
}

// DeleteUser removes the user together with every post they authored,
// every comment on those posts, and every remaining comment they wrote
// elsewhere. The cascade publishes no events; only direct post/comment
// deletion does.
func (s *MutationService) DeleteUser(ctx context.Context, id string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.FindUser(id); err != nil {
		return domain.User{}, err
	}
	cascade, err := s.enforcer.CascadeForUserDeletion(id)
	if err != nil {
		return domain.User{}, err
	}
	// One transaction: a reader sees the full graph or none of it.
	user, err := s.store.RemoveUserCascade(id, cascade.PostIDs, cascade.CommentIDs)
	if err != nil {
		return domain.User{}, err
	}
	s.log.Debug("User deleted",
		"id", id, "posts", len(cascade.PostIDs), "comments", len(cascade.CommentIDs))
	return user, nil
}

func (s *MutationService) CreatePost(ctx context.Context, input domain.CreatePostInput) (domain.Post, error) {
	if err := s.validate.Struct(input); err != nil {
		return domain.Post{}, fmt.Errorf("create post: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.enforcer.UserExists(input.Author)
	if err != nil {
		return domain.Post{}, err
	}
	if !exists {
		return domain.Post{}, apperrors.ErrUserNotFound
	}
	post, err := s.store.InsertPost(domain.Post{
		Title:     input.Title,
		Body:      input.Body,
		Published: input.Published,
		Author:    input.Author,
	})
	if err != nil {
		return domain.Post{}, err
	}
	if post.Published {
		s.bus.Publish(event.TopicPost, event.PostChanged{Mutation: event.Created, Post: post})
	}
	return post, nil
}

// UpdatePost derives the published event from the visibility transition:
// going public is a CREATED, going private is a DELETED carrying the
// pre-update snapshot, staying public is an UPDATED, staying private is
// silent.
func (s *MutationService) UpdatePost(ctx context.Context, id string, patch domain.PostPatch) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, err := s.store.FindPost(id)
	if err != nil {
		return domain.Post{}, err
	}
	updated, err := s.store.UpdatePost(id, func(p *domain.Post) {
		if patch.Title != nil {
			p.Title = *patch.Title
		}
		if patch.Body != nil {
			p.Body = *patch.Body
		}
		if patch.Published != nil {
			p.Published = *patch.Published
		}
	})
	if err != nil {
		return domain.Post{}, err
	}

	switch {
	case !previous.Published && updated.Published:
		s.bus.Publish(event.TopicPost, event.PostChanged{Mutation: event.Created, Post: updated})
	case previous.Published && !updated.Published:
		s.bus.Publish(event.TopicPost, event.PostChanged{Mutation: event.Deleted, Post: previous})
	case previous.Published && updated.Published:
		s.bus.Publish(event.TopicPost, event.PostChanged{Mutation: event.Updated, Post: updated})
	}
	return updated, nil
}

func (s *MutationService) DeletePost(ctx context.Context, id string) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.FindPost(id); err != nil {
		return domain.Post{}, err
	}
	// Cascade set is computed before anything is removed or published.
	cascade, err := s.enforcer.CascadeForPostDeletion(id)
	if err != nil {
		return domain.Post{}, err
	}
	post, err := s.store.RemovePostCascade(id, cascade.CommentIDs)
	if err != nil {
		return domain.Post{}, err
	}
	if post.Published {
		s.bus.Publish(event.TopicPost, event.PostChanged{Mutation: event.Deleted, Post: post})
	}
	return post, nil
}

func (s *MutationService) CreateComment(ctx context.Context, input domain.CreateCommentInput) (domain.Comment, error) {
	if err := s.validate.Struct(input); err != nil {
		return domain.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	userExists, err := s.enforcer.UserExists(input.Author)
	if err != nil {
		return domain.Comment{}, err
	}
	if !userExists {
		return domain.Comment{}, apperrors.ErrUserNotFound
	}
	postExists, err := s.enforcer.PostExists(input.Post)
	if err != nil {
		return domain.Comment{}, err
	}
	if !postExists {
		return domain.Comment{}, apperrors.ErrPostNotFound
	}
	comment, err := s.store.InsertComment(domain.Comment{
		Text:   input.Text,
		Author: input.Author,
		Post:   input.Post,
	})
	if err != nil {
		return domain.Comment{}, err
	}
	s.bus.Publish(event.CommentTopic(comment.Post),
		event.CommentChanged{Mutation: event.Created, Comment: comment})
	return comment, nil
}

func (s *MutationService) UpdateComment(ctx context.Context, id string, patch domain.CommentPatch) (domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, err := s.store.UpdateComment(id, func(c *domain.Comment) {
		if patch.Text != nil {
			c.Text = *patch.Text
		}
	})
	if err != nil {
		return domain.Comment{}, err
	}
	s.bus.Publish(event.CommentTopic(comment.Post),
		event.CommentChanged{Mutation: event.Updated, Comment: comment})
	return comment, nil
}

func (s *MutationService) DeleteComment(ctx context.Context, id string) (domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, err := s.store.RemoveComment(id)
	if err != nil {
		return domain.Comment{}, err
	}
	s.bus.Publish(event.CommentTopic(comment.Post),
		event.CommentChanged{Mutation: event.Deleted, Comment: comment})
	return comment, nil
}
