// Package integrity holds the pure referential checks evaluated before any
// mutation commits. It reads from the store and never mutates it.
package integrity

import (
	"errors"

	"github.com/samber/lo"

	"blog-lab/domain"
	apperrors "blog-lab/errors"
	"blog-lab/repositories"
)

type Enforcer struct {
	store *repositories.Store
}

func NewEnforcer(store *repositories.Store) *Enforcer {
	return &Enforcer{store: store}
}

// EmailAvailable reports whether no user other than excludingUserID holds
// the email. Pass an empty excludingUserID for create operations.
func (e *Enforcer) EmailAvailable(email, excludingUserID string) (bool, error) {
	holders, err := e.store.UsersWhere(func(u domain.User) bool {
		return u.Email == email && u.ID != excludingUserID
	})
	if err != nil {
		return false, err
	}
	return len(holders) == 0, nil
}

func (e *Enforcer) UserExists(id string) (bool, error) {
	_, err := e.store.FindUser(id)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (e *Enforcer) PostExists(id string) (bool, error) {
	_, err := e.store.FindPost(id)
	if errors.Is(err, apperrors.ErrPostNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UserCascade is the set of dependent entities removed along with a user:
// every post they authored, every comment on those posts, and every
// remaining comment they authored on other posts.
type UserCascade struct {
	PostIDs    []string
	CommentIDs []string
}

func (e *Enforcer) CascadeForUserDeletion(userID string) (UserCascade, error) {
	posts, err := e.store.PostsWhere(func(p domain.Post) bool {
		return p.Author == userID
	})
	if err != nil {
		return UserCascade{}, err
	}
	postIDs := lo.Map(posts, func(p domain.Post, _ int) string { return p.ID })

	comments, err := e.store.CommentsWhere(func(c domain.Comment) bool {
		return c.Author == userID || lo.Contains(postIDs, c.Post)
	})
	if err != nil {
		return UserCascade{}, err
	}
	return UserCascade{
		PostIDs:    postIDs,
		CommentIDs: lo.Map(comments, func(c domain.Comment, _ int) string { return c.ID }),
	}, nil
}

// PostCascade is the set of comments removed along with a post.
type PostCascade struct {
	CommentIDs []string
}

func (e *Enforcer) CascadeForPostDeletion(postID string) (PostCascade, error) {
	comments, err := e.store.CommentsWhere(func(c domain.Comment) bool {
		return c.Post == postID
	})
	if err != nil {
		return PostCascade{}, err
	}
	return PostCascade{
		CommentIDs: lo.Map(comments, func(c domain.Comment, _ int) string { return c.ID }),
	}, nil
}
