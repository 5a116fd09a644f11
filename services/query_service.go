package services

import (
	"strings"

	"blog-lab/domain"
	"blog-lab/repositories"
)

// QueryService is the read-only side: it only ever queries the store and
// never triggers bus activity. Substring matching is case-insensitive.
type QueryService struct {
	store *repositories.Store
}

func NewQueryService(store *repositories.Store) *QueryService {
	return &QueryService{store: store}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Users lists all users, or those whose name contains query.
func (q *QueryService) Users(query *string) ([]domain.User, error) {
	if query == nil {
		return q.store.UsersWhere(nil)
	}
	return q.store.UsersWhere(func(u domain.User) bool {
		return containsFold(u.Name, *query)
	})
}

// Posts lists all posts, or those whose title or body contains query.
func (q *QueryService) Posts(query *string) ([]domain.Post, error) {
	if query == nil {
		return q.store.PostsWhere(nil)
	}
	return q.store.PostsWhere(func(p domain.Post) bool {
		return containsFold(p.Title, *query) || containsFold(p.Body, *query)
	})
}

func (q *QueryService) Comments() ([]domain.Comment, error) {
	return q.store.CommentsWhere(nil)
}

func (q *QueryService) PostAuthor(post domain.Post) (domain.User, error) {
	return q.store.FindUser(post.Author)
}

func (q *QueryService) PostComments(post domain.Post) ([]domain.Comment, error) {
	return q.store.CommentsWhere(func(c domain.Comment) bool {
		return c.Post == post.ID
	})
}

func (q *QueryService) CommentAuthor(comment domain.Comment) (domain.User, error) {
	return q.store.FindUser(comment.Author)
}

func (q *QueryService) CommentPost(comment domain.Comment) (domain.Post, error) {
	return q.store.FindPost(comment.Post)
}

func (q *QueryService) UserPosts(user domain.User) ([]domain.Post, error) {
	return q.store.PostsWhere(func(p domain.Post) bool {
		return p.Author == user.ID
	})
}

func (q *QueryService) UserComments(user domain.User) ([]domain.Comment, error) {
	return q.store.CommentsWhere(func(c domain.Comment) bool {
		return c.Author == user.ID
	})
}
