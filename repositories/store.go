package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"blog-lab/domain"
	apperrors "blog-lab/errors"
)

// Key prefixes separate the three collections inside a single keyspace.
// The store is always opened in-memory: state is volatile and lives
// exactly as long as the process.
const (
	userPrefix    = "user:"
	postPrefix    = "post:"
	commentPrefix = "comment:"
)

// Store is the authoritative holder of current entity state.
// It performs no validation; referential integrity is the caller's job.
// Every write commits as a single transaction behind the write side of
// one store-wide lock, reads take the read side, so no reader ever
// observes a half-applied mutation.
type Store struct {
	mu  sync.RWMutex
	db  *badger.DB
	log *slog.Logger
}

// read runs fn against a consistent snapshot, excluded from writes.
func (s *Store) read(fn func(txn *badger.Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.View(fn)
}

// write runs fn as one atomic transaction, excluding all readers.
func (s *Store) write(fn func(txn *badger.Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(fn)
}

// Open creates a volatile store backed by an in-memory BadgerDB.
func Open(log *slog.Logger) (*Store, error) {
	options := badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("store opening failed: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// NewStore wraps an already opened BadgerDB. Used by tests and by cmd
// wiring that wants control over the database options.
func NewStore(db *badger.DB, log *slog.Logger) *Store {
	return &Store{db: db, log: log}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func userKey(id string) []byte    { return []byte(userPrefix + id) }
func postKey(id string) []byte    { return []byte(postPrefix + id) }
func commentKey(id string) []byte { return []byte(commentPrefix + id) }

// newID returns a random 128-bit identifier, unique for the process lifetime.
func newID() string {
	return uuid.New().String()
}

func setJSON(txn *badger.Txn, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set(key, data)
}

func getJSON[T any](txn *badger.Txn, key []byte, notFound error) (T, error) {
	var out T
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return out, notFound
	}
	if err != nil {
		return out, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &out)
	})
	return out, err
}

// scanPrefix walks a collection and collects entities matching keep.
func scanPrefix[T any](txn *badger.Txn, prefix []byte, keep func(T) bool) ([]T, error) {
	var out []T
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		err := it.Item().Value(func(val []byte) error {
			var entity T
			if err := json.Unmarshal(val, &entity); err != nil {
				return err
			}
			if keep == nil || keep(entity) {
				out = append(out, entity)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// --- Users ---

// InsertUser stores a user, assigning a fresh id when none is set,
// and returns the stored snapshot.
func (s *Store) InsertUser(user domain.User) (domain.User, error) {
	if user.ID == "" {
		user.ID = newID()
	}
	err := s.write(func(txn *badger.Txn) error {
		return setJSON(txn, userKey(user.ID), user)
	})
	return user, err
}

func (s *Store) FindUser(id string) (domain.User, error) {
	var user domain.User
	err := s.read(func(txn *badger.Txn) error {
		var err error
		user, err = getJSON[domain.User](txn, userKey(id), apperrors.ErrUserNotFound)
		return err
	})
	return user, err
}

// UsersWhere returns every user matching keep. A nil keep matches all.
func (s *Store) UsersWhere(keep func(domain.User) bool) ([]domain.User, error) {
	var users []domain.User
	err := s.read(func(txn *badger.Txn) error {
		var err error
		users, err = scanPrefix[domain.User](txn, []byte(userPrefix), keep)
		return err
	})
	return users, err
}

// UpdateUser applies a partial update to the stored user and returns the
// updated snapshot. Only fields touched by apply change.
func (s *Store) UpdateUser(id string, apply func(*domain.User)) (domain.User, error) {
	var user domain.User
	err := s.write(func(txn *badger.Txn) error {
		var err error
		user, err = getJSON[domain.User](txn, userKey(id), apperrors.ErrUserNotFound)
		if err != nil {
			return err
		}
		apply(&user)
		user.ID = id
		return setJSON(txn, userKey(id), user)
	})
	return user, err
}

// RemoveUser deletes the user and returns its last snapshot.
func (s *Store) RemoveUser(id string) (domain.User, error) {
	var user domain.User
	err := s.write(func(txn *badger.Txn) error {
		var err error
		user, err = getJSON[domain.User](txn, userKey(id), apperrors.ErrUserNotFound)
		if err != nil {
			return err
		}
		return txn.Delete(userKey(id))
	})
	return user, err
}

// --- Posts ---

func (s *Store) InsertPost(post domain.Post) (domain.Post, error) {
	if post.ID == "" {
		post.ID = newID()
	}
	err := s.write(func(txn *badger.Txn) error {
		return setJSON(txn, postKey(post.ID), post)
	})
	return post, err
}

func (s *Store) FindPost(id string) (domain.Post, error) {
	var post domain.Post
	err := s.read(func(txn *badger.Txn) error {
		var err error
		post, err = getJSON[domain.Post](txn, postKey(id), apperrors.ErrPostNotFound)
		return err
	})
	return post, err
}

func (s *Store) PostsWhere(keep func(domain.Post) bool) ([]domain.Post, error) {
	var posts []domain.Post
	err := s.read(func(txn *badger.Txn) error {
		var err error
		posts, err = scanPrefix[domain.Post](txn, []byte(postPrefix), keep)
		return err
	})
	return posts, err
}

func (s *Store) UpdatePost(id string, apply func(*domain.Post)) (domain.Post, error) {
	var post domain.Post
	err := s.write(func(txn *badger.Txn) error {
		var err error
		post, err = getJSON[domain.Post](txn, postKey(id), apperrors.ErrPostNotFound)
		if err != nil {
			return err
		}
		apply(&post)
		post.ID = id
		return setJSON(txn, postKey(id), post)
	})
	return post, err
}

func (s *Store) RemovePost(id string) (domain.Post, error) {
	var post domain.Post
	err := s.write(func(txn *badger.Txn) error {
		var err error
		post, err = getJSON[domain.Post](txn, postKey(id), apperrors.ErrPostNotFound)
		if err != nil {
			return err
		}
		return txn.Delete(postKey(id))
	})
	return post, err
}

// --- Comments ---

func (s *Store) InsertComment(comment domain.Comment) (domain.Comment, error) {
	if comment.ID == "" {
		comment.ID = newID()
	}
	err := s.write(func(txn *badger.Txn) error {
		return setJSON(txn, commentKey(comment.ID), comment)
	})
	return comment, err
}

func (s *Store) FindComment(id string) (domain.Comment, error) {
	var comment domain.Comment
	err := s.read(func(txn *badger.Txn) error {
		var err error
		comment, err = getJSON[domain.Comment](txn, commentKey(id), apperrors.ErrCommentNotFound)
		return err
	})
	return comment, err
}

func (s *Store) CommentsWhere(keep func(domain.Comment) bool) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := s.read(func(txn *badger.Txn) error {
		var err error
		comments, err = scanPrefix[domain.Comment](txn, []byte(commentPrefix), keep)
		return err
	})
	return comments, err
}

func (s *Store) UpdateComment(id string, apply func(*domain.Comment)) (domain.Comment, error) {
	var comment domain.Comment
	err := s.write(func(txn *badger.Txn) error {
		var err error
		comment, err = getJSON[domain.Comment](txn, commentKey(id), apperrors.ErrCommentNotFound)
		if err != nil {
			return err
		}
		apply(&comment)
		comment.ID = id
		return setJSON(txn, commentKey(id), comment)
	})
	return comment, err
}

func (s *Store) RemoveComment(id string) (domain.Comment, error) {
	var comment domain.Comment
	err := s.write(func(txn *badger.Txn) error {
		var err error
		comment, err = getJSON[domain.Comment](txn, commentKey(id), apperrors.ErrCommentNotFound)
		if err != nil {
			return err
		}
		return txn.Delete(commentKey(id))
	})
	return comment, err
}

// --- Cascades ---

// RemoveUserCascade deletes the user together with the given dependent
// posts and comments in one transaction. Either the whole graph goes or
// none of it does; readers never see an intermediate state.
func (s *Store) RemoveUserCascade(id string, postIDs, commentIDs []string) (domain.User, error) {
	var user domain.User
	err := s.write(func(txn *badger.Txn) error {
		var err error
		user, err = getJSON[domain.User](txn, userKey(id), apperrors.ErrUserNotFound)
		if err != nil {
			return err
		}
		for _, commentID := range commentIDs {
			if err := txn.Delete(commentKey(commentID)); err != nil {
				return err
			}
		}
		for _, postID := range postIDs {
			if err := txn.Delete(postKey(postID)); err != nil {
				return err
			}
		}
		return txn.Delete(userKey(id))
	})
	return user, err
}

// RemovePostCascade deletes the post and the given comments on it in one
// transaction, returning the post's last snapshot.
func (s *Store) RemovePostCascade(id string, commentIDs []string) (domain.Post, error) {
	var post domain.Post
	err := s.write(func(txn *badger.Txn) error {
		var err error
		post, err = getJSON[domain.Post](txn, postKey(id), apperrors.ErrPostNotFound)
		if err != nil {
			return err
		}
		for _, commentID := range commentIDs {
			if err := txn.Delete(commentKey(commentID)); err != nil {
				return err
			}
		}
		return txn.Delete(postKey(id))
	})
	return post, err
}
