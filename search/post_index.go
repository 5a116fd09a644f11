// Package search keeps a full-text index of currently published posts,
// maintained from "post" change events. The index is in-memory only,
// like everything else in this process.
package search

import (
	"context"
	"sync"

	"github.com/blugelabs/bluge"

	"blog-lab/domain"
	"blog-lab/domain/event"
)

type PostIndex struct {
	mu     sync.Mutex
	writer *bluge.Writer
}

func NewPostIndex() (*PostIndex, error) {
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return nil, err
	}
	return &PostIndex{writer: writer}, nil
}

func (i *PostIndex) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.writer.Close()
}

// Consume keeps the index aligned with post visibility: CREATED and
// UPDATED upsert the document, DELETED drops it.
func (i *PostIndex) Consume(_ context.Context, e event.ChangeEvent) error {
	changed, ok := e.(event.PostChanged)
	if !ok {
		return nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	switch changed.Mutation {
	case event.Created, event.Updated:
		return i.index(changed.Post)
	case event.Deleted:
		return i.writer.Delete(bluge.Identifier(changed.Post.ID))
	}
	return nil
}

func (i *PostIndex) index(post domain.Post) error {
	doc := bluge.NewDocument(post.ID).
		AddField(bluge.NewTextField("title", post.Title).StoreValue()).
		AddField(bluge.NewTextField("body", post.Body))
	return i.writer.Update(doc.ID(), doc)
}

// Search returns the ids of published posts matching terms in title or
// body, best first, capped at limit.
func (i *PostIndex) Search(ctx context.Context, terms string, limit int) ([]string, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	query := bluge.NewBooleanQuery().
		AddShould(bluge.NewMatchQuery(terms).SetField("title")).
		AddShould(bluge.NewMatchQuery(terms).SetField("body")).
		SetMinShould(1)

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var ids []string
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}
