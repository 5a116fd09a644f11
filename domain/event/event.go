package event

import "blog-lab/domain"

// MutationType tags a change event with the kind of committed mutation.
type MutationType string

const (
	Created MutationType = "CREATED"
	Updated MutationType = "UPDATED"
	Deleted MutationType = "DELETED"
)

const (
	// TopicPost is the single global channel for post change events.
	TopicPost = "post"
	// TopicCount carries the periodic heartbeat counter.
	TopicCount = "count"
)

// CommentTopic returns the per-post channel for comment change events.
func CommentTopic(postID string) string {
	return "comment:" + postID
}

// ChangeEvent is a committed mutation plus a snapshot of the affected entity.
type ChangeEvent interface {
	Topic() string
}

type PostChanged struct {
	Mutation MutationType
	Post     domain.Post
}

func (PostChanged) Topic() string {
	return TopicPost
}

type CommentChanged struct {
	Mutation MutationType
	Comment  domain.Comment
}

func (c CommentChanged) Topic() string {
	return CommentTopic(c.Comment.Post)
}

// CountTick is the heartbeat event. Count only ever increases.
type CountTick struct {
	Count int
}

func (CountTick) Topic() string {
	return TopicCount
}
