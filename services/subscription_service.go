package services

import (
	"blog-lab/contract"
	"blog-lab/domain/event"
)

// SubscriptionService maps the public subscription surface onto bus topics.
// Each call returns an independent cancellable handle.
type SubscriptionService struct {
	bus contract.IBus
}

func NewSubscriptionService(bus contract.IBus) *SubscriptionService {
	return &SubscriptionService{bus: bus}
}

func (s *SubscriptionService) SubscribePosts() contract.ISubscription {
	return s.bus.Subscribe(event.TopicPost)
}

func (s *SubscriptionService) SubscribeComments(postID string) contract.ISubscription {
	return s.bus.Subscribe(event.CommentTopic(postID))
}

func (s *SubscriptionService) SubscribeCount() contract.ISubscription {
	return s.bus.Subscribe(event.TopicCount)
}
