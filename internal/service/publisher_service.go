package service

import (
	"context"
	"encoding/json"
	"time"

	"pregnancy-nutrition-be/internal/pkg/logger"
	"pregnancy-nutrition-be/pkg/answer/resolver"
	"pregnancy-nutrition-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const mirrorTimeout = 2 * time.Second

// EventPublisher is an external bus (NATS) that answer events are mirrored to
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IPublisherService turns finished resolutions into events
type IPublisherService interface {
	resolver.Observer
}

type publisherService struct {
	topicName string
	pubSub    message.Publisher
	mirror    EventPublisher
	logger    logger.ILogger
}

// NewPublisherService publishes to the in-process topic and, when mirror is not nil, to the external bus
func NewPublisherService(topicName string, pubSub message.Publisher, mirror EventPublisher, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
		mirror:    mirror,
		logger:    log,
	}
}

func (s *publisherService) Observe(_ context.Context, o resolver.Outcome) {
	evt := events.AnswerResolved{
		RequestID:   o.RequestID,
		ClientID:    o.ClientID,
		SourceTier:  string(o.Response.SourceTier),
		Provider:    o.Response.Provider,
		CacheHit:    o.Response.CacheHit,
		RateLimited: o.RateLimited,
		ElapsedMs:   o.Response.ElapsedMs(),
		OccurredAt:  time.Now(),
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error("EVENTS", "Failed to marshal answer event", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Error("EVENTS", "Failed to publish answer event", map[string]interface{}{
			"topic": s.topicName,
			"error": err.Error(),
		})
	}

	if s.mirror == nil {
		return
	}
	// The request context may already be done; the mirror gets its own bound
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.mirror.Publish(ctx, evt); err != nil {
			s.logger.Warn("EVENTS", "Failed to mirror answer event", map[string]interface{}{
				"request_id": evt.RequestID,
				"error":      err.Error(),
			})
		}
	}()
}
