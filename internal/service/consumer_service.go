package service

import (
	"context"
	"encoding/json"

	"pregnancy-nutrition-be/internal/pkg/logger"
	"pregnancy-nutrition-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	stats        *StatsService
	interactions logger.ILogger
	logger       logger.ILogger
}

// NewConsumerService feeds answer events into the stats and writes one interaction log line per event
func NewConsumerService(subscriber message.Subscriber, topicName string, stats *StatsService, interactions, log logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		stats:        stats,
		interactions: interactions,
		logger:       log,
	}
}

// Consume subscribes and processes answer events in the background until ctx ends
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var evt events.AnswerResolved
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		cs.logger.Error("EVENTS", "Failed to unmarshal answer event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.stats.Record(evt)
	cs.interactions.Info("INTERACTION", "Answer resolved", evt.Payload())
	msg.Ack()
}
