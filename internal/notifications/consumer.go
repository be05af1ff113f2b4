package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/eventing"
	"github.com/plantswapio/plantswap-backend/pkg/logger"
)

const notificationConsumer = "user-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer persists published user events as in-app notification rows.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *eventing.IdempotencyManager
	logg         *logger.Logger
}

// NewConsumer builds a notification consumer.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *eventing.IdempotencyManager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("notification subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": msg.Attributes["event_type"],
	})

	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		c.logg.Error(logCtx, "failed to decode event", err)
		return processResult{ack: true}
	}

	if event.EventID == uuid.Nil || event.UserID == uuid.Nil {
		c.logg.Warn(logCtx, "event missing identifiers")
		return processResult{ack: true}
	}
	if !event.Type.IsValid() {
		c.logg.Warn(logCtx, "unknown event type")
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, notificationConsumer, event.EventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	notification := &models.Notification{
		UserID:  event.UserID,
		Type:    event.Type,
		Title:   event.Title,
		Message: event.Message,
		TradeID: event.TradeID,
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		c.logg.Error(logCtx, "persist notification failed", err)
		_ = c.idempotency.Delete(ctx, notificationConsumer, event.EventID)
		return processResult{nack: true}
	}

	return processResult{ack: true}
}
