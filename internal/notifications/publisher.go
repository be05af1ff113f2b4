package notifications

import (
	"context"
	"encoding/json"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/enums"
	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
	"github.com/plantswapio/plantswap-backend/pkg/logger"
)

// Publisher fans out user-facing events. Delivery is fire-and-forget
// and at-most-once: trade state is authoritative regardless of whether
// a publish lands.
type Publisher interface {
	PublishToUser(ctx context.Context, userID uuid.UUID, event Event)
}

type pubsubPublisher struct {
	publisher *pubsub.Publisher
	logg      *logger.Logger
}

// NewPublisher wraps a pub/sub topic publisher.
func NewPublisher(publisher *pubsub.Publisher, logg *logger.Logger) (Publisher, error) {
	if publisher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "topic publisher is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &pubsubPublisher{publisher: publisher, logg: logg}, nil
}

// PublishToUser publishes the event without blocking the caller on the
// result. Failures are logged and never retried.
func (p *pubsubPublisher) PublishToUser(ctx context.Context, userID uuid.UUID, event Event) {
	event.UserID = userID
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if !event.Type.IsValid() {
		event.Type = enums.NotificationTypeTradesUpdate
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logg.Error(ctx, "marshal notification event", err)
		return
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type": event.Type.String(),
			"user_id":    userID.String(),
		},
	})

	go func() {
		if _, err := result.Get(context.WithoutCancel(ctx)); err != nil {
			p.logg.Error(ctx, "publish notification event", err)
		}
	}()
}
