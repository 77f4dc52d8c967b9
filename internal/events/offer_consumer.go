package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/freightdesk/service-booking/internal/kafka"
)

// BookingCreator is the slice of the booking service the consumer needs:
// turning an accepted offer into its booking. The call is idempotent on the
// service side, so redeliveries are safe.
type BookingCreator interface {
	CreateBookingFromOfferID(ctx context.Context, offerID uuid.UUID) error
}

// OfferEventConsumer listens to offer events and generates bookings for
// accepted offers.
type OfferEventConsumer struct {
	consumer *kafka.Consumer
	creator  BookingCreator
	logger   *zap.Logger
}

// NewOfferEventConsumer creates a new OfferEventConsumer.
func NewOfferEventConsumer(
	brokers []string,
	groupID string,
	creator BookingCreator,
	logger *zap.Logger,
) *OfferEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicOfferEvents, logger)
	return &OfferEventConsumer{
		consumer: consumer,
		creator:  creator,
		logger:   logger,
	}
}

// Start begins consuming offer events. This blocks until the context is
// cancelled.
func (c *OfferEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *OfferEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *OfferEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from offer topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case OfferAccepted:
		return c.handleOfferAccepted(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled offer event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *OfferEventConsumer) handleOfferAccepted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt OfferAcceptedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse OfferAcceptedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing offer accepted event",
		zap.String("offer_id", evt.OfferID.String()),
		zap.String("accepted_by", evt.AcceptedBy),
	)

	if err := c.creator.CreateBookingFromOfferID(ctx, evt.OfferID); err != nil {
		c.logger.Error("failed to create booking from accepted offer",
			zap.String("offer_id", evt.OfferID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("booking generated from accepted offer",
		zap.String("offer_id", evt.OfferID.String()),
	)
	return nil
}
