package services

import (
	"context"
	"encoding/json"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"hotel-booking-api/logger"
	"hotel-booking-api/models"
)

// Queue names for booking lifecycle events. Creation gets its own queue;
// every later transition, cancellation included, flows through the
// status-changed queue. There is no separate cancel queue.
const (
	QueueBookingCreated       = "booking.created"
	QueueBookingStatusChanged = "booking.status_changed"
)

// BookingEvent is the payload published on booking lifecycle changes. It
// carries enough for downstream consumers (notifications, analytics) to act
// without querying the primary database.
type BookingEvent struct {
	BookingID  uint    `json:"booking_id"`
	RoomID     uint    `json:"room_id"`
	UserID     uint    `json:"user_id"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	GuestCount int     `json:"guest_count"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
	OccurredAt string  `json:"occurred_at"`
}

func newBookingEvent(b *models.Booking) BookingEvent {
	return BookingEvent{
		BookingID:  b.ID,
		RoomID:     b.RoomID,
		UserID:     b.UserID,
		CheckIn:    b.CheckIn.Format(dateLayout),
		CheckOut:   b.CheckOut.Format(dateLayout),
		GuestCount: b.GuestCount,
		TotalPrice: b.TotalPrice,
		Status:     b.Status,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// BookingEvents publishes lifecycle events to a durable queue. Publishing is
// strictly best effort: failures are logged and never surface to the request.
type BookingEvents struct {
	url string
}

// NewBookingEvents returns a publisher when RABBITMQ_URL or AMQP_URL is set,
// nil otherwise. A nil publisher is safe to call.
func NewBookingEvents() *BookingEvents {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	if url == "" {
		return nil
	}
	return &BookingEvents{url: url}
}

// Publish sends one event to the named queue, declaring it durable first.
func (p *BookingEvents) Publish(ctx context.Context, queue string, event BookingEvent) {
	if p == nil {
		return
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		logger.Warn("booking events: dial failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn("booking events: channel open failed", zap.Error(err))
		return
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		logger.Warn("booking events: queue declare failed", zap.Error(err))
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.Warn("booking events: marshal failed", zap.Error(err))
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		logger.Warn("booking events: publish failed", zap.Error(err))
	}
}
