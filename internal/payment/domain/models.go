package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// EventTypeCompleted is the only provider event acted on; anything else
// is acknowledged and dropped.
const EventTypeCompleted = "payment.completed"

// Event is a processed provider notification. The provider event id is
// unique so redelivery is a no-op.
type Event struct {
	ID          snowflake.ID `json:"-" gorm:"primaryKey"`
	EventID     string       `json:"event_id" gorm:"type:varchar(128);not null;uniqueIndex"`
	Type        string       `json:"type" gorm:"type:varchar(64);not null"`
	TenantID    snowflake.ID `json:"tenant_id" gorm:"not null;index"`
	OrderNumber string       `json:"order_number" gorm:"type:varchar(32);not null"`
	AmountCents int64        `json:"amount_cents" gorm:"not null"`
	ProcessedAt time.Time    `json:"processed_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Event) TableName() string { return "payment_events" }

// WebhookPayload is the provider's wire format.
type WebhookPayload struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	TenantID    string `json:"tenant_id"`
	OrderNumber string `json:"order_number"`
	AmountCents int64  `json:"amount_cents"`
}

type WebhookService interface {
	// HandleEvent verifies the signature over the raw body and applies
	// the event. Duplicate deliveries and unknown event types return
	// nil so the provider stops retrying.
	HandleEvent(ctx context.Context, body []byte, signature string) error
}

var (
	ErrDisabled         = errors.New("webhook_disabled")
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrInvalidPayload   = errors.New("invalid_payload")
	ErrOrderNotFound    = errors.New("order_not_found")
	ErrAmountMismatch   = errors.New("amount_mismatch")
)
