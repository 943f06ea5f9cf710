// Package events publishes storefront domain events.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventCheckoutSessionCreated = "checkout.session_created"
	EventPromoApplied           = "promo.applied"
)

// Envelope wraps every published payload.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope marshals payload into a fresh envelope.
func NewEnvelope(producer, eventType, correlationID string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}

type LineItem struct {
	ProcessorPriceID string `json:"processor_price_id"`
	Quantity         int    `json:"quantity"`
}

type CheckoutSessionCreatedPayload struct {
	SessionToken  string     `json:"session_token"`
	Items         []LineItem `json:"items"`
	SubtotalCents int64      `json:"subtotal_cents"`
	DiscountCents int64      `json:"discount_cents"`
	FinalCents    int64      `json:"final_total_cents"`
	PromoCode     string     `json:"promo_code,omitempty"`
	CustomerEmail string     `json:"customer_email"`
}

type PromoAppliedPayload struct {
	SessionToken       string `json:"session_token"`
	Code               string `json:"code"`
	DiscountPercentage int    `json:"discount_percentage"`
}

// Publisher sends events without blocking the caller. Failures are logged by
// the implementation and never returned.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any)
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, string, any) {}
