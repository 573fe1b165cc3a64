// Package events publishes domain events to RabbitMQ. The broker is an
// optional dependency: when no AMQP URL is configured every publish is
// a no-op, so the listing pipeline never blocks on messaging.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"estate/internal/observability"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchangeName = "estate.events"

	RoutingKeyListingCreated = "listing.created"
	RoutingKeyReviewCreated  = "review.created"
)

// ListingCreated is emitted after a property row is committed.
type ListingCreated struct {
	PropertyID string    `json:"propertyId"`
	AgentID    string    `json:"agentId"`
	Type       string    `json:"type"`
	Geohash    string    `json:"geohash,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReviewCreated is emitted after a review row is committed.
type ReviewCreated struct {
	ReviewID   string    `json:"reviewId"`
	PropertyID string    `json:"propertyId"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Publisher writes events to a topic exchange. The zero value (or a nil
// pointer) is a disabled publisher.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher dials the broker and declares the events exchange.
// An empty url returns a disabled publisher and no error.
func NewPublisher(url string) (*Publisher, error) {
	if url == "" {
		return &Publisher{}, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: failed to dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("events: failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("events: failed to declare exchange %q: %w", exchangeName, err)
	}

	observability.Logger.Info("Event publisher connected", "exchange", exchangeName)
	return &Publisher{conn: conn, channel: ch}, nil
}

// Publish marshals payload as JSON and publishes it under routingKey.
// Best effort on a disabled publisher: returns nil without doing anything.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if p == nil || p.channel == nil {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("events: failed to marshal %s payload: %w", routingKey, err)
	}

	err = p.channel.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("events: failed to publish %s: %w", routingKey, err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	return p.conn.Close()
}
