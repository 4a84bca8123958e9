package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/ports"
)

// Publisher pushes breaking-news events to every hub connection.
type Publisher struct {
	hub *Hub
}

var _ ports.EventPublisher = (*Publisher)(nil)

// NewPublisher wraps a hub.
func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

// PublishBreaking broadcasts {"type":"breaking_news","data":[...]}.
func (p *Publisher) PublishBreaking(ctx context.Context, articles []domain.Article) error {
	payload, err := json.Marshal(domain.LiveEvent{Type: domain.EventBreakingNews, Data: articles})
	if err != nil {
		return fmt.Errorf("encode breaking event: %w", err)
	}
	p.hub.Broadcast(ctx, payload)
	return nil
}
