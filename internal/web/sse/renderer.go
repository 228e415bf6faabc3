package sse

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/web/templates/components"
)

// Renderer converts model events to HTML fragments and JSON payloads for SSE
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderNotice renders a transient notice banner as HTML
func (r *Renderer) RenderNotice(ctx context.Context, kind, message string) (string, error) {
	var buf bytes.Buffer
	err := components.Notice(kind, message).Render(ctx, &buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderPlayerCard renders a single player card as HTML
func (r *Renderer) RenderPlayerCard(ctx context.Context, p model.Player) (string, error) {
	var buf bytes.Buffer
	err := components.PlayerCard(p).Render(ctx, &buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderHistory renders a player's transaction history as HTML
func (r *Renderer) RenderHistory(ctx context.Context, transactions []model.Transaction) (string, error) {
	var buf bytes.Buffer
	err := components.History(transactions).Render(ctx, &buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EventData represents SSE event data
type EventData struct {
	EventName string
	Data      string
}

// NavigatePayload tells the client to move to a different page
type NavigatePayload struct {
	URL string `json:"url"`
}

// RenderNavigate produces an event instructing the browser to navigate
func (r *Renderer) RenderNavigate(eventName, url string) (EventData, error) {
	data, err := json.Marshal(NavigatePayload{URL: url})
	if err != nil {
		return EventData{}, err
	}
	return EventData{EventName: eventName, Data: string(data)}, nil
}
