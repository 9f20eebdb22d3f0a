package activity

import (
	"context"

	"contentstudio/pkg/clients/agentevents"
	"contentstudio/pkg/logging"
)

// Subscription is a live event feed for one session.
type Subscription interface {
	Events() <-chan agentevents.Event
	Close() error
}

// Subscriber opens subscriptions to session event streams.
type Subscriber interface {
	Subscribe(ctx context.Context, sessionID string) (Subscription, error)
}

// WebSocketSubscriber opens agentevents WebSocket subscriptions.
type WebSocketSubscriber struct {
	BaseURL string
	Logger  logging.Logger
}

// Subscribe connects to the session's event stream.
func (w *WebSocketSubscriber) Subscribe(ctx context.Context, sessionID string) (Subscription, error) {
	client := agentevents.NewClient(agentevents.Config{
		BaseURL:   w.BaseURL,
		SessionID: sessionID,
		Logger:    w.Logger,
	})
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	return &wsSubscription{client: client}, nil
}

type wsSubscription struct {
	client *agentevents.Client
}

func (s *wsSubscription) Events() <-chan agentevents.Event {
	return s.client.GetEvents()
}

func (s *wsSubscription) Close() error {
	return s.client.Close()
}
