package notify

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestPublishDeliversEnvelopeToRegisteredClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, 42)
	hub.Register(client)

	payload := map[string]any{"session_id": float64(7), "message": "accepted"}
	if err := hub.Publish(ChannelSessions, 42, payload); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case raw := <-client.send:
		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		if envelope.Channel != ChannelSessions {
			t.Fatalf("expected channel %q, got %q", ChannelSessions, envelope.Channel)
		}
		if envelope.EventID == "" {
			t.Fatalf("expected a generated event id")
		}
		data, ok := envelope.Data.(map[string]any)
		if !ok || data["message"] != "accepted" {
			t.Fatalf("unexpected envelope data: %+v", envelope.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for delivery")
	}
}

func TestPublishToOfflineUserIsNotAnError(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	if err := hub.Publish(ChannelMatches, 999, "nobody is listening"); err != nil {
		t.Fatalf("expected offline publish to succeed, got %v", err)
	}
}

func TestPublishReportsBusyWhenQueueIsFull(t *testing.T) {
	// The hub loop is deliberately not started, so the outbound queue fills.
	hub := NewHub()

	var busy error
	for i := 0; i < 256; i++ {
		if err := hub.Publish(ChannelFeedback, 1, i); err != nil {
			busy = err
			break
		}
	}

	if !errors.Is(busy, ErrHubBusy) {
		t.Fatalf("expected ErrHubBusy once the queue filled, got %v", busy)
	}
}

func TestPublishRejectsUnmarshalablePayload(t *testing.T) {
	hub := NewHub()

	if err := hub.Publish(ChannelSessions, 1, make(chan int)); err == nil {
		t.Fatalf("expected marshal error for channel payload")
	}
}
