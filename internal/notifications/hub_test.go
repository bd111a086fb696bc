package notifications

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestHubPublishSubscribe проверяет доставку событий подписчику.
func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, unsubscribe := hub.Subscribe(userID)
	defer unsubscribe()

	hub.Publish(userID, Event{Type: EventTransactionCreated})

	select {
	case event := <-ch:
		if event.Type != EventTransactionCreated {
			t.Fatalf("expected event type %s, got %s", EventTransactionCreated, event.Type)
		}
		if event.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be set")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected event to be delivered")
	}
}

// TestHubUnsubscribe проверяет закрытие канала после отписки.
func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, unsubscribe := hub.Subscribe(userID)
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed")
	}
}

// TestHubIsolatesUsers проверяет, что события не утекают чужим подписчикам.
func TestHubIsolatesUsers(t *testing.T) {
	hub := NewHub()
	first := uuid.New()
	second := uuid.New()

	ch, unsubscribe := hub.Subscribe(second)
	defer unsubscribe()

	hub.Publish(first, Event{Type: EventDebtPaid})

	select {
	case event := <-ch:
		t.Fatalf("expected no event for another user, got %s", event.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

// TestHubDropsWhenBufferFull проверяет, что переполненный подписчик
// не блокирует публикацию.
func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	_, unsubscribe := hub.Subscribe(userID)
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(userID, Event{Type: EventAssetUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected publishing to a full subscriber not to block")
	}
}
