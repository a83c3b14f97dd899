package stream

import (
	"context"
	"runtime"
	"testing"
	"time"

	"parliament/contexts/game-play/game-service/ports"
)

func TestHubFansOutToEverySubscriber(t *testing.T) {
	hub := NewHub(4, nil)
	ctx := context.Background()

	first, cancelFirst := hub.Subscribe(ctx)
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe(ctx)
	defer cancelSecond()

	hub.Publish(ports.GameSnapshot{GameID: 7})

	for _, ch := range []<-chan ports.GameSnapshot{first, second} {
		select {
		case snapshot := <-ch:
			if snapshot.GameID != 7 {
				t.Fatalf("unexpected snapshot %+v", snapshot)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the snapshot")
		}
	}
}

func TestHubDropsForSlowSubscriberWithoutBlocking(t *testing.T) {
	hub := NewHub(1, nil)
	ctx := context.Background()

	_, cancelSlow := hub.Subscribe(ctx)
	defer cancelSlow()
	fast, cancelFast := hub.Subscribe(ctx)
	defer cancelFast()

	// The slow subscriber's buffer holds one snapshot; the second publish
	// must be dropped for it without stalling the fast one.
	hub.Publish(ports.GameSnapshot{GameID: 1})
	hub.Publish(ports.GameSnapshot{GameID: 2})

	received := 0
	for {
		select {
		case <-fast:
			received++
			if received == 2 {
				return
			}
		case <-time.After(time.Second):
			t.Fatalf("fast subscriber got %d of 2 snapshots", received)
		}
	}
}

func TestHubUnsubscribesOnContextCancel(t *testing.T) {
	hub := NewHub(4, nil)
	ctx, cancel := context.WithCancel(context.Background())

	_, _ = hub.Subscribe(ctx)
	if hub.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", hub.SubscriberCount())
	}

	cancel()
	deadline := time.After(time.Second)
	for hub.SubscriberCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("subscriber was not removed after context cancel")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// Unsubscribing through the cancel func alone must release the watcher
// goroutine even when the subscription context can never be cancelled.
func TestHubCancelFuncReleasesSubscriberAndWatcher(t *testing.T) {
	hub := NewHub(4, nil)
	baseline := runtime.NumGoroutine()

	cancels := make([]func(), 0, 8)
	for i := 0; i < 8; i++ {
		_, cancel := hub.Subscribe(context.Background())
		cancels = append(cancels, cancel)
	}
	if hub.SubscriberCount() != 8 {
		t.Fatalf("expected 8 subscribers, got %d", hub.SubscriberCount())
	}

	for _, cancel := range cancels {
		cancel()
		cancel() // idempotent
	}
	if hub.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers after cancel, got %d", hub.SubscriberCount())
	}

	deadline := time.After(time.Second)
	for runtime.NumGoroutine() > baseline {
		select {
		case <-deadline:
			t.Fatalf("watcher goroutines still running: %d > baseline %d", runtime.NumGoroutine(), baseline)
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestHubDoesNotReplayToLateSubscribers(t *testing.T) {
	hub := NewHub(4, nil)
	hub.Publish(ports.GameSnapshot{GameID: 1})

	ch, cancel := hub.Subscribe(context.Background())
	defer cancel()

	select {
	case snapshot := <-ch:
		t.Fatalf("late subscriber replayed snapshot %+v", snapshot)
	case <-time.After(50 * time.Millisecond):
	}
}
