package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/pixelarena/internal/domain/notify"
)

func testNotification(key, playerID string) notify.Notification {
	return notify.Notification{
		Key:      key,
		PlayerID: playerID,
		Kind:     notify.KindClassChangeUnlocked,
		Message:  "class change unlocked",
	}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Empty queue
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	// Enqueue
	if !q.Enqueue(ctx, testNotification("n1", "p1")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	// Dequeue
	ch := q.Dequeue(ctx)
	n := <-ch
	if n.Key != "n1" {
		t.Errorf("expected n1, got %v", n.Key)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, testNotification("n1", "p1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, testNotification("n2", "p2")) {
		t.Error("expected enqueue to succeed")
	}

	// Enqueue when full drops
	if q.Enqueue(ctx, testNotification("n3", "p3")) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	numGoroutines := 10
	numPerProducer := 100

	done := make(chan bool, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numPerProducer; j++ {
				n := testNotification(fmt.Sprintf("n%d_%d", id, j), fmt.Sprintf("p%d", id))
				for !q.Enqueue(ctx, n) {
					time.Sleep(time.Millisecond)
				}
			}
			done <- true
		}(i)
	}

	consumed := make(chan string, numGoroutines*numPerProducer)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			for n := range q.Dequeue(ctx) {
				consumed <- n.Key
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	// Give consumers time to drain
	time.Sleep(100 * time.Millisecond)

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, testNotification("n1", "p1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, testNotification("n2", "p2")) {
		t.Error("expected enqueue to succeed")
	}

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	// Enqueue after closing drops
	if q.Enqueue(ctx, testNotification("n3", "p3")) {
		t.Error("expected enqueue to fail after closing")
	}

	// Dequeue drains the remaining items and then closes.
	ch := q.Dequeue(ctx)
	timeout := time.After(100 * time.Millisecond)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				goto channelClosed
			}
		case <-timeout:
			t.Error("expected dequeue channel to be closed within timeout")
			return
		}
	}
channelClosed:

	// Close again should not error
	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
