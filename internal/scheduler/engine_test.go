package scheduler

import (
	"testing"
	"time"
)

func TestEngineEmitsInFireOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(NotificationEvent{ReminderID: "later", FireAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(NotificationEvent{ReminderID: "sooner", FireAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.ReminderID != "sooner" || second.ReminderID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.ReminderID, second.ReminderID)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	fireAt := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(NotificationEvent{ReminderID: "evt", FireAt: fireAt}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidatesFireTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(NotificationEvent{ReminderID: "bad"}); err != ErrInvalidFireTime {
		t.Fatalf("expected ErrInvalidFireTime, got %v", err)
	}
}

func waitEvent(t *testing.T, ch <-chan NotificationEvent, timeout time.Duration) NotificationEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return NotificationEvent{}
	}
}
