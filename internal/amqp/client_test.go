package amqp

import (
	"testing"
	"time"
)

func TestNewLedgerEvent(t *testing.T) {
	msg := NewLedgerEvent(EventTransactionPosted, 42, 7)

	if msg.Event != EventTransactionPosted {
		t.Errorf("Event = %v, want %v", msg.Event, EventTransactionPosted)
	}
	if msg.ID != 42 {
		t.Errorf("ID = %v, want 42", msg.ID)
	}
	if msg.AccountID != 7 {
		t.Errorf("AccountID = %v, want 7", msg.AccountID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
}

func TestLedgerEventJSON(t *testing.T) {
	msg := &LedgerEvent{
		Event:     EventSnapshotCreated,
		ID:        3,
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := LedgerEventFromJSON(body)
	if err != nil {
		t.Fatalf("LedgerEventFromJSON() error = %v", err)
	}

	if parsed.Event != msg.Event || parsed.ID != msg.ID {
		t.Errorf("round trip: got %+v, want %+v", parsed, msg)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestLedgerEventInvalidJSON(t *testing.T) {
	if _, err := LedgerEventFromJSON([]byte(`{"id": "nope"}`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
