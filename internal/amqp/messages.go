package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventTransactionPosted  = "transaction.posted"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
	EventSnapshotCreated    = "snapshot.created"
)

// LedgerEvent is the lightweight message published after a journal or
// snapshot mutation. Consumers fetch full records from the database;
// the event only carries identifiers.
type LedgerEvent struct {
	Event     string    `json:"event"`
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEvent(event string, id, accountID int64) *LedgerEvent {
	return &LedgerEvent{
		Event:     event,
		ID:        id,
		AccountID: accountID,
		Timestamp: time.Now(),
	}
}

func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
