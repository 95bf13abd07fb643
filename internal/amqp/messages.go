package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"moneynote/internal/core"
	"moneynote/internal/records"
)

type EventType string

const (
	EventRecordCreated EventType = "record.created"
	EventRecordDeleted EventType = "record.deleted"
)

// RecordEvent announces a change to the record store. Created events carry the
// full record in wire form; deleted events only the id.
type RecordEvent struct {
	Type      EventType           `json:"type"`
	ID        string              `json:"id"`
	Record    *records.WireRecord `json:"record,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

func NewCreatedEvent(r core.Record) *RecordEvent {
	w := records.FromRecord(r)
	return &RecordEvent{Type: EventRecordCreated, ID: r.ID, Record: &w, Timestamp: time.Now().UTC()}
}

func NewDeletedEvent(id string) *RecordEvent {
	return &RecordEvent{Type: EventRecordDeleted, ID: id, Timestamp: time.Now().UTC()}
}

// ToJSON converts the event to JSON bytes
func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON decodes and checks an event.
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var ev RecordEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if ev.ID == "" {
		return nil, errors.New("event without id")
	}
	switch ev.Type {
	case EventRecordCreated:
		if ev.Record == nil {
			return nil, errors.New("created event without record")
		}
		ev.Record.ID = ev.ID
	case EventRecordDeleted:
	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return &ev, nil
}
