package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Operations carried on the sync queue.
const (
	OpSync   = "sync"
	OpDelete = "delete"
)

// RecordMessage asks the worker to push one record's state to the
// spreadsheet. It carries only the id and version; the worker reads the
// full record from storage so the queue never holds amounts.
type RecordMessage struct {
	Op        string    `json:"op"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSyncMessage(id, version int64) *RecordMessage {
	return &RecordMessage{Op: OpSync, ID: id, Version: version, Timestamp: time.Now()}
}

func NewDeleteMessage(id, version int64) *RecordMessage {
	return &RecordMessage{Op: OpDelete, ID: id, Version: version, Timestamp: time.Now()}
}

func (m *RecordMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordMessageFromJSON(data []byte) (*RecordMessage, error) {
	var msg RecordMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Op {
	case OpSync, OpDelete:
	default:
		return nil, fmt.Errorf("unknown operation %q", msg.Op)
	}
	return &msg, nil
}
