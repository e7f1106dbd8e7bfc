package amqp

import (
	"encoding/json"
	"time"
)

// ChangeMessage announces that a document changed. It carries only the
// coordinates of the change, consumers fetch the current state themselves.
type ChangeMessage struct {
	Collection string    `json:"collection"`
	DocID      string    `json:"doc_id"`
	Op         string    `json:"op"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewChangeMessage(collection, docID, op string) *ChangeMessage {
	return &ChangeMessage{
		Collection: collection,
		DocID:      docID,
		Op:         op,
		Timestamp:  time.Now(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
