package network

import (
	"encoding/json"

	"github.com/lixenwraith/scenekit/engine"
)

// MessageType tags a feed message
type MessageType string

const (
	MsgHello    MessageType = "hello"
	MsgSnapshot MessageType = "snapshot"
)

// Message is the JSON envelope written to observers
type Message struct {
	Type     MessageType      `json:"type"`
	ClientID string           `json:"client_id,omitempty"`
	Snapshot *engine.Snapshot `json:"snapshot,omitempty"`
}

func encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}
