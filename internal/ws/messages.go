package ws

import (
	"encoding/json"

	"pv_dashboard/internal/dashboard"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeRefresh = "dashboard:refresh"

	// Server -> Client
	TypeSnapshot    = "dashboard:snapshot"
	TypeUnavailable = "data:unavailable"
)

// UnavailablePayload carries the user-visible empty-state message.
type UnavailablePayload struct {
	Message string `json:"message"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

// SnapshotMessage encodes a snapshot, degrading to the empty-state message
// when no data backs it.
func SnapshotMessage(snap dashboard.Snapshot) ([]byte, error) {
	if !snap.DataAvailable {
		return NewEnvelope(TypeUnavailable, UnavailablePayload{
			Message: "No telemetry data available",
		})
	}
	return NewEnvelope(TypeSnapshot, snap)
}
