package queue

import (
	"encoding/json"
	"time"
)

// Kind names the background job a message asks for.
type Kind string

const (
	KindRecommendations Kind = "recommendations"
	KindMetrics         Kind = "metrics"
)

// MessageVersion is the payload version written by NewMessage.
const MessageVersion = 1

// Message is the payload sent to downstream queue consumers.
type Message struct {
	Kind        Kind   `json:"kind"`
	CandidateID string `json:"candidateId"`
	Period      string `json:"period,omitempty"`
	RequestID   string `json:"requestId"`
	EnqueuedAt  string `json:"enqueuedAt"`
	Version     int    `json:"version"`
}

// NewMessage builds a message stamped with the current time.
func NewMessage(kind Kind, candidateID, period, requestID string) Message {
	return Message{
		Kind:        kind,
		CandidateID: candidateID,
		Period:      period,
		RequestID:   requestID,
		EnqueuedAt:  time.Now().UTC().Format(time.RFC3339),
		Version:     MessageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
