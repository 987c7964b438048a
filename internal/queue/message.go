package queue

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedMessage indicates a message body that cannot be decoded
// into a valid job. Consumers should acknowledge and drop such messages
// because redelivery can never repair them.
var ErrMalformedMessage = errors.New("malformed queue message")

// Message is the wire format of a reading-plan job. Both identifiers
// are required and must be positive.
type Message struct {
	ProfileID  int64 `json:"user_id"`
	DocumentID int64 `json:"document_id"`
}

// Encode serializes the message for publishing.
func (m Message) Encode() ([]byte, error) {
	if m.ProfileID <= 0 || m.DocumentID <= 0 {
		return nil, fmt.Errorf("%w: identifiers must be positive", ErrMalformedMessage)
	}
	return json.Marshal(m)
}

// DecodeMessage parses a message body received from the queue. Any
// structural problem is reported as ErrMalformedMessage.
func DecodeMessage(body []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(body, &m); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if m.ProfileID <= 0 {
		return Message{}, fmt.Errorf("%w: missing or invalid user_id", ErrMalformedMessage)
	}
	if m.DocumentID <= 0 {
		return Message{}, fmt.Errorf("%w: missing or invalid document_id", ErrMalformedMessage)
	}
	return m, nil
}
