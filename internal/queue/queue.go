// Package queue is the narrow boundary to the external message-queue
// service. The worker only ever reads a batch, archives a message, and asks
// for a run to be finalized; visibility timeouts, archival storage, and
// delivery guarantees all live on the service side.
package queue

import (
	"encoding/json"
)

// Message is one claimed queue entry. It exists only between a read and its
// archival; if it is never archived the visibility timeout makes it
// re-claimable, which is the at-least-once guarantee the worker tolerates.
type Message struct {
	MsgID   int64           `json:"msg_id"`
	Payload json.RawMessage `json:"message"`
}

// JobID extracts the benchmark job id from the payload. Payloads may be a
// JSON object or a JSON string wrapping one; the id may be a number or a
// digit string. Anything else yields 0, which callers treat as malformed.
// Parameters: none.
// Returns:
//   - int64: job id, or 0 when the payload is malformed.
func (m Message) JobID() int64 {
	raw := m.Payload
	if len(raw) == 0 {
		return 0
	}

	// Unwrap a string-encoded payload first.
	var wrapped string
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		raw = json.RawMessage(wrapped)
	}

	var payload struct {
		JobID json.Number `json:"job_id"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0
	}
	id, err := payload.JobID.Int64()
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
