package queue

import "encoding/json"

const (
	// QueueKey is the redis sorted set holding pending jobs, scored by
	// ready-at time.
	QueueKey = "rabbit:jobs"
	// DLQKey is the redis list jobs land on after exhausting retries.
	DLQKey = "rabbit:jobs:dlq"
)

const (
	JobBroadcastStatusChange = "broadcast_status_change"
)

type Job struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Priority  int             `json:"priority"`
	Retry     int             `json:"retry"`
	MaxRetry  int             `json:"max_retry"`
	ErrorMsg  string          `json:"error_msg,omitempty"`
	CreatedAt int64           `json:"created_at"`
	ExpireAt  int64           `json:"expired_at"`
}

func MustMarshal(payload any) json.RawMessage {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil
	}

	return b
}
