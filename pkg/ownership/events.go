package ownership

import "time"

// CheckpointFlushedEvent is published to Redis Pub/Sub after a drain
// has been persisted to the analytics store, so downstream consumers
// know the flushed range is queryable.
type CheckpointFlushedEvent struct {
	Event      string    `json:"event"` // Always "ownership.flushed"
	Checkpoint uint64    `json:"checkpoint"`
	Entries    int       `json:"entries"`
	Timestamp  time.Time `json:"timestamp"` // Event publication time (UTC)
}

// GetChannel returns the Redis Pub/Sub channel name for an event type.
// Channel format: suix:{eventType}
func GetChannel(eventType string) string {
	return "suix:" + eventType
}

// GetFlushedChannel returns the Redis channel for ownership.flushed events.
func GetFlushedChannel() string {
	return GetChannel("ownership.flushed")
}
