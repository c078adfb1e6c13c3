package types

import "encoding/json"

// CheckpointSummary is the header of a finalized checkpoint.
type CheckpointSummary struct {
	Epoch          Uint64 `json:"epoch"`
	SequenceNumber Uint64 `json:"sequenceNumber"`
	TimestampMs    Uint64 `json:"timestampMs"`

	// EndOfEpochData is non-null only on the last checkpoint of an
	// epoch. Protocol-owned packages may be upgraded right after it.
	EndOfEpochData json.RawMessage `json:"endOfEpochData,omitempty"`
}

// IsEndOfEpoch reports whether this checkpoint closes its epoch.
func (s *CheckpointSummary) IsEndOfEpoch() bool {
	return len(s.EndOfEpochData) > 0 && string(s.EndOfEpochData) != "null"
}

// CheckpointTransaction is one finalized transaction with its full
// input and output object snapshots and its declared effects.
type CheckpointTransaction struct {
	Digest        string             `json:"digest"`
	InputObjects  []*ObjectSnapshot  `json:"inputObjects"`
	OutputObjects []*ObjectSnapshot  `json:"outputObjects"`
	Effects       TransactionEffects `json:"effects"`
}

// CheckpointData is the unit of ingestion: a checkpoint summary plus
// its ordered transactions.
type CheckpointData struct {
	Summary      CheckpointSummary        `json:"checkpointSummary"`
	Transactions []*CheckpointTransaction `json:"transactions"`
}
