package analytics

import (
	"fmt"
	"strings"
)

const OwnershipTableName = "ownership"

// Object status labels as they appear in the object_status column.
const (
	StatusCreated     = "Created"
	StatusMutated     = "Mutated"
	StatusDeleted     = "Deleted"
	StatusWrapped     = "Wrapped"
	StatusUnwrapped   = "Unwrapped"
	StatusTransferIn  = "Transfer In"
	StatusTransferOut = "Transfer Out"
)

// ColumnDef describes one column of an analytics table.
type ColumnDef struct {
	Name  string
	Type  string
	Codec string
}

// SQL returns the column definition for CREATE TABLE statements.
// Example: "address String CODEC(ZSTD(1))"
func (c ColumnDef) SQL() string {
	if c.Codec != "" {
		return fmt.Sprintf("%s %s CODEC(%s)", c.Name, c.Type, c.Codec)
	}
	return fmt.Sprintf("%s %s", c.Name, c.Type)
}

// ColumnsToSchemaSQL converts a list of ColumnDef to a CREATE TABLE
// schema body.
func ColumnsToSchemaSQL(columns []ColumnDef) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = c.SQL()
	}
	return strings.Join(defs, ",\n\t\t\t")
}

// ColumnsToNameList extracts just the column names, for INSERT
// statements.
func ColumnsToNameList(columns []ColumnDef) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

// OwnershipColumns defines the schema for the ownership table.
// Codecs follow the usual columnar split: DoubleDelta,LZ4 for
// monotonic sequences, ZSTD(1) for addresses and type tags.
var OwnershipColumns = []ColumnDef{
	{Name: "object_id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "version", Type: "UInt64", Codec: "Delta, ZSTD(3)"},
	{Name: "checkpoint", Type: "UInt64", Codec: "DoubleDelta, LZ4"},
	{Name: "epoch", Type: "UInt64", Codec: "DoubleDelta, LZ4"},
	{Name: "timestamp_ms", Type: "UInt64", Codec: "DoubleDelta, LZ4"},
	{Name: "owner_type", Type: "Nullable(String)", Codec: "ZSTD(1)"},
	{Name: "owner_address", Type: "Nullable(String)", Codec: "ZSTD(1)"},
	{Name: "object_status", Type: "LowCardinality(String)", Codec: ""},
	{Name: "previous_transaction", Type: "String", Codec: "ZSTD(1)"},
	{Name: "coin_type", Type: "Nullable(String)", Codec: "ZSTD(1)"},
	{Name: "coin_balance", Type: "UInt64", Codec: "Delta, ZSTD(3)"},
	{Name: "previous_owner", Type: "Nullable(String)", Codec: "ZSTD(1)"},
	{Name: "previous_version", Type: "Nullable(UInt64)", Codec: "Delta, ZSTD(3)"},
	{Name: "previous_checkpoint", Type: "Nullable(UInt64)", Codec: "Delta, ZSTD(3)"},
	{Name: "previous_coin_type", Type: "Nullable(String)", Codec: "ZSTD(1)"},
	{Name: "previous_type", Type: "Nullable(String)", Codec: "ZSTD(1)"},
}

// OwnershipEntry is one ownership transition record: the observed
// state of a tracked object after a transaction, with an optional
// "before" block when a prior in-window state was known. Immutable
// once constructed.
type OwnershipEntry struct {
	ObjectID    string `ch:"object_id" json:"object_id"`
	Version     uint64 `ch:"version" json:"version"`
	Checkpoint  uint64 `ch:"checkpoint" json:"checkpoint"`
	Epoch       uint64 `ch:"epoch" json:"epoch"`
	TimestampMs uint64 `ch:"timestamp_ms" json:"timestamp_ms"`

	OwnerType    *string `ch:"owner_type" json:"owner_type"`
	OwnerAddress *string `ch:"owner_address" json:"owner_address"`
	ObjectStatus string  `ch:"object_status" json:"object_status"`

	// PreviousTransaction is the digest of the transaction that
	// produced this observation.
	PreviousTransaction string `ch:"previous_transaction" json:"previous_transaction"`

	CoinType *string `ch:"coin_type" json:"coin_type"`
	// CoinBalance is zero when the object is not a coin and always
	// zero on Transfer Out entries.
	CoinBalance uint64 `ch:"coin_balance" json:"coin_balance"`

	// The previous_* block references the object's last known
	// in-window state. All nil when no prior state was seen.
	PreviousOwner      *string `ch:"previous_owner" json:"previous_owner"`
	PreviousVersion    *uint64 `ch:"previous_version" json:"previous_version"`
	PreviousCheckpoint *uint64 `ch:"previous_checkpoint" json:"previous_checkpoint"`
	PreviousCoinType   *string `ch:"previous_coin_type" json:"previous_coin_type"`
	PreviousType       *string `ch:"previous_type" json:"previous_type"`
}
