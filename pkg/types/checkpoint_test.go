package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiwatch/suix/pkg/utils"
)

const checkpointFixture = `{
  "checkpointSummary": {
    "epoch": "12",
    "sequenceNumber": "4567",
    "timestampMs": "1719849600000",
    "endOfEpochData": {"nextEpochCommittee": []}
  },
  "transactions": [
    {
      "digest": "9yQ3kKXZ",
      "inputObjects": [
        {
          "objectId": "0x00aa",
          "version": "3",
          "digest": "in1",
          "owner": {"AddressOwner": "0x1111"},
          "previousTransaction": "prevTx",
          "content": {
            "dataType": "moveObject",
            "type": "0x2::coin::Coin<0x2::sui::SUI>",
            "fields": {"balance": "100"}
          }
        }
      ],
      "outputObjects": [
        {
          "objectId": "0xaa",
          "version": "4",
          "digest": "out1",
          "type": "0x2::coin::Coin<0x2::sui::SUI>",
          "owner": {"AddressOwner": "0x2222"},
          "previousTransaction": "9yQ3kKXZ",
          "content": {
            "dataType": "moveObject",
            "type": "0x2::coin::Coin<0x2::sui::SUI>",
            "fields": {"balance": "100"}
          }
        }
      ],
      "effects": {
        "mutated": [
          {
            "owner": {"AddressOwner": "0x2222"},
            "reference": {"objectId": "0xaa", "version": 4, "digest": "out1"}
          }
        ],
        "deleted": [
          {"objectId": "0x00bb", "version": "9", "digest": "gone"}
        ]
      }
    }
  ]
}`

func TestCheckpointDataDecode(t *testing.T) {
	var cp CheckpointData
	require.NoError(t, json.Unmarshal([]byte(checkpointFixture), &cp))

	assert.Equal(t, Uint64(12), cp.Summary.Epoch)
	assert.Equal(t, Uint64(4567), cp.Summary.SequenceNumber)
	assert.Equal(t, Uint64(1719849600000), cp.Summary.TimestampMs)
	assert.True(t, cp.Summary.IsEndOfEpoch())

	require.Len(t, cp.Transactions, 1)
	tx := cp.Transactions[0]
	assert.Equal(t, "9yQ3kKXZ", tx.Digest)

	require.Len(t, tx.InputObjects, 1)
	in := tx.InputObjects[0]
	assert.Equal(t, "0xaa", in.ObjectID, "object ids are normalized on decode")
	assert.Equal(t, Uint64(3), in.Version)
	assert.Equal(t, "0x2::coin::Coin<0x2::sui::SUI>", in.Type, "type falls back to content when the top-level field is absent")
	assert.Equal(t, Uint64(100), in.Balance)
	assert.True(t, in.IsCoin())

	require.Len(t, tx.OutputObjects, 1)
	assert.Equal(t, "0x2222", tx.OutputObjects[0].Owner.Address())

	removed := tx.Effects.AllRemoved()
	require.Len(t, removed, 1)
	assert.Equal(t, "0xbb", removed[0].ObjectID)
	assert.Equal(t, Uint64(9), removed[0].Version)
}

func TestCheckpointSummaryNotEndOfEpoch(t *testing.T) {
	for _, raw := range []string{
		`{"epoch":"1","sequenceNumber":"2","timestampMs":"3"}`,
		`{"epoch":"1","sequenceNumber":"2","timestampMs":"3","endOfEpochData":null}`,
	} {
		var s CheckpointSummary
		require.NoError(t, json.Unmarshal([]byte(raw), &s))
		assert.False(t, s.IsEndOfEpoch())
	}
}

func TestUint64Decode(t *testing.T) {
	var u Uint64
	require.NoError(t, json.Unmarshal([]byte(`"18446744073709551615"`), &u))
	assert.Equal(t, Uint64(18446744073709551615), u)

	require.NoError(t, json.Unmarshal([]byte(`42`), &u))
	assert.Equal(t, Uint64(42), u)

	err := json.Unmarshal([]byte(`"18446744073709551616"`), &u)
	require.ErrorIs(t, err, utils.ErrRange, "one past u64 max must fail")
	require.ErrorIs(t, json.Unmarshal([]byte(`"-1"`), &u), utils.ErrRange)

	out, err := json.Marshal(Uint64(7))
	require.NoError(t, err)
	assert.Equal(t, `"7"`, string(out))
}

func TestNonCoinObjectHasNoBalance(t *testing.T) {
	raw := `{
      "objectId": "0xcc",
      "version": "1",
      "digest": "d",
      "type": "0x5d::registry::Entry",
      "owner": "Immutable",
      "content": {"dataType": "moveObject", "type": "0x5d::registry::Entry", "fields": {"balance": "999"}}
    }`
	var o ObjectSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &o))
	assert.False(t, o.IsCoin())
	assert.Equal(t, Uint64(0), o.Balance, "balance only applies to coin objects")
}
