package analytics

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnDefSQL(t *testing.T) {
	assert.Equal(t,
		"object_id String CODEC(ZSTD(1))",
		ColumnDef{Name: "object_id", Type: "String", Codec: "ZSTD(1)"}.SQL())
	assert.Equal(t,
		"object_status LowCardinality(String)",
		ColumnDef{Name: "object_status", Type: "LowCardinality(String)"}.SQL())
}

// The column list drives both the DDL and the insert statement, so it
// must stay aligned with the entry struct's ch tags, in order.
func TestOwnershipColumnsMatchEntryTags(t *testing.T) {
	var tags []string
	typ := reflect.TypeOf(OwnershipEntry{})
	for i := 0; i < typ.NumField(); i++ {
		if tag := typ.Field(i).Tag.Get("ch"); tag != "" {
			tags = append(tags, tag)
		}
	}
	require.Equal(t, tags, ColumnsToNameList(OwnershipColumns))
}
