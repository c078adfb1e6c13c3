package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructTag(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "plain struct",
			input:    "0x2::sui::SUI",
			expected: "0x2::sui::SUI",
		},
		{
			name:     "full width address normalized",
			input:    "0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI",
			expected: "0x2::sui::SUI",
		},
		{
			name:     "single type param",
			input:    "0x2::coin::Coin<0x2::sui::SUI>",
			expected: "0x2::coin::Coin<0x2::sui::SUI>",
		},
		{
			name:     "nested generics",
			input:    "0x2::table::Table<0x2::coin::Coin<0x2::sui::SUI>, u64>",
			expected: "0x2::table::Table<0x2::coin::Coin<0x2::sui::SUI>, u64>",
		},
		{
			name:    "missing module",
			input:   "0x2::SUI",
			wantErr: true,
		},
		{
			name:    "unterminated generic",
			input:   "0x2::coin::Coin<0x2::sui::SUI",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := ParseStructTag(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tag.String())
		})
	}
}

func TestCoinTypeOf(t *testing.T) {
	ct, ok := CoinTypeOf("0x2::coin::Coin<0x2::sui::SUI>")
	require.True(t, ok)
	assert.Equal(t, SuiCoinType, ct)

	ct, ok = CoinTypeOf("0x0000000000000000000000000000000000000000000000000000000000000002::coin::Coin<0x2::sui::SUI>")
	require.True(t, ok)
	assert.Equal(t, SuiCoinType, ct)

	_, ok = CoinTypeOf("0x2::sui::SUI")
	assert.False(t, ok)

	_, ok = CoinTypeOf("0x2::coin::TreasuryCap<0x2::sui::SUI>")
	assert.False(t, ok)

	_, ok = CoinTypeOf("not a type")
	assert.False(t, ok)
}

func TestPackageOf(t *testing.T) {
	pkg, err := PackageOf("0xdee9::clob_v2::Pool<0x2::sui::SUI, 0x5d::usdc::USDC>")
	require.NoError(t, err)
	assert.Equal(t, "0xdee9", pkg)

	_, err = PackageOf("garbage")
	require.Error(t, err)
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "0x2", NormalizeAddress("0x2"))
	assert.Equal(t, "0x2", NormalizeAddress("0x0002"))
	assert.Equal(t, "0x2", NormalizeAddress("0X02"))
	assert.Equal(t, "0xdee9", NormalizeAddress("0xDEE9"))
	assert.Equal(t, "0x0", NormalizeAddress("0x0"))
	assert.Equal(t, "0xab", NormalizeAddress("ab"))
}
