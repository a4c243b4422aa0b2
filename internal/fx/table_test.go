package fx

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableLookup(t *testing.T) {
	table := DefaultTable()

	e, ok := table.Lookup("EUR")
	require.True(t, ok)
	assert.Equal(t, "EUR", e.Code)
	assert.Equal(t, TierMajor, e.Tier)

	e, ok = table.Lookup("eur")
	require.True(t, ok, "lookup is case insensitive")
	assert.Equal(t, "EUR", e.Code)

	_, ok = table.Lookup("ZZZ")
	assert.False(t, ok)
}

func TestTableDefaults(t *testing.T) {
	table := DefaultTable()

	assert.True(t, table.RateOf("ZZZ").Equal(decimal.NewFromInt(1)),
		"unknown codes quote at parity")
	assert.Equal(t, TierVolatile, table.TierOf("ZZZ"),
		"unknown codes get the most expensive tier")
}

func TestSettlementResolution(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		code string
		want string
	}{
		{"EUR_DE", "EUR"},
		{"EUR_FR", "EUR"},
		{"XOF_SN", "XOF"},
		{"XAF_CM", "XAF"},
		{"EUR", "EUR"},
		{"USD", "USD"},
		{"ZZZ", "ZZZ"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table.ResolveSettlement(tt.code), tt.code)
	}
}

func TestUnionMembersKeepOwnRates(t *testing.T) {
	table := DefaultTable()

	// Settlement aliasing never changes which rate a code resolves to.
	member, ok := table.Lookup("EUR_DE")
	require.True(t, ok)
	settlement, isMember := member.Settlement()
	require.True(t, isMember)
	assert.Equal(t, "EUR", settlement)
	assert.True(t, table.RateOf("EUR_DE").Equal(member.Rate))
}

func TestStandaloneHasNoSettlement(t *testing.T) {
	e := Standalone("GBP", 0.73, "United Kingdom", TierMajor)
	_, isMember := e.Settlement()
	assert.False(t, isMember)
}
