// Package fx holds the static currency table and the conversion engine.
// All rates are expressed as units of the currency per 1 USD, the
// implicit base unit conversions route through.
package fx

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Tier classifies currency risk and liquidity; it drives the fee schedule.
type Tier int

const (
	TierMajor    Tier = 1
	TierRegional Tier = 2
	TierVolatile Tier = 3
)

// Entry is one currency in the table. Union members (euro area, CFA
// zones) carry a settlement currency their country code aliases to;
// standalone currencies do not. Use the constructors rather than struct
// literals so the variant is explicit at the call site.
type Entry struct {
	Code       string
	Rate       decimal.Decimal
	Country    string
	Tier       Tier
	settlement string
}

// Standalone builds a currency that settles in itself.
func Standalone(code string, rate float64, country string, tier Tier) Entry {
	return Entry{Code: code, Rate: decimal.NewFromFloat(rate), Country: country, Tier: tier}
}

// UnionMember builds a per-country code that settles in a shared
// currency, e.g. EUR_DE settling in EUR.
func UnionMember(code string, rate float64, country string, tier Tier, settlement string) Entry {
	return Entry{Code: code, Rate: decimal.NewFromFloat(rate), Country: country, Tier: tier, settlement: settlement}
}

// Settlement returns the settlement currency and whether this entry is a
// union member.
func (e Entry) Settlement() (string, bool) {
	return e.settlement, e.settlement != ""
}

// Table maps currency codes to entries. It is immutable after
// construction and safe for concurrent reads.
type Table struct {
	entries map[string]Entry
}

// NewTable builds a table from entries.
func NewTable(entries []Entry) *Table {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[strings.ToUpper(e.Code)] = e
	}
	return &Table{entries: m}
}

// Lookup returns the entry for code, if known.
func (t *Table) Lookup(code string) (Entry, bool) {
	e, ok := t.entries[strings.ToUpper(code)]
	return e, ok
}

// RateOf returns the entry's rate, defaulting to 1 for unknown codes.
// Quoting stays available for unrecognized codes; callers log the miss
// as a data-quality signal rather than failing the quote.
func (t *Table) RateOf(code string) decimal.Decimal {
	if e, ok := t.Lookup(code); ok {
		return e.Rate
	}
	return decimal.NewFromInt(1)
}

// TierOf returns the entry's tier, defaulting to the most expensive tier
// for unknown codes. Overcharging an unknown corridor is safer than
// undercharging it.
func (t *Table) TierOf(code string) Tier {
	if e, ok := t.Lookup(code); ok {
		return e.Tier
	}
	return TierVolatile
}

// ResolveSettlement maps a union-member code to its settlement currency,
// returning code unchanged otherwise. Used for display and formatting
// only, never for rate lookup: members keep their own table rates.
func (t *Table) ResolveSettlement(code string) string {
	if e, ok := t.Lookup(code); ok {
		if settlement, isMember := e.Settlement(); isMember {
			return settlement
		}
	}
	return strings.ToUpper(code)
}

// Known reports whether code is in the table.
func (t *Table) Known(code string) bool {
	_, ok := t.Lookup(code)
	return ok
}

// Codes returns all known codes.
func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.entries))
	for code := range t.entries {
		codes = append(codes, code)
	}
	return codes
}
