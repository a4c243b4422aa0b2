package fx

import "github.com/shopspring/decimal"

// Converter turns an amount in one currency into another by crossing
// through the USD base. No rounding is applied; callers decide how to
// present the result.
type Converter struct {
	table *Table
}

func NewConverter(table *Table) *Converter {
	return &Converter{table: table}
}

// Convert returns amount expressed in the to currency. Converting a
// currency to itself returns the amount unchanged, avoiding drift from
// the divide-then-multiply round trip.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	if from == to {
		return amount
	}
	return amount.Div(c.table.RateOf(from)).Mul(c.table.RateOf(to))
}

// Known reports whether the table carries code.
func (c *Converter) Known(code string) bool {
	return c.table.Known(code)
}

// RateBetween returns the cross rate for one unit of from in to.
func (c *Converter) RateBetween(from, to string) decimal.Decimal {
	if from == to {
		return decimal.NewFromInt(1)
	}
	return c.table.RateOf(to).Div(c.table.RateOf(from))
}

// ToUSD is shorthand for Convert(amount, from, "USD").
func (c *Converter) ToUSD(amount decimal.Decimal, from string) decimal.Decimal {
	return c.Convert(amount, from, "USD")
}

// Table exposes the underlying currency table.
func (c *Converter) Table() *Table {
	return c.table
}
