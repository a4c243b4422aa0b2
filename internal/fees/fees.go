// Package fees computes transfer fees from the corridor tier and the
// payment method. Percentages and clamps apply to the USD-equivalent
// amount so that fee policy stays uniform across corridors.
package fees

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/fx"
)

// tierSchedule is the base fee per corridor tier. The percentage is
// taken on the USD-equivalent send amount, then clamped to [Min, Max]
// in USD.
type tierSchedule struct {
	Percent decimal.Decimal
	Min     decimal.Decimal
	Max     decimal.Decimal
}

var schedules = map[fx.Tier]tierSchedule{
	fx.TierMajor: {
		Percent: decimal.RequireFromString("0.005"),
		Min:     decimal.NewFromInt(1),
		Max:     decimal.NewFromInt(25),
	},
	fx.TierRegional: {
		Percent: decimal.RequireFromString("0.01"),
		Min:     decimal.NewFromInt(2),
		Max:     decimal.NewFromInt(50),
	},
	fx.TierVolatile: {
		Percent: decimal.RequireFromString("0.025"),
		Min:     decimal.NewFromInt(5),
		Max:     decimal.NewFromInt(100),
	},
}

// methodSurcharges is the payment-method percentage added after the
// tier clamp. The surcharge is proportional to the full amount and is
// deliberately not capped.
var methodSurcharges = map[string]decimal.Decimal{
	"bank-transfer":  decimal.Zero,
	"debit-card":     decimal.RequireFromString("0.015"),
	"credit-card":    decimal.RequireFromString("0.025"),
	"digital-wallet": decimal.RequireFromString("0.01"),
	"crypto":         decimal.RequireFromString("0.005"),
}

// Quote is the fee breakdown for one transfer. FeeAmount is in the
// sender's currency; the USD fields expose the components the schedule
// was applied in.
type Quote struct {
	FeeAmount     decimal.Decimal
	FeeInUSD      decimal.Decimal
	BaseFeeUSD    decimal.Decimal
	MethodFeeUSD  decimal.Decimal
	Tier          fx.Tier
	BasePercent   decimal.Decimal
	MethodPercent decimal.Decimal
}

// Engine prices transfers against the currency table.
type Engine struct {
	converter *fx.Converter
}

func NewEngine(converter *fx.Converter) *Engine {
	return &Engine{converter: converter}
}

// QuoteFee prices a transfer of amount in fromCurrency to toCurrency
// paid with method. The corridor tier is the riskier of the two
// currencies' tiers. Unknown payment methods carry no surcharge.
func (e *Engine) QuoteFee(amount decimal.Decimal, fromCurrency, toCurrency, method string) Quote {
	table := e.converter.Table()
	tier := table.TierOf(fromCurrency)
	if toTier := table.TierOf(toCurrency); toTier > tier {
		tier = toTier
	}
	schedule := schedules[tier]

	usdAmount := e.converter.ToUSD(amount, fromCurrency)

	base := usdAmount.Mul(schedule.Percent)
	if base.LessThan(schedule.Min) {
		base = schedule.Min
	}
	if base.GreaterThan(schedule.Max) {
		base = schedule.Max
	}

	methodPercent := methodSurcharges[strings.ToLower(method)]
	methodFee := usdAmount.Mul(methodPercent)

	totalUSD := base.Add(methodFee)

	return Quote{
		FeeAmount:     e.converter.Convert(totalUSD, "USD", fromCurrency),
		FeeInUSD:      totalUSD,
		BaseFeeUSD:    base,
		MethodFeeUSD:  methodFee,
		Tier:          tier,
		BasePercent:   schedule.Percent,
		MethodPercent: methodPercent,
	}
}

// Methods returns the supported payment methods.
func Methods() []string {
	methods := make([]string, 0, len(methodSurcharges))
	for m := range methodSurcharges {
		methods = append(methods, m)
	}
	return methods
}

// KnownMethod reports whether method has a published surcharge.
func KnownMethod(method string) bool {
	_, ok := methodSurcharges[strings.ToLower(method)]
	return ok
}
