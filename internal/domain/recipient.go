package domain

import "time"

type PayoutMethod string

const (
	PayoutBankAccount   PayoutMethod = "bank_account"
	PayoutMobileMoney   PayoutMethod = "mobile_money"
	PayoutDigitalWallet PayoutMethod = "digital_wallet"
	PayoutCashPickup    PayoutMethod = "cash_pickup"
)

// payout processing time before any corridor penalty.
var payoutBaseHours = map[PayoutMethod]int{
	PayoutBankAccount:   24,
	PayoutMobileMoney:   2,
	PayoutDigitalWallet: 1,
	PayoutCashPickup:    4,
}

// BankAccount holds bank payout details.
type BankAccount struct {
	AccountNumber string `json:"account_number"`
	RoutingNumber string `json:"routing_number,omitempty"`
	SwiftCode     string `json:"swift_code,omitempty"`
	BankName      string `json:"bank_name"`
}

// MobileMoney holds mobile-money payout details.
type MobileMoney struct {
	PhoneNumber string `json:"phone_number"`
	Provider    string `json:"provider"`
}

// DigitalWallet holds wallet payout details.
type DigitalWallet struct {
	WalletID string `json:"wallet_id"`
	Provider string `json:"provider"`
}

// CashPickup holds cash-pickup payout details.
type CashPickup struct {
	Location string `json:"location"`
	Provider string `json:"provider"`
}

// Recipient describes where the money goes. Exactly one payout detail
// matching PayoutMethod must be set.
type Recipient struct {
	Email         string         `json:"email"`
	PhoneNumber   string         `json:"phone_number,omitempty"`
	FirstName     string         `json:"first_name"`
	LastName      string         `json:"last_name"`
	Country       string         `json:"country"`
	PayoutMethod  PayoutMethod   `json:"payout_method"`
	BankAccount   *BankAccount   `json:"bank_account,omitempty"`
	MobileMoney   *MobileMoney   `json:"mobile_money,omitempty"`
	DigitalWallet *DigitalWallet `json:"digital_wallet,omitempty"`
	CashPickup    *CashPickup    `json:"cash_pickup,omitempty"`
}

// Validate checks that the payout method is known and its details present.
func (r *Recipient) Validate() error {
	if r.FirstName == "" || r.LastName == "" {
		return &ValidationError{Field: "recipient", Reason: "first and last name are required"}
	}
	if r.Country == "" {
		return &ValidationError{Field: "recipient.country", Reason: "country is required"}
	}

	switch r.PayoutMethod {
	case PayoutBankAccount:
		if r.BankAccount == nil || r.BankAccount.AccountNumber == "" {
			return &ValidationError{Field: "recipient.bank_account", Reason: "bank account details are required"}
		}
	case PayoutMobileMoney:
		if r.MobileMoney == nil || r.MobileMoney.PhoneNumber == "" {
			return &ValidationError{Field: "recipient.mobile_money", Reason: "mobile money details are required"}
		}
	case PayoutDigitalWallet:
		if r.DigitalWallet == nil || r.DigitalWallet.WalletID == "" {
			return &ValidationError{Field: "recipient.digital_wallet", Reason: "wallet details are required"}
		}
	case PayoutCashPickup:
		if r.CashPickup == nil || r.CashPickup.Location == "" {
			return &ValidationError{Field: "recipient.cash_pickup", Reason: "pickup location is required"}
		}
	default:
		return &ValidationError{Field: "recipient.payout_method", Reason: "unknown payout method"}
	}

	return nil
}

// majorCurrencies settle without the cross-border corridor penalty.
var majorCurrencies = map[string]bool{"USD": true, "EUR": true, "GBP": true}

// EstimateDelivery returns the expected payout time: the payout method's
// base processing window, plus 12 hours when either side of the corridor
// is outside the major set.
func EstimateDelivery(method PayoutMethod, sendCurrency, receiveCurrency string, now time.Time) time.Time {
	hours, ok := payoutBaseHours[method]
	if !ok {
		hours = 24
	}

	if !majorCurrencies[sendCurrency] || !majorCurrencies[receiveCurrency] {
		hours += 12
	}

	return now.Add(time.Duration(hours) * time.Hour)
}
