package entity

import "time"

// BaseCurrency is the administration currency. Amounts in any other currency
// are converted with the record's exchange rate before aggregation.
const BaseCurrency = "EUR"

// Booking is a single line on a money record: an amount booked against a
// ledger account.
type Booking struct {
	LedgerAccountID string
	Amount          float64
}

// FinancialMutation is a bank statement line with its ledger bookings.
type FinancialMutation struct {
	ID           string
	Date         time.Time
	Amount       float64
	Currency     string
	ExchangeRate float64
	Bookings     []Booking
}

// PurchaseDocument is a purchase invoice or a receipt. Details carry the cost
// lines; Payments carry how the document was settled, which is where personal
// withdrawal/deposit accounts show up.
type PurchaseDocument struct {
	ID           string
	Date         time.Time
	State        DocumentState
	Currency     string
	ExchangeRate float64
	Details      []Booking
	Payments     []Booking
}

// GeneralJournalDocument is a manual journal entry with debit/credit lines.
type GeneralJournalDocument struct {
	ID      string
	Date    time.Time
	Entries []JournalEntry
}

// JournalEntry is one debit/credit line of a general journal document.
type JournalEntry struct {
	LedgerAccountID string
	Debit           float64
	Credit          float64
}

// SalesInvoice is an outgoing invoice. Revenue is attributed to the contact
// it was sent to.
type SalesInvoice struct {
	ID                string
	ContactID         string
	Date              time.Time
	State             DocumentState
	Currency          string
	ExchangeRate      float64
	TotalPriceExclTax float64
}

// DocumentState is the payment state of an invoice or receipt.
type DocumentState string

const (
	StateOpen    DocumentState = "open"
	StateLate    DocumentState = "late"
	StatePending DocumentState = "pending_payment"
	StatePaid    DocumentState = "paid"
	StateDraft   DocumentState = "draft"
)

// Realized reports whether the document counts as settled money.
func (s DocumentState) Realized() bool {
	return s == StatePaid
}

// Outstanding reports whether the document is still expected to be settled.
func (s DocumentState) Outstanding() bool {
	return s == StateOpen || s == StateLate || s == StatePending
}

// Rate returns the conversion factor for an amount on a record in the given
// currency. Records without an exchange rate convert 1:1.
func Rate(currency string, exchangeRate float64) float64 {
	if currency == "" || currency == BaseCurrency {
		return 1
	}
	if exchangeRate == 0 {
		return 1
	}
	return exchangeRate
}
