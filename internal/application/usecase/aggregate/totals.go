// Package aggregate folds classified accounting records into the per-person
// and company-wide totals the tax waterfall runs on.
package aggregate

import (
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

// PlusMin accumulates money put in (Plus) and money taken out (Min) for one
// classification category. No rounding happens here; display formatting is
// the caller's problem.
type PlusMin struct {
	Plus float64 `json:"plus"`
	Min  float64 `json:"min"`
}

// Net returns taken-out minus put-in, the "net withdrawals" of the waterfall.
func (pm PlusMin) Net() float64 {
	return pm.Min - pm.Plus
}

// HourTotals holds a person's worked hours at the four report granularities.
// Filtered totals exclude entries on skipped projects, so they can never
// exceed their unfiltered counterpart.
type HourTotals struct {
	Year             float64 `json:"year"`
	YearFiltered     float64 `json:"yearFiltered"`
	FromJuly         float64 `json:"fromJuly"`
	FromJulyFiltered float64 `json:"fromJulyFiltered"`
}

// BillableSplit separates billable from non-billable hours.
type BillableSplit struct {
	Billable    float64 `json:"billable"`
	NonBillable float64 `json:"nonBillable"`
}

// ProjectHours is the per-project hour breakdown across persons.
type ProjectHours struct {
	ID      string                                 `json:"id"`
	Name    string                                 `json:"name"`
	Skipped bool                                   `json:"skipped"`
	Hours   map[entity.Person]*BillableSplit       `json:"hours"`
}

// ClientRevenue is the paid and outstanding sales-invoice total for one
// contact, with optional goodwill attribution read from the contact's custom
// fields.
type ClientRevenue struct {
	ContactID      string         `json:"contactId"`
	Name           string         `json:"name"`
	Paid           float64        `json:"paid"`
	Open           float64        `json:"open"`
	GoodwillPerson *entity.Person `json:"goodwillPerson,omitempty"`
	GoodwillValue  float64        `json:"goodwillValue,omitempty"`
}

// PersonTotals are the fetched-data totals for one partner.
type PersonTotals struct {
	// Mutations merges withdrawals/deposits from financial mutations,
	// general-journal documents and purchase-document payments.
	Mutations PlusMin `json:"mutations"`

	// Costs are purchase-document detail lines on the partner's designated
	// cost accounts.
	Costs PlusMin `json:"costs"`

	Hours HourTotals `json:"hours"`
}

// CompanyTotals are the company-wide aggregates.
type CompanyTotals struct {
	RealizedProfit float64 `json:"realizedProfit"`
	OpenProfit     float64 `json:"openProfit"`
	RealizedCosts  float64 `json:"realizedCosts"`
	OpenCosts      float64 `json:"openCosts"`
	CostOfSales    float64 `json:"costOfSales"`
}

// Totals is the full aggregation result for one report year.
type Totals struct {
	Year     int                             `json:"year"`
	Company  CompanyTotals                   `json:"company"`
	Persons  map[entity.Person]*PersonTotals `json:"persons"`
	Projects []*ProjectHours                 `json:"projects"`
	Clients  []*ClientRevenue                `json:"clients"`
}

// Input carries all fetched records for one report year.
type Input struct {
	Year             int
	Mutations        []entity.FinancialMutation
	PurchaseInvoices []entity.PurchaseDocument
	Receipts         []entity.PurchaseDocument
	JournalDocuments []entity.GeneralJournalDocument
	SalesInvoices    []entity.SalesInvoice
	TimeEntries      []entity.TimeEntry
	Contacts         []entity.Contact
}
