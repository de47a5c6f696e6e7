package aggregate

import (
	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/classify"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

// LimitedDeductibleFactor is the share of a booking on a limited-deductible
// account (representation costs and the like) that counts as realized costs.
const LimitedDeductibleFactor = 0.8

// Aggregator folds raw records into Totals. It is a pure fold: the same
// input always produces the same output, and nothing is persisted.
type Aggregator struct {
	classifier *classify.Classifier
}

// NewAggregator creates an Aggregator on top of a classifier.
func NewAggregator(classifier *classify.Classifier) *Aggregator {
	return &Aggregator{classifier: classifier}
}

// Aggregate produces the totals for one report year. Records whose ledger
// account matches no person and no recognized category are dropped from the
// personal breakdowns; they still enter the company-wide totals where the
// record type contributes to them.
func (a *Aggregator) Aggregate(in Input) *Totals {
	t := &Totals{
		Year:    in.Year,
		Persons: make(map[entity.Person]*PersonTotals, len(entity.AllPersons)),
	}
	for _, p := range entity.AllPersons {
		t.Persons[p] = &PersonTotals{}
	}

	a.foldMutations(in, t)
	a.foldPurchases(in.PurchaseInvoices, t)
	a.foldPurchases(in.Receipts, t)
	a.foldJournals(in.JournalDocuments, t)
	a.foldSalesInvoices(in, t)
	a.foldHours(in, t)

	return t
}

// foldMutations processes bank statement lines. Only bookings on a partner's
// withdrawal or deposit account are personal; everything else on a mutation
// is regular bookkeeping and not part of the pie.
func (a *Aggregator) foldMutations(in Input, t *Totals) {
	for _, m := range in.Mutations {
		rate := entity.Rate(m.Currency, m.ExchangeRate)
		for _, b := range m.Bookings {
			a.addPersonalBooking(t, b.LedgerAccountID, b.Amount*rate)
		}
	}
}

// foldPurchases processes purchase invoices and receipts. Detail lines feed
// the cost totals; payment lines on withdrawal/deposit accounts are merged
// into the mutation totals, since paying a company invoice from a private
// account is a deposit.
func (a *Aggregator) foldPurchases(docs []entity.PurchaseDocument, t *Totals) {
	for _, doc := range docs {
		rate := entity.Rate(doc.Currency, doc.ExchangeRate)

		for _, d := range doc.Details {
			amount := d.Amount * rate

			if person, ok := a.classifier.CostOwner(d.LedgerAccountID); ok {
				pt := t.Persons[person]
				if amount >= 0 {
					pt.Costs.Plus += amount
				} else {
					pt.Costs.Min += -amount
				}
				continue
			}

			if a.classifier.Table().IsCostOfSales(d.LedgerAccountID) {
				t.Company.CostOfSales += amount
				continue
			}

			deductible := amount
			if a.classifier.Table().IsLimitedDeductible(d.LedgerAccountID) {
				deductible *= LimitedDeductibleFactor
			}
			switch {
			case doc.State.Realized():
				t.Company.RealizedCosts += deductible
			case doc.State.Outstanding():
				t.Company.OpenCosts += deductible
			}
		}

		for _, p := range doc.Payments {
			a.addPersonalBooking(t, p.LedgerAccountID, p.Amount*rate)
		}
	}
}

// foldJournals processes general journal documents. Withdrawal and deposit
// accounts follow the mutation sign convention; a line on any other account
// owned by a partner is a manual correction counted purely as additional
// plus.
func (a *Aggregator) foldJournals(docs []entity.GeneralJournalDocument, t *Totals) {
	for _, doc := range docs {
		for _, e := range doc.Entries {
			amount := e.Debit - e.Credit
			person, role := a.classifier.Role(e.LedgerAccountID)
			switch role {
			case classify.RoleWithdrawal:
				t.Persons[person].Mutations.Min += amount
			case classify.RoleDeposit:
				t.Persons[person].Mutations.Plus += amount
			case classify.RoleNone:
				// Not personal.
			default:
				t.Persons[person].Mutations.Plus += amount
			}
		}
	}
}

// addPersonalBooking routes a signed amount on a withdrawal or deposit
// account into the owner's mutation totals. A debit on a withdrawal account
// is money taken out; a debit on a deposit account is money put in.
func (a *Aggregator) addPersonalBooking(t *Totals, ref string, amount float64) {
	person, role := a.classifier.Role(ref)
	switch role {
	case classify.RoleWithdrawal:
		t.Persons[person].Mutations.Min += amount
	case classify.RoleDeposit:
		t.Persons[person].Mutations.Plus += amount
	}
}
