package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

// foldSalesInvoices computes the company profit totals and the per-client
// revenue list. Paid invoices are realized profit; open, late and pending
// invoices are open profit. Draft invoices count for neither.
func (a *Aggregator) foldSalesInvoices(in Input, t *Totals) {
	contacts := make(map[string]entity.Contact, len(in.Contacts))
	for _, c := range in.Contacts {
		contacts[c.ID] = c
	}

	clients := make(map[string]*ClientRevenue)

	for _, inv := range in.SalesInvoices {
		amount := inv.TotalPriceExclTax * entity.Rate(inv.Currency, inv.ExchangeRate)

		var realized bool
		switch {
		case inv.State.Realized():
			t.Company.RealizedProfit += amount
			realized = true
		case inv.State.Outstanding():
			t.Company.OpenProfit += amount
		default:
			continue
		}

		cr, ok := clients[inv.ContactID]
		if !ok {
			cr = &ClientRevenue{ContactID: inv.ContactID}
			if contact, found := contacts[inv.ContactID]; found {
				cr.Name = contact.CompanyName
				cr.GoodwillPerson, cr.GoodwillValue = a.goodwill(contact)
			}
			clients[inv.ContactID] = cr
		}
		if realized {
			cr.Paid += amount
		} else {
			cr.Open += amount
		}
	}

	t.Clients = make([]*ClientRevenue, 0, len(clients))
	for _, cr := range clients {
		t.Clients = append(t.Clients, cr)
	}
	sort.Slice(t.Clients, func(i, j int) bool {
		return t.Clients[i].Paid+t.Clients[i].Open > t.Clients[j].Paid+t.Clients[j].Open
	})
}

// goodwill reads the goodwill attribution from the two fixed contact custom
// fields. A field naming an unknown person, or an unparsable value, yields
// no attribution.
func (a *Aggregator) goodwill(contact entity.Contact) (*entity.Person, float64) {
	table := a.classifier.Table()

	raw, ok := contact.CustomFieldValue(table.GoodwillPersonFieldID)
	if !ok || raw == "" {
		return nil, 0
	}
	person := entity.Person(strings.ToLower(strings.TrimSpace(raw)))
	if !person.Valid() {
		return nil, 0
	}

	value := 0.0
	if rawValue, ok := contact.CustomFieldValue(table.GoodwillValueFieldID); ok {
		if parsed, err := strconv.ParseFloat(strings.ReplaceAll(rawValue, ",", "."), 64); err == nil {
			value = parsed
		}
	}

	return &person, value
}
