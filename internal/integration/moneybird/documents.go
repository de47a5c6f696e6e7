package moneybird

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/adapter"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

// dateLayout is the calendar date format used on accounting documents.
const dateLayout = "2006-01-02"

// resourceSpec binds a mirrored resource to its API path and the indexer
// that pulls the stored-document key fields out of the raw payload.
type resourceSpec struct {
	path  string
	index func(raw json.RawMessage) (adapter.StoredDocument, error)
}

var resourceSpecs = map[entity.Resource]resourceSpec{
	entity.ResourceFinancialMutations: {
		path: "financial_mutations",
		index: func(raw json.RawMessage) (adapter.StoredDocument, error) {
			m, err := DecodeFinancialMutation(raw)
			if err != nil {
				return adapter.StoredDocument{}, err
			}
			return adapter.StoredDocument{ExternalID: m.ID, Date: m.Date, Payload: raw}, nil
		},
	},
	entity.ResourcePurchaseInvoices: {
		path: "documents/purchase_invoices",
		index: func(raw json.RawMessage) (adapter.StoredDocument, error) {
			d, err := DecodePurchaseDocument(raw)
			if err != nil {
				return adapter.StoredDocument{}, err
			}
			return adapter.StoredDocument{ExternalID: d.ID, Date: d.Date, Payload: raw}, nil
		},
	},
	entity.ResourceReceipts: {
		path: "documents/receipts",
		index: func(raw json.RawMessage) (adapter.StoredDocument, error) {
			d, err := DecodePurchaseDocument(raw)
			if err != nil {
				return adapter.StoredDocument{}, err
			}
			return adapter.StoredDocument{ExternalID: d.ID, Date: d.Date, Payload: raw}, nil
		},
	},
	entity.ResourceGeneralJournalDocuments: {
		path: "documents/general_journal_documents",
		index: func(raw json.RawMessage) (adapter.StoredDocument, error) {
			d, err := DecodeGeneralJournalDocument(raw)
			if err != nil {
				return adapter.StoredDocument{}, err
			}
			return adapter.StoredDocument{ExternalID: d.ID, Date: d.Date, Payload: raw}, nil
		},
	},
	entity.ResourceSalesInvoices: {
		path: "sales_invoices",
		index: func(raw json.RawMessage) (adapter.StoredDocument, error) {
			inv, err := DecodeSalesInvoice(raw)
			if err != nil {
				return adapter.StoredDocument{}, err
			}
			return adapter.StoredDocument{ExternalID: inv.ID, Date: inv.Date, Payload: raw}, nil
		},
	},
	entity.ResourceTimeEntries: {
		path: "time_entries",
		index: func(raw json.RawMessage) (adapter.StoredDocument, error) {
			e, err := DecodeTimeEntry(raw)
			if err != nil {
				return adapter.StoredDocument{}, err
			}
			return adapter.StoredDocument{ExternalID: e.ID, Date: e.StartedAt, Payload: raw}, nil
		},
	},
	entity.ResourceContacts: {
		path: "contacts",
		index: func(raw json.RawMessage) (adapter.StoredDocument, error) {
			c, err := DecodeContact(raw)
			if err != nil {
				return adapter.StoredDocument{}, err
			}
			// Contacts carry no document date.
			return adapter.StoredDocument{ExternalID: c.ID, Payload: raw}, nil
		},
	},
}

// moneyString is a decimal amount serialized as a JSON string, the way the
// API sends every money field.
type moneyString string

func (s moneyString) float64() (float64, error) {
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(string(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d.InexactFloat64(), nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

type bookingDTO struct {
	LedgerAccountID string      `json:"ledger_account_id"`
	Price           moneyString `json:"price"`
}

func (b bookingDTO) toEntity() (entity.Booking, error) {
	amount, err := b.Price.float64()
	if err != nil {
		return entity.Booking{}, err
	}
	return entity.Booking{LedgerAccountID: b.LedgerAccountID, Amount: amount}, nil
}

func bookingsToEntity(dtos []bookingDTO) ([]entity.Booking, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	bookings := make([]entity.Booking, len(dtos))
	for i, dto := range dtos {
		b, err := dto.toEntity()
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}

// DecodeFinancialMutation parses a raw financial mutation payload.
func DecodeFinancialMutation(raw json.RawMessage) (entity.FinancialMutation, error) {
	var dto struct {
		ID           string       `json:"id"`
		Date         string       `json:"date"`
		Amount       moneyString  `json:"amount"`
		Currency     string       `json:"currency"`
		ExchangeRate moneyString  `json:"exchange_rate"`
		Bookings     []bookingDTO `json:"ledger_account_bookings"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return entity.FinancialMutation{}, fmt.Errorf("failed to decode financial mutation: %w", err)
	}

	date, err := parseDate(dto.Date)
	if err != nil {
		return entity.FinancialMutation{}, err
	}
	amount, err := dto.Amount.float64()
	if err != nil {
		return entity.FinancialMutation{}, err
	}
	rate, err := dto.ExchangeRate.float64()
	if err != nil {
		return entity.FinancialMutation{}, err
	}
	bookings, err := bookingsToEntity(dto.Bookings)
	if err != nil {
		return entity.FinancialMutation{}, err
	}

	return entity.FinancialMutation{
		ID:           dto.ID,
		Date:         date,
		Amount:       amount,
		Currency:     dto.Currency,
		ExchangeRate: rate,
		Bookings:     bookings,
	}, nil
}

// DecodePurchaseDocument parses a raw purchase invoice or receipt payload.
func DecodePurchaseDocument(raw json.RawMessage) (entity.PurchaseDocument, error) {
	var dto struct {
		ID           string      `json:"id"`
		Date         string      `json:"date"`
		State        string      `json:"state"`
		Currency     string      `json:"currency"`
		ExchangeRate moneyString `json:"exchange_rate"`
		Details      []struct {
			LedgerAccountID string      `json:"ledger_account_id"`
			Total           moneyString `json:"total_price_excl_tax_with_discount_base"`
		} `json:"details"`
		Payments []struct {
			LedgerAccountID string      `json:"ledger_account_id"`
			Price           moneyString `json:"price_base"`
		} `json:"payments"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return entity.PurchaseDocument{}, fmt.Errorf("failed to decode purchase document: %w", err)
	}

	date, err := parseDate(dto.Date)
	if err != nil {
		return entity.PurchaseDocument{}, err
	}
	rate, err := dto.ExchangeRate.float64()
	if err != nil {
		return entity.PurchaseDocument{}, err
	}

	doc := entity.PurchaseDocument{
		ID:           dto.ID,
		Date:         date,
		State:        entity.DocumentState(dto.State),
		Currency:     dto.Currency,
		ExchangeRate: rate,
	}
	for _, d := range dto.Details {
		amount, err := d.Total.float64()
		if err != nil {
			return entity.PurchaseDocument{}, err
		}
		doc.Details = append(doc.Details, entity.Booking{LedgerAccountID: d.LedgerAccountID, Amount: amount})
	}
	for _, p := range dto.Payments {
		amount, err := p.Price.float64()
		if err != nil {
			return entity.PurchaseDocument{}, err
		}
		doc.Payments = append(doc.Payments, entity.Booking{LedgerAccountID: p.LedgerAccountID, Amount: amount})
	}
	return doc, nil
}

// DecodeGeneralJournalDocument parses a raw general journal document payload.
func DecodeGeneralJournalDocument(raw json.RawMessage) (entity.GeneralJournalDocument, error) {
	var dto struct {
		ID      string `json:"id"`
		Date    string `json:"date"`
		Entries []struct {
			LedgerAccountID string      `json:"ledger_account_id"`
			Debit           moneyString `json:"debit"`
			Credit          moneyString `json:"credit"`
		} `json:"general_journal_document_entries"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return entity.GeneralJournalDocument{}, fmt.Errorf("failed to decode journal document: %w", err)
	}

	date, err := parseDate(dto.Date)
	if err != nil {
		return entity.GeneralJournalDocument{}, err
	}

	doc := entity.GeneralJournalDocument{ID: dto.ID, Date: date}
	for _, e := range dto.Entries {
		debit, err := e.Debit.float64()
		if err != nil {
			return entity.GeneralJournalDocument{}, err
		}
		credit, err := e.Credit.float64()
		if err != nil {
			return entity.GeneralJournalDocument{}, err
		}
		doc.Entries = append(doc.Entries, entity.JournalEntry{
			LedgerAccountID: e.LedgerAccountID,
			Debit:           debit,
			Credit:          credit,
		})
	}
	return doc, nil
}

// DecodeSalesInvoice parses a raw sales invoice payload.
func DecodeSalesInvoice(raw json.RawMessage) (entity.SalesInvoice, error) {
	var dto struct {
		ID           string      `json:"id"`
		ContactID    string      `json:"contact_id"`
		Date         string      `json:"date"`
		State        string      `json:"state"`
		Currency     string      `json:"currency"`
		ExchangeRate moneyString `json:"exchange_rate"`
		Total        moneyString `json:"total_price_excl_tax"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return entity.SalesInvoice{}, fmt.Errorf("failed to decode sales invoice: %w", err)
	}

	date, err := parseDate(dto.Date)
	if err != nil {
		return entity.SalesInvoice{}, err
	}
	rate, err := dto.ExchangeRate.float64()
	if err != nil {
		return entity.SalesInvoice{}, err
	}
	total, err := dto.Total.float64()
	if err != nil {
		return entity.SalesInvoice{}, err
	}

	return entity.SalesInvoice{
		ID:                dto.ID,
		ContactID:         dto.ContactID,
		Date:              date,
		State:             entity.DocumentState(dto.State),
		Currency:          dto.Currency,
		ExchangeRate:      rate,
		TotalPriceExclTax: total,
	}, nil
}

// DecodeTimeEntry parses a raw time entry payload.
func DecodeTimeEntry(raw json.RawMessage) (entity.TimeEntry, error) {
	var dto struct {
		ID             string `json:"id"`
		UserID         string `json:"user_id"`
		StartedAt      string `json:"started_at"`
		EndedAt        string `json:"ended_at"`
		PausedDuration int    `json:"paused_duration"`
		Billable       bool   `json:"billable"`
		Project        *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"project"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return entity.TimeEntry{}, fmt.Errorf("failed to decode time entry: %w", err)
	}

	started, err := time.Parse(time.RFC3339, dto.StartedAt)
	if err != nil {
		return entity.TimeEntry{}, fmt.Errorf("invalid started_at %q: %w", dto.StartedAt, err)
	}
	ended, err := time.Parse(time.RFC3339, dto.EndedAt)
	if err != nil {
		return entity.TimeEntry{}, fmt.Errorf("invalid ended_at %q: %w", dto.EndedAt, err)
	}

	entry := entity.TimeEntry{
		ID:        dto.ID,
		UserID:    dto.UserID,
		StartedAt: started,
		EndedAt:   ended,
		Paused:    time.Duration(dto.PausedDuration) * time.Second,
		Billable:  dto.Billable,
	}
	if dto.Project != nil {
		entry.Project = &entity.Project{ID: dto.Project.ID, Name: dto.Project.Name}
	}
	return entry, nil
}

// DecodeContact parses a raw contact payload.
func DecodeContact(raw json.RawMessage) (entity.Contact, error) {
	var dto struct {
		ID           string `json:"id"`
		CompanyName  string `json:"company_name"`
		CustomFields []struct {
			ID    string `json:"id"`
			Value string `json:"value"`
		} `json:"custom_fields"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return entity.Contact{}, fmt.Errorf("failed to decode contact: %w", err)
	}

	contact := entity.Contact{ID: dto.ID, CompanyName: dto.CompanyName}
	for _, f := range dto.CustomFields {
		contact.CustomFields = append(contact.CustomFields, entity.CustomField{ID: f.ID, Value: f.Value})
	}
	return contact, nil
}
