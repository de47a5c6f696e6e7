// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

// StoredDocument is one mirrored accounting document: the raw upstream JSON
// plus the fields the store indexes on.
type StoredDocument struct {
	ExternalID string
	Date       time.Time
	Payload    json.RawMessage
}

// RecordStore reads mirrored accounting records at their current sync
// version. Year-scoped readers return only documents dated in that year.
type RecordStore interface {
	// FinancialMutations returns the bank mutations for a year.
	FinancialMutations(ctx context.Context, year int) ([]entity.FinancialMutation, error)

	// PurchaseInvoices returns the purchase invoices for a year.
	PurchaseInvoices(ctx context.Context, year int) ([]entity.PurchaseDocument, error)

	// Receipts returns the receipts for a year.
	Receipts(ctx context.Context, year int) ([]entity.PurchaseDocument, error)

	// GeneralJournalDocuments returns the journal documents for a year.
	GeneralJournalDocuments(ctx context.Context, year int) ([]entity.GeneralJournalDocument, error)

	// SalesInvoices returns the sales invoices for a year.
	SalesInvoices(ctx context.Context, year int) ([]entity.SalesInvoice, error)

	// TimeEntries returns the time entries for a year.
	TimeEntries(ctx context.Context, year int) ([]entity.TimeEntry, error)

	// Contacts returns all contacts. Contacts are not year-scoped.
	Contacts(ctx context.Context) ([]entity.Contact, error)

	// RawDocuments returns the raw payloads of a resource, for the
	// pass-through endpoints.
	RawDocuments(ctx context.Context, resource entity.Resource) ([]json.RawMessage, error)

	// SyncVersions returns the current sync version per resource. The report
	// cache key derives from these, so a completed sync invalidates cached
	// reports implicitly.
	SyncVersions(ctx context.Context) (map[entity.Resource]int64, error)
}

// RecordWriter replaces the mirror of one resource. Implementations write
// the new documents under a bumped sync version and cut over atomically, so
// readers never observe a half-written mirror.
type RecordWriter interface {
	ReplaceAll(ctx context.Context, resource entity.Resource, docs []StoredDocument) error
}
