// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/adapter"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/moneybird"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/persistence/model"
)

// RecordRepository implements adapter.RecordStore and adapter.RecordWriter on
// the mirrored records table. Writes land under a bumped sync version and cut
// over atomically; readers only ever see one complete generation.
type RecordRepository struct {
	db *gorm.DB
}

// NewRecordRepository creates a new record repository instance.
func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{
		db: db,
	}
}

// ReplaceAll replaces the mirror of one resource with a new generation.
func (r *RecordRepository) ReplaceAll(ctx context.Context, resource entity.Resource, docs []adapter.StoredDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var state model.SyncStateModel
		err := tx.Where("resource = ?", string(resource)).First(&state).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		newVersion := state.Version + 1

		for _, doc := range docs {
			record := model.RecordFromStoredDocument(string(resource), newVersion, doc)
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}

		state.Resource = string(resource)
		state.Version = newVersion
		state.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&state).Error; err != nil {
			return err
		}

		// Purge superseded generations.
		return tx.Where("resource = ? AND sync_version < ?", string(resource), newVersion).
			Delete(&model.RecordModel{}).Error
	})
}

// FinancialMutations returns the bank mutations for a year.
func (r *RecordRepository) FinancialMutations(ctx context.Context, year int) ([]entity.FinancialMutation, error) {
	payloads, err := r.payloadsForYear(ctx, entity.ResourceFinancialMutations, year)
	if err != nil {
		return nil, err
	}

	mutations := make([]entity.FinancialMutation, 0, len(payloads))
	for _, raw := range payloads {
		m, err := moneybird.DecodeFinancialMutation(raw)
		if err != nil {
			return nil, err
		}
		mutations = append(mutations, m)
	}
	return mutations, nil
}

// PurchaseInvoices returns the purchase invoices for a year.
func (r *RecordRepository) PurchaseInvoices(ctx context.Context, year int) ([]entity.PurchaseDocument, error) {
	return r.purchaseDocuments(ctx, entity.ResourcePurchaseInvoices, year)
}

// Receipts returns the receipts for a year.
func (r *RecordRepository) Receipts(ctx context.Context, year int) ([]entity.PurchaseDocument, error) {
	return r.purchaseDocuments(ctx, entity.ResourceReceipts, year)
}

func (r *RecordRepository) purchaseDocuments(ctx context.Context, resource entity.Resource, year int) ([]entity.PurchaseDocument, error) {
	payloads, err := r.payloadsForYear(ctx, resource, year)
	if err != nil {
		return nil, err
	}

	docs := make([]entity.PurchaseDocument, 0, len(payloads))
	for _, raw := range payloads {
		d, err := moneybird.DecodePurchaseDocument(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// GeneralJournalDocuments returns the journal documents for a year.
func (r *RecordRepository) GeneralJournalDocuments(ctx context.Context, year int) ([]entity.GeneralJournalDocument, error) {
	payloads, err := r.payloadsForYear(ctx, entity.ResourceGeneralJournalDocuments, year)
	if err != nil {
		return nil, err
	}

	docs := make([]entity.GeneralJournalDocument, 0, len(payloads))
	for _, raw := range payloads {
		d, err := moneybird.DecodeGeneralJournalDocument(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// SalesInvoices returns the sales invoices for a year.
func (r *RecordRepository) SalesInvoices(ctx context.Context, year int) ([]entity.SalesInvoice, error) {
	payloads, err := r.payloadsForYear(ctx, entity.ResourceSalesInvoices, year)
	if err != nil {
		return nil, err
	}

	invoices := make([]entity.SalesInvoice, 0, len(payloads))
	for _, raw := range payloads {
		inv, err := moneybird.DecodeSalesInvoice(raw)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

// TimeEntries returns the time entries for a year.
func (r *RecordRepository) TimeEntries(ctx context.Context, year int) ([]entity.TimeEntry, error) {
	payloads, err := r.payloadsForYear(ctx, entity.ResourceTimeEntries, year)
	if err != nil {
		return nil, err
	}

	entries := make([]entity.TimeEntry, 0, len(payloads))
	for _, raw := range payloads {
		e, err := moneybird.DecodeTimeEntry(raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Contacts returns all contacts.
func (r *RecordRepository) Contacts(ctx context.Context) ([]entity.Contact, error) {
	payloads, err := r.RawDocuments(ctx, entity.ResourceContacts)
	if err != nil {
		return nil, err
	}

	contacts := make([]entity.Contact, 0, len(payloads))
	for _, raw := range payloads {
		c, err := moneybird.DecodeContact(raw)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

// RawDocuments returns the raw payloads of a resource at its current sync
// version.
func (r *RecordRepository) RawDocuments(ctx context.Context, resource entity.Resource) ([]json.RawMessage, error) {
	var records []model.RecordModel
	result := r.currentGeneration(ctx, resource).
		Order("external_id ASC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	payloads := make([]json.RawMessage, len(records))
	for i, rec := range records {
		payloads[i] = rec.Payload
	}
	return payloads, nil
}

// SyncVersions returns the current sync version per resource. Resources that
// never synced report version zero.
func (r *RecordRepository) SyncVersions(ctx context.Context) (map[entity.Resource]int64, error) {
	var states []model.SyncStateModel
	if err := r.db.WithContext(ctx).Find(&states).Error; err != nil {
		return nil, err
	}

	versions := make(map[entity.Resource]int64, len(entity.AllResources))
	for _, resource := range entity.AllResources {
		versions[resource] = 0
	}
	for _, state := range states {
		versions[entity.Resource(state.Resource)] = state.Version
	}
	return versions, nil
}

// payloadsForYear returns the payloads of a resource dated within a year.
func (r *RecordRepository) payloadsForYear(ctx context.Context, resource entity.Resource, year int) ([]json.RawMessage, error) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var records []model.RecordModel
	result := r.currentGeneration(ctx, resource).
		Where("date >= ? AND date < ?", start, end).
		Order("date ASC, external_id ASC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	payloads := make([]json.RawMessage, len(records))
	for i, rec := range records {
		payloads[i] = rec.Payload
	}
	return payloads, nil
}

// currentGeneration scopes a query to the registered sync version of a
// resource.
func (r *RecordRepository) currentGeneration(ctx context.Context, resource entity.Resource) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.RecordModel{}).
		Where("resource = ?", string(resource)).
		Where("sync_version = (?)", r.db.Model(&model.SyncStateModel{}).
			Select("version").
			Where("resource = ?", string(resource)))
}

// Ensure implementations satisfy interfaces.
var (
	_ adapter.RecordStore  = (*RecordRepository)(nil)
	_ adapter.RecordWriter = (*RecordRepository)(nil)
)
