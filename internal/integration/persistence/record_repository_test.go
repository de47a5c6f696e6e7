package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/adapter"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.RecordModel{},
		&model.SyncStateModel{},
		&model.SyncTaskModel{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func mutationDoc(id string, date time.Time, amount string) adapter.StoredDocument {
	payload := fmt.Sprintf(
		`{"id":%q,"date":%q,"amount":%q,"currency":"EUR","ledger_account_bookings":[]}`,
		id, date.Format("2006-01-02"), amount,
	)
	return adapter.StoredDocument{
		ExternalID: id,
		Date:       date,
		Payload:    json.RawMessage(payload),
	}
}

func TestRecordRepositoryReplaceAll(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository(newTestDB(t))

	first := []adapter.StoredDocument{
		mutationDoc("1", time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC), "100.00"),
		mutationDoc("2", time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), "-40.00"),
	}
	if err := repo.ReplaceAll(ctx, entity.ResourceFinancialMutations, first); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	mutations, err := repo.FinancialMutations(ctx, 2021)
	if err != nil {
		t.Fatalf("FinancialMutations() error = %v", err)
	}
	if len(mutations) != 2 {
		t.Fatalf("got %d mutations, want 2", len(mutations))
	}

	t.Run("second generation replaces the first", func(t *testing.T) {
		second := []adapter.StoredDocument{
			mutationDoc("3", time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC), "75.00"),
		}
		if err := repo.ReplaceAll(ctx, entity.ResourceFinancialMutations, second); err != nil {
			t.Fatalf("ReplaceAll() error = %v", err)
		}

		mutations, err := repo.FinancialMutations(ctx, 2021)
		if err != nil {
			t.Fatalf("FinancialMutations() error = %v", err)
		}
		if len(mutations) != 1 || mutations[0].ID != "3" {
			t.Errorf("mutations = %+v, want only document 3", mutations)
		}
	})

	t.Run("superseded generation is purged", func(t *testing.T) {
		var count int64
		db := newTestDB(t)
		repo := NewRecordRepository(db)

		_ = repo.ReplaceAll(ctx, entity.ResourceFinancialMutations, first)
		_ = repo.ReplaceAll(ctx, entity.ResourceFinancialMutations, first)

		db.Model(&model.RecordModel{}).Count(&count)
		if count != 2 {
			t.Errorf("stored rows = %d, want 2 (old generation deleted)", count)
		}
	})

	t.Run("sync versions bump per replace", func(t *testing.T) {
		versions, err := repo.SyncVersions(ctx)
		if err != nil {
			t.Fatalf("SyncVersions() error = %v", err)
		}
		if versions[entity.ResourceFinancialMutations] != 2 {
			t.Errorf("version = %d, want 2 after two replaces", versions[entity.ResourceFinancialMutations])
		}
		if versions[entity.ResourceContacts] != 0 {
			t.Errorf("unsynced resource version = %d, want 0", versions[entity.ResourceContacts])
		}
	})
}

func TestRecordRepositoryYearScope(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository(newTestDB(t))

	docs := []adapter.StoredDocument{
		mutationDoc("a", time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), "10.00"),
		mutationDoc("b", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), "20.00"),
		mutationDoc("c", time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC), "30.00"),
		mutationDoc("d", time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), "40.00"),
	}
	if err := repo.ReplaceAll(ctx, entity.ResourceFinancialMutations, docs); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	mutations, err := repo.FinancialMutations(ctx, 2021)
	if err != nil {
		t.Fatalf("FinancialMutations() error = %v", err)
	}
	if len(mutations) != 2 {
		t.Fatalf("got %d mutations for 2021, want 2", len(mutations))
	}
	if mutations[0].ID != "b" || mutations[1].ID != "c" {
		t.Errorf("mutations = %+v, want b and c in date order", mutations)
	}
}

func TestRecordRepositoryContacts(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository(newTestDB(t))

	docs := []adapter.StoredDocument{
		{ExternalID: "42", Payload: json.RawMessage(`{"id":"42","company_name":"Acme BV","custom_fields":[{"id":"9001","value":"bart"}]}`)},
	}
	if err := repo.ReplaceAll(ctx, entity.ResourceContacts, docs); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	contacts, err := repo.Contacts(ctx)
	if err != nil {
		t.Fatalf("Contacts() error = %v", err)
	}
	if len(contacts) != 1 || contacts[0].CompanyName != "Acme BV" {
		t.Fatalf("contacts = %+v, want Acme BV", contacts)
	}
	if v, ok := contacts[0].CustomFieldValue("9001"); !ok || v != "bart" {
		t.Errorf("custom field = %q, %v; want bart, true", v, ok)
	}
}

func TestRecordRepositoryRawDocuments(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository(newTestDB(t))

	docs := []adapter.StoredDocument{
		mutationDoc("1", time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC), "5.00"),
	}
	if err := repo.ReplaceAll(ctx, entity.ResourceFinancialMutations, docs); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	raws, err := repo.RawDocuments(ctx, entity.ResourceFinancialMutations)
	if err != nil {
		t.Fatalf("RawDocuments() error = %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("got %d raw documents, want 1", len(raws))
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raws[0], &decoded); err != nil {
		t.Fatalf("stored payload is not valid JSON: %v", err)
	}
	if decoded["id"] != "1" {
		t.Errorf("payload id = %v, want 1", decoded["id"])
	}
}
