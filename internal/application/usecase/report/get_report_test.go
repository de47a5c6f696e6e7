package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/aggregate"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/classify"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/tax"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
	domainerror "github.com/bartlangelaan/slicing-pie-sub000/internal/domain/error"
)

// fakeStore serves canned records and counts fetches.
type fakeStore struct {
	salesInvoices []entity.SalesInvoice
	timeEntries   []entity.TimeEntry
	versions      map[entity.Resource]int64
	failMutations error
	fetches       int
}

func (s *fakeStore) FinancialMutations(ctx context.Context, year int) ([]entity.FinancialMutation, error) {
	s.fetches++
	if s.failMutations != nil {
		return nil, s.failMutations
	}
	return nil, nil
}

func (s *fakeStore) PurchaseInvoices(ctx context.Context, year int) ([]entity.PurchaseDocument, error) {
	return nil, nil
}

func (s *fakeStore) Receipts(ctx context.Context, year int) ([]entity.PurchaseDocument, error) {
	return nil, nil
}

func (s *fakeStore) GeneralJournalDocuments(ctx context.Context, year int) ([]entity.GeneralJournalDocument, error) {
	return nil, nil
}

func (s *fakeStore) SalesInvoices(ctx context.Context, year int) ([]entity.SalesInvoice, error) {
	return s.salesInvoices, nil
}

func (s *fakeStore) TimeEntries(ctx context.Context, year int) ([]entity.TimeEntry, error) {
	return s.timeEntries, nil
}

func (s *fakeStore) Contacts(ctx context.Context) ([]entity.Contact, error) {
	return nil, nil
}

func (s *fakeStore) RawDocuments(ctx context.Context, resource entity.Resource) ([]json.RawMessage, error) {
	return nil, nil
}

func (s *fakeStore) SyncVersions(ctx context.Context) (map[entity.Resource]int64, error) {
	if s.versions == nil {
		return map[entity.Resource]int64{}, nil
	}
	return s.versions, nil
}

// fakeCache is an in-memory ReportCache.
type fakeCache struct {
	data map[string][]byte
	sets int
	gets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.gets++
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.sets++
	c.data[key] = value
	return nil
}

func newUseCase(store *fakeStore, cache *fakeCache) *GetReportUseCase {
	classifier := classify.NewClassifier(entity.DefaultAccountTable())
	return NewGetReportUseCase(store, cache, aggregate.NewAggregator(classifier), tax.NewCalculator())
}

func testTimeEntry(user string, hours float64) entity.TimeEntry {
	start := time.Date(2021, time.March, 1, 9, 0, 0, 0, time.UTC)
	return entity.TimeEntry{
		UserID:    user,
		StartedAt: start,
		EndedAt:   start.Add(time.Duration(hours * float64(time.Hour))),
		Billable:  true,
	}
}

func TestGetReport(t *testing.T) {
	table := entity.DefaultAccountTable()
	bartUser := table.Persons[0].UserID

	store := &fakeStore{
		salesInvoices: []entity.SalesInvoice{
			{ID: "i1", ContactID: "c1", State: entity.StatePaid, TotalPriceExclTax: 60000},
		},
		timeEntries: []entity.TimeEntry{testTimeEntry(bartUser, 8)},
		versions:    map[entity.Resource]int64{entity.ResourceSalesInvoices: 3},
	}
	uc := newUseCase(store, newFakeCache())

	got, err := uc.Execute(context.Background(), GetReportInput{Year: 2021})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if got.Year != 2021 || got.Simulated {
		t.Errorf("year/simulated = %d/%v, want 2021/false", got.Year, got.Simulated)
	}
	if got.Totals.Company.RealizedProfit != 60000 {
		t.Errorf("realized profit = %f, want 60000", got.Totals.Company.RealizedProfit)
	}
	if got.Waterfall == nil || got.Waterfall.Persons[entity.PersonBart] == nil {
		t.Fatal("waterfall missing")
	}
	if got.Waterfall.Persons[entity.PersonBart].GrossProfit <= 0 {
		t.Errorf("bart gross profit = %f, want > 0", got.Waterfall.Persons[entity.PersonBart].GrossProfit)
	}
}

func TestGetReportUnknownYear(t *testing.T) {
	uc := newUseCase(&fakeStore{}, newFakeCache())

	_, err := uc.Execute(context.Background(), GetReportInput{Year: 1999})
	if err == nil {
		t.Fatal("Execute() error = nil, want invalid-year error")
	}

	var reportErr *domainerror.ReportError
	if !errors.As(err, &reportErr) || reportErr.Code != domainerror.ErrCodeInvalidYear {
		t.Errorf("error = %v, want code %s", err, domainerror.ErrCodeInvalidYear)
	}
}

func TestGetReportFetchFailureFailsWhole(t *testing.T) {
	store := &fakeStore{failMutations: errors.New("upstream gone")}
	uc := newUseCase(store, newFakeCache())

	_, err := uc.Execute(context.Background(), GetReportInput{Year: 2021})
	if err == nil {
		t.Fatal("Execute() error = nil, want fetch failure")
	}
	if !errors.Is(err, store.failMutations) {
		t.Errorf("error chain %v does not include the fetch failure", err)
	}
}

func TestGetReportCaching(t *testing.T) {
	store := &fakeStore{versions: map[entity.Resource]int64{entity.ResourceContacts: 1}}
	cache := newFakeCache()
	uc := newUseCase(store, cache)

	t.Run("plain report is cached and served from cache", func(t *testing.T) {
		if _, err := uc.Execute(context.Background(), GetReportInput{Year: 2021}); err != nil {
			t.Fatalf("first Execute() error = %v", err)
		}
		if cache.sets != 1 {
			t.Fatalf("cache sets = %d, want 1", cache.sets)
		}

		fetchesBefore := store.fetches
		if _, err := uc.Execute(context.Background(), GetReportInput{Year: 2021}); err != nil {
			t.Fatalf("second Execute() error = %v", err)
		}
		if store.fetches != fetchesBefore {
			t.Error("second plain report hit the store instead of the cache")
		}
	})

	t.Run("bumped sync version misses the cache", func(t *testing.T) {
		store.versions[entity.ResourceContacts] = 2
		fetchesBefore := store.fetches
		if _, err := uc.Execute(context.Background(), GetReportInput{Year: 2021}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if store.fetches == fetchesBefore {
			t.Error("report with new sync version served from stale cache")
		}
	})

	t.Run("simulated report bypasses the cache", func(t *testing.T) {
		setsBefore := cache.sets
		overlay := tax.Overlay{ExtraProfit: 1000}
		got, err := uc.Execute(context.Background(), GetReportInput{Year: 2021, Overlay: overlay})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !got.Simulated {
			t.Error("report not marked simulated")
		}
		if cache.sets != setsBefore {
			t.Error("simulated report was written to the cache")
		}
	})
}

func TestGetHoursDetail(t *testing.T) {
	table := entity.DefaultAccountTable()
	store := &fakeStore{timeEntries: []entity.TimeEntry{
		testTimeEntry(table.Persons[0].UserID, 6),
		testTimeEntry(table.Persons[1].UserID, 2),
	}}

	classifier := classify.NewClassifier(table)
	uc := NewGetHoursDetailUseCase(store, aggregate.NewAggregator(classifier))

	got, err := uc.Execute(context.Background(), 2021)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got.Persons[entity.PersonBart].Year != 6 {
		t.Errorf("bart hours = %f, want 6", got.Persons[entity.PersonBart].Year)
	}
	if got.Persons[entity.PersonNiels].Year != 2 {
		t.Errorf("niels hours = %f, want 2", got.Persons[entity.PersonNiels].Year)
	}
}
