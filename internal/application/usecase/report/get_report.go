// Package report contains the report-generation use cases: fetch everything,
// classify, aggregate, run the tax waterfall.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/adapter"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/aggregate"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/tax"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
	domainerror "github.com/bartlangelaan/slicing-pie-sub000/internal/domain/error"
)

// DefaultCacheTTL bounds how long a cached report lives even if no sync
// happens. The cache key embeds the sync versions, so a completed sync
// makes stale entries unreachable before they expire.
const DefaultCacheTTL = 24 * time.Hour

// GetReportInput represents the input for generating a report.
type GetReportInput struct {
	Year    int
	Overlay tax.Overlay
}

// Report is the full dashboard payload for one year.
type Report struct {
	Year        int                                  `json:"year"`
	Simulated   bool                                 `json:"simulated"`
	GeneratedAt time.Time                            `json:"generatedAt"`
	Totals      *aggregate.Totals                    `json:"totals"`
	Waterfall   *tax.Waterfall                       `json:"waterfall"`
	Config      tax.PeriodConfig                     `json:"config"`
	Persons     map[entity.Person]tax.PersonConfig   `json:"personConfigs"`
}

// GetReportUseCase generates the yearly report.
type GetReportUseCase struct {
	store      adapter.RecordStore
	cache      adapter.ReportCache
	aggregator *aggregate.Aggregator
	calculator *tax.Calculator
	cacheTTL   time.Duration
}

// NewGetReportUseCase creates a new GetReportUseCase instance.
func NewGetReportUseCase(
	store adapter.RecordStore,
	cache adapter.ReportCache,
	aggregator *aggregate.Aggregator,
	calculator *tax.Calculator,
) *GetReportUseCase {
	return &GetReportUseCase{
		store:      store,
		cache:      cache,
		aggregator: aggregator,
		calculator: calculator,
		cacheTTL:   DefaultCacheTTL,
	}
}

// Execute generates the report for a year. The six record sets are fetched
// concurrently and joined before aggregation; if any fetch fails the whole
// report fails. Plain reports are served from cache when the mirror has not
// moved; simulated reports always recompute.
func (uc *GetReportUseCase) Execute(ctx context.Context, input GetReportInput) (*Report, error) {
	cfg, ok := tax.ConfigForYear(input.Year)
	if !ok {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidYear,
			fmt.Sprintf("no tax configuration for year %d", input.Year),
			domainerror.ErrInvalidYear,
		)
	}

	plain := input.Overlay.Empty()

	var cacheKey string
	if plain && uc.cache != nil {
		cacheKey = uc.buildCacheKey(ctx, input.Year)
		if cacheKey != "" {
			if report, ok := uc.cachedReport(ctx, cacheKey); ok {
				return report, nil
			}
		}
	}

	in, err := uc.fetchAll(ctx, input.Year)
	if err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeReportInternalError,
			"failed to fetch records",
			err,
		)
	}

	totals := uc.aggregator.Aggregate(*in)
	persons := tax.DefaultPersonConfigs(input.Year)
	waterfall := uc.calculator.Compute(totals, cfg, persons, input.Overlay)

	report := &Report{
		Year:        input.Year,
		Simulated:   !plain,
		GeneratedAt: time.Now().UTC(),
		Totals:      totals,
		Waterfall:   waterfall,
		Config:      cfg,
		Persons:     persons,
	}

	if plain && cacheKey != "" {
		uc.storeInCache(ctx, cacheKey, report)
	}

	return report, nil
}

// fetchAll loads every record set for the year concurrently. Fan-out,
// fan-in, no partial results.
func (uc *GetReportUseCase) fetchAll(ctx context.Context, year int) (*aggregate.Input, error) {
	in := &aggregate.Input{Year: year}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Mutations, err = uc.store.FinancialMutations(ctx, year)
		return err
	})
	g.Go(func() (err error) {
		in.PurchaseInvoices, err = uc.store.PurchaseInvoices(ctx, year)
		return err
	})
	g.Go(func() (err error) {
		in.Receipts, err = uc.store.Receipts(ctx, year)
		return err
	})
	g.Go(func() (err error) {
		in.JournalDocuments, err = uc.store.GeneralJournalDocuments(ctx, year)
		return err
	})
	g.Go(func() (err error) {
		in.SalesInvoices, err = uc.store.SalesInvoices(ctx, year)
		return err
	})
	g.Go(func() (err error) {
		in.TimeEntries, err = uc.store.TimeEntries(ctx, year)
		return err
	})
	g.Go(func() (err error) {
		in.Contacts, err = uc.store.Contacts(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// buildCacheKey derives the cache key from the year and the current sync
// version of every resource. Returns "" when versions cannot be read; the
// report is then computed uncached rather than failed.
func (uc *GetReportUseCase) buildCacheKey(ctx context.Context, year int) string {
	versions, err := uc.store.SyncVersions(ctx)
	if err != nil {
		slog.Warn("Failed to read sync versions, skipping report cache", "error", err)
		return ""
	}

	parts := make([]string, 0, len(versions))
	for resource, version := range versions {
		parts = append(parts, fmt.Sprintf("%s=%d", resource, version))
	}
	sort.Strings(parts)

	return fmt.Sprintf("report:%d:%s", year, strings.Join(parts, ","))
}

func (uc *GetReportUseCase) cachedReport(ctx context.Context, key string) (*Report, bool) {
	data, hit, err := uc.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("Report cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		slog.Warn("Discarding malformed cached report", "error", err)
		return nil, false
	}
	return &report, true
}

func (uc *GetReportUseCase) storeInCache(ctx context.Context, key string, report *Report) {
	data, err := json.Marshal(report)
	if err != nil {
		slog.Warn("Failed to marshal report for cache", "error", err)
		return
	}
	if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
		slog.Warn("Report cache write failed", "error", err)
	}
}
