package report

import (
	"context"
	"fmt"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/adapter"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/aggregate"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/tax"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
	domainerror "github.com/bartlangelaan/slicing-pie-sub000/internal/domain/error"
)

// HoursDetail is the drill-down behind the hour totals: the same four
// granularities per person plus the per-project split.
type HoursDetail struct {
	Year     int                                   `json:"year"`
	Persons  map[entity.Person]aggregate.HourTotals `json:"persons"`
	Projects []*aggregate.ProjectHours              `json:"projects"`
}

// GetHoursDetailUseCase produces the hours drill-down for a year.
type GetHoursDetailUseCase struct {
	store      adapter.RecordStore
	aggregator *aggregate.Aggregator
}

// NewGetHoursDetailUseCase creates a new GetHoursDetailUseCase instance.
func NewGetHoursDetailUseCase(store adapter.RecordStore, aggregator *aggregate.Aggregator) *GetHoursDetailUseCase {
	return &GetHoursDetailUseCase{store: store, aggregator: aggregator}
}

// Execute aggregates only the time entries for the year.
func (uc *GetHoursDetailUseCase) Execute(ctx context.Context, year int) (*HoursDetail, error) {
	if _, ok := tax.ConfigForYear(year); !ok {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidYear,
			fmt.Sprintf("no tax configuration for year %d", year),
			domainerror.ErrInvalidYear,
		)
	}

	entries, err := uc.store.TimeEntries(ctx, year)
	if err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeReportInternalError,
			"failed to fetch time entries",
			err,
		)
	}

	totals := uc.aggregator.Aggregate(aggregate.Input{Year: year, TimeEntries: entries})

	detail := &HoursDetail{
		Year:     year,
		Persons:  make(map[entity.Person]aggregate.HourTotals, len(entity.AllPersons)),
		Projects: totals.Projects,
	}
	for _, p := range entity.AllPersons {
		detail.Persons[p] = totals.Persons[p].Hours
	}

	return detail, nil
}
