package dto

import (
	"fmt"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/tax"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
	domainerror "github.com/bartlangelaan/slicing-pie-sub000/internal/domain/error"
)

// PersonOverlayRequest overrides one partner's what-if toggles.
type PersonOverlayRequest struct {
	MeetsHourCriterion    *bool `json:"meetsHourCriterion"`
	ApplyStartupDeduction *bool `json:"applyStartupDeduction"`
	HasEmploymentIncome   *bool `json:"hasEmploymentIncome"`
}

// SimulateRequest is the what-if body. All fields are additive on top of the
// fetched totals; nothing is persisted.
type SimulateRequest struct {
	ExtraProfit        float64                         `json:"extraProfit"`
	ExtraHours         map[string]float64              `json:"extraHours"`
	ExtraCosts         map[string]float64              `json:"extraCosts"`
	PieDistributionKey *float64                        `json:"pieDistributionKey"`
	Persons            map[string]PersonOverlayRequest `json:"persons"`
}

// ToOverlay validates the request and converts it to a tax overlay.
func (r SimulateRequest) ToOverlay() (tax.Overlay, error) {
	overlay := tax.Overlay{
		ExtraProfit:        r.ExtraProfit,
		PieDistributionKey: r.PieDistributionKey,
	}

	if r.PieDistributionKey != nil && (*r.PieDistributionKey < 0 || *r.PieDistributionKey > 1) {
		return tax.Overlay{}, domainerror.NewReportError(
			domainerror.ErrCodeInvalidOverlay,
			"pieDistributionKey must be between 0 and 1",
			domainerror.ErrInvalidOverlay,
		)
	}

	parsePerson := func(name string) (entity.Person, error) {
		p := entity.Person(name)
		if !p.Valid() {
			return "", domainerror.NewReportError(
				domainerror.ErrCodeUnknownPerson,
				fmt.Sprintf("unknown person %q", name),
				domainerror.ErrUnknownPerson,
			)
		}
		return p, nil
	}

	if len(r.ExtraHours) > 0 {
		overlay.ExtraHours = make(map[entity.Person]float64, len(r.ExtraHours))
		for name, hours := range r.ExtraHours {
			p, err := parsePerson(name)
			if err != nil {
				return tax.Overlay{}, err
			}
			overlay.ExtraHours[p] = hours
		}
	}

	if len(r.ExtraCosts) > 0 {
		overlay.ExtraCosts = make(map[entity.Person]float64, len(r.ExtraCosts))
		for name, costs := range r.ExtraCosts {
			p, err := parsePerson(name)
			if err != nil {
				return tax.Overlay{}, err
			}
			overlay.ExtraCosts[p] = costs
		}
	}

	if len(r.Persons) > 0 {
		overlay.Persons = make(map[entity.Person]tax.PersonOverlay, len(r.Persons))
		for name, po := range r.Persons {
			p, err := parsePerson(name)
			if err != nil {
				return tax.Overlay{}, err
			}
			overlay.Persons[p] = tax.PersonOverlay{
				MeetsHourCriterion:    po.MeetsHourCriterion,
				ApplyStartupDeduction: po.ApplyStartupDeduction,
				HasEmploymentIncome:   po.HasEmploymentIncome,
			}
		}
	}

	return overlay, nil
}
