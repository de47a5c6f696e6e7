// Package tax derives the Dutch self-employment tax waterfall from the
// aggregated totals: gross profit through entrepreneur deductions and the
// profit exemption down to net profit and the effective tax rate.
package tax

import (
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

// CreditConfig parameterizes the general tax credit (algemene
// heffingskorting): max(0, Max - (taxableProfit - Threshold) * Rate).
type CreditConfig struct {
	Max       float64 `json:"max"`
	Threshold float64 `json:"threshold"`
	Rate      float64 `json:"rate"`
}

// LabourCreditConfig parameterizes the labour tax credit (arbeidskorting):
// Max - (taxableProfit - MinThreshold) * Rate while taxable profit stays at
// or below MaxThreshold, zero above it.
type LabourCreditConfig struct {
	Max          float64 `json:"max"`
	MinThreshold float64 `json:"minThreshold"`
	MaxThreshold float64 `json:"maxThreshold"`
	Rate         float64 `json:"rate"`
}

// PeriodConfig holds the tax constants for one calendar year.
type PeriodConfig struct {
	Year int `json:"year"`

	MaxSelfEmployedDeduction float64 `json:"maxSelfEmployedDeduction"`
	MaxStartupDeduction      float64 `json:"maxStartupDeduction"`

	// SSIPercentage is the deductible share of a partner's disability
	// insurance premium (the configured SSIBase per person).
	SSIPercentage float64 `json:"ssiPercentage"`

	ProfitExemptionRate float64 `json:"profitExemptionRate"`

	Bracket2Threshold float64 `json:"bracket2Threshold"`
	Bracket1Rate      float64 `json:"bracket1Rate"`
	Bracket2Rate      float64 `json:"bracket2Rate"`

	GeneralCredit CreditConfig       `json:"generalCredit"`
	LabourCredit  LabourCreditConfig `json:"labourCredit"`

	HIAPercentage float64 `json:"hiaPercentage"`
	MaxHIA        float64 `json:"maxHia"`

	// PieDistributionKey blends this year's hour-based pie share with last
	// year's share: result = thisYear*(1-key) + lastYear*key.
	PieDistributionKey float64 `json:"pieDistributionKey"`
}

// PersonConfig holds the per-partner toggles and constants. The booleans are
// the what-if switches the UI flips; an Overlay can override them per
// request without touching these defaults.
type PersonConfig struct {
	MeetsHourCriterion    bool    `json:"meetsHourCriterion"`
	ApplyStartupDeduction bool    `json:"applyStartupDeduction"`
	HasEmploymentIncome   bool    `json:"hasEmploymentIncome"`
	SSIBase               float64 `json:"ssiBase"`

	// PreviousPieShare is last period's pie percentage, the second input to
	// the blending step.
	PreviousPieShare float64 `json:"previousPieShare"`
}

// configs holds the known tax years.
var configs = map[int]PeriodConfig{
	2021: {
		Year:                     2021,
		MaxSelfEmployedDeduction: 6670,
		MaxStartupDeduction:      2123,
		SSIPercentage:            0.436,
		ProfitExemptionRate:      0.14,
		Bracket2Threshold:        68508,
		Bracket1Rate:             0.371,
		Bracket2Rate:             0.495,
		GeneralCredit:            CreditConfig{Max: 2837, Threshold: 21043, Rate: 0.05977},
		LabourCredit:             LabourCreditConfig{Max: 4205, MinThreshold: 35652, MaxThreshold: 105736, Rate: 0.06},
		HIAPercentage:            0.0575,
		MaxHIA:                   3353,
		PieDistributionKey:       0.2,
	},
	2022: {
		Year:                     2022,
		MaxSelfEmployedDeduction: 6310,
		MaxStartupDeduction:      2123,
		SSIPercentage:            0.436,
		ProfitExemptionRate:      0.14,
		Bracket2Threshold:        69398,
		Bracket1Rate:             0.3707,
		Bracket2Rate:             0.495,
		GeneralCredit:            CreditConfig{Max: 2888, Threshold: 21317, Rate: 0.06007},
		LabourCredit:             LabourCreditConfig{Max: 4260, MinThreshold: 36649, MaxThreshold: 109346, Rate: 0.0586},
		HIAPercentage:            0.055,
		MaxHIA:                   3284,
		PieDistributionKey:       0.2,
	},
}

// ConfigForYear returns the tax constants for a year, if known.
func ConfigForYear(year int) (PeriodConfig, bool) {
	cfg, ok := configs[year]
	return cfg, ok
}

// DefaultPersonConfigs returns the per-partner defaults for a year. The
// previous pie shares are the final shares of the preceding report.
func DefaultPersonConfigs(year int) map[entity.Person]PersonConfig {
	switch year {
	case 2021:
		return map[entity.Person]PersonConfig{
			entity.PersonBart:   {MeetsHourCriterion: true, ApplyStartupDeduction: true, SSIBase: 2280, PreviousPieShare: 0.40},
			entity.PersonNiels:  {MeetsHourCriterion: true, ApplyStartupDeduction: true, PreviousPieShare: 0.35},
			entity.PersonWouter: {MeetsHourCriterion: true, HasEmploymentIncome: true, PreviousPieShare: 0.25},
		}
	default:
		return map[entity.Person]PersonConfig{
			entity.PersonBart:   {MeetsHourCriterion: true, SSIBase: 2280, PreviousPieShare: 0.40},
			entity.PersonNiels:  {MeetsHourCriterion: true, PreviousPieShare: 0.35},
			entity.PersonWouter: {MeetsHourCriterion: true, HasEmploymentIncome: true, PreviousPieShare: 0.25},
		}
	}
}
