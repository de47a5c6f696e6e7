package tax

import (
	"math"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/aggregate"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

// PersonOverlay overrides a partner's what-if toggles for one computation.
type PersonOverlay struct {
	MeetsHourCriterion    *bool `json:"meetsHourCriterion,omitempty"`
	ApplyStartupDeduction *bool `json:"applyStartupDeduction,omitempty"`
	HasEmploymentIncome   *bool `json:"hasEmploymentIncome,omitempty"`
}

// Overlay is the additive simulation input. It is applied on top of the
// fetched totals before the waterfall runs and is never persisted.
type Overlay struct {
	ExtraProfit        float64                               `json:"extraProfit,omitempty"`
	ExtraHours         map[entity.Person]float64             `json:"extraHours,omitempty"`
	ExtraCosts         map[entity.Person]float64             `json:"extraCosts,omitempty"`
	PieDistributionKey *float64                              `json:"pieDistributionKey,omitempty"`
	Persons            map[entity.Person]PersonOverlay       `json:"persons,omitempty"`
}

// Empty reports whether the overlay changes nothing.
func (o Overlay) Empty() bool {
	return o.ExtraProfit == 0 &&
		len(o.ExtraHours) == 0 &&
		len(o.ExtraCosts) == 0 &&
		o.PieDistributionKey == nil &&
		len(o.Persons) == 0
}

// PersonResult is the full waterfall for one partner. Field order follows
// the computation order; every value derives from the ones above it.
type PersonResult struct {
	Hours            float64 `json:"hours"`
	PieShareThisYear float64 `json:"pieShareThisYear"`
	PieShare         float64 `json:"pieShare"`

	Revenue     float64 `json:"revenue"`
	Costs       float64 `json:"costs"`
	GrossProfit float64 `json:"grossProfit"`

	SelfEmployedDeduction float64 `json:"selfEmployedDeduction"`
	StartupDeduction      float64 `json:"startupDeduction"`
	SSIDeduction          float64 `json:"ssiDeduction"`
	EntrepreneurDeduction float64 `json:"entrepreneurDeduction"`

	ProfitExemption float64 `json:"profitExemption"`
	TaxableProfit   float64 `json:"taxableProfit"`

	Bracket1Tax float64 `json:"bracket1Tax"`
	Bracket2Tax float64 `json:"bracket2Tax"`
	NetTax      float64 `json:"netTax"`

	GeneralTaxCredit float64 `json:"generalTaxCredit"`
	LabourTaxCredit  float64 `json:"labourTaxCredit"`

	HIAContribution float64 `json:"hiaContribution"`

	NetProfit        float64 `json:"netProfit"`
	NetWithdrawals   float64 `json:"netWithdrawals"`
	EffectiveTaxRate float64 `json:"effectiveTaxRate"`
}

// Waterfall is the computed result for all partners plus the company total.
type Waterfall struct {
	Persons map[entity.Person]*PersonResult `json:"persons"`
	Total   PersonResult                    `json:"total"`
}

// Calculator runs the waterfall. It holds no state; the result is a pure
// function of totals, configuration and overlay.
type Calculator struct{}

// NewCalculator creates a Calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute runs the waterfall for every partner and sums the company total.
// The only cross-person step is the pie-share blending, which needs the
// company-wide filtered hour total; everything after that runs per person.
func (c *Calculator) Compute(
	totals *aggregate.Totals,
	cfg PeriodConfig,
	persons map[entity.Person]PersonConfig,
	overlay Overlay,
) *Waterfall {
	totalRevenue := totals.Company.RealizedProfit + overlay.ExtraProfit

	key := cfg.PieDistributionKey
	if overlay.PieDistributionKey != nil {
		key = *overlay.PieDistributionKey
	}

	hours := make(map[entity.Person]float64, len(entity.AllPersons))
	var totalHours float64
	for _, p := range entity.AllPersons {
		h := totals.Persons[p].Hours.YearFiltered + overlay.ExtraHours[p]
		hours[p] = h
		totalHours += h
	}

	w := &Waterfall{Persons: make(map[entity.Person]*PersonResult, len(entity.AllPersons))}

	for _, p := range entity.AllPersons {
		pc := persons[p]
		if po, ok := overlay.Persons[p]; ok {
			if po.MeetsHourCriterion != nil {
				pc.MeetsHourCriterion = *po.MeetsHourCriterion
			}
			if po.ApplyStartupDeduction != nil {
				pc.ApplyStartupDeduction = *po.ApplyStartupDeduction
			}
			if po.HasEmploymentIncome != nil {
				pc.HasEmploymentIncome = *po.HasEmploymentIncome
			}
		}

		r := c.computePerson(totals, cfg, pc, personInput{
			person:       p,
			totalRevenue: totalRevenue,
			totalHours:   totalHours,
			hours:        hours[p],
			extraCosts:   overlay.ExtraCosts[p],
			key:          key,
		})
		w.Persons[p] = r
	}

	c.sumTotal(w)
	return w
}

type personInput struct {
	person       entity.Person
	totalRevenue float64
	totalHours   float64
	hours        float64
	extraCosts   float64
	key          float64
}

func (c *Calculator) computePerson(
	totals *aggregate.Totals,
	cfg PeriodConfig,
	pc PersonConfig,
	in personInput,
) *PersonResult {
	r := &PersonResult{Hours: in.hours}

	// 1. Pie share: this period's hour fraction blended with last period's
	// share by the distribution key.
	if in.totalHours > 0 {
		r.PieShareThisYear = in.hours / in.totalHours
	}
	r.PieShare = r.PieShareThisYear*(1-in.key) + pc.PreviousPieShare*in.key

	// 2. Gross profit.
	pt := totals.Persons[in.person]
	r.Costs = pt.Costs.Plus - pt.Costs.Min + in.extraCosts
	r.Revenue = in.totalRevenue * r.PieShare
	r.GrossProfit = r.Revenue - r.Costs

	// 3. Self-employed deduction, capped by gross profit.
	if pc.MeetsHourCriterion {
		r.SelfEmployedDeduction = math.Max(0, math.Min(r.GrossProfit, cfg.MaxSelfEmployedDeduction))
	}

	// 4. Startup deduction, evaluated against the profit remaining after the
	// self-employed deduction.
	if pc.MeetsHourCriterion && pc.ApplyStartupDeduction {
		remaining := r.GrossProfit - r.SelfEmployedDeduction
		r.StartupDeduction = math.Max(0, math.Min(remaining, cfg.MaxStartupDeduction))
	}

	// 5. SSI deduction: fixed premium share, independent of profit.
	r.SSIDeduction = pc.SSIBase * cfg.SSIPercentage

	// 6. Entrepreneur deduction.
	r.EntrepreneurDeduction = r.SelfEmployedDeduction + r.StartupDeduction + r.SSIDeduction

	// 7-8. Profit exemption and taxable profit.
	r.ProfitExemption = (r.GrossProfit - r.EntrepreneurDeduction) * cfg.ProfitExemptionRate
	r.TaxableProfit = r.GrossProfit - r.EntrepreneurDeduction - r.ProfitExemption

	// 9. Two-bracket income tax over non-negative taxable profit.
	taxable := math.Max(0, r.TaxableProfit)
	r.Bracket1Tax = math.Min(taxable, cfg.Bracket2Threshold) * cfg.Bracket1Rate
	r.Bracket2Tax = math.Max(0, taxable-cfg.Bracket2Threshold) * cfg.Bracket2Rate
	r.NetTax = r.Bracket1Tax + r.Bracket2Tax

	// 10-11. Tax credits. Both are forced to zero when the partner has other
	// employment income, since the employer already applies them there.
	if !pc.HasEmploymentIncome {
		r.GeneralTaxCredit = math.Max(0,
			cfg.GeneralCredit.Max-(r.TaxableProfit-cfg.GeneralCredit.Threshold)*cfg.GeneralCredit.Rate)
		if r.TaxableProfit <= cfg.LabourCredit.MaxThreshold {
			r.LabourTaxCredit = cfg.LabourCredit.Max -
				(r.TaxableProfit-cfg.LabourCredit.MinThreshold)*cfg.LabourCredit.Rate
		}
	}

	// 12. Health insurance act contribution.
	r.HIAContribution = math.Min(taxable*cfg.HIAPercentage, cfg.MaxHIA)

	// 13. Net profit. The credits are reported but reduce the assessment, not
	// the profit itself.
	r.NetProfit = r.GrossProfit - r.NetTax - r.HIAContribution

	// 14. Net withdrawals.
	r.NetWithdrawals = pt.Mutations.Net()

	// 15. Effective tax rate.
	if r.GrossProfit != 0 {
		r.EffectiveTaxRate = (r.NetTax + r.HIAContribution) / r.GrossProfit
	}

	return r
}

// sumTotal fills w.Total with the per-person sums. The effective tax rate is
// the unweighted mean across partners.
func (c *Calculator) sumTotal(w *Waterfall) {
	var total PersonResult
	var rateSum float64

	for _, p := range entity.AllPersons {
		r := w.Persons[p]
		total.Hours += r.Hours
		total.PieShareThisYear += r.PieShareThisYear
		total.PieShare += r.PieShare
		total.Revenue += r.Revenue
		total.Costs += r.Costs
		total.GrossProfit += r.GrossProfit
		total.SelfEmployedDeduction += r.SelfEmployedDeduction
		total.StartupDeduction += r.StartupDeduction
		total.SSIDeduction += r.SSIDeduction
		total.EntrepreneurDeduction += r.EntrepreneurDeduction
		total.ProfitExemption += r.ProfitExemption
		total.TaxableProfit += r.TaxableProfit
		total.Bracket1Tax += r.Bracket1Tax
		total.Bracket2Tax += r.Bracket2Tax
		total.NetTax += r.NetTax
		total.GeneralTaxCredit += r.GeneralTaxCredit
		total.LabourTaxCredit += r.LabourTaxCredit
		total.HIAContribution += r.HIAContribution
		total.NetProfit += r.NetProfit
		total.NetWithdrawals += r.NetWithdrawals
		rateSum += r.EffectiveTaxRate
	}

	total.EffectiveTaxRate = rateSum / float64(len(entity.AllPersons))
	w.Total = total
}
