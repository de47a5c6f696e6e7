package tax

import (
	"math"
	"testing"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/aggregate"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

func within(got, want, tolerance float64) bool {
	return math.Abs(got-want) <= tolerance
}

// bareConfig isolates the step under test: no deductions, no exemption, no
// blending against a previous period.
func bareConfig() PeriodConfig {
	return PeriodConfig{
		Year:              2021,
		Bracket2Threshold: 68508,
		Bracket1Rate:      0.371,
		Bracket2Rate:      0.495,
		LabourCredit:      LabourCreditConfig{MaxThreshold: 105736},
	}
}

func totalsWithHours(revenue float64, hours map[entity.Person]float64) *aggregate.Totals {
	t := &aggregate.Totals{
		Year:    2021,
		Company: aggregate.CompanyTotals{RealizedProfit: revenue},
		Persons: make(map[entity.Person]*aggregate.PersonTotals),
	}
	for _, p := range entity.AllPersons {
		t.Persons[p] = &aggregate.PersonTotals{
			Hours: aggregate.HourTotals{Year: hours[p], YearFiltered: hours[p]},
		}
	}
	return t
}

func noPersonConfigs() map[entity.Person]PersonConfig {
	return map[entity.Person]PersonConfig{
		entity.PersonBart:   {},
		entity.PersonNiels:  {},
		entity.PersonWouter: {},
	}
}

func TestBracketTax(t *testing.T) {
	// Gross profit 100,000 with every deduction disabled: bracket 1 taxes
	// 68,508 at 37.1%, bracket 2 the remaining 31,492 at 49.5%.
	calc := NewCalculator()
	totals := totalsWithHours(100000, map[entity.Person]float64{entity.PersonBart: 120})

	w := calc.Compute(totals, bareConfig(), noPersonConfigs(), Overlay{})
	bart := w.Persons[entity.PersonBart]

	if !within(bart.GrossProfit, 100000, 0.001) {
		t.Fatalf("gross profit = %f, want 100000", bart.GrossProfit)
	}
	if !within(bart.Bracket1Tax, 25416.47, 0.01) {
		t.Errorf("bracket 1 tax = %f, want 25416.47", bart.Bracket1Tax)
	}
	if !within(bart.Bracket2Tax, 15588.54, 0.01) {
		t.Errorf("bracket 2 tax = %f, want 15588.54", bart.Bracket2Tax)
	}
	if !within(bart.NetTax, 41005.01, 0.02) {
		t.Errorf("net tax = %f, want 41005.01", bart.NetTax)
	}
}

func TestBracketTaxMonotonic(t *testing.T) {
	calc := NewCalculator()
	cfg := bareConfig()

	var previous float64
	for _, revenue := range []float64{0, 10000, 68508, 68509, 100000, 250000, 1000000} {
		totals := totalsWithHours(revenue, map[entity.Person]float64{entity.PersonBart: 10})
		w := calc.Compute(totals, cfg, noPersonConfigs(), Overlay{})
		tax := w.Persons[entity.PersonBart].NetTax
		if tax < previous {
			t.Fatalf("net tax decreased from %f to %f at revenue %f", previous, tax, revenue)
		}
		previous = tax
	}
}

func TestPieShareBlending(t *testing.T) {
	// This-year share 0.5, last-year share 0.3, key 0.2 -> 0.46.
	calc := NewCalculator()
	cfg := bareConfig()
	cfg.PieDistributionKey = 0.2

	totals := totalsWithHours(0, map[entity.Person]float64{
		entity.PersonBart:  50,
		entity.PersonNiels: 50,
	})
	persons := noPersonConfigs()
	persons[entity.PersonBart] = PersonConfig{PreviousPieShare: 0.3}

	w := calc.Compute(totals, cfg, persons, Overlay{})

	if !within(w.Persons[entity.PersonBart].PieShareThisYear, 0.5, 1e-9) {
		t.Errorf("this-year share = %f, want 0.5", w.Persons[entity.PersonBart].PieShareThisYear)
	}
	if !within(w.Persons[entity.PersonBart].PieShare, 0.46, 1e-9) {
		t.Errorf("blended share = %f, want 0.46", w.Persons[entity.PersonBart].PieShare)
	}
}

func TestDeductions(t *testing.T) {
	calc := NewCalculator()
	cfg := bareConfig()
	cfg.MaxSelfEmployedDeduction = 6670
	cfg.MaxStartupDeduction = 2123
	cfg.SSIPercentage = 0.436

	t.Run("hour criterion false disables both deductions", func(t *testing.T) {
		totals := totalsWithHours(500000, map[entity.Person]float64{entity.PersonBart: 10})
		persons := noPersonConfigs()
		persons[entity.PersonBart] = PersonConfig{MeetsHourCriterion: false, ApplyStartupDeduction: true}

		w := calc.Compute(totals, cfg, persons, Overlay{})
		bart := w.Persons[entity.PersonBart]
		if bart.SelfEmployedDeduction != 0 || bart.StartupDeduction != 0 {
			t.Errorf("deductions = %f/%f, want 0/0", bart.SelfEmployedDeduction, bart.StartupDeduction)
		}
	})

	t.Run("deductions capped by configured maxima", func(t *testing.T) {
		totals := totalsWithHours(500000, map[entity.Person]float64{entity.PersonBart: 10})
		persons := noPersonConfigs()
		persons[entity.PersonBart] = PersonConfig{MeetsHourCriterion: true, ApplyStartupDeduction: true}

		w := calc.Compute(totals, cfg, persons, Overlay{})
		bart := w.Persons[entity.PersonBart]
		if !within(bart.SelfEmployedDeduction, 6670, 1e-9) {
			t.Errorf("self-employed deduction = %f, want 6670", bart.SelfEmployedDeduction)
		}
		if !within(bart.StartupDeduction, 2123, 1e-9) {
			t.Errorf("startup deduction = %f, want 2123", bart.StartupDeduction)
		}
	})

	t.Run("deductions capped by gross profit", func(t *testing.T) {
		totals := totalsWithHours(5000, map[entity.Person]float64{entity.PersonBart: 10})
		persons := noPersonConfigs()
		persons[entity.PersonBart] = PersonConfig{MeetsHourCriterion: true, ApplyStartupDeduction: true}

		w := calc.Compute(totals, cfg, persons, Overlay{})
		bart := w.Persons[entity.PersonBart]
		if bart.SelfEmployedDeduction+bart.StartupDeduction > bart.GrossProfit+1e-9 {
			t.Errorf("deductions %f exceed gross profit %f",
				bart.SelfEmployedDeduction+bart.StartupDeduction, bart.GrossProfit)
		}
		if bart.SelfEmployedDeduction < 0 || bart.StartupDeduction < 0 {
			t.Errorf("negative deduction: %f/%f", bart.SelfEmployedDeduction, bart.StartupDeduction)
		}
		// Startup deduction evaluates against what remains after the
		// self-employed deduction.
		if !within(bart.SelfEmployedDeduction, 5000, 1e-9) || !within(bart.StartupDeduction, 0, 1e-9) {
			t.Errorf("deductions = %f/%f, want 5000/0", bart.SelfEmployedDeduction, bart.StartupDeduction)
		}
	})

	t.Run("SSI deduction is independent of profit", func(t *testing.T) {
		totals := totalsWithHours(0, map[entity.Person]float64{entity.PersonBart: 10})
		persons := noPersonConfigs()
		persons[entity.PersonBart] = PersonConfig{SSIBase: 2280}

		w := calc.Compute(totals, cfg, persons, Overlay{})
		if !within(w.Persons[entity.PersonBart].SSIDeduction, 2280*0.436, 1e-9) {
			t.Errorf("SSI deduction = %f, want %f", w.Persons[entity.PersonBart].SSIDeduction, 2280*0.436)
		}
	})
}

func TestProfitExemption(t *testing.T) {
	calc := NewCalculator()
	cfg := bareConfig()
	cfg.ProfitExemptionRate = 0.14

	totals := totalsWithHours(50000, map[entity.Person]float64{entity.PersonBart: 10})
	w := calc.Compute(totals, cfg, noPersonConfigs(), Overlay{})
	bart := w.Persons[entity.PersonBart]

	if !within(bart.ProfitExemption, 7000, 1e-6) {
		t.Errorf("profit exemption = %f, want 7000", bart.ProfitExemption)
	}
	if !within(bart.TaxableProfit, 43000, 1e-6) {
		t.Errorf("taxable profit = %f, want 43000", bart.TaxableProfit)
	}
}

func TestTaxCredits(t *testing.T) {
	calc := NewCalculator()
	cfg := bareConfig()
	cfg.GeneralCredit = CreditConfig{Max: 2837, Threshold: 21043, Rate: 0.05977}
	cfg.LabourCredit = LabourCreditConfig{Max: 4205, MinThreshold: 35652, MaxThreshold: 105736, Rate: 0.06}

	t.Run("credits computed from taxable profit", func(t *testing.T) {
		totals := totalsWithHours(50000, map[entity.Person]float64{entity.PersonBart: 10})
		w := calc.Compute(totals, cfg, noPersonConfigs(), Overlay{})
		bart := w.Persons[entity.PersonBart]

		wantGeneral := 2837 - (50000-21043)*0.05977
		if !within(bart.GeneralTaxCredit, wantGeneral, 1e-6) {
			t.Errorf("general credit = %f, want %f", bart.GeneralTaxCredit, wantGeneral)
		}
		wantLabour := 4205 - (50000-35652)*0.06
		if !within(bart.LabourTaxCredit, wantLabour, 1e-6) {
			t.Errorf("labour credit = %f, want %f", bart.LabourTaxCredit, wantLabour)
		}
	})

	t.Run("labour credit is zero above the max threshold", func(t *testing.T) {
		totals := totalsWithHours(200000, map[entity.Person]float64{entity.PersonBart: 10})
		w := calc.Compute(totals, cfg, noPersonConfigs(), Overlay{})
		if w.Persons[entity.PersonBart].LabourTaxCredit != 0 {
			t.Errorf("labour credit = %f, want 0", w.Persons[entity.PersonBart].LabourTaxCredit)
		}
	})

	t.Run("employment income forces both credits to zero", func(t *testing.T) {
		totals := totalsWithHours(50000, map[entity.Person]float64{entity.PersonBart: 10})
		persons := noPersonConfigs()
		persons[entity.PersonBart] = PersonConfig{HasEmploymentIncome: true}

		w := calc.Compute(totals, cfg, persons, Overlay{})
		bart := w.Persons[entity.PersonBart]
		if bart.GeneralTaxCredit != 0 || bart.LabourTaxCredit != 0 {
			t.Errorf("credits = %f/%f, want 0/0", bart.GeneralTaxCredit, bart.LabourTaxCredit)
		}
	})

	t.Run("credits are not subtracted from net profit", func(t *testing.T) {
		totals := totalsWithHours(50000, map[entity.Person]float64{entity.PersonBart: 10})
		w := calc.Compute(totals, cfg, noPersonConfigs(), Overlay{})
		bart := w.Persons[entity.PersonBart]

		want := bart.GrossProfit - bart.NetTax - bart.HIAContribution
		if !within(bart.NetProfit, want, 1e-9) {
			t.Errorf("net profit = %f, want %f", bart.NetProfit, want)
		}
	})
}

func TestHIAContribution(t *testing.T) {
	calc := NewCalculator()
	cfg := bareConfig()
	cfg.HIAPercentage = 0.0575
	cfg.MaxHIA = 3353

	t.Run("percentage of taxable profit", func(t *testing.T) {
		totals := totalsWithHours(20000, map[entity.Person]float64{entity.PersonBart: 10})
		w := calc.Compute(totals, cfg, noPersonConfigs(), Overlay{})
		if !within(w.Persons[entity.PersonBart].HIAContribution, 1150, 1e-6) {
			t.Errorf("HIA = %f, want 1150", w.Persons[entity.PersonBart].HIAContribution)
		}
	})

	t.Run("capped at the configured maximum", func(t *testing.T) {
		totals := totalsWithHours(200000, map[entity.Person]float64{entity.PersonBart: 10})
		w := calc.Compute(totals, cfg, noPersonConfigs(), Overlay{})
		if !within(w.Persons[entity.PersonBart].HIAContribution, 3353, 1e-9) {
			t.Errorf("HIA = %f, want 3353", w.Persons[entity.PersonBart].HIAContribution)
		}
	})
}

func TestOverlay(t *testing.T) {
	calc := NewCalculator()
	cfg := bareConfig()

	t.Run("extra profit and hours are additive", func(t *testing.T) {
		totals := totalsWithHours(10000, map[entity.Person]float64{entity.PersonBart: 100})
		overlay := Overlay{
			ExtraProfit: 5000,
			ExtraHours:  map[entity.Person]float64{entity.PersonNiels: 100},
		}
		w := calc.Compute(totals, cfg, noPersonConfigs(), overlay)

		if !within(w.Persons[entity.PersonBart].PieShareThisYear, 0.5, 1e-9) {
			t.Errorf("bart share = %f, want 0.5", w.Persons[entity.PersonBart].PieShareThisYear)
		}
		if !within(w.Persons[entity.PersonNiels].Revenue, 7500, 1e-6) {
			t.Errorf("niels revenue = %f, want 7500", w.Persons[entity.PersonNiels].Revenue)
		}
	})

	t.Run("toggle override applies for one computation", func(t *testing.T) {
		cfgWithDeduction := cfg
		cfgWithDeduction.MaxSelfEmployedDeduction = 6670
		totals := totalsWithHours(50000, map[entity.Person]float64{entity.PersonBart: 10})
		persons := noPersonConfigs()
		persons[entity.PersonBart] = PersonConfig{MeetsHourCriterion: true}

		off := false
		overlay := Overlay{Persons: map[entity.Person]PersonOverlay{
			entity.PersonBart: {MeetsHourCriterion: &off},
		}}

		w := calc.Compute(totals, cfgWithDeduction, persons, overlay)
		if w.Persons[entity.PersonBart].SelfEmployedDeduction != 0 {
			t.Errorf("deduction = %f, want 0 under overlay", w.Persons[entity.PersonBart].SelfEmployedDeduction)
		}

		// Without the overlay the default toggle still applies.
		w = calc.Compute(totals, cfgWithDeduction, persons, Overlay{})
		if w.Persons[entity.PersonBart].SelfEmployedDeduction == 0 {
			t.Error("deduction = 0 without overlay, want > 0")
		}
	})
}

func TestCompanyTotal(t *testing.T) {
	calc := NewCalculator()
	cfg := bareConfig()

	totals := totalsWithHours(90000, map[entity.Person]float64{
		entity.PersonBart:   60,
		entity.PersonNiels:  30,
		entity.PersonWouter: 10,
	})
	w := calc.Compute(totals, cfg, noPersonConfigs(), Overlay{})

	var wantNet, rateSum float64
	for _, p := range entity.AllPersons {
		wantNet += w.Persons[p].NetProfit
		rateSum += w.Persons[p].EffectiveTaxRate
	}

	if !within(w.Total.NetProfit, wantNet, 1e-6) {
		t.Errorf("total net profit = %f, want %f", w.Total.NetProfit, wantNet)
	}
	if !within(w.Total.EffectiveTaxRate, rateSum/3, 1e-9) {
		t.Errorf("total effective rate = %f, want %f", w.Total.EffectiveTaxRate, rateSum/3)
	}
}

func TestConfigForYear(t *testing.T) {
	if _, ok := ConfigForYear(2021); !ok {
		t.Error("ConfigForYear(2021) missing")
	}
	if _, ok := ConfigForYear(1999); ok {
		t.Error("ConfigForYear(1999) = true, want false")
	}
}
