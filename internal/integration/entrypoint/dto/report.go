package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/aggregate"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/report"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/tax"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

// round2 rounds a computed float to two decimals for display. The pipeline
// itself never rounds; only the response does.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// PlusMinResponse is the rounded plus/min pair.
type PlusMinResponse struct {
	Plus float64 `json:"plus"`
	Min  float64 `json:"min"`
	Net  float64 `json:"net"`
}

func toPlusMinResponse(pm aggregate.PlusMin) PlusMinResponse {
	return PlusMinResponse{
		Plus: round2(pm.Plus),
		Min:  round2(pm.Min),
		Net:  round2(pm.Net()),
	}
}

// HourTotalsResponse carries the four hour granularities. Hours keep their
// precision; they are durations, not money.
type HourTotalsResponse struct {
	Year             float64 `json:"year"`
	YearFiltered     float64 `json:"yearFiltered"`
	FromJuly         float64 `json:"fromJuly"`
	FromJulyFiltered float64 `json:"fromJulyFiltered"`
}

func toHourTotalsResponse(h aggregate.HourTotals) HourTotalsResponse {
	return HourTotalsResponse(h)
}

// PersonTotalsResponse is one partner's aggregation block.
type PersonTotalsResponse struct {
	Mutations PlusMinResponse    `json:"mutations"`
	Costs     PlusMinResponse    `json:"costs"`
	Hours     HourTotalsResponse `json:"hours"`
}

// CompanyTotalsResponse is the company-wide block.
type CompanyTotalsResponse struct {
	RealizedProfit float64 `json:"realizedProfit"`
	OpenProfit     float64 `json:"openProfit"`
	RealizedCosts  float64 `json:"realizedCosts"`
	OpenCosts      float64 `json:"openCosts"`
	CostOfSales    float64 `json:"costOfSales"`
}

// ClientRevenueResponse is the per-client revenue row.
type ClientRevenueResponse struct {
	ContactID      string  `json:"contactId"`
	Name           string  `json:"name"`
	Paid           float64 `json:"paid"`
	Open           float64 `json:"open"`
	GoodwillPerson string  `json:"goodwillPerson,omitempty"`
	GoodwillValue  float64 `json:"goodwillValue,omitempty"`
}

// ProjectHoursResponse is the per-project hour breakdown.
type ProjectHoursResponse struct {
	ID      string                        `json:"id"`
	Name    string                        `json:"name"`
	Skipped bool                          `json:"skipped"`
	Hours   map[string]BillableSplitResponse `json:"hours"`
}

// BillableSplitResponse separates billable from non-billable hours.
type BillableSplitResponse struct {
	Billable    float64 `json:"billable"`
	NonBillable float64 `json:"nonBillable"`
}

// PersonResultResponse is the rounded waterfall for one partner.
type PersonResultResponse struct {
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

func toPersonResultResponse(r *tax.PersonResult) PersonResultResponse {
	return PersonResultResponse{
		Hours:            round2(r.Hours),
		PieShareThisYear: r.PieShareThisYear,
		PieShare:         r.PieShare,

		Revenue:     round2(r.Revenue),
		Costs:       round2(r.Costs),
		GrossProfit: round2(r.GrossProfit),

		SelfEmployedDeduction: round2(r.SelfEmployedDeduction),
		StartupDeduction:      round2(r.StartupDeduction),
		SSIDeduction:          round2(r.SSIDeduction),
		EntrepreneurDeduction: round2(r.EntrepreneurDeduction),

		ProfitExemption: round2(r.ProfitExemption),
		TaxableProfit:   round2(r.TaxableProfit),

		Bracket1Tax: round2(r.Bracket1Tax),
		Bracket2Tax: round2(r.Bracket2Tax),
		NetTax:      round2(r.NetTax),

		GeneralTaxCredit: round2(r.GeneralTaxCredit),
		LabourTaxCredit:  round2(r.LabourTaxCredit),

		HIAContribution: round2(r.HIAContribution),

		NetProfit:        round2(r.NetProfit),
		NetWithdrawals:   round2(r.NetWithdrawals),
		EffectiveTaxRate: r.EffectiveTaxRate,
	}
}

// ReportResponse is the full dashboard payload for one year.
type ReportResponse struct {
	Year        int       `json:"year"`
	Simulated   bool      `json:"simulated"`
	GeneratedAt time.Time `json:"generatedAt"`

	Company  CompanyTotalsResponse           `json:"company"`
	Persons  map[string]PersonTotalsResponse `json:"persons"`
	Projects []ProjectHoursResponse          `json:"projects"`
	Clients  []ClientRevenueResponse         `json:"clients"`

	Waterfall      map[string]PersonResultResponse `json:"waterfall"`
	WaterfallTotal PersonResultResponse            `json:"waterfallTotal"`

	Config        tax.PeriodConfig            `json:"config"`
	PersonConfigs map[string]tax.PersonConfig `json:"personConfigs"`
}

// ToReportResponse converts a report to its response payload.
func ToReportResponse(r *report.Report) ReportResponse {
	resp := ReportResponse{
		Year:        r.Year,
		Simulated:   r.Simulated,
		GeneratedAt: r.GeneratedAt,
		Company: CompanyTotalsResponse{
			RealizedProfit: round2(r.Totals.Company.RealizedProfit),
			OpenProfit:     round2(r.Totals.Company.OpenProfit),
			RealizedCosts:  round2(r.Totals.Company.RealizedCosts),
			OpenCosts:      round2(r.Totals.Company.OpenCosts),
			CostOfSales:    round2(r.Totals.Company.CostOfSales),
		},
		Persons:       make(map[string]PersonTotalsResponse, len(r.Totals.Persons)),
		Waterfall:     make(map[string]PersonResultResponse, len(r.Waterfall.Persons)),
		Config:        r.Config,
		PersonConfigs: make(map[string]tax.PersonConfig, len(r.Persons)),
	}

	for p, pt := range r.Totals.Persons {
		resp.Persons[string(p)] = PersonTotalsResponse{
			Mutations: toPlusMinResponse(pt.Mutations),
			Costs:     toPlusMinResponse(pt.Costs),
			Hours:     toHourTotalsResponse(pt.Hours),
		}
	}
	for p, wr := range r.Waterfall.Persons {
		resp.Waterfall[string(p)] = toPersonResultResponse(wr)
	}
	resp.WaterfallTotal = toPersonResultResponse(&r.Waterfall.Total)
	for p, pc := range r.Persons {
		resp.PersonConfigs[string(p)] = pc
	}

	resp.Projects = toProjectResponses(r.Totals.Projects)
	resp.Clients = toClientResponses(r.Totals.Clients)

	return resp
}

func toProjectResponses(projects []*aggregate.ProjectHours) []ProjectHoursResponse {
	out := make([]ProjectHoursResponse, len(projects))
	for i, pr := range projects {
		resp := ProjectHoursResponse{
			ID:      pr.ID,
			Name:    pr.Name,
			Skipped: pr.Skipped,
			Hours:   make(map[string]BillableSplitResponse, len(pr.Hours)),
		}
		for p, split := range pr.Hours {
			resp.Hours[string(p)] = BillableSplitResponse{
				Billable:    split.Billable,
				NonBillable: split.NonBillable,
			}
		}
		out[i] = resp
	}
	return out
}

func toClientResponses(clients []*aggregate.ClientRevenue) []ClientRevenueResponse {
	out := make([]ClientRevenueResponse, len(clients))
	for i, cl := range clients {
		resp := ClientRevenueResponse{
			ContactID:     cl.ContactID,
			Name:          cl.Name,
			Paid:          round2(cl.Paid),
			Open:          round2(cl.Open),
			GoodwillValue: cl.GoodwillValue,
		}
		if cl.GoodwillPerson != nil {
			resp.GoodwillPerson = string(*cl.GoodwillPerson)
		}
		out[i] = resp
	}
	return out
}

// Anonymize strips identifying names from a report response for the demo
// view: partners become numbered aliases and clients become lettered ones.
// The numbers themselves stay real.
func (r *ReportResponse) Anonymize() {
	aliases := make(map[string]string, len(entity.AllPersons))
	for i, p := range entity.AllPersons {
		aliases[string(p)] = fmt.Sprintf("partner%d", i+1)
	}

	r.Persons = renameKeys(r.Persons, aliases)
	r.Waterfall = renameKeys(r.Waterfall, aliases)
	r.PersonConfigs = renameKeys(r.PersonConfigs, aliases)

	for i := range r.Projects {
		r.Projects[i].Name = fmt.Sprintf("Project %d", i+1)
		r.Projects[i].Hours = renameKeys(r.Projects[i].Hours, aliases)
	}
	for i := range r.Clients {
		r.Clients[i].ContactID = ""
		r.Clients[i].Name = fmt.Sprintf("Client %c", 'A'+i%26)
		if r.Clients[i].GoodwillPerson != "" {
			r.Clients[i].GoodwillPerson = aliases[r.Clients[i].GoodwillPerson]
		}
	}
}

func renameKeys[V any](m map[string]V, aliases map[string]string) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		alias, ok := aliases[k]
		if !ok {
			alias = k
		}
		out[alias] = v
	}
	return out
}

// HoursDetailResponse is the hours drill-down payload.
type HoursDetailResponse struct {
	Year     int                           `json:"year"`
	Persons  map[string]HourTotalsResponse `json:"persons"`
	Projects []ProjectHoursResponse        `json:"projects"`
}

// ToHoursDetailResponse converts the hours drill-down to its response
// payload.
func ToHoursDetailResponse(d *report.HoursDetail) HoursDetailResponse {
	resp := HoursDetailResponse{
		Year:    d.Year,
		Persons: make(map[string]HourTotalsResponse, len(d.Persons)),
	}
	for p, h := range d.Persons {
		resp.Persons[string(p)] = toHourTotalsResponse(h)
	}
	resp.Projects = toProjectResponses(d.Projects)
	return resp
}
