package entity

import (
	"encoding/json"
	"fmt"
	"os"
)

// PersonAccounts binds a partner to the external ledger account references
// that represent them in the accounting system.
type PersonAccounts struct {
	Person            Person   `json:"person"`
	UserID            string   `json:"user_id"`
	WithdrawalAccount string   `json:"withdrawal_account"`
	DepositAccount    string   `json:"deposit_account"`
	CostAccounts      []string `json:"cost_accounts"`
}

// AccountTable is the canonical person/ledger-account mapping plus the
// company-wide account categories the aggregator needs. It is loaded once at
// startup; every classification decision derives from it.
type AccountTable struct {
	Persons []PersonAccounts `json:"persons"`

	// CostOfSalesAccounts are booked as cost of sales, not as regular costs.
	CostOfSalesAccounts []string `json:"cost_of_sales_accounts"`

	// LimitedDeductibleAccounts only count for 80% in realized costs.
	LimitedDeductibleAccounts []string `json:"limited_deductible_accounts"`

	// GoodwillPersonFieldID and GoodwillValueFieldID are the contact
	// custom-field identifiers carrying goodwill attribution.
	GoodwillPersonFieldID string `json:"goodwill_person_field_id"`
	GoodwillValueFieldID  string `json:"goodwill_value_field_id"`
}

// DefaultAccountTable returns the built-in table for the company
// administration. A deployment can override it with a JSON file via
// LEDGER_CONFIG.
func DefaultAccountTable() *AccountTable {
	return &AccountTable{
		Persons: []PersonAccounts{
			{
				Person:            PersonBart,
				UserID:            "314472796823356951",
				WithdrawalAccount: "314472836862051720",
				DepositAccount:    "314472836885120394",
				CostAccounts:      []string{"314472836905043334"},
			},
			{
				Person:            PersonNiels,
				UserID:            "314472796854814723",
				WithdrawalAccount: "314472836925966728",
				DepositAccount:    "314472836947986831",
				CostAccounts:      []string{"314472836968958353", "325316445826975435"},
			},
			{
				Person:            PersonWouter,
				UserID:            "314472796886272495",
				WithdrawalAccount: "314472836990978451",
				DepositAccount:    "314472837012998554",
				CostAccounts:      []string{"314472837033970072"},
			},
		},
		CostOfSalesAccounts:       []string{"314472836684842377"},
		LimitedDeductibleAccounts: []string{"314472836730979723", "316319787453908583"},
		GoodwillPersonFieldID:     "325316370706924216",
		GoodwillValueFieldID:      "325316370729993890",
	}
}

// LoadAccountTable reads an AccountTable from a JSON file and validates it.
func LoadAccountTable(path string) (*AccountTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read account table: %w", err)
	}

	var table AccountTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse account table: %w", err)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}

	return &table, nil
}

// Validate checks that every person is known and that no ledger account
// reference is bound to more than one person. The duplicate check runs at
// load time so a bad table fails fast instead of silently splitting a
// booking over two partners.
func (t *AccountTable) Validate() error {
	if len(t.Persons) == 0 {
		return fmt.Errorf("account table has no persons")
	}

	seen := make(map[string]Person)
	claim := func(ref string, p Person) error {
		if ref == "" {
			return nil
		}
		if owner, ok := seen[ref]; ok && owner != p {
			return fmt.Errorf("ledger account %s is bound to both %s and %s", ref, owner, p)
		}
		seen[ref] = p
		return nil
	}

	for _, pa := range t.Persons {
		if !pa.Person.Valid() {
			return fmt.Errorf("unknown person %q in account table", pa.Person)
		}
		if err := claim(pa.UserID, pa.Person); err != nil {
			return err
		}
		if err := claim(pa.WithdrawalAccount, pa.Person); err != nil {
			return err
		}
		if err := claim(pa.DepositAccount, pa.Person); err != nil {
			return err
		}
		for _, ref := range pa.CostAccounts {
			if err := claim(ref, pa.Person); err != nil {
				return err
			}
		}
	}

	return nil
}

// Accounts returns the account bindings for a person, if present.
func (t *AccountTable) Accounts(p Person) (PersonAccounts, bool) {
	for _, pa := range t.Persons {
		if pa.Person == p {
			return pa, true
		}
	}
	return PersonAccounts{}, false
}

// IsCostOfSales reports whether the reference is a cost-of-sales account.
func (t *AccountTable) IsCostOfSales(ref string) bool {
	for _, a := range t.CostOfSalesAccounts {
		if a == ref {
			return true
		}
	}
	return false
}

// IsLimitedDeductible reports whether only 80% of bookings on this account
// count as realized costs.
func (t *AccountTable) IsLimitedDeductible(ref string) bool {
	for _, a := range t.LimitedDeductibleAccounts {
		if a == ref {
			return true
		}
	}
	return false
}
