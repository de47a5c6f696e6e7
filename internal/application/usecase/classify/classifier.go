// Package classify maps ledger account references to the partner that owns
// them. It is the leaf of the aggregation pipeline: everything downstream
// asks the classifier whose money a booking line is.
package classify

import (
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

// Role describes what a ledger account reference means for its owner.
type Role string

const (
	RoleNone       Role = "none"
	RoleWithdrawal Role = "withdrawal"
	RoleDeposit    Role = "deposit"
	RoleCost       Role = "cost"
	RoleUser       Role = "user"
)

// Classifier resolves ledger account references to persons using the
// canonical account table. Lookups are plain map hits; the classifier is
// safe for concurrent use after construction.
type Classifier struct {
	table  *entity.AccountTable
	owners map[string]ownership
	users  map[string]entity.Person
}

type ownership struct {
	person entity.Person
	role   Role
}

// NewClassifier builds lookup maps from a validated account table.
func NewClassifier(table *entity.AccountTable) *Classifier {
	c := &Classifier{
		table:  table,
		owners: make(map[string]ownership),
		users:  make(map[string]entity.Person),
	}

	for _, pa := range table.Persons {
		if pa.WithdrawalAccount != "" {
			c.owners[pa.WithdrawalAccount] = ownership{pa.Person, RoleWithdrawal}
		}
		if pa.DepositAccount != "" {
			c.owners[pa.DepositAccount] = ownership{pa.Person, RoleDeposit}
		}
		for _, ref := range pa.CostAccounts {
			c.owners[ref] = ownership{pa.Person, RoleCost}
		}
		if pa.UserID != "" {
			c.users[pa.UserID] = pa.Person
			c.owners[pa.UserID] = ownership{pa.Person, RoleUser}
		}
	}

	return c
}

// Owner returns the partner that owns the reference in any role. References
// matching nobody are not personal: they only contribute to company-wide
// totals.
func (c *Classifier) Owner(ref string) (entity.Person, bool) {
	o, ok := c.owners[ref]
	return o.person, ok
}

// CostOwner returns the partner for whom the reference is a designated cost
// account. This is narrower than Owner: a withdrawal account belongs to a
// person but a booking on it is not a personal cost.
func (c *Classifier) CostOwner(ref string) (entity.Person, bool) {
	o, ok := c.owners[ref]
	if !ok || o.role != RoleCost {
		return "", false
	}
	return o.person, true
}

// Role returns the semantic role of the reference for its owner, or RoleNone.
func (c *Classifier) Role(ref string) (entity.Person, Role) {
	o, ok := c.owners[ref]
	if !ok {
		return "", RoleNone
	}
	return o.person, o.role
}

// PersonByUserID resolves a time-entry user reference to a partner.
func (c *Classifier) PersonByUserID(id string) (entity.Person, bool) {
	p, ok := c.users[id]
	return p, ok
}

// Table returns the account table the classifier was built from.
func (c *Classifier) Table() *entity.AccountTable {
	return c.table
}
