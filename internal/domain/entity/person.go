// Package entity defines the core business entities for the domain layer.
package entity

// Person identifies one of the company partners. The set is closed: the
// slicing-pie model divides everything over exactly these three people.
type Person string

const (
	PersonBart   Person = "bart"
	PersonNiels  Person = "niels"
	PersonWouter Person = "wouter"
)

// AllPersons lists every partner in a stable order.
var AllPersons = []Person{PersonBart, PersonNiels, PersonWouter}

// Valid reports whether p is one of the known partners.
func (p Person) Valid() bool {
	switch p {
	case PersonBart, PersonNiels, PersonWouter:
		return true
	}
	return false
}
