package entity

// CustomField is a key/value pair attached to a contact in the accounting
// system.
type CustomField struct {
	ID    string
	Value string
}

// Contact is a client the company invoices.
type Contact struct {
	ID           string
	CompanyName  string
	CustomFields []CustomField
}

// CustomFieldValue returns the value of the custom field with the given id.
func (c Contact) CustomFieldValue(id string) (string, bool) {
	for _, f := range c.CustomFields {
		if f.ID == id {
			return f.Value, true
		}
	}
	return "", false
}
