package entity

import "fmt"

// Resource names one mirrored collection of accounting documents.
type Resource string

const (
	ResourceFinancialMutations      Resource = "financial_mutations"
	ResourcePurchaseInvoices        Resource = "purchase_invoices"
	ResourceReceipts                Resource = "receipts"
	ResourceGeneralJournalDocuments Resource = "general_journal_documents"
	ResourceSalesInvoices           Resource = "sales_invoices"
	ResourceTimeEntries             Resource = "time_entries"
	ResourceContacts                Resource = "contacts"
)

// AllResources lists every mirrored resource in sync order.
var AllResources = []Resource{
	ResourceContacts,
	ResourceSalesInvoices,
	ResourcePurchaseInvoices,
	ResourceReceipts,
	ResourceGeneralJournalDocuments,
	ResourceFinancialMutations,
	ResourceTimeEntries,
}

// ParseResource validates a resource name from user input.
func ParseResource(s string) (Resource, error) {
	for _, r := range AllResources {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown resource %q", s)
}
