package adapter

import (
	"context"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

// AccountingGateway fetches complete resource collections from the external
// accounting API, following pagination until exhausted.
type AccountingGateway interface {
	// FetchAll returns every document of a resource the administration
	// holds for the mirrored period.
	FetchAll(ctx context.Context, resource entity.Resource) ([]StoredDocument, error)
}
