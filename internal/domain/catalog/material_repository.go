package catalog

import (
	"context"

	"github.com/google/uuid"
)

// MaterialRepository defines the interface for material persistence
type MaterialRepository interface {
	// FindByID finds a material by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Material, error)

	// FindByCode finds a material by its unique catalog code
	FindByCode(ctx context.Context, code string) (*Material, error)

	// FindByTaxCode finds the first material carrying the given tax
	// classification code
	FindByTaxCode(ctx context.Context, taxCode string) (*Material, error)

	// FindByNamePrefix finds the first material whose name contains the given
	// fragment, case-insensitively
	FindByNamePrefix(ctx context.Context, fragment string) (*Material, error)

	// Save creates or updates a material
	Save(ctx context.Context, material *Material) error
}
