package purchasing

import (
	"context"

	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseRepository defines the interface for purchase persistence.
// Implementations must load and save the line items together with the
// aggregate root.
type PurchaseRepository interface {
	// FindByID finds a purchase by ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// FindBySupplierAndInvoice finds a purchase by its natural key
	FindBySupplierAndInvoice(ctx context.Context, supplierID uuid.UUID, invoiceNumber string) (*Purchase, error)

	// FindReceivedWithPendingFractioning returns the received purchases that
	// still have at least one line item awaiting the package-to-unit
	// correction
	FindReceivedWithPendingFractioning(ctx context.Context) ([]*Purchase, error)

	// List returns purchases matching the filter, newest first
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Purchase], error)

	// Save persists the purchase and its items
	Save(ctx context.Context, purchase *Purchase) error
}
