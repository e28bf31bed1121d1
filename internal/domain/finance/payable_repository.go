package finance

import (
	"context"

	"github.com/google/uuid"
)

// PayableRepository defines the interface for payable persistence
type PayableRepository interface {
	// FindByID finds a payable installment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PayableAccount, error)

	// FindByPurchase returns the installments generated for a purchase,
	// ordered by installment number
	FindByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]*PayableAccount, error)

	// ExistsByPurchase reports whether any installment was already generated
	// for the purchase
	ExistsByPurchase(ctx context.Context, purchaseID uuid.UUID) (bool, error)

	// FindOpen returns all open installments ordered by due date
	FindOpen(ctx context.Context) ([]*PayableAccount, error)

	// Save persists the payable installment
	Save(ctx context.Context, payable *PayableAccount) error
}
