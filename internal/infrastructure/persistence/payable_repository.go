package persistence

import (
	"context"
	"errors"

	"github.com/eletroerp/backend/internal/domain/finance"
	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPayableRepository implements PayableRepository using GORM
type GormPayableRepository struct {
	db *gorm.DB
}

// NewGormPayableRepository creates a new GormPayableRepository
func NewGormPayableRepository(db *gorm.DB) *GormPayableRepository {
	return &GormPayableRepository{db: db}
}

// FindByID finds a payable installment by ID
func (r *GormPayableRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.PayableAccount, error) {
	var payable finance.PayableAccount
	if err := r.db.WithContext(ctx).First(&payable, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payable, nil
}

// FindByPurchase returns the installments generated for a purchase
func (r *GormPayableRepository) FindByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]*finance.PayableAccount, error) {
	var payables []*finance.PayableAccount
	if err := r.db.WithContext(ctx).
		Where("purchase_id = ?", purchaseID).
		Order("installment_number ASC").
		Find(&payables).Error; err != nil {
		return nil, err
	}
	return payables, nil
}

// ExistsByPurchase reports whether any installment was already generated for
// the purchase. This is the at-most-once guard for payable generation.
func (r *GormPayableRepository) ExistsByPurchase(ctx context.Context, purchaseID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&finance.PayableAccount{}).
		Where("purchase_id = ?", purchaseID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindOpen returns all open installments ordered by due date
func (r *GormPayableRepository) FindOpen(ctx context.Context) ([]*finance.PayableAccount, error) {
	var payables []*finance.PayableAccount
	if err := r.db.WithContext(ctx).
		Where("status = ?", finance.PayableStatusOpen).
		Order("due_date ASC").
		Find(&payables).Error; err != nil {
		return nil, err
	}
	return payables, nil
}

// Save persists the payable installment
func (r *GormPayableRepository) Save(ctx context.Context, payable *finance.PayableAccount) error {
	if err := r.db.WithContext(ctx).Save(payable).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Ensure GormPayableRepository implements PayableRepository
var _ finance.PayableRepository = (*GormPayableRepository)(nil)
