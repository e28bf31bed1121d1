package persistence

import (
	"context"
	"errors"

	"github.com/eletroerp/backend/internal/domain/purchasing"
	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase by ID, items included
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.Purchase, error) {
	var purchase purchasing.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindBySupplierAndInvoice finds a purchase by its natural key
func (r *GormPurchaseRepository) FindBySupplierAndInvoice(ctx context.Context, supplierID uuid.UUID, invoiceNumber string) (*purchasing.Purchase, error) {
	var purchase purchasing.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("supplier_id = ? AND invoice_number = ?", supplierID, invoiceNumber).
		First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindReceivedWithPendingFractioning returns the received purchases that
// still have at least one line item awaiting the package-to-unit correction.
func (r *GormPurchaseRepository) FindReceivedWithPendingFractioning(ctx context.Context) ([]*purchasing.Purchase, error) {
	pendingItems := r.db.Model(&purchasing.PurchaseItem{}).
		Select("purchase_id").
		Where("units_per_package IS NOT NULL AND units_per_package > 0 AND fractioning_applied = ?", false)

	var purchases []*purchasing.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", purchasing.PurchaseStatusReceived).
		Where("id IN (?)", pendingItems).
		Order("received_date ASC, created_at ASC").
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// List returns purchases matching the filter, newest first
func (r *GormPurchaseRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*purchasing.Purchase], error) {
	query := r.db.WithContext(ctx).Model(&purchasing.Purchase{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number LIKE ? OR LOWER(supplier_name) LIKE LOWER(?)", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if supplierID, ok := filter.Filters["supplier_id"]; ok {
		query = query.Where("supplier_id = ?", supplierID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var purchases []*purchasing.Purchase
	if err := query.
		Preload("Items").
		Order("purchase_date DESC, created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&purchases).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(purchases, total, filter.Page, filter.Limit())
	return &page, nil
}

// Save persists the purchase and its items. Items removed from the aggregate
// are deleted; new and changed ones are upserted.
func (r *GormPurchaseRepository) Save(ctx context.Context, purchase *purchasing.Purchase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(purchase.Items))
		for i, item := range purchase.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("purchase_id = ? AND id NOT IN ?", purchase.ID, currentItemIDs).
				Delete(&purchasing.PurchaseItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("purchase_id = ?", purchase.ID).
				Delete(&purchasing.PurchaseItem{}).Error; err != nil {
				return err
			}
		}

		for i := range purchase.Items {
			if err := tx.Save(&purchase.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Ensure GormPurchaseRepository implements PurchaseRepository
var _ purchasing.PurchaseRepository = (*GormPurchaseRepository)(nil)
