package purchasing

import (
	"context"
	"sort"
	"strings"

	inventoryapp "github.com/eletroerp/backend/internal/application/inventory"
	"github.com/eletroerp/backend/internal/domain/catalog"
	"github.com/eletroerp/backend/internal/domain/inventory"
	"github.com/eletroerp/backend/internal/domain/partner"
	"github.com/eletroerp/backend/internal/domain/purchasing"
	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repository set backing the service tests.

type memStore struct {
	purchases map[uuid.UUID]*purchasing.Purchase
	materials map[uuid.UUID]*catalog.Material
	suppliers map[uuid.UUID]*partner.Supplier
	movements []*inventory.StockMovement
}

func newMemStore() *memStore {
	return &memStore{
		purchases: make(map[uuid.UUID]*purchasing.Purchase),
		materials: make(map[uuid.UUID]*catalog.Material),
		suppliers: make(map[uuid.UUID]*partner.Supplier),
	}
}

func (s *memStore) scope() *inventoryapp.NoOpTransactionScope {
	return inventoryapp.NewNoOpTransactionScope(
		&memPurchaseRepo{s},
		&memMaterialRepo{s},
		&memSupplierRepo{s},
		&memMovementRepo{s},
	)
}

func (s *memStore) movementsFor(materialID uuid.UUID) []*inventory.StockMovement {
	var out []*inventory.StockMovement
	for _, m := range s.movements {
		if m.MaterialID == materialID {
			out = append(out, m)
		}
	}
	return out
}

type memPurchaseRepo struct{ s *memStore }

func (r *memPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*purchasing.Purchase, error) {
	if p, ok := r.s.purchases[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memPurchaseRepo) FindBySupplierAndInvoice(_ context.Context, supplierID uuid.UUID, invoiceNumber string) (*purchasing.Purchase, error) {
	for _, p := range r.s.purchases {
		if p.SupplierID == supplierID && p.InvoiceNumber == invoiceNumber {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memPurchaseRepo) FindReceivedWithPendingFractioning(_ context.Context) ([]*purchasing.Purchase, error) {
	var pending []*purchasing.Purchase
	for _, p := range r.s.purchases {
		if p.IsReceived() && p.HasFractioningPending() {
			pending = append(pending, p)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending, nil
}

func (r *memPurchaseRepo) List(_ context.Context, filter shared.Filter) (*shared.Paginated[*purchasing.Purchase], error) {
	all := make([]*purchasing.Purchase, 0, len(r.s.purchases))
	for _, p := range r.s.purchases {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	page := shared.NewPaginated(all, int64(len(all)), filter.Page, filter.Limit())
	return &page, nil
}

func (r *memPurchaseRepo) Save(_ context.Context, purchase *purchasing.Purchase) error {
	r.s.purchases[purchase.ID] = purchase
	return nil
}

type memMaterialRepo struct{ s *memStore }

func (r *memMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Material, error) {
	if m, ok := r.s.materials[id]; ok {
		return m, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memMaterialRepo) FindByCode(_ context.Context, code string) (*catalog.Material, error) {
	for _, m := range r.s.materials {
		if m.Code == code {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMaterialRepo) FindByTaxCode(_ context.Context, taxCode string) (*catalog.Material, error) {
	for _, m := range r.s.materials {
		if m.TaxCode == taxCode {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMaterialRepo) FindByNamePrefix(_ context.Context, fragment string) (*catalog.Material, error) {
	for _, m := range r.s.materials {
		if strings.Contains(strings.ToLower(m.Name), strings.ToLower(fragment)) {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMaterialRepo) Save(_ context.Context, material *catalog.Material) error {
	r.s.materials[material.ID] = material
	return nil
}

type memSupplierRepo struct{ s *memStore }

func (r *memSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Supplier, error) {
	if sup, ok := r.s.suppliers[id]; ok {
		return sup, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memSupplierRepo) FindByTaxID(_ context.Context, taxID string) (*partner.Supplier, error) {
	for _, sup := range r.s.suppliers {
		if sup.TaxID == taxID {
			return sup, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSupplierRepo) Save(_ context.Context, supplier *partner.Supplier) error {
	r.s.suppliers[supplier.ID] = supplier
	return nil
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Append(_ context.Context, movement *inventory.StockMovement) error {
	r.s.movements = append(r.s.movements, movement)
	return nil
}

func (r *memMovementRepo) FindByReference(_ context.Context, referenceID string) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, m := range r.s.movements {
		if m.ReferenceID == referenceID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) SumByMaterialAndReference(_ context.Context, materialID uuid.UUID, referenceID string, reason inventory.MovementReason) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.s.movements {
		if m.MaterialID == materialID && m.ReferenceID == referenceID && m.Reason == reason {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}
