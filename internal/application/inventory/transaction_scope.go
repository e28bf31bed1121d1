package inventory

import (
	"context"

	"github.com/eletroerp/backend/internal/domain/catalog"
	"github.com/eletroerp/backend/internal/domain/inventory"
	"github.com/eletroerp/backend/internal/domain/partner"
	"github.com/eletroerp/backend/internal/domain/purchasing"
)

// TransactionScope provides transactional access to the repositories touched
// by receiving and reconciliation. When a function is executed within a
// transaction scope, all repository operations are part of the same database
// transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// Purchases returns the purchase repository scoped to the current transaction
	Purchases() purchasing.PurchaseRepository
	// Materials returns the material repository scoped to the current transaction
	Materials() catalog.MaterialRepository
	// Suppliers returns the supplier repository scoped to the current transaction
	Suppliers() partner.SupplierRepository
	// Movements returns the stock movement repository scoped to the current transaction
	Movements() inventory.StockMovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	purchaseRepo purchasing.PurchaseRepository
	materialRepo catalog.MaterialRepository
	supplierRepo partner.SupplierRepository
	movementRepo inventory.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	purchaseRepo purchasing.PurchaseRepository,
	materialRepo catalog.MaterialRepository,
	supplierRepo partner.SupplierRepository,
	movementRepo inventory.StockMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		purchaseRepo: purchaseRepo,
		materialRepo: materialRepo,
		supplierRepo: supplierRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Purchases returns the purchase repository.
func (s *NoOpTransactionScope) Purchases() purchasing.PurchaseRepository {
	return s.purchaseRepo
}

// Materials returns the material repository.
func (s *NoOpTransactionScope) Materials() catalog.MaterialRepository {
	return s.materialRepo
}

// Suppliers returns the supplier repository.
func (s *NoOpTransactionScope) Suppliers() partner.SupplierRepository {
	return s.supplierRepo
}

// Movements returns the stock movement repository.
func (s *NoOpTransactionScope) Movements() inventory.StockMovementRepository {
	return s.movementRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
