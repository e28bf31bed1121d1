package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	appinv "github.com/eletroerp/backend/internal/application/inventory"
	"github.com/eletroerp/backend/internal/domain/catalog"
	"github.com/eletroerp/backend/internal/domain/inventory"
	"github.com/eletroerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flakyMovementScope delegates to a real transaction scope but hands out a
// movement repository whose fractioning-adjustment appends fail while the
// failing flag is set.
type flakyMovementScope struct {
	inner   appinv.TransactionScope
	failing bool
}

func (s *flakyMovementScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.inner.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		return fn(&flakyMovementRepos{TransactionalRepositories: repos, failing: &s.failing})
	})
}

type flakyMovementRepos struct {
	appinv.TransactionalRepositories
	failing *bool
}

func (r *flakyMovementRepos) Movements() inventory.StockMovementRepository {
	return &flakyMovementRepo{StockMovementRepository: r.TransactionalRepositories.Movements(), failing: r.failing}
}

type flakyMovementRepo struct {
	inventory.StockMovementRepository
	failing *bool
}

func (r *flakyMovementRepo) Append(ctx context.Context, movement *inventory.StockMovement) error {
	if *r.failing && movement.Reason == inventory.ReasonFractioningAdjustment {
		return errors.New("movement store unavailable")
	}
	return r.StockMovementRepository.Append(ctx, movement)
}

func TestFractioningService_MovementFailureRollsBackPurchase(t *testing.T) {
	db := openTestDB(t)

	material, err := catalog.NewMaterial("Parafuso fenda 4x40", "MAT-0001", catalog.CategoryConsumable, "", valueobject.NewMoneyBRL(decimal.NewFromInt(12)), nil)
	require.NoError(t, err)
	require.NoError(t, material.ApplyStockDelta(decimal.NewFromInt(3)))
	materialRepo := NewGormMaterialRepository(db)
	require.NoError(t, materialRepo.Save(context.Background(), material))

	supplier := savedSupplier(t, db)
	purchase := savedPurchase(t, db, supplier, "NF-1042")
	for i := range purchase.Items {
		if purchase.Items[i].ProductName == "Parafuso fenda 4x40" {
			require.NoError(t, purchase.Items[i].BindMaterial(material.ID))
		}
	}
	purchase.MarkReceived(time.Now())
	purchaseRepo := NewGormPurchaseRepository(db)
	require.NoError(t, purchaseRepo.Save(context.Background(), purchase))

	receipt, err := inventory.NewStockMovement(material.ID, decimal.NewFromInt(3), inventory.ReasonPurchaseReceipt, purchase.ID.String(), "Receipt NF-1042")
	require.NoError(t, err)
	movementRepo := NewGormStockMovementRepository(db)
	require.NoError(t, movementRepo.Append(context.Background(), receipt))

	scope := &flakyMovementScope{inner: NewGormTransactionScope(db), failing: true}
	service := appinv.NewFractioningService(scope, appinv.NewStockLedger(), zap.NewNop())

	result, err := service.ReconcilePending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.PurchasesProcessed)
	assert.Empty(t, result.Details)

	// The whole purchase rolled back: on-hand untouched, no correction
	// movement, still queued for reconciliation
	reloaded, err := materialRepo.FindByID(context.Background(), material.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.QuantityOnHand.Equal(decimal.NewFromInt(3)))

	movements, err := movementRepo.FindByReference(context.Background(), purchase.ID.String())
	require.NoError(t, err)
	assert.Len(t, movements, 1)

	pending, err := purchaseRepo.FindReceivedWithPendingFractioning(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// Once the store recovers, the correction applies exactly once
	scope.failing = false
	result, err = service.ReconcilePending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.PurchasesProcessed)
	assert.Equal(t, 1, result.ItemsAdjusted)

	reloaded, err = materialRepo.FindByID(context.Background(), material.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.QuantityOnHand.Equal(decimal.NewFromInt(150)))

	movements, err = movementRepo.FindByReference(context.Background(), purchase.ID.String())
	require.NoError(t, err)
	assert.Len(t, movements, 2)

	pending, err = purchaseRepo.FindReceivedWithPendingFractioning(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}
