package persistence

import (
	"context"
	"testing"
	"time"

	appinv "github.com/eletroerp/backend/internal/application/inventory"
	"github.com/eletroerp/backend/internal/domain/catalog"
	"github.com/eletroerp/backend/internal/domain/finance"
	"github.com/eletroerp/backend/internal/domain/inventory"
	"github.com/eletroerp/backend/internal/domain/partner"
	"github.com/eletroerp/backend/internal/domain/purchasing"
	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/eletroerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens an in-memory SQLite database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	database := &Database{DB: db}
	require.NoError(t, database.AutoMigrate())
	t.Cleanup(func() { _ = database.Close() })
	return db
}

func savedSupplier(t *testing.T, db *gorm.DB) *partner.Supplier {
	t.Helper()
	supplier, err := partner.NewSupplier("Eletrica Central LTDA", "12345678000190", "(11) 4002-8922")
	require.NoError(t, err)
	require.NoError(t, NewGormSupplierRepository(db).Save(context.Background(), supplier))
	return supplier
}

func savedPurchase(t *testing.T, db *gorm.DB, supplier *partner.Supplier, invoiceNumber string) *purchasing.Purchase {
	t.Helper()
	purchase, err := purchasing.NewPurchase(supplier.ID, supplier.Name, supplier.TaxID, supplier.Phone, invoiceNumber, time.Now(), time.Now())
	require.NoError(t, err)

	_, err = purchase.AddItem("Cabo flexivel 2.5mm 750V", "85444900", decimal.NewFromInt(100), valueobject.NewMoneyBRL(decimal.NewFromFloat(1.85)), nil)
	require.NoError(t, err)
	fifty := decimal.NewFromInt(50)
	_, err = purchase.AddItem("Parafuso fenda 4x40", "", decimal.NewFromInt(3), valueobject.NewMoneyBRL(decimal.NewFromInt(12)), &purchasing.FractioningSpec{
		UnitsPerPackage: fifty,
		PackageType:     "caixa",
		PackageUnit:     "UN",
	})
	require.NoError(t, err)
	require.NoError(t, purchase.FinalizeTotals(decimal.Zero))

	require.NoError(t, NewGormPurchaseRepository(db).Save(context.Background(), purchase))
	return purchase
}

func TestGormPurchaseRepository(t *testing.T) {
	t.Run("round trips a purchase with items", func(t *testing.T) {
		db := openTestDB(t)
		supplier := savedSupplier(t, db)
		purchase := savedPurchase(t, db, supplier, "NF-1042")

		repo := NewGormPurchaseRepository(db)
		loaded, err := repo.FindByID(context.Background(), purchase.ID)
		require.NoError(t, err)

		assert.Equal(t, purchase.InvoiceNumber, loaded.InvoiceNumber)
		require.Len(t, loaded.Items, 2)
		assert.True(t, loaded.Subtotal.Equal(decimal.NewFromInt(221)))
		assert.Equal(t, purchasing.PaymentTermsNone, loaded.PaymentTerms.Kind)
	})

	t.Run("finds by supplier and invoice", func(t *testing.T) {
		db := openTestDB(t)
		supplier := savedSupplier(t, db)
		purchase := savedPurchase(t, db, supplier, "NF-1042")

		repo := NewGormPurchaseRepository(db)
		loaded, err := repo.FindBySupplierAndInvoice(context.Background(), supplier.ID, "NF-1042")
		require.NoError(t, err)
		assert.Equal(t, purchase.ID, loaded.ID)

		_, err = repo.FindBySupplierAndInvoice(context.Background(), supplier.ID, "NF-9999")
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("persists payment terms as json", func(t *testing.T) {
		db := openTestDB(t)
		supplier := savedSupplier(t, db)
		purchase := savedPurchase(t, db, supplier, "NF-1042")

		firstDue := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		purchase.PaymentTerms = purchasing.NewParcelTerms(3, firstDue, "3x sem juros")

		repo := NewGormPurchaseRepository(db)
		require.NoError(t, repo.Save(context.Background(), purchase))

		loaded, err := repo.FindByID(context.Background(), purchase.ID)
		require.NoError(t, err)
		assert.Equal(t, purchasing.PaymentTermsParcels, loaded.PaymentTerms.Kind)
		assert.Equal(t, 3, loaded.PaymentTerms.ParcelCount)
		require.NotNil(t, loaded.PaymentTerms.FirstDueDate)
		assert.True(t, firstDue.Equal(*loaded.PaymentTerms.FirstDueDate))
	})

	t.Run("finds received purchases with pending fractioning", func(t *testing.T) {
		db := openTestDB(t)
		supplier := savedSupplier(t, db)
		repo := NewGormPurchaseRepository(db)

		boxed := savedPurchase(t, db, supplier, "NF-1042")
		boxed.MarkReceived(time.Now())
		for i := range boxed.Items {
			boxed.Items[i].MarkReceived(time.Now())
		}
		require.NoError(t, repo.Save(context.Background(), boxed))

		// Still pending delivery, must not show up
		savedPurchase(t, db, supplier, "NF-1043")

		pending, err := repo.FindReceivedWithPendingFractioning(context.Background())
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, boxed.ID, pending[0].ID)

		// Applying the correction clears it from the queue
		for i := range pending[0].Items {
			pending[0].Items[i].MarkFractioningApplied()
		}
		require.NoError(t, repo.Save(context.Background(), pending[0]))

		pending, err = repo.FindReceivedWithPendingFractioning(context.Background())
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("deletes items removed from the aggregate", func(t *testing.T) {
		db := openTestDB(t)
		supplier := savedSupplier(t, db)
		purchase := savedPurchase(t, db, supplier, "NF-1042")

		purchase.Items = purchase.Items[:1]
		repo := NewGormPurchaseRepository(db)
		require.NoError(t, repo.Save(context.Background(), purchase))

		loaded, err := repo.FindByID(context.Background(), purchase.ID)
		require.NoError(t, err)
		assert.Len(t, loaded.Items, 1)
	})

	t.Run("lists with status filter and search", func(t *testing.T) {
		db := openTestDB(t)
		supplier := savedSupplier(t, db)
		repo := NewGormPurchaseRepository(db)

		received := savedPurchase(t, db, supplier, "NF-1042")
		received.MarkReceived(time.Now())
		require.NoError(t, repo.Save(context.Background(), received))
		savedPurchase(t, db, supplier, "NF-1043")

		page, err := repo.List(context.Background(), shared.Filter{
			Page:     1,
			PageSize: 10,
			Filters:  map[string]interface{}{"status": "RECEIVED"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, received.ID, page.Items[0].ID)

		page, err = repo.List(context.Background(), shared.Filter{Page: 1, PageSize: 10, Search: "1043"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})
}

func TestGormStockMovementRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormStockMovementRepository(db)

	materialID := uuid.New()
	referenceID := uuid.New().String()

	credit, err := inventory.NewStockMovement(materialID, decimal.NewFromInt(3), inventory.ReasonPurchaseReceipt, referenceID, "Receipt NF-1042")
	require.NoError(t, err)
	require.NoError(t, repo.Append(context.Background(), credit))

	correction, err := inventory.NewStockMovement(materialID, decimal.NewFromInt(147), inventory.ReasonFractioningAdjustment, referenceID, "")
	require.NoError(t, err)
	require.NoError(t, repo.Append(context.Background(), correction))

	movements, err := repo.FindByReference(context.Background(), referenceID)
	require.NoError(t, err)
	assert.Len(t, movements, 2)

	sum, err := repo.SumByMaterialAndReference(context.Background(), materialID, referenceID, inventory.ReasonPurchaseReceipt)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(3)))

	// No rows for this reason yields zero, not an error
	sum, err = repo.SumByMaterialAndReference(context.Background(), materialID, referenceID, inventory.ReasonManualAdjustment)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestGormMaterialRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormMaterialRepository(db)

	material, err := catalog.NewMaterial("Cabo flexivel 2.5mm 750V", "85444900-0001", catalog.CategoryElectricalMaterial, "85444900", valueobject.NewMoneyBRL(decimal.NewFromFloat(1.85)), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), material))

	byTax, err := repo.FindByTaxCode(context.Background(), "85444900")
	require.NoError(t, err)
	assert.Equal(t, material.ID, byTax.ID)

	byName, err := repo.FindByNamePrefix(context.Background(), "cabo flexivel")
	require.NoError(t, err)
	assert.Equal(t, material.ID, byName.ID)

	_, err = repo.FindByTaxCode(context.Background(), "")
	assert.True(t, shared.IsNotFound(err))

	_, err = repo.FindByNamePrefix(context.Background(), "inexistente")
	assert.True(t, shared.IsNotFound(err))
}

func TestGormPayableRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormPayableRepository(db)

	purchaseID := uuid.New()
	for i := 1; i <= 2; i++ {
		payable, err := finance.NewPayableAccount(uuid.New(), "Eletrica Central LTDA", purchaseID, "NF-1042", i, 2,
			time.Date(2026, 4, i, 0, 0, 0, 0, time.UTC), valueobject.NewMoneyBRL(decimal.NewFromInt(100)))
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), payable))
	}

	exists, err := repo.ExistsByPurchase(context.Background(), purchaseID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByPurchase(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)

	payables, err := repo.FindByPurchase(context.Background(), purchaseID)
	require.NoError(t, err)
	require.Len(t, payables, 2)
	assert.Equal(t, 1, payables[0].InstallmentNumber)

	open, err := repo.FindOpen(context.Background())
	require.NoError(t, err)
	assert.Len(t, open, 2)

	require.NoError(t, payables[0].MarkPaid(time.Now()))
	require.NoError(t, repo.Save(context.Background(), payables[0]))

	open, err = repo.FindOpen(context.Background())
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	scope := NewGormTransactionScope(db)

	supplier, err := partner.NewSupplier("Eletrica Central LTDA", "12345678000190", "")
	require.NoError(t, err)

	execErr := scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		if err := repos.Suppliers().Save(context.Background(), supplier); err != nil {
			return err
		}
		return shared.NewDomainError("VALIDATION", "forced failure")
	})
	assert.True(t, shared.HasCode(execErr, "VALIDATION"))

	_, err = NewGormSupplierRepository(db).FindByID(context.Background(), supplier.ID)
	assert.True(t, shared.IsNotFound(err))
}

func TestGormTransactionScope_CommitsOnSuccess(t *testing.T) {
	db := openTestDB(t)
	scope := NewGormTransactionScope(db)

	supplier, err := partner.NewSupplier("Eletrica Central LTDA", "12345678000190", "")
	require.NoError(t, err)

	require.NoError(t, scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		return repos.Suppliers().Save(context.Background(), supplier)
	}))

	loaded, err := NewGormSupplierRepository(db).FindByID(context.Background(), supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, "12345678000190", loaded.TaxID)
}
