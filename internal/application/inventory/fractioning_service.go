package inventory

import (
	"context"
	"fmt"

	"github.com/eletroerp/backend/internal/domain/inventory"
	"github.com/eletroerp/backend/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FractioningTolerance is the numeric slack used when comparing movement sums
// against package and unit quantities.
var FractioningTolerance = decimal.NewFromFloat(0.01)

// Outcomes reported per line item by a reconciliation run
const (
	FractioningOutcomeAdjusted       = "ADJUSTED"
	FractioningOutcomeAlreadyInUnits = "ALREADY_IN_UNITS"
	FractioningOutcomeOverApplied    = "OVER_APPLIED"
	FractioningOutcomeNoMaterial     = "NO_MATERIAL"
	FractioningOutcomeFailed         = "FAILED"
)

// FractioningItemDetail describes what the reconciliation did to one line item
type FractioningItemDetail struct {
	PurchaseID    uuid.UUID       `json:"purchase_id"`
	InvoiceNumber string          `json:"invoice_number"`
	ItemID        uuid.UUID       `json:"item_id"`
	ProductName   string          `json:"product_name"`
	Outcome       string          `json:"outcome"`
	Correction    decimal.Decimal `json:"correction"`
	Error         string          `json:"error,omitempty"`
}

// FractioningResult is the report of one reconciliation run
type FractioningResult struct {
	PurchasesProcessed int                     `json:"purchases_processed"`
	ItemsAdjusted      int                     `json:"items_adjusted"`
	Details            []FractioningItemDetail `json:"details"`
}

// FractioningService corrects package-denominated stock credits into unit
// counts for received purchases whose line items declare a units-per-package
// factor. The original receipt did not record which denomination it credited,
// so the service infers it from the movement history and applies one net
// correction per line item, exactly once.
type FractioningService struct {
	txScope TransactionScope
	ledger  *StockLedger
	logger  *zap.Logger
}

// NewFractioningService creates a new FractioningService
func NewFractioningService(txScope TransactionScope, ledger *StockLedger, logger *zap.Logger) *FractioningService {
	return &FractioningService{
		txScope: txScope,
		ledger:  ledger,
		logger:  logger,
	}
}

// ReconcilePending processes every received purchase that still has a line
// item awaiting its package-to-unit correction. Each purchase runs in its own
// transaction, so a failure mid-batch leaves earlier purchases committed and
// later ones untouched. Failures that happen before any stock write are
// collected into the result; a failed stock write rolls the whole purchase
// back so it comes around again on a later run.
func (s *FractioningService) ReconcilePending(ctx context.Context) (*FractioningResult, error) {
	result := &FractioningResult{Details: make([]FractioningItemDetail, 0)}

	var pendingIDs []uuid.UUID
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		purchases, err := repos.Purchases().FindReceivedWithPendingFractioning(ctx)
		if err != nil {
			return err
		}
		for _, p := range purchases {
			pendingIDs = append(pendingIDs, p.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, purchaseID := range pendingIDs {
		if err := s.reconcilePurchase(ctx, purchaseID, result); err != nil {
			s.logger.Error("fractioning reconciliation failed for purchase",
				zap.String("purchase_id", purchaseID.String()),
				zap.Error(err))
			continue
		}
		result.PurchasesProcessed++
	}

	return result, nil
}

// reconcilePurchase corrects every pending line item of one purchase inside a
// single transaction. Details merge into the result only after the transaction
// commits, so a rolled-back purchase reports nothing and stays in the queue.
func (s *FractioningService) reconcilePurchase(ctx context.Context, purchaseID uuid.UUID, result *FractioningResult) error {
	var details []FractioningItemDetail
	adjusted := 0

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		details = details[:0]
		adjusted = 0

		purchase, err := repos.Purchases().FindByID(ctx, purchaseID)
		if err != nil {
			return err
		}

		for idx := range purchase.Items {
			item := &purchase.Items[idx]
			if !item.NeedsFractioning() {
				continue
			}

			detail, err := s.reconcileItem(ctx, repos, purchase, item)
			if err != nil {
				return err
			}
			details = append(details, detail)
			if detail.Outcome == FractioningOutcomeAdjusted {
				adjusted++
			}
		}

		return repos.Purchases().Save(ctx, purchase)
	})
	if err != nil {
		return err
	}

	result.Details = append(result.Details, details...)
	result.ItemsAdjusted += adjusted
	return nil
}

// reconcileItem applies the package-to-unit correction to one line item. The
// fractioning-applied flag is set in every branch that completes, so an item
// is never reprocessed. Failures before any stock write are reported in the
// detail; a failed ledger write returns an error so the purchase's
// transaction rolls back and the item is retried on a later run.
func (s *FractioningService) reconcileItem(ctx context.Context, repos TransactionalRepositories, purchase *purchasing.Purchase, item *purchasing.PurchaseItem) (FractioningItemDetail, error) {
	detail := FractioningItemDetail{
		PurchaseID:    purchase.ID,
		InvoiceNumber: purchase.InvoiceNumber,
		ItemID:        item.ID,
		ProductName:   item.ProductName,
		Correction:    decimal.Zero,
	}

	if !item.HasMaterial() {
		_ = item.MarkFractioningApplied()
		detail.Outcome = FractioningOutcomeNoMaterial
		detail.Error = "line item has no catalog material bound"
		s.logger.Warn("skipping fractioning for unbound line item",
			zap.String("purchase_id", purchase.ID.String()),
			zap.String("product_name", item.ProductName))
		return detail, nil
	}

	materialID := *item.MaterialID
	packageQty := item.Quantity
	targetUnits := item.TargetUnits()
	referenceID := purchase.ID.String()

	alreadyApplied, err := repos.Movements().SumByMaterialAndReference(ctx, materialID, referenceID, inventory.ReasonPurchaseReceipt)
	if err != nil {
		detail.Outcome = FractioningOutcomeFailed
		detail.Error = err.Error()
		return detail, nil
	}

	// Infer the denomination the receipt credited. No movement at all is
	// treated the same as a package-denominated credit.
	var correction decimal.Decimal
	appliedInPackages := false
	switch {
	case alreadyApplied.Abs().LessThanOrEqual(FractioningTolerance):
		correction = targetUnits.Sub(packageQty)
		appliedInPackages = true
	case alreadyApplied.Sub(packageQty).Abs().LessThanOrEqual(FractioningTolerance):
		correction = targetUnits.Sub(alreadyApplied)
		appliedInPackages = true
	case alreadyApplied.Sub(targetUnits).Abs().LessThanOrEqual(FractioningTolerance):
		correction = decimal.Zero
	default:
		correction = targetUnits.Sub(alreadyApplied)
	}

	switch {
	case correction.GreaterThan(FractioningTolerance):
		note := fmt.Sprintf("Fractioning %s %s x %s = %s %s",
			packageQty.String(), packageLabel(item), item.UnitsPerPackage.String(), targetUnits.String(), unitLabel(item))
		if appliedInPackages {
			_, err = s.ledger.Refraction(ctx, repos, materialID, packageQty, targetUnits, referenceID, note)
		} else {
			_, err = s.ledger.Adjust(ctx, repos, materialID, correction, inventory.ReasonFractioningAdjustment, referenceID, note)
		}
		if err != nil {
			return detail, fmt.Errorf("apply stock correction for item %s: %w", item.ID, err)
		}
		detail.Outcome = FractioningOutcomeAdjusted
		detail.Correction = correction

	case correction.LessThan(FractioningTolerance.Neg()):
		// More stock than the target is attributable to this purchase.
		// Decrementing here risks double-correcting an ambiguous history,
		// so the discrepancy is reported and left alone.
		detail.Outcome = FractioningOutcomeOverApplied
		detail.Correction = correction
		s.logger.Warn("fractioning found more stock than target, leaving as is",
			zap.String("purchase_id", purchase.ID.String()),
			zap.String("product_name", item.ProductName),
			zap.String("already_applied", alreadyApplied.String()),
			zap.String("target_units", targetUnits.String()))

	default:
		detail.Outcome = FractioningOutcomeAlreadyInUnits
	}

	if err := item.MarkFractioningApplied(); err != nil {
		detail.Outcome = FractioningOutcomeFailed
		detail.Error = err.Error()
	}
	return detail, nil
}

func packageLabel(item *purchasing.PurchaseItem) string {
	if item.PackageType != "" {
		return item.PackageType
	}
	return "package"
}

func unitLabel(item *purchasing.PurchaseItem) string {
	if item.PackageUnit != "" {
		return item.PackageUnit
	}
	return "UN"
}
