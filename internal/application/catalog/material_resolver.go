package catalog

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/eletroerp/backend/internal/domain/catalog"
	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/eletroerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// nameMatchPrefixLen bounds the name fragment used for the fuzzy lookup
const nameMatchPrefixLen = 20

// MaterialResolver maps a free-text purchase line (product name, tax code,
// unit price) onto a catalog material, creating one when nothing matches.
// Resolution order: tax classification code first, then a name-fragment
// lookup, then creation. Matched materials get their price and supplier
// reference refreshed when the quoted price differs.
type MaterialResolver struct {
	materialRepo catalog.MaterialRepository
	logger       *zap.Logger
}

// NewMaterialResolver creates a new MaterialResolver
func NewMaterialResolver(materialRepo catalog.MaterialRepository, logger *zap.Logger) *MaterialResolver {
	return &MaterialResolver{
		materialRepo: materialRepo,
		logger:       logger,
	}
}

// Resolve returns the material for a purchase line, creating it if needed.
func (r *MaterialResolver) Resolve(ctx context.Context, productName, taxCode string, unitPrice valueobject.Money, supplierID *uuid.UUID) (*catalog.Material, error) {
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}

	material, err := r.findExisting(ctx, productName, taxCode)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}

	if material != nil {
		if material.NeedsPriceRefresh(unitPrice) {
			if err := material.RefreshPricing(unitPrice, supplierID); err != nil {
				return nil, err
			}
			if err := r.materialRepo.Save(ctx, material); err != nil {
				return nil, err
			}
		}
		return material, nil
	}

	return r.create(ctx, productName, taxCode, unitPrice, supplierID)
}

// findExisting tries the tax code first, then a case-insensitive name
// fragment.
func (r *MaterialResolver) findExisting(ctx context.Context, productName, taxCode string) (*catalog.Material, error) {
	if taxCode != "" {
		material, err := r.materialRepo.FindByTaxCode(ctx, taxCode)
		if err == nil {
			return material, nil
		}
		if !shared.IsNotFound(err) {
			return nil, err
		}
	}

	fragment := productName
	if len(fragment) > nameMatchPrefixLen {
		fragment = fragment[:nameMatchPrefixLen]
	}
	fragment = strings.TrimSpace(fragment)

	return r.materialRepo.FindByNamePrefix(ctx, fragment)
}

// create builds a new catalog entry with zero stock. The generated code
// carries a random suffix; a uniqueness conflict on insert means another
// resolution won the race, so the winner is looked up and reused.
func (r *MaterialResolver) create(ctx context.Context, productName, taxCode string, unitPrice valueobject.Money, supplierID *uuid.UUID) (*catalog.Material, error) {
	code := generateMaterialCode(taxCode)
	category := catalog.ClassifyMaterial(productName)

	material, err := catalog.NewMaterial(productName, code, category, taxCode, unitPrice, supplierID)
	if err != nil {
		return nil, err
	}

	if err := r.materialRepo.Save(ctx, material); err != nil {
		if shared.HasCode(err, "ALREADY_EXISTS") {
			r.logger.Warn("material code conflict, reusing concurrent winner",
				zap.String("code", code),
				zap.String("product_name", productName))
			return r.findExisting(ctx, productName, taxCode)
		}
		return nil, err
	}

	r.logger.Info("created material from purchase line",
		zap.String("material_id", material.ID.String()),
		zap.String("code", code),
		zap.String("category", category.String()))

	return material, nil
}

// generateMaterialCode derives a catalog code from the tax code when present,
// otherwise from a timestamp, with a random suffix against collisions.
func generateMaterialCode(taxCode string) string {
	suffix := rand.Intn(10000)
	if taxCode != "" {
		return fmt.Sprintf("%s-%04d", taxCode, suffix)
	}
	return fmt.Sprintf("MAT-%s-%04d", time.Now().Format("20060102150405"), suffix)
}
