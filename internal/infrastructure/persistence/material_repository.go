package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/eletroerp/backend/internal/domain/catalog"
	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMaterialRepository implements MaterialRepository using GORM
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewGormMaterialRepository creates a new GormMaterialRepository
func NewGormMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{db: db}
}

// FindByID finds a material by ID
func (r *GormMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Material, error) {
	var material catalog.Material
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindByCode finds a material by its unique catalog code
func (r *GormMaterialRepository) FindByCode(ctx context.Context, code string) (*catalog.Material, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_MATERIAL_CODE", "Material code cannot be empty")
	}
	var material catalog.Material
	if err := r.db.WithContext(ctx).First(&material, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindByTaxCode finds the first material carrying the given tax classification code
func (r *GormMaterialRepository) FindByTaxCode(ctx context.Context, taxCode string) (*catalog.Material, error) {
	if taxCode == "" {
		return nil, shared.ErrNotFound
	}
	var material catalog.Material
	if err := r.db.WithContext(ctx).
		Where("tax_code = ?", taxCode).
		Order("created_at ASC").
		First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindByNamePrefix finds the first material whose name contains the given
// fragment, case-insensitively.
func (r *GormMaterialRepository) FindByNamePrefix(ctx context.Context, fragment string) (*catalog.Material, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, shared.ErrNotFound
	}
	var material catalog.Material
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?)", "%"+fragment+"%").
		Order("created_at ASC").
		First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// Save creates or updates a material
func (r *GormMaterialRepository) Save(ctx context.Context, material *catalog.Material) error {
	if err := r.db.WithContext(ctx).Save(material).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Ensure GormMaterialRepository implements MaterialRepository
var _ catalog.MaterialRepository = (*GormMaterialRepository)(nil)
