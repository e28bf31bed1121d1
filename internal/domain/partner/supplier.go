package partner

import (
	"strings"

	"github.com/eletroerp/backend/internal/domain/shared"
)

// Supplier represents a material supplier
type Supplier struct {
	shared.BaseAggregateRoot
	Name   string `gorm:"type:varchar(200);not null"`
	TaxID  string `gorm:"type:varchar(20);uniqueIndex:idx_supplier_tax_id"` // CNPJ
	Phone  string `gorm:"type:varchar(30)"`
	Email  string `gorm:"type:varchar(200)"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(name, taxID, phone string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		TaxID:             strings.TrimSpace(taxID),
		Phone:             strings.TrimSpace(phone),
		Active:            true,
	}, nil
}

// UpdateContact updates the supplier's contact information
func (s *Supplier) UpdateContact(phone, email string) {
	s.Phone = strings.TrimSpace(phone)
	s.Email = strings.TrimSpace(email)
	s.Touch()
	s.IncrementVersion()
}

// Deactivate marks the supplier as inactive
func (s *Supplier) Deactivate() {
	s.Active = false
	s.Touch()
	s.IncrementVersion()
}
