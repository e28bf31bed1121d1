package persistence

import (
	"github.com/eletroerp/backend/internal/domain/catalog"
	"github.com/eletroerp/backend/internal/domain/finance"
	"github.com/eletroerp/backend/internal/domain/inventory"
	"github.com/eletroerp/backend/internal/domain/partner"
	"github.com/eletroerp/backend/internal/domain/purchasing"
)

// AutoMigrate creates or updates the schema for every aggregate the engine
// persists.
func (d *Database) AutoMigrate() error {
	return d.DB.AutoMigrate(
		&partner.Supplier{},
		&catalog.Material{},
		&purchasing.Purchase{},
		&purchasing.PurchaseItem{},
		&inventory.StockMovement{},
		&finance.PayableAccount{},
	)
}
