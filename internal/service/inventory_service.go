package service

import (
	"context"

	"github.com/ozodbekAI/service/internal/entity"
	"github.com/ozodbekAI/service/internal/repository"
	"gorm.io/gorm"
)

// InventoryService is the inventory ledger: check-then-decrement happens
// as one conditional update per reservation, so stock is never persisted
// negative.
type InventoryService struct {
	products *repository.ProductRepository
}

func NewInventoryService(products *repository.ProductRepository) *InventoryService {
	return &InventoryService{products: products}
}

// WithTx returns a ledger bound to the given transaction so callers can
// reserve and release as part of a larger atomic unit.
func (s *InventoryService) WithTx(tx *gorm.DB) *InventoryService {
	return &InventoryService{products: repository.NewProductRepository(tx)}
}

// Reserve allocates qty units of a product. Fails with
// repository.ErrInsufficientStock when stock is short and
// repository.ErrNotFound when the product does not exist.
func (s *InventoryService) Reserve(ctx context.Context, productID string, qty int) error {
	if qty < 1 {
		return validation("Quantity must be at least 1")
	}
	return s.products.Reserve(ctx, productID, qty)
}

// Release refunds a previously reserved quantity.
func (s *InventoryService) Release(ctx context.Context, productID string, qty int) error {
	return s.products.Release(ctx, productID, qty)
}

// LowStock reports whether a product sits at or below the notification
// threshold.
func (s *InventoryService) LowStock(p *entity.Product) bool {
	return p.LowStock()
}
