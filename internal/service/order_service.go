package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ozodbekAI/service/internal/entity"
	"github.com/ozodbekAI/service/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService drives the order state machine:
// client_approved → in_process → completed, or client_approved → rejected,
// and manages product reservations charged against inventory.
type OrderService struct {
	db        *gorm.DB
	repo      *repository.OrderRepository
	products  *repository.ProductRepository
	inventory *InventoryService
	notifier  *NotificationService
	logger    *zap.Logger
}

func NewOrderService(db *gorm.DB, repo *repository.OrderRepository, products *repository.ProductRepository, inventory *InventoryService, notifier *NotificationService, logger *zap.Logger) *OrderService {
	return &OrderService{
		db:        db,
		repo:      repo,
		products:  products,
		inventory: inventory,
		notifier:  notifier,
		logger:    logger,
	}
}

// Get returns one order. Clients only see their own; managers see the
// orders they manage; admins see everything.
func (s *OrderService) Get(ctx context.Context, id string, user *entity.User) (*entity.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch user.Role {
	case entity.RoleAdmin:
		return o, nil
	case entity.RoleManager:
		if o.ManagerID != nil && *o.ManagerID == user.ID {
			return o, nil
		}
		return nil, repository.ErrNotFound
	default:
		if o.ClientID == user.ID {
			return o, nil
		}
		return nil, repository.ErrNotFound
	}
}

// List scopes by role like Get.
func (s *OrderService) List(ctx context.Context, user *entity.User) ([]entity.Order, error) {
	switch user.Role {
	case entity.RoleAdmin:
		return s.repo.FindAll(ctx)
	case entity.RoleManager:
		return s.repo.FindByManager(ctx, user.ID)
	default:
		return s.repo.FindByClient(ctx, user.ID)
	}
}

// Pending lists client-approved orders awaiting processing, scoped to
// the manager for non-admin staff.
func (s *OrderService) Pending(ctx context.Context, user *entity.User) ([]entity.Order, error) {
	if user.Role == entity.RoleAdmin {
		return s.repo.FindByStatus(ctx, entity.OrderStatusClientApproved)
	}
	return s.repo.FindByManagerAndStatus(ctx, user.ID, entity.OrderStatusClientApproved)
}

func (s *OrderService) ByClient(ctx context.Context, clientID string) ([]entity.Order, error) {
	return s.repo.FindByClient(ctx, clientID)
}

// StartProcessing moves client_approved → in_process and stamps the
// start time.
func (s *OrderService) StartProcessing(ctx context.Context, id string, staff *entity.User) (*entity.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.OrderCanTransition(o.Status, entity.OrderStatusInProcess) {
		return nil, invalidTransition("Only client-approved orders can be processed")
	}

	now := time.Now()
	o.Status = entity.OrderStatusInProcess
	o.StartTime = &now
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("order processing started",
		zap.String("order_id", o.ID),
		zap.String("staff_id", staff.ID),
	)
	s.notifier.OrderInProcess(ctx, o)
	return o, nil
}

// Complete finishes an in-process order. Only the assigned manager may
// complete it.
func (s *OrderService) Complete(ctx context.Context, id string, staff *entity.User) (*entity.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != entity.OrderStatusInProcess || o.ManagerID == nil || *o.ManagerID != staff.ID {
		return nil, invalidTransition("Only in-process orders assigned to you can be completed")
	}

	o.Status = entity.OrderStatusCompleted
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("order completed", zap.String("order_id", o.ID))
	s.notifier.OrderCompleted(ctx, o)
	return o, nil
}

// Reject turns down a client-approved order with a reason.
func (s *OrderService) Reject(ctx context.Context, id string, staff *entity.User, reason string) (*entity.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.OrderCanTransition(o.Status, entity.OrderStatusRejected) {
		return nil, invalidTransition("Only client-approved orders can be rejected")
	}
	if reason == "" {
		return nil, validation("Rejection reason is required")
	}

	o.Status = entity.OrderStatusRejected
	o.RejectionReason = reason
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	s.notifier.OrderRejected(ctx, o, reason)
	return o, nil
}

// AddProduct reserves qty units against the order. Repeated additions of
// the same product accumulate on one line instead of duplicating rows.
// When post-decrement stock is at or below the threshold every staff
// user gets a low_stock notification.
func (s *OrderService) AddProduct(ctx context.Context, id, productID string, qty int) (*entity.Order, error) {
	if productID == "" || qty < 1 {
		return nil, validation("Product ID and quantity are required.")
	}

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Product not found.")
		}
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger := s.inventory.WithTx(tx)
		orders := repository.NewOrderRepository(tx)

		if err := ledger.Reserve(ctx, productID, qty); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return insufficientStock(fmt.Sprintf("Not enough stock for %s", product.Name))
			}
			return err
		}

		line, err := orders.FindProductLine(ctx, o.ID, productID)
		switch {
		case err == nil:
			line.Quantity += qty
			return orders.UpdateProductLine(ctx, line)
		case errors.Is(err, repository.ErrNotFound):
			return orders.CreateProductLine(ctx, &entity.OrderProduct{
				ID:        uuid.New().String(),
				OrderID:   o.ID,
				ProductID: productID,
				Quantity:  qty,
			})
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	product, err = s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if s.inventory.LowStock(product) {
		s.notifier.LowStock(ctx, product)
	}

	return s.repo.FindByID(ctx, o.ID)
}

// RemoveProduct drops the reservation line for (order, product) and
// refunds the exact reserved quantity to stock.
func (s *OrderService) RemoveProduct(ctx context.Context, id, productID string) (*entity.Order, error) {
	if productID == "" {
		return nil, validation("Product ID is required.")
	}

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	line, err := s.repo.FindProductLine(ctx, o.ID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Product not assigned to this order.")
		}
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.inventory.WithTx(tx).Release(ctx, productID, line.Quantity); err != nil {
			return err
		}
		return repository.NewOrderRepository(tx).DeleteProductLine(ctx, line)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, o.ID)
}
