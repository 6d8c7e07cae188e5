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

// AnnouncementService drives the announcement state machine:
// pending → accepted/rejected → in_process → completed.
type AnnouncementService struct {
	db        *gorm.DB
	repo      *repository.AnnouncementRepository
	orders    *repository.OrderRepository
	inventory *InventoryService
	notifier  *NotificationService
	logger    *zap.Logger
}

func NewAnnouncementService(db *gorm.DB, repo *repository.AnnouncementRepository, orders *repository.OrderRepository, inventory *InventoryService, notifier *NotificationService, logger *zap.Logger) *AnnouncementService {
	return &AnnouncementService{
		db:        db,
		repo:      repo,
		orders:    orders,
		inventory: inventory,
		notifier:  notifier,
		logger:    logger,
	}
}

type CreateAnnouncementRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type ProductLine struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type AcceptRequest struct {
	EstimatedCompletionTime int           `json:"estimated_completion_time"`
	EstimatedPrice          float64       `json:"estimated_price"`
	Products                []ProductLine `json:"products"`
}

// Create submits a new announcement. Status is always forced to pending
// regardless of the payload.
func (s *AnnouncementService) Create(ctx context.Context, clientID string, req CreateAnnouncementRequest) (*entity.Announcement, error) {
	a := &entity.Announcement{
		ID:          uuid.New().String(),
		ClientID:    clientID,
		Title:       req.Title,
		Description: req.Description,
		Status:      entity.AnnouncementStatusPending,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Get returns one announcement. Clients only see their own; a foreign
// id reads as not found rather than forbidden.
func (s *AnnouncementService) Get(ctx context.Context, id string, user *entity.User) (*entity.Announcement, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsStaff() && a.ClientID != user.ID {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

// List scopes by role: staff see everything, clients their own.
func (s *AnnouncementService) List(ctx context.Context, user *entity.User) ([]entity.Announcement, error) {
	if user.IsStaff() {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindByClient(ctx, user.ID)
}

func (s *AnnouncementService) Pending(ctx context.Context) ([]entity.Announcement, error) {
	return s.repo.FindByStatus(ctx, entity.AnnouncementStatusPending)
}

func (s *AnnouncementService) ManagedBy(ctx context.Context, staffID string) ([]entity.Announcement, error) {
	return s.repo.FindByAcceptedBy(ctx, staffID)
}

func (s *AnnouncementService) ByClient(ctx context.Context, clientID string) ([]entity.Announcement, error) {
	return s.repo.FindByClient(ctx, clientID)
}

// Accept moves pending → accepted, storing the staff estimate and
// reserving every product line. Reservations run inside one transaction:
// either all lines are reserved or none are.
func (s *AnnouncementService) Accept(ctx context.Context, id string, staff *entity.User, req AcceptRequest) (*entity.Announcement, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != entity.AnnouncementStatusPending {
		return nil, invalidTransition("Only pending announcements can be accepted")
	}
	if req.EstimatedCompletionTime <= 0 || req.EstimatedPrice <= 0 {
		return nil, validation("Estimated time and price are required")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger := s.inventory.WithTx(tx)
		announcements := repository.NewAnnouncementRepository(tx)

		for _, line := range req.Products {
			qty := line.Quantity
			if qty < 1 {
				qty = 1
			}
			if err := ledger.Reserve(ctx, line.ProductID, qty); err != nil {
				switch {
				case errors.Is(err, repository.ErrNotFound):
					return validation(fmt.Sprintf("Product with ID %s does not exist", line.ProductID))
				case errors.Is(err, repository.ErrInsufficientStock):
					return insufficientStock(fmt.Sprintf("Not enough stock for product %s", line.ProductID))
				}
				return err
			}
			ap := &entity.AnnouncementProduct{
				ID:             uuid.New().String(),
				AnnouncementID: a.ID,
				ProductID:      line.ProductID,
				Quantity:       qty,
			}
			if err := tx.Create(ap).Error; err != nil {
				return err
			}
		}

		a.Status = entity.AnnouncementStatusAccepted
		a.AcceptedByID = &staff.ID
		a.EstimatedCompletionTime = &req.EstimatedCompletionTime
		a.EstimatedPrice = &req.EstimatedPrice
		return announcements.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("announcement accepted",
		zap.String("announcement_id", a.ID),
		zap.String("staff_id", staff.ID),
	)
	s.notifier.AnnouncementAccepted(ctx, a, req.EstimatedPrice, req.EstimatedCompletionTime)
	return a, nil
}

// Reject moves pending → rejected, recording who rejected and why.
func (s *AnnouncementService) Reject(ctx context.Context, id string, staff *entity.User, reason string) (*entity.Announcement, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != entity.AnnouncementStatusPending {
		return nil, invalidTransition("Only pending announcements can be rejected")
	}
	if reason == "" {
		return nil, validation("Rejection reason is required")
	}

	a.Status = entity.AnnouncementStatusRejected
	a.RejectionReason = reason
	a.AcceptedByID = &staff.ID
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("announcement rejected",
		zap.String("announcement_id", a.ID),
		zap.String("staff_id", staff.ID),
	)
	s.notifier.AnnouncementRejected(ctx, a, reason)
	return a, nil
}

// ClientApprove turns an accepted announcement into an order. Only the
// owning client may approve; exactly one order can ever exist per
// announcement.
func (s *AnnouncementService) ClientApprove(ctx context.Context, id string, user *entity.User) (*entity.Order, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ClientID != user.ID {
		return nil, forbidden("You can only approve your own announcements")
	}
	if a.Status != entity.AnnouncementStatusAccepted {
		return nil, invalidTransition("Only accepted announcements can be approved")
	}

	existing, err := s.orders.FindByAnnouncement(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflict("An order for this announcement already exists")
	}

	now := time.Now()
	order := &entity.Order{
		ID:                      uuid.New().String(),
		ClientID:                a.ClientID,
		AnnouncementID:          &a.ID,
		Title:                   a.Title,
		Status:                  entity.OrderStatusClientApproved,
		EstimatedCompletionTime: a.EstimatedCompletionTime,
		EstimatedPrice:          a.EstimatedPrice,
		ManagerID:               a.AcceptedByID,
		StartTime:               &now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		// Stock was already reserved at acceptance; the lines only move.
		for _, line := range a.Products {
			op := &entity.OrderProduct{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			}
			if err := tx.Create(op).Error; err != nil {
				return err
			}
		}
		a.Status = entity.AnnouncementStatusInProcess
		return repository.NewAnnouncementRepository(tx).Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("announcement approved by client",
		zap.String("announcement_id", a.ID),
		zap.String("order_id", order.ID),
	)
	s.notifier.ClientApproved(ctx, order, a.AcceptedBy)
	return order, nil
}

// ClientReject lets the owning client turn down the staff estimate.
func (s *AnnouncementService) ClientReject(ctx context.Context, id string, user *entity.User, reason string) (*entity.Announcement, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ClientID != user.ID {
		return nil, forbidden("You can only reject your own announcements")
	}
	if a.Status != entity.AnnouncementStatusAccepted {
		return nil, invalidTransition("Only accepted announcements can be rejected")
	}
	if reason == "" {
		return nil, validation("Rejection reason is required")
	}

	a.Status = entity.AnnouncementStatusRejected
	a.RejectionReason = reason
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.notifier.ClientRejected(ctx, a, reason)
	return a, nil
}

// Complete finishes an accepted or in-process announcement. A linked
// order is completed with it; a missing order is tolerated but logged,
// since an in-process announcement normally has one.
func (s *AnnouncementService) Complete(ctx context.Context, id string, staff *entity.User) (*entity.Announcement, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.AnnouncementCanTransition(a.Status, entity.AnnouncementStatusCompleted) {
		return nil, invalidTransition("Only accepted or in-progress announcements can be completed")
	}

	a.Status = entity.AnnouncementStatusCompleted
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByAnnouncement(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		s.logger.Warn("announcement completed without a linked order",
			zap.String("announcement_id", a.ID),
			zap.String("staff_id", staff.ID),
		)
		return a, nil
	}

	order.Status = entity.OrderStatusCompleted
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	s.notifier.AnnouncementCompleted(ctx, a)
	return a, nil
}

// AttachImage records an uploaded image for an announcement owned by the
// caller.
func (s *AnnouncementService) AttachImage(ctx context.Context, id string, user *entity.User, url string) (*entity.AnnouncementImage, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ClientID != user.ID {
		return nil, notFound("Announcement not found or not yours")
	}
	img := &entity.AnnouncementImage{
		ID:             uuid.New().String(),
		AnnouncementID: a.ID,
		URL:            url,
	}
	if err := s.repo.CreateImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *AnnouncementService) Images(ctx context.Context, id string) ([]entity.AnnouncementImage, error) {
	return s.repo.FindImages(ctx, id)
}
