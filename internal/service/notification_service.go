package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ozodbekAI/service/internal/entity"
	"github.com/ozodbekAI/service/internal/repository"
	"go.uber.org/zap"
)

// NotificationService persists lifecycle notifications and mirrors them
// to email. Both halves are best-effort side effects of a transition
// that has already been committed.
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	mailer   *Mailer
	logger   *zap.Logger
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, mailer *Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, mailer: mailer, logger: logger}
}

func (s *NotificationService) notify(ctx context.Context, userID, title, message, typ string, relatedID *string) {
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		RelatedID: relatedID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("failed to create notification",
			zap.String("user_id", userID),
			zap.String("type", typ),
			zap.Error(err),
		)
	}
}

func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]entity.Notification, error) {
	return s.repo.FindByUser(ctx, userID)
}

// MarkRead sets read=true. Idempotent: re-reading an already read
// notification is not an error.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return repository.ErrNotFound
	}
	if n.Read {
		return nil
	}
	return s.repo.MarkRead(ctx, n)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// AnnouncementAccepted notifies the client that staff accepted their
// announcement with an estimate.
func (s *NotificationService) AnnouncementAccepted(ctx context.Context, a *entity.Announcement, price float64, hours int) {
	msg := fmt.Sprintf("Your announcement '%s' has been accepted. Estimated price: %.2f сум, Estimated time: %d hours. Please approve or reject.",
		a.Title, price, hours)
	s.notify(ctx, a.ClientID, "Your Announcement has been Accepted", msg, entity.NotificationAnnouncementAccepted, &a.ID)

	if a.Client != nil {
		s.mailer.Send(a.Client.Email, "Your Announcement has been Accepted",
			fmt.Sprintf("Dear %s,\n\nYour announcement '%s' has been accepted.\nEstimated price: %.2f сум\nEstimated time: %d hours.\nPlease approve or reject the order.\n\nThank you!",
				a.Client.Username, a.Title, price, hours))
	}
}

// AnnouncementRejected notifies the client that staff rejected their
// announcement.
func (s *NotificationService) AnnouncementRejected(ctx context.Context, a *entity.Announcement, reason string) {
	msg := fmt.Sprintf("Your announcement '%s' was rejected. Reason: %s", a.Title, reason)
	s.notify(ctx, a.ClientID, "Your Announcement has been Rejected", msg, entity.NotificationAnnouncementRejected, nil)

	if a.Client != nil {
		s.mailer.Send(a.Client.Email, "Your Announcement has been Rejected",
			fmt.Sprintf("Dear %s,\n\nYour announcement '%s' was rejected.\nReason: %s\n\nThank you!",
				a.Client.Username, a.Title, reason))
	}
}

// ClientRejected notifies the accepting staff member that the client
// turned the estimate down.
func (s *NotificationService) ClientRejected(ctx context.Context, a *entity.Announcement, reason string) {
	if a.AcceptedByID == nil {
		return
	}
	msg := fmt.Sprintf("The client rejected the announcement '%s'. Reason: %s", a.Title, reason)
	s.notify(ctx, *a.AcceptedByID, "Client Rejected Announcement", msg, entity.NotificationAnnouncementRejected, nil)

	if a.AcceptedBy != nil {
		s.mailer.Send(a.AcceptedBy.Email, "Client Rejected Announcement",
			fmt.Sprintf("Dear %s,\n\nThe client rejected the announcement '%s'.\nReason: %s\n\nThank you!",
				a.AcceptedBy.Username, a.Title, reason))
	}
}

// ClientApproved notifies the manager that the client approved the order.
func (s *NotificationService) ClientApproved(ctx context.Context, o *entity.Order, manager *entity.User) {
	if manager == nil {
		return
	}
	msg := fmt.Sprintf("The client has approved the order '%s'. Processing has started.", o.Title)
	s.notify(ctx, manager.ID, "Client Approved Order", msg, entity.NotificationClientApproved, nil)

	s.mailer.Send(manager.Email, "Client Approved Order",
		fmt.Sprintf("Dear %s,\n\nThe client has approved the order '%s'.\nProcessing has started.\n\nThank you!",
			manager.Username, o.Title))
}

// AnnouncementCompleted notifies the client that the work behind their
// announcement is done.
func (s *NotificationService) AnnouncementCompleted(ctx context.Context, a *entity.Announcement) {
	msg := fmt.Sprintf("Your announcement '%s' has been completed.", a.Title)
	s.notify(ctx, a.ClientID, "Your Announcement has been Completed", msg, entity.NotificationAnnouncementCompleted, nil)

	if a.Client != nil {
		s.mailer.Send(a.Client.Email, "Your Announcement has been Completed",
			fmt.Sprintf("Dear %s,\n\nYour announcement '%s' has been completed.\n\nThank you!",
				a.Client.Username, a.Title))
	}
}

// OrderInProcess notifies the client that processing started.
func (s *NotificationService) OrderInProcess(ctx context.Context, o *entity.Order) {
	hours := 0
	if o.EstimatedCompletionTime != nil {
		hours = *o.EstimatedCompletionTime
	}
	msg := fmt.Sprintf("Your order '%s' is now being processed. Estimated completion in %d hours.", o.Title, hours)
	s.notify(ctx, o.ClientID, "Your Order is In Process", msg, entity.NotificationOrderInProcess, nil)

	if o.Client != nil {
		s.mailer.Send(o.Client.Email, "Your Order is In Process",
			fmt.Sprintf("Dear %s,\n\nYour order '%s' is now being processed.\nEstimated completion in %d hours.\n\nThank you!",
				o.Client.Username, o.Title, hours))
	}
}

// OrderCompleted notifies the client that their order is done.
func (s *NotificationService) OrderCompleted(ctx context.Context, o *entity.Order) {
	msg := fmt.Sprintf("Your order '%s' has been completed.", o.Title)
	s.notify(ctx, o.ClientID, "Your Order is Completed", msg, entity.NotificationOrderCompleted, nil)

	if o.Client != nil {
		s.mailer.Send(o.Client.Email, "Your Order is Completed",
			fmt.Sprintf("Dear %s,\n\nYour order '%s' has been completed.\n\nThank you!",
				o.Client.Username, o.Title))
	}
}

// OrderRejected notifies the client that staff rejected their order.
func (s *NotificationService) OrderRejected(ctx context.Context, o *entity.Order, reason string) {
	msg := fmt.Sprintf("Your order '%s' was rejected. Reason: %s", o.Title, reason)
	s.notify(ctx, o.ClientID, "Your Order has been Rejected", msg, entity.NotificationOrderRejected, nil)

	if o.Client != nil {
		s.mailer.Send(o.Client.Email, "Your Order has been Rejected",
			fmt.Sprintf("Dear %s,\n\nYour order '%s' was rejected.\nReason: %s\n\nThank you!",
				o.Client.Username, o.Title, reason))
	}
}

// LowStock fans a restock warning out to every staff user.
func (s *NotificationService) LowStock(ctx context.Context, p *entity.Product) {
	staff, err := s.userRepo.FindStaff(ctx)
	if err != nil {
		s.logger.Error("failed to load staff for low stock notification",
			zap.String("product_id", p.ID),
			zap.Error(err),
		)
		return
	}
	msg := fmt.Sprintf("Only %d units of %s left.", p.Quantity, p.Name)
	for i := range staff {
		s.notify(ctx, staff[i].ID, "Low Stock: "+p.Name, msg, entity.NotificationLowStock, &p.ID)
	}
}
