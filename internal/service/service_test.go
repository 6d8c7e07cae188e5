package service

import (
	"testing"

	"github.com/ozodbekAI/service/internal/config"
	"github.com/ozodbekAI/service/internal/entity"
	"github.com/ozodbekAI/service/internal/repository"
	"github.com/ozodbekAI/service/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serviceTest struct {
	db            *gorm.DB
	repos         *repository.Repositories
	notifier      *NotificationService
	inventory     *InventoryService
	announcements *AnnouncementService
	orders        *OrderService
	dashboard     *DashboardService
}

func newServiceTest(t *testing.T) *serviceTest {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	logger := zap.NewNop()

	mailer := NewMailer(config.SMTPConfig{}, logger)
	notifier := NewNotificationService(repos.Notification, repos.User, mailer, logger)
	inventory := NewInventoryService(repos.Product)

	return &serviceTest{
		db:            db,
		repos:         repos,
		notifier:      notifier,
		inventory:     inventory,
		announcements: NewAnnouncementService(db, repos.Announcement, repos.Order, inventory, notifier, logger),
		orders:        NewOrderService(db, repos.Order, repos.Product, inventory, notifier, logger),
		dashboard:     NewDashboardService(repos.Dashboard, repos.User, repos.Announcement, repos.Order, logger),
	}
}

func (st *serviceTest) notifications(t *testing.T, userID, typ string) []entity.Notification {
	t.Helper()
	var items []entity.Notification
	q := st.db.Model(&entity.Notification{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if typ != "" {
		q = q.Where("type = ?", typ)
	}
	if err := q.Find(&items).Error; err != nil {
		t.Fatalf("Failed to load notifications: %v", err)
	}
	return items
}

func (st *serviceTest) productQuantity(t *testing.T, id string) int {
	t.Helper()
	var p entity.Product
	if err := st.db.Where("id = ?", id).First(&p).Error; err != nil {
		t.Fatalf("Failed to load product: %v", err)
	}
	return p.Quantity
}
