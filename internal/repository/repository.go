package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Repositories bundles every repository over one gorm handle.
type Repositories struct {
	User         *UserRepository
	Announcement *AnnouncementRepository
	Order        *OrderRepository
	Product      *ProductRepository
	Notification *NotificationRepository
	Dashboard    *DashboardRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Announcement: NewAnnouncementRepository(db),
		Order:        NewOrderRepository(db),
		Product:      NewProductRepository(db),
		Notification: NewNotificationRepository(db),
		Dashboard:    NewDashboardRepository(db),
	}
}
