package entity

import "time"

// Notification types, one per lifecycle event.
const (
	NotificationLowStock              = "low_stock"
	NotificationAnnouncementAccepted  = "announcement_accepted"
	NotificationAnnouncementRejected  = "announcement_rejected"
	NotificationClientApproved        = "client_approved"
	NotificationAnnouncementCompleted = "announcement_completed"
	NotificationOrderInProcess        = "order_in_process"
	NotificationOrderCompleted        = "order_completed"
	NotificationOrderRejected         = "order_rejected"
)

// Notification is created on every state-machine transition. Marking it
// read is idempotent and terminal.
type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"user_id" gorm:"size:36;not null;index"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Message   string    `json:"message" gorm:"type:text"`
	Type      string    `json:"type" gorm:"size:50;not null"`
	RelatedID *string   `json:"related_id" gorm:"size:36"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
