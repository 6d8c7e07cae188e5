package entity

import "time"

// Dashboard holds aggregate counters for one calendar date. Today's row
// is recomputed on demand; historical rows are backfilled once and never
// refreshed.
type Dashboard struct {
	ID                    string    `json:"id" gorm:"primaryKey;size:36"`
	Date                  time.Time `json:"date" gorm:"uniqueIndex;not null"`
	TotalAnnouncements    int       `json:"total_announcements" gorm:"not null;default:0"`
	AcceptedAnnouncements int       `json:"accepted_announcements" gorm:"not null;default:0"`
	RejectedAnnouncements int       `json:"rejected_announcements" gorm:"not null;default:0"`
	TotalOrders           int       `json:"total_orders" gorm:"not null;default:0"`
	CompletedOrders       int       `json:"completed_orders" gorm:"not null;default:0"`
	PendingOrders         int       `json:"pending_orders" gorm:"not null;default:0"`
	TotalClients          int       `json:"total_clients" gorm:"not null;default:0"`
}

func (Dashboard) TableName() string {
	return "dashboards"
}

// Day truncates t to midnight UTC, the canonical dashboard date.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
