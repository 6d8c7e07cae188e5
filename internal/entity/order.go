package entity

import "time"

// Order statuses
const (
	OrderStatusClientApproved = "client_approved"
	OrderStatusInProcess      = "in_process"
	OrderStatusCompleted      = "completed"
	OrderStatusRejected       = "rejected"
)

// ValidOrderTransitions maps a status to the statuses it may move to.
// client_approved is initial; completed and rejected are terminal.
var ValidOrderTransitions = map[string][]string{
	OrderStatusClientApproved: {OrderStatusInProcess, OrderStatusRejected},
	OrderStatusInProcess:      {OrderStatusCompleted},
}

// OrderCanTransition reports whether from → to is a legal move.
func OrderCanTransition(from, to string) bool {
	for _, s := range ValidOrderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Order is a confirmed, priced unit of work created exactly once per
// announcement when the client approves the staff estimate.
type Order struct {
	ID                      string     `json:"id" gorm:"primaryKey;size:36"`
	ClientID                string     `json:"client_id" gorm:"size:36;not null;index"`
	AnnouncementID          *string    `json:"announcement_id" gorm:"size:36;uniqueIndex"`
	Title                   string     `json:"title" gorm:"size:255;not null"`
	Status                  string     `json:"status" gorm:"size:20;not null;default:client_approved"`
	EstimatedCompletionTime *int       `json:"estimated_completion_time"` // hours
	EstimatedPrice          *float64   `json:"estimated_price" gorm:"type:decimal(10,2)"`
	ManagerID               *string    `json:"manager_id" gorm:"size:36"`
	StartTime               *time.Time `json:"start_time"`
	RejectionReason         string     `json:"rejection_reason" gorm:"type:text"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`

	Client       *User          `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Manager      *User          `json:"manager,omitempty" gorm:"foreignKey:ManagerID"`
	Announcement *Announcement  `json:"announcement,omitempty" gorm:"foreignKey:AnnouncementID"`
	Products     []OrderProduct `json:"products,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderProduct is a product reservation charged against inventory.
// Deleting the line refunds its quantity to the product.
type OrderProduct struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	OrderID   string    `json:"order_id" gorm:"size:36;not null;index"`
	ProductID string    `json:"product_id" gorm:"size:36;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	AddedAt   time.Time `json:"added_at" gorm:"autoCreateTime"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (OrderProduct) TableName() string {
	return "order_products"
}
