package entity

import "time"

// Announcement statuses
const (
	AnnouncementStatusPending   = "pending"
	AnnouncementStatusAccepted  = "accepted"
	AnnouncementStatusInProcess = "in_process"
	AnnouncementStatusCompleted = "completed"
	AnnouncementStatusRejected  = "rejected"
)

// ValidAnnouncementTransitions maps a status to the statuses it may move
// to. pending is initial; completed and rejected are terminal.
var ValidAnnouncementTransitions = map[string][]string{
	AnnouncementStatusPending:   {AnnouncementStatusAccepted, AnnouncementStatusRejected},
	AnnouncementStatusAccepted:  {AnnouncementStatusInProcess, AnnouncementStatusRejected, AnnouncementStatusCompleted},
	AnnouncementStatusInProcess: {AnnouncementStatusCompleted},
}

// AnnouncementCanTransition reports whether from → to is a legal move.
func AnnouncementCanTransition(from, to string) bool {
	for _, s := range ValidAnnouncementTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Announcement is a client-submitted service request, the precursor to
// an Order. accepted_by is set when staff accept or reject it.
type Announcement struct {
	ID                      string     `json:"id" gorm:"primaryKey;size:36"`
	ClientID                string     `json:"client_id" gorm:"size:36;not null;index"`
	Title                   string     `json:"title" gorm:"size:255;not null"`
	Description             string     `json:"description" gorm:"type:text"`
	Status                  string     `json:"status" gorm:"size:20;not null;default:pending"`
	AcceptedByID            *string    `json:"accepted_by_id" gorm:"size:36"`
	RejectionReason         string     `json:"rejection_reason" gorm:"type:text"`
	EstimatedCompletionTime *int       `json:"estimated_completion_time"` // hours
	EstimatedPrice          *float64   `json:"estimated_price" gorm:"type:decimal(10,2)"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`

	Client     *User                 `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	AcceptedBy *User                 `json:"accepted_by,omitempty" gorm:"foreignKey:AcceptedByID"`
	Products   []AnnouncementProduct `json:"products,omitempty" gorm:"foreignKey:AnnouncementID"`
	Images     []AnnouncementImage   `json:"images,omitempty" gorm:"foreignKey:AnnouncementID"`
}

func (Announcement) TableName() string {
	return "announcements"
}

// AnnouncementProduct is a product line tentatively allocated to an
// announcement at acceptance time; copied into the order on client
// approval. Stock is reserved when the line is created.
type AnnouncementProduct struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	AnnouncementID string    `json:"announcement_id" gorm:"size:36;not null;index"`
	ProductID      string    `json:"product_id" gorm:"size:36;not null;index"`
	Quantity       int       `json:"quantity" gorm:"not null;default:1"`
	AddedAt        time.Time `json:"added_at" gorm:"autoCreateTime"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (AnnouncementProduct) TableName() string {
	return "announcement_products"
}

// AnnouncementImage is an uploaded attachment stored in object storage.
type AnnouncementImage struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	AnnouncementID string    `json:"announcement_id" gorm:"size:36;not null;index"`
	URL            string    `json:"url" gorm:"size:512;not null"`
	CreatedAt      time.Time `json:"created_at"`
}

func (AnnouncementImage) TableName() string {
	return "announcement_images"
}
