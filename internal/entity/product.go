package entity

import "time"

// LowStockThreshold is the stock level at or below which staff are
// notified after a reservation.
const LowStockThreshold = 5

// Product is shared inventory consumed by announcement and order
// reservations. Quantity never goes negative; reservations that would
// overdraw it are rejected.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	CategoryID  *string   `json:"category_id" gorm:"size:36;index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
	Quantity    int       `json:"quantity" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Category *ProductCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Images   []ProductImage   `json:"images,omitempty" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}

// LowStock reports whether the product is at or below the notification
// threshold.
func (p *Product) LowStock() bool {
	return p.Quantity <= LowStockThreshold
}

type ProductCategory struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:128;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

// ProductImage is an uploaded photo in object storage. At most one image
// per product is the main one.
type ProductImage struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	ProductID string    `json:"product_id" gorm:"size:36;not null;index"`
	URL       string    `json:"url" gorm:"size:512;not null"`
	IsMain    bool      `json:"is_main" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
