package repository

import (
	"context"
	"errors"

	"github.com/ozodbekAI/service/internal/entity"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) FindAll(ctx context.Context, search string) ([]entity.Product, error) {
	var items []entity.Product
	query := r.db.WithContext(ctx).Model(&entity.Product{})
	if search != "" {
		query = query.Where("name LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	err := query.Order("name ASC").Find(&items).Error
	return items, err
}

// FindLowStock returns products strictly under the threshold, scarcest
// first.
func (r *ProductRepository) FindLowStock(ctx context.Context) ([]entity.Product, error) {
	var items []entity.Product
	err := r.db.WithContext(ctx).
		Where("quantity < ?", entity.LowStockThreshold).
		Order("quantity ASC").
		Find(&items).Error
	return items, err
}

// Reserve decrements product stock as a single conditional update so two
// concurrent reservations can never overdraw the row. Returns
// ErrInsufficientStock when stock is short and ErrNotFound when the
// product does not exist.
func (r *ProductRepository) Reserve(ctx context.Context, productID string, qty int) error {
	res := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ? AND quantity >= ?", productID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&entity.Product{}).
			Where("id = ?", productID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

// Release refunds a previously reserved quantity.
func (r *ProductRepository) Release(ctx context.Context, productID string, qty int) error {
	res := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) CreateCategory(ctx context.Context, c *entity.ProductCategory) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ProductRepository) UpdateCategory(ctx context.Context, c *entity.ProductCategory) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ProductRepository) DeleteCategory(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.ProductCategory{}, "id = ?", id).Error
}

func (r *ProductRepository) FindCategoryByID(ctx context.Context, id string) (*entity.ProductCategory, error) {
	var c entity.ProductCategory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ProductRepository) FindCategories(ctx context.Context) ([]entity.ProductCategory, error) {
	var items []entity.ProductCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *ProductRepository) CreateImage(ctx context.Context, img *entity.ProductImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *ProductRepository) FindImages(ctx context.Context, productID string) ([]entity.ProductImage, error) {
	var images []entity.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&images).Error
	return images, err
}

// ClearMainImage drops the main flag from every image of a product, run
// before promoting a new main image.
func (r *ProductRepository) ClearMainImage(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).Model(&entity.ProductImage{}).
		Where("product_id = ? AND is_main = ?", productID, true).
		Update("is_main", false).Error
}
