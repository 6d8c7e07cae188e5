package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ozodbekAI/service/internal/entity"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderRepository) Update(ctx context.Context, o *entity.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	var o entity.Order
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Manager").
		Preload("Products").
		Preload("Products.Product").
		Where("id = ?", id).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByAnnouncement returns the order created from an announcement, or
// nil when none exists. An announcement has at most one order.
func (r *OrderRepository) FindByAnnouncement(ctx context.Context, announcementID string) (*entity.Order, error) {
	var o entity.Order
	err := r.db.WithContext(ctx).
		Where("announcement_id = ?", announcementID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]entity.Order, error) {
	var items []entity.Order
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *OrderRepository) FindByClient(ctx context.Context, clientID string) ([]entity.Order, error) {
	var items []entity.Order
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *OrderRepository) FindByManager(ctx context.Context, managerID string) ([]entity.Order, error) {
	var items []entity.Order
	err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *OrderRepository) FindByManagerAndStatus(ctx context.Context, managerID, status string) ([]entity.Order, error) {
	var items []entity.Order
	err := r.db.WithContext(ctx).
		Where("manager_id = ? AND status = ?", managerID, status).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *OrderRepository) FindByStatus(ctx context.Context, status string) ([]entity.Order, error) {
	var items []entity.Order
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// FindProductLine returns the reservation line for (order, product).
func (r *OrderRepository) FindProductLine(ctx context.Context, orderID, productID string) (*entity.OrderProduct, error) {
	var line entity.OrderProduct
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

func (r *OrderRepository) CreateProductLine(ctx context.Context, line *entity.OrderProduct) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *OrderRepository) UpdateProductLine(ctx context.Context, line *entity.OrderProduct) error {
	return r.db.WithContext(ctx).Save(line).Error
}

func (r *OrderRepository) DeleteProductLine(ctx context.Context, line *entity.OrderProduct) error {
	return r.db.WithContext(ctx).Delete(line).Error
}

func (r *OrderRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).Count(&count).Error
	return count, err
}

func (r *OrderRepository) CountByStatus(ctx context.Context, statuses ...string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("status IN ?", statuses).
		Count(&count).Error
	return count, err
}

func (r *OrderRepository) CountCreatedOn(ctx context.Context, day time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1)).
		Count(&count).Error
	return count, err
}

func (r *OrderRepository) CountByStatusUpdatedOn(ctx context.Context, status string, day time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("status = ? AND updated_at >= ? AND updated_at < ?", status, day, day.AddDate(0, 0, 1)).
		Count(&count).Error
	return count, err
}

func (r *OrderRepository) CountByStatusCreatedOn(ctx context.Context, day time.Time, statuses ...string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("status IN ? AND created_at >= ? AND created_at < ?", statuses, day, day.AddDate(0, 0, 1)).
		Count(&count).Error
	return count, err
}
