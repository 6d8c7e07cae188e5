package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ozodbekAI/service/internal/entity"
	"gorm.io/gorm"
)

type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *entity.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AnnouncementRepository) Update(ctx context.Context, a *entity.Announcement) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// FindByID loads an announcement with its client, accepting staff and
// product lines.
func (r *AnnouncementRepository) FindByID(ctx context.Context, id string) (*entity.Announcement, error) {
	var a entity.Announcement
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("AcceptedBy").
		Preload("Products").
		Preload("Products.Product").
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AnnouncementRepository) FindAll(ctx context.Context) ([]entity.Announcement, error) {
	var items []entity.Announcement
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *AnnouncementRepository) FindByStatus(ctx context.Context, status string) ([]entity.Announcement, error) {
	var items []entity.Announcement
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *AnnouncementRepository) FindByClient(ctx context.Context, clientID string) ([]entity.Announcement, error) {
	var items []entity.Announcement
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *AnnouncementRepository) FindByAcceptedBy(ctx context.Context, staffID string) ([]entity.Announcement, error) {
	var items []entity.Announcement
	err := r.db.WithContext(ctx).
		Where("accepted_by_id = ?", staffID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *AnnouncementRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Announcement{}).Count(&count).Error
	return count, err
}

func (r *AnnouncementRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Announcement{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// CountCreatedOn counts announcements created during one calendar day.
func (r *AnnouncementRepository) CountCreatedOn(ctx context.Context, day time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Announcement{}).
		Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1)).
		Count(&count).Error
	return count, err
}

// CountByStatusUpdatedOn counts announcements in a status whose last
// update fell on one calendar day.
func (r *AnnouncementRepository) CountByStatusUpdatedOn(ctx context.Context, status string, day time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Announcement{}).
		Where("status = ? AND updated_at >= ? AND updated_at < ?", status, day, day.AddDate(0, 0, 1)).
		Count(&count).Error
	return count, err
}

func (r *AnnouncementRepository) CreateImage(ctx context.Context, img *entity.AnnouncementImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *AnnouncementRepository) FindImages(ctx context.Context, announcementID string) ([]entity.AnnouncementImage, error) {
	var images []entity.AnnouncementImage
	err := r.db.WithContext(ctx).
		Where("announcement_id = ?", announcementID).
		Order("created_at DESC").
		Find(&images).Error
	return images, err
}
