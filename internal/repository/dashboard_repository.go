package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ozodbekAI/service/internal/entity"
	"gorm.io/gorm"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) Create(ctx context.Context, d *entity.Dashboard) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DashboardRepository) Update(ctx context.Context, d *entity.Dashboard) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// FindByDate returns the row for one calendar day, or ErrNotFound.
func (r *DashboardRepository) FindByDate(ctx context.Context, day time.Time) (*entity.Dashboard, error) {
	var d entity.Dashboard
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", day, day.AddDate(0, 0, 1)).
		First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindRange returns rows for [start, end] inclusive, ordered by date.
func (r *DashboardRepository) FindRange(ctx context.Context, start, end time.Time) ([]entity.Dashboard, error) {
	var items []entity.Dashboard
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", start, end.AddDate(0, 0, 1)).
		Order("date ASC").
		Find(&items).Error
	return items, err
}
