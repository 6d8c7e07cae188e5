package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ozodbekAI/service/internal/entity"
	"github.com/ozodbekAI/service/internal/repository"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// DashboardService maintains one aggregate row per calendar date.
// Today's row holds the current global totals and is recomputed on
// every read; historical rows are backfilled once from per-day counts
// and then served as stored.
type DashboardService struct {
	repo          *repository.DashboardRepository
	users         *repository.UserRepository
	announcements *repository.AnnouncementRepository
	orders        *repository.OrderRepository
	logger        *zap.Logger
}

func NewDashboardService(repo *repository.DashboardRepository, users *repository.UserRepository, announcements *repository.AnnouncementRepository, orders *repository.OrderRepository, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		repo:          repo,
		users:         users,
		announcements: announcements,
		orders:        orders,
		logger:        logger,
	}
}

func (s *DashboardService) computeDay(ctx context.Context, day time.Time) (*entity.Dashboard, error) {
	d := &entity.Dashboard{Date: day}

	totalAnnouncements, err := s.announcements.CountCreatedOn(ctx, day)
	if err != nil {
		return nil, err
	}
	accepted, err := s.announcements.CountByStatusUpdatedOn(ctx, entity.AnnouncementStatusAccepted, day)
	if err != nil {
		return nil, err
	}
	rejected, err := s.announcements.CountByStatusUpdatedOn(ctx, entity.AnnouncementStatusRejected, day)
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.orders.CountCreatedOn(ctx, day)
	if err != nil {
		return nil, err
	}
	completedOrders, err := s.orders.CountByStatusUpdatedOn(ctx, entity.OrderStatusCompleted, day)
	if err != nil {
		return nil, err
	}
	pendingOrders, err := s.orders.CountByStatusCreatedOn(ctx, day, entity.OrderStatusClientApproved, entity.OrderStatusInProcess)
	if err != nil {
		return nil, err
	}
	totalClients, err := s.users.CountClientsJoinedBefore(ctx, day)
	if err != nil {
		return nil, err
	}

	d.TotalAnnouncements = int(totalAnnouncements)
	d.AcceptedAnnouncements = int(accepted)
	d.RejectedAnnouncements = int(rejected)
	d.TotalOrders = int(totalOrders)
	d.CompletedOrders = int(completedOrders)
	d.PendingOrders = int(pendingOrders)
	d.TotalClients = int(totalClients)
	return d, nil
}

// computeGlobal snapshots the all-time totals into a row for the given
// date. Today's row is a running snapshot, not a per-day delta.
func (s *DashboardService) computeGlobal(ctx context.Context, day time.Time) (*entity.Dashboard, error) {
	d := &entity.Dashboard{Date: day}

	totalAnnouncements, err := s.announcements.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	accepted, err := s.announcements.CountByStatus(ctx, entity.AnnouncementStatusAccepted)
	if err != nil {
		return nil, err
	}
	rejected, err := s.announcements.CountByStatus(ctx, entity.AnnouncementStatusRejected)
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.orders.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	completedOrders, err := s.orders.CountByStatus(ctx, entity.OrderStatusCompleted)
	if err != nil {
		return nil, err
	}
	pendingOrders, err := s.orders.CountByStatus(ctx, entity.OrderStatusClientApproved, entity.OrderStatusInProcess)
	if err != nil {
		return nil, err
	}
	totalClients, err := s.users.CountByRole(ctx, entity.RoleClient)
	if err != nil {
		return nil, err
	}

	d.TotalAnnouncements = int(totalAnnouncements)
	d.AcceptedAnnouncements = int(accepted)
	d.RejectedAnnouncements = int(rejected)
	d.TotalOrders = int(totalOrders)
	d.CompletedOrders = int(completedOrders)
	d.PendingOrders = int(pendingOrders)
	d.TotalClients = int(totalClients)
	return d, nil
}

// TodayStats recomputes the global totals and upserts them into the row
// for the current date.
func (s *DashboardService) TodayStats(ctx context.Context) (*entity.Dashboard, error) {
	today := entity.Day(time.Now())

	fresh, err := s.computeGlobal(ctx, today)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByDate(ctx, today)
	switch {
	case err == nil:
		fresh.ID = existing.ID
		if err := s.repo.Update(ctx, fresh); err != nil {
			return nil, err
		}
	case err == repository.ErrNotFound:
		fresh.ID = uuid.New().String()
		if err := s.repo.Create(ctx, fresh); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return fresh, nil
}

// WeeklyStats returns the last seven days, oldest first. Missing
// historical rows are backfilled from live counts; today is always
// recomputed.
func (s *DashboardService) WeeklyStats(ctx context.Context) ([]entity.Dashboard, error) {
	if _, err := s.TodayStats(ctx); err != nil {
		return nil, err
	}

	today := entity.Day(time.Now())
	start := today.AddDate(0, 0, -6)

	for i := 0; i < 6; i++ {
		day := start.AddDate(0, 0, i)
		_, err := s.repo.FindByDate(ctx, day)
		if err == nil {
			continue
		}
		if err != repository.ErrNotFound {
			return nil, err
		}
		d, err := s.computeDay(ctx, day)
		if err != nil {
			return nil, err
		}
		d.ID = uuid.New().String()
		if err := s.repo.Create(ctx, d); err != nil {
			return nil, err
		}
	}

	return s.repo.FindRange(ctx, start, today)
}

// UserManagementReport is the admin console view: every account plus
// per-role totals.
type UserManagementReport struct {
	Users         []entity.User `json:"users"`
	TotalUsers    int64         `json:"total_users"`
	TotalClients  int64         `json:"total_clients"`
	TotalManagers int64         `json:"total_managers"`
	TotalAdmins   int64         `json:"total_admins"`
}

func (s *DashboardService) UserManagement(ctx context.Context) (*UserManagementReport, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.users.CountByRole(ctx, entity.RoleClient)
	if err != nil {
		return nil, err
	}
	managers, err := s.users.CountByRole(ctx, entity.RoleManager)
	if err != nil {
		return nil, err
	}
	admins, err := s.users.CountByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return &UserManagementReport{
		Users:         users,
		TotalUsers:    total,
		TotalClients:  clients,
		TotalManagers: managers,
		TotalAdmins:   admins,
	}, nil
}

// MakeManager promotes a user to manager. Admin roles never change
// through this endpoint.
func (s *DashboardService) MakeManager(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.IsAdmin() {
		return nil, validation("Cannot change admin role")
	}
	u.Role = entity.RoleManager
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user promoted to manager", zap.String("user_id", u.ID))
	return u, nil
}

// RemoveManager demotes a manager back to client.
func (s *DashboardService) RemoveManager(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.IsAdmin() {
		return nil, validation("Cannot change admin role")
	}
	u.Role = entity.RoleClient
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("manager demoted to client", zap.String("user_id", u.ID))
	return u, nil
}

// ExportWeekly renders the weekly stats as an xlsx workbook.
func (s *DashboardService) ExportWeekly(ctx context.Context) (*bytes.Buffer, error) {
	stats, err := s.WeeklyStats(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Weekly Stats"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Total Announcements", "Accepted", "Rejected", "Total Orders", "Completed Orders", "Pending Orders", "Total Clients"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, d := range stats {
		values := []interface{}{
			d.Date.Format("2006-01-02"),
			d.TotalAnnouncements,
			d.AcceptedAnnouncements,
			d.RejectedAnnouncements,
			d.TotalOrders,
			d.CompletedOrders,
			d.PendingOrders,
			d.TotalClients,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
