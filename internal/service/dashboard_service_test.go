package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ozodbekAI/service/internal/entity"
	"github.com/ozodbekAI/service/internal/repository"
	"github.com/ozodbekAI/service/internal/testutil"
)

func TestDashboardTodayStats(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, st.db, "client-1", "client1", "client1@test.com", entity.RoleClient)
	testutil.SeedUser(t, st.db, "mgr-1", "manager1", "manager1@test.com", entity.RoleManager)
	testutil.SeedAnnouncement(t, st.db, "ann-1", client.ID, "Fix fence", entity.AnnouncementStatusPending)
	testutil.SeedAnnouncement(t, st.db, "ann-2", client.ID, "Paint wall", entity.AnnouncementStatusAccepted)
	testutil.SeedOrder(t, st.db, "ord-1", client.ID, "", "Fix fence", entity.OrderStatusClientApproved)

	d, err := st.dashboard.TodayStats(ctx)
	if err != nil {
		t.Fatalf("TodayStats failed: %v", err)
	}
	if d.TotalAnnouncements != 2 {
		t.Errorf("Expected 2 announcements, got %d", d.TotalAnnouncements)
	}
	if d.AcceptedAnnouncements != 1 {
		t.Errorf("Expected 1 accepted announcement, got %d", d.AcceptedAnnouncements)
	}
	if d.TotalOrders != 1 {
		t.Errorf("Expected 1 order, got %d", d.TotalOrders)
	}
	if d.PendingOrders != 1 {
		t.Errorf("Expected 1 pending order, got %d", d.PendingOrders)
	}
	if d.TotalClients != 1 {
		t.Errorf("Expected 1 client, got %d", d.TotalClients)
	}
}

func TestDashboardTodayStatsCountsAllDates(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, st.db, "client-1", "client1", "client1@test.com", entity.RoleClient)
	testutil.SeedAnnouncement(t, st.db, "ann-1", client.ID, "Fix fence", entity.AnnouncementStatusAccepted)
	testutil.SeedOrder(t, st.db, "ord-1", client.ID, "", "Fix fence", entity.OrderStatusClientApproved)

	// Backdate everything two days; today's row is a global snapshot,
	// not a count of today's activity.
	old := time.Now().AddDate(0, 0, -2)
	st.db.Model(&entity.Announcement{}).Where("id = ?", "ann-1").
		UpdateColumns(map[string]interface{}{"created_at": old, "updated_at": old})
	st.db.Model(&entity.Order{}).Where("id = ?", "ord-1").
		UpdateColumns(map[string]interface{}{"created_at": old, "updated_at": old})

	d, err := st.dashboard.TodayStats(ctx)
	if err != nil {
		t.Fatalf("TodayStats failed: %v", err)
	}
	if d.TotalAnnouncements != 1 {
		t.Errorf("Expected global total 1 announcement, got %d", d.TotalAnnouncements)
	}
	if d.AcceptedAnnouncements != 1 {
		t.Errorf("Expected global accepted 1, got %d", d.AcceptedAnnouncements)
	}
	if d.TotalOrders != 1 {
		t.Errorf("Expected global total 1 order, got %d", d.TotalOrders)
	}
	if d.PendingOrders != 1 {
		t.Errorf("Expected global pending 1, got %d", d.PendingOrders)
	}
}

func TestDashboardTodayStatsUpserts(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, st.db, "client-1", "client1", "client1@test.com", entity.RoleClient)
	testutil.SeedAnnouncement(t, st.db, "ann-1", client.ID, "Fix fence", entity.AnnouncementStatusPending)

	first, err := st.dashboard.TodayStats(ctx)
	if err != nil {
		t.Fatalf("TodayStats failed: %v", err)
	}

	testutil.SeedAnnouncement(t, st.db, "ann-2", client.ID, "Paint wall", entity.AnnouncementStatusPending)

	second, err := st.dashboard.TodayStats(ctx)
	if err != nil {
		t.Fatalf("Second TodayStats failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Expected same row updated, got %s then %s", first.ID, second.ID)
	}
	if second.TotalAnnouncements != 2 {
		t.Errorf("Expected recomputed count 2, got %d", second.TotalAnnouncements)
	}

	var count int64
	st.db.Model(&entity.Dashboard{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly one dashboard row, got %d", count)
	}
}

func TestDashboardWeeklyStatsBackfills(t *testing.T) {
	st := newServiceTest(t)

	stats, err := st.dashboard.WeeklyStats(context.Background())
	if err != nil {
		t.Fatalf("WeeklyStats failed: %v", err)
	}
	if len(stats) != 7 {
		t.Fatalf("Expected 7 rows, got %d", len(stats))
	}
	for i := 1; i < len(stats); i++ {
		if !stats[i].Date.After(stats[i-1].Date) {
			t.Errorf("Expected ascending dates, got %v then %v", stats[i-1].Date, stats[i].Date)
		}
	}
}

func TestDashboardMakeAndRemoveManager(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, st.db, "client-1", "client1", "client1@test.com", entity.RoleClient)
	admin := testutil.SeedUser(t, st.db, "adm-1", "admin1", "admin1@test.com", entity.RoleAdmin)

	u, err := st.dashboard.MakeManager(ctx, client.ID)
	if err != nil {
		t.Fatalf("MakeManager failed: %v", err)
	}
	if u.Role != entity.RoleManager {
		t.Errorf("Expected role manager, got %s", u.Role)
	}

	u, err = st.dashboard.RemoveManager(ctx, client.ID)
	if err != nil {
		t.Fatalf("RemoveManager failed: %v", err)
	}
	if u.Role != entity.RoleClient {
		t.Errorf("Expected role client, got %s", u.Role)
	}

	if _, err := st.dashboard.MakeManager(ctx, admin.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected validation error for admin, got %v", err)
	}
	if _, err := st.dashboard.MakeManager(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected not found for missing user, got %v", err)
	}
}

func TestDashboardExportWeekly(t *testing.T) {
	st := newServiceTest(t)

	buf, err := st.dashboard.ExportWeekly(context.Background())
	if err != nil {
		t.Fatalf("ExportWeekly failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("Expected non-empty workbook")
	}
	// xlsx files are zip archives.
	head := buf.Bytes()[:2]
	if head[0] != 'P' || head[1] != 'K' {
		t.Errorf("Expected zip magic, got %v", head)
	}
}
