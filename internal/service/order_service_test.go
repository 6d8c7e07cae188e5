package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ozodbekAI/service/internal/entity"
	"github.com/ozodbekAI/service/internal/repository"
	"github.com/ozodbekAI/service/internal/testutil"
)

func TestOrderStartProcessing(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, st.db, "client-1", "client1", "client1@test.com", entity.RoleClient)
	staff := testutil.SeedUser(t, st.db, "mgr-1", "manager1", "manager1@test.com", entity.RoleManager)
	testutil.SeedOrder(t, st.db, "ord-1", client.ID, staff.ID, "Fix fence", entity.OrderStatusClientApproved)

	o, err := st.orders.StartProcessing(ctx, "ord-1", staff)
	if err != nil {
		t.Fatalf("StartProcessing failed: %v", err)
	}
	if o.Status != entity.OrderStatusInProcess {
		t.Errorf("Expected in_process, got %s", o.Status)
	}
	if o.StartTime == nil {
		t.Error("Expected start_time to be set")
	}

	if got := st.notifications(t, client.ID, entity.NotificationOrderInProcess); len(got) != 1 {
		t.Errorf("Expected 1 in_process notification, got %d", len(got))
	}

	// Terminal and repeated transitions are rejected.
	if _, err := st.orders.StartProcessing(ctx, "ord-1", staff); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Expected invalid transition, got %v", err)
	}
}

func TestOrderCompleteOnlyByAssignedManager(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, st.db, "client-1", "client1", "client1@test.com", entity.RoleClient)
	manager := testutil.SeedUser(t, st.db, "mgr-1", "manager1", "manager1@test.com", entity.RoleManager)
	other := testutil.SeedUser(t, st.db, "mgr-2", "manager2", "manager2@test.com", entity.RoleManager)
	testutil.SeedOrder(t, st.db, "ord-1", client.ID, manager.ID, "Fix fence", entity.OrderStatusInProcess)

	if _, err := st.orders.Complete(ctx, "ord-1", other); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Expected invalid transition for foreign manager, got %v", err)
	}

	o, err := st.orders.Complete(ctx, "ord-1", manager)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if o.Status != entity.OrderStatusCompleted {
		t.Errorf("Expected completed, got %s", o.Status)
	}
	if got := st.notifications(t, client.ID, entity.NotificationOrderCompleted); len(got) != 1 {
		t.Errorf("Expected 1 completed notification, got %d", len(got))
	}
}

func TestOrderRejectRequiresReason(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, st.db, "client-1", "client1", "client1@test.com", entity.RoleClient)
	staff := testutil.SeedUser(t, st.db, "mgr-1", "manager1", "manager1@test.com", entity.RoleManager)
	testutil.SeedOrder(t, st.db, "ord-1", client.ID, staff.ID, "Fix fence", entity.OrderStatusClientApproved)

	if _, err := st.orders.Reject(ctx, "ord-1", staff, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected validation error, got %v", err)
	}

	o, err := st.orders.Reject(ctx, "ord-1", staff, "Parts unavailable")
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if o.Status != entity.OrderStatusRejected {
		t.Errorf("Expected rejected, got %s", o.Status)
	}
	if got := st.notifications(t, client.ID, entity.NotificationOrderRejected); len(got) != 1 {
		t.Errorf("Expected 1 rejected notification, got %d", len(got))
	}
}

func TestOrderAddProductReservesAndAccumulates(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, st.db, "client-1", "client1", "client1@test.com", entity.RoleClient)
	staff := testutil.SeedUser(t, st.db, "mgr-1", "manager1", "manager1@test.com", entity.RoleManager)
	testutil.SeedProduct(t, st.db, "prod-1", "Steel Pipe", 20)
	testutil.SeedOrder(t, st.db, "ord-1", client.ID, staff.ID, "Fix fence", entity.OrderStatusInProcess)

	if _, err := st.orders.AddProduct(ctx, "ord-1", "prod-1", 3); err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}
	if _, err := st.orders.AddProduct(ctx, "ord-1", "prod-1", 2); err != nil {
		t.Fatalf("Second AddProduct failed: %v", err)
	}

	var lines []entity.OrderProduct
	if err := st.db.Where("order_id = ?", "ord-1").Find(&lines).Error; err != nil {
		t.Fatalf("Failed to load lines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("Expected one accumulated line, got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Errorf("Expected line quantity 5, got %d", lines[0].Quantity)
	}
	if got := st.productQuantity(t, "prod-1"); got != 15 {
		t.Errorf("Expected quantity 15, got %d", got)
	}
}

func TestOrderAddProductInsufficientStock(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, st.db, "client-1", "client1", "client1@test.com", entity.RoleClient)
	staff := testutil.SeedUser(t, st.db, "mgr-1", "manager1", "manager1@test.com", entity.RoleManager)
	testutil.SeedProduct(t, st.db, "prod-1", "Steel Pipe", 2)
	testutil.SeedOrder(t, st.db, "ord-1", client.ID, staff.ID, "Fix fence", entity.OrderStatusInProcess)

	_, err := st.orders.AddProduct(ctx, "ord-1", "prod-1", 5)
	if !errors.Is(err, repository.ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}
	if got := st.productQuantity(t, "prod-1"); got != 2 {
		t.Errorf("Failed add must not change stock, got %d", got)
	}

	var count int64
	st.db.Model(&entity.OrderProduct{}).Where("order_id = ?", "ord-1").Count(&count)
	if count != 0 {
		t.Errorf("Expected no line rows, got %d", count)
	}
}

func TestOrderAddProductLowStockFanout(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, st.db, "client-1", "client1", "client1@test.com", entity.RoleClient)
	manager := testutil.SeedUser(t, st.db, "mgr-1", "manager1", "manager1@test.com", entity.RoleManager)
	admin := testutil.SeedUser(t, st.db, "adm-1", "admin1", "admin1@test.com", entity.RoleAdmin)
	testutil.SeedProduct(t, st.db, "prod-1", "Steel Pipe", 6)
	testutil.SeedOrder(t, st.db, "ord-1", client.ID, manager.ID, "Fix fence", entity.OrderStatusInProcess)

	if _, err := st.orders.AddProduct(ctx, "ord-1", "prod-1", 1); err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	// Stock dropped to 5: every staff user gets a low_stock notification,
	// the client gets none.
	if got := st.notifications(t, manager.ID, entity.NotificationLowStock); len(got) != 1 {
		t.Errorf("Expected 1 low_stock notification for manager, got %d", len(got))
	}
	if got := st.notifications(t, admin.ID, entity.NotificationLowStock); len(got) != 1 {
		t.Errorf("Expected 1 low_stock notification for admin, got %d", len(got))
	}
	if got := st.notifications(t, client.ID, entity.NotificationLowStock); len(got) != 0 {
		t.Errorf("Expected no low_stock notification for client, got %d", len(got))
	}
}

func TestOrderRemoveProductRefundsExactly(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, st.db, "client-1", "client1", "client1@test.com", entity.RoleClient)
	staff := testutil.SeedUser(t, st.db, "mgr-1", "manager1", "manager1@test.com", entity.RoleManager)
	testutil.SeedProduct(t, st.db, "prod-1", "Steel Pipe", 20)
	testutil.SeedOrder(t, st.db, "ord-1", client.ID, staff.ID, "Fix fence", entity.OrderStatusInProcess)

	if _, err := st.orders.AddProduct(ctx, "ord-1", "prod-1", 7); err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}
	if got := st.productQuantity(t, "prod-1"); got != 13 {
		t.Fatalf("Expected quantity 13 after add, got %d", got)
	}

	if _, err := st.orders.RemoveProduct(ctx, "ord-1", "prod-1"); err != nil {
		t.Fatalf("RemoveProduct failed: %v", err)
	}
	if got := st.productQuantity(t, "prod-1"); got != 20 {
		t.Errorf("Expected quantity 20 after refund, got %d", got)
	}

	var count int64
	st.db.Model(&entity.OrderProduct{}).Where("order_id = ?", "ord-1").Count(&count)
	if count != 0 {
		t.Errorf("Expected line removed, got %d rows", count)
	}

	if _, err := st.orders.RemoveProduct(ctx, "ord-1", "prod-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for missing line, got %v", err)
	}
}

func TestOrderListScopedByRole(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, st.db, "client-1", "client1", "client1@test.com", entity.RoleClient)
	other := testutil.SeedUser(t, st.db, "client-2", "client2", "client2@test.com", entity.RoleClient)
	manager := testutil.SeedUser(t, st.db, "mgr-1", "manager1", "manager1@test.com", entity.RoleManager)
	admin := testutil.SeedUser(t, st.db, "adm-1", "admin1", "admin1@test.com", entity.RoleAdmin)

	testutil.SeedOrder(t, st.db, "ord-1", client.ID, manager.ID, "Fix fence", entity.OrderStatusClientApproved)
	testutil.SeedOrder(t, st.db, "ord-2", other.ID, "", "Paint wall", entity.OrderStatusClientApproved)

	adminList, err := st.orders.List(ctx, admin)
	if err != nil || len(adminList) != 2 {
		t.Errorf("Expected admin to see 2 orders, got %d (%v)", len(adminList), err)
	}
	managerList, err := st.orders.List(ctx, manager)
	if err != nil || len(managerList) != 1 {
		t.Errorf("Expected manager to see 1 order, got %d (%v)", len(managerList), err)
	}
	clientList, err := st.orders.List(ctx, client)
	if err != nil || len(clientList) != 1 {
		t.Errorf("Expected client to see 1 order, got %d (%v)", len(clientList), err)
	}

	if _, err := st.orders.Get(ctx, "ord-2", client); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected foreign order read to fail with not found, got %v", err)
	}
}
