package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/ozodbekAI/service/internal/entity"
	"github.com/ozodbekAI/service/internal/testutil"
)

func TestOrderAddProductOverHTTP(t *testing.T) {
	env := setupAPITest(t)
	testutil.SeedUser(t, env.DB, "client-1", "client1", "client-1@test.com", entity.RoleClient)
	testutil.SeedUser(t, env.DB, "mgr-1", "manager1", "mgr-1@test.com", entity.RoleManager)
	testutil.SeedProduct(t, env.DB, "prod-1", "Steel Pipe", 4)
	testutil.SeedOrder(t, env.DB, "ord-1", "client-1", "mgr-1", "Fix fence", entity.OrderStatusInProcess)

	// Short stock is a 400 with the product named.
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/orders/ord-1/add_product",
		map[string]interface{}{"product_id": "prod-1", "quantity": 10},
		managerToken("mgr-1"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if detail := testutil.ParseResponse(w)["detail"]; detail != "Not enough stock for Steel Pipe" {
		t.Errorf("Unexpected detail: %v", detail)
	}

	// Unknown product is a 404.
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/orders/ord-1/add_product",
		map[string]interface{}{"product_id": "missing", "quantity": 1},
		managerToken("mgr-1"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}

	// A valid add succeeds and charges stock.
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/orders/ord-1/add_product",
		map[string]interface{}{"product_id": "prod-1", "quantity": 3},
		managerToken("mgr-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var p entity.Product
	if err := env.DB.Where("id = ?", "prod-1").First(&p).Error; err != nil {
		t.Fatalf("Failed to load product: %v", err)
	}
	if p.Quantity != 1 {
		t.Errorf("Expected quantity 1, got %d", p.Quantity)
	}

	// Removing the line refunds the reservation.
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/orders/ord-1/remove_product",
		map[string]interface{}{"product_id": "prod-1"},
		managerToken("mgr-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := env.DB.Where("id = ?", "prod-1").First(&p).Error; err != nil {
		t.Fatalf("Failed to reload product: %v", err)
	}
	if p.Quantity != 4 {
		t.Errorf("Expected quantity 4 after refund, got %d", p.Quantity)
	}

	// Removing again is a 404 with the line message.
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/orders/ord-1/remove_product",
		map[string]interface{}{"product_id": "prod-1"},
		managerToken("mgr-1"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
	if detail := testutil.ParseResponse(w)["detail"]; detail != "Product not assigned to this order." {
		t.Errorf("Unexpected detail: %v", detail)
	}
}

func TestOrderCompleteRequiresAssignedManager(t *testing.T) {
	env := setupAPITest(t)
	testutil.SeedUser(t, env.DB, "client-1", "client1", "client-1@test.com", entity.RoleClient)
	testutil.SeedUser(t, env.DB, "mgr-1", "manager1", "mgr-1@test.com", entity.RoleManager)
	testutil.SeedUser(t, env.DB, "mgr-2", "manager2", "mgr-2@test.com", entity.RoleManager)
	testutil.SeedOrder(t, env.DB, "ord-1", "client-1", "mgr-1", "Fix fence", entity.OrderStatusInProcess)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/orders/ord-1/complete", nil, managerToken("mgr-2"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for foreign manager, got %d", w.Code)
	}
	if detail := testutil.ParseResponse(w)["detail"]; detail != "Only in-process orders assigned to you can be completed" {
		t.Errorf("Unexpected detail: %v", detail)
	}

	w = testutil.DoRequest(env.Router, "POST", "/api/v1/orders/ord-1/complete", nil, managerToken("mgr-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOrderListingScopes(t *testing.T) {
	env := setupAPITest(t)
	testutil.SeedUser(t, env.DB, "client-1", "client1", "client-1@test.com", entity.RoleClient)
	testutil.SeedUser(t, env.DB, "client-2", "client2", "client-2@test.com", entity.RoleClient)
	testutil.SeedUser(t, env.DB, "mgr-1", "manager1", "mgr-1@test.com", entity.RoleManager)
	testutil.SeedOrder(t, env.DB, "ord-1", "client-1", "mgr-1", "Fix fence", entity.OrderStatusClientApproved)
	testutil.SeedOrder(t, env.DB, "ord-2", "client-2", "", "Paint wall", entity.OrderStatusClientApproved)

	// A client only sees their own orders.
	w := testutil.DoRequest(env.Router, "GET", "/api/v1/orders/my_orders", nil, clientToken("client-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, `"id":"ord-1"`) || strings.Contains(body, `"id":"ord-2"`) {
		t.Errorf("Expected only ord-1 in listing, got %s", body)
	}

	// A foreign order reads as 404, not 403.
	w = testutil.DoRequest(env.Router, "GET", "/api/v1/orders/ord-2", nil, clientToken("client-1"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for foreign order, got %d", w.Code)
	}
}
