package handler

import (
	"testing"

	"github.com/ozodbekAI/service/internal/config"
	"github.com/ozodbekAI/service/internal/entity"
	"github.com/ozodbekAI/service/internal/middleware"
	"github.com/ozodbekAI/service/internal/repository"
	"github.com/ozodbekAI/service/internal/service"
	"github.com/ozodbekAI/service/internal/testutil"
	"go.uber.org/zap"
)

func setupAPITest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	logger := zap.NewNop()

	mailer := service.NewMailer(config.SMTPConfig{}, logger)
	notifier := service.NewNotificationService(repos.Notification, repos.User, mailer, logger)
	inventory := service.NewInventoryService(repos.Product)
	storage := service.NewStorageService(nil, config.MinIOConfig{}, logger)

	services := &service.Services{
		Announcement: service.NewAnnouncementService(db, repos.Announcement, repos.Order, inventory, notifier, logger),
		Order:        service.NewOrderService(db, repos.Order, repos.Product, inventory, notifier, logger),
		Inventory:    inventory,
		Product:      service.NewProductService(repos.Product, logger),
		Notification: notifier,
		Dashboard:    service.NewDashboardService(repos.Dashboard, repos.User, repos.Announcement, repos.Order, logger),
		Storage:      storage,
	}
	h := &Handlers{
		Announcement: NewAnnouncementHandler(services.Announcement, storage),
		Order:        NewOrderHandler(services.Order),
		Product:      NewProductHandler(services.Product, storage),
		Notification: NewNotificationHandler(services.Notification),
		Dashboard:    NewDashboardHandler(services.Dashboard),
	}

	api := testutil.AuthGroup(router, "/api/v1")

	announcements := api.Group("/announcements")
	announcements.POST("", h.Announcement.Create)
	announcements.GET("", h.Announcement.List)
	announcements.GET("/my_announcements", h.Announcement.MyAnnouncements)
	announcements.GET("/pending", middleware.RequireStaff(), h.Announcement.Pending)
	announcements.GET("/:id", h.Announcement.Get)
	announcements.POST("/:id/accept", middleware.RequireStaff(), h.Announcement.Accept)
	announcements.POST("/:id/reject", middleware.RequireStaff(), h.Announcement.Reject)
	announcements.POST("/:id/client_approve", h.Announcement.ClientApprove)
	announcements.POST("/:id/client_reject", h.Announcement.ClientReject)
	announcements.POST("/:id/complete", middleware.RequireStaff(), h.Announcement.Complete)

	orders := api.Group("/orders")
	orders.GET("", h.Order.List)
	orders.GET("/my_orders", h.Order.MyOrders)
	orders.GET("/:id", h.Order.Get)
	orders.POST("/:id/start_processing", middleware.RequireStaff(), h.Order.StartProcessing)
	orders.POST("/:id/complete", middleware.RequireStaff(), h.Order.Complete)
	orders.POST("/:id/reject", middleware.RequireStaff(), h.Order.Reject)
	orders.POST("/:id/add_product", middleware.RequireStaff(), h.Order.AddProduct)
	orders.POST("/:id/remove_product", middleware.RequireStaff(), h.Order.RemoveProduct)

	notifications := api.Group("/notifications")
	notifications.GET("", h.Notification.List)
	notifications.POST("/:id/mark_as_read", h.Notification.MarkRead)
	notifications.POST("/mark_all_as_read", h.Notification.MarkAllRead)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func clientToken(id string) string {
	return testutil.GenerateTestToken(id, "client", id+"@test.com", entity.RoleClient)
}

func managerToken(id string) string {
	return testutil.GenerateTestToken(id, "manager", id+"@test.com", entity.RoleManager)
}
