package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ozodbekAI/service/internal/config"
	"github.com/ozodbekAI/service/internal/entity"
	"github.com/ozodbekAI/service/internal/handler"
	"github.com/ozodbekAI/service/internal/middleware"
	"github.com/ozodbekAI/service/internal/repository"
	"github.com/ozodbekAI/service/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting service-api",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.ProductCategory{},
		&entity.Product{},
		&entity.ProductImage{},
		&entity.Announcement{},
		&entity.AnnouncementProduct{},
		&entity.AnnouncementImage{},
		&entity.Order{},
		&entity.OrderProduct{},
		&entity.Notification{},
		&entity.Dashboard{},
	); err != nil {
		zapLogger.Fatal("AutoMigrate failed", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	minioClient, err := initMinio(cfg.MinIO)
	if err != nil {
		zapLogger.Warn("MinIO unavailable, image uploads disabled", zap.Error(err))
	}

	repos := repository.NewRepositories(db)

	mailer := service.NewMailer(cfg.SMTP, zapLogger)
	notifier := service.NewNotificationService(repos.Notification, repos.User, mailer, zapLogger)
	inventory := service.NewInventoryService(repos.Product)
	storage := service.NewStorageService(minioClient, cfg.MinIO, zapLogger)

	services := &service.Services{
		Auth:         service.NewAuthService(repos.User, rdb, cfg),
		Announcement: service.NewAnnouncementService(db, repos.Announcement, repos.Order, inventory, notifier, zapLogger),
		Order:        service.NewOrderService(db, repos.Order, repos.Product, inventory, notifier, zapLogger),
		Inventory:    inventory,
		Product:      service.NewProductService(repos.Product, zapLogger),
		Notification: notifier,
		Dashboard:    service.NewDashboardService(repos.Dashboard, repos.User, repos.Announcement, repos.Order, zapLogger),
		Storage:      storage,
	}

	if minioClient != nil {
		if err := storage.EnsureBucket(context.Background()); err != nil {
			zapLogger.Warn("Failed to ensure storage bucket", zap.Error(err))
		}
	}

	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func initMinio(cfg config.MinIOConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authed := v1.Group("")
		authed.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authed.GET("/auth/me", h.Auth.Me)
			authed.POST("/auth/logout", h.Auth.Logout)

			announcements := authed.Group("/announcements")
			{
				announcements.POST("", h.Announcement.Create)
				announcements.GET("", h.Announcement.List)
				announcements.GET("/my_announcements", h.Announcement.MyAnnouncements)
				announcements.GET("/pending", middleware.RequireStaff(), h.Announcement.Pending)
				announcements.GET("/managed", middleware.RequireStaff(), h.Announcement.Managed)
				announcements.GET("/:id", h.Announcement.Get)
				announcements.POST("/:id/accept", middleware.RequireStaff(), h.Announcement.Accept)
				announcements.POST("/:id/reject", middleware.RequireStaff(), h.Announcement.Reject)
				announcements.POST("/:id/client_approve", h.Announcement.ClientApprove)
				announcements.POST("/:id/client_reject", h.Announcement.ClientReject)
				announcements.POST("/:id/complete", middleware.RequireStaff(), h.Announcement.Complete)
				announcements.POST("/:id/images", h.Announcement.UploadImage)
				announcements.GET("/:id/images", h.Announcement.Images)
			}

			orders := authed.Group("/orders")
			{
				orders.GET("", h.Order.List)
				orders.GET("/my_orders", h.Order.MyOrders)
				orders.GET("/pending", middleware.RequireStaff(), h.Order.Pending)
				orders.GET("/:id", h.Order.Get)
				orders.POST("/:id/start_processing", middleware.RequireStaff(), h.Order.StartProcessing)
				orders.POST("/:id/complete", middleware.RequireStaff(), h.Order.Complete)
				orders.POST("/:id/reject", middleware.RequireStaff(), h.Order.Reject)
				orders.POST("/:id/add_product", middleware.RequireStaff(), h.Order.AddProduct)
				orders.POST("/:id/remove_product", middleware.RequireStaff(), h.Order.RemoveProduct)
			}

			products := authed.Group("/products")
			{
				products.GET("", h.Product.List)
				products.GET("/low_stock", middleware.RequireStaff(), h.Product.LowStock)
				products.GET("/categories", h.Product.Categories)
				products.POST("/categories", middleware.RequireStaff(), h.Product.CreateCategory)
				products.PUT("/categories/:id", middleware.RequireStaff(), h.Product.UpdateCategory)
				products.DELETE("/categories/:id", middleware.RequireStaff(), h.Product.DeleteCategory)
				products.GET("/:id", h.Product.Get)
				products.POST("", middleware.RequireStaff(), h.Product.Create)
				products.PUT("/:id", middleware.RequireStaff(), h.Product.Update)
				products.DELETE("/:id", middleware.RequireStaff(), h.Product.Delete)
				products.POST("/:id/images", middleware.RequireStaff(), h.Product.UploadImage)
				products.GET("/:id/images", h.Product.Images)
			}

			notifications := authed.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.POST("/:id/mark_as_read", h.Notification.MarkRead)
				notifications.POST("/mark_all_as_read", h.Notification.MarkAllRead)
			}

			dashboard := authed.Group("/dashboard")
			dashboard.Use(middleware.RequireAdmin())
			{
				dashboard.GET("/today_stats", h.Dashboard.TodayStats)
				dashboard.GET("/weekly_stats", h.Dashboard.WeeklyStats)
				dashboard.GET("/weekly_stats/export", h.Dashboard.ExportWeekly)
				dashboard.GET("/user_management", h.Dashboard.UserManagement)
				dashboard.POST("/make_manager", h.Dashboard.MakeManager)
				dashboard.POST("/remove_manager", h.Dashboard.RemoveManager)
			}
		}
	}
}
