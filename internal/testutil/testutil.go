package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ozodbekAI/service/internal/entity"
	"github.com/ozodbekAI/service/internal/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "service-api-test-secret"

// TestEnv holds test environment resources.
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

var dbSeq atomic.Int64

// SetupTestDB opens an isolated in-memory database and migrates the full
// schema. The single-connection pool keeps the shared-cache memory
// database alive for the whole test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%d_%d?mode=memory&cache=shared",
		time.Now().UnixNano(), dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

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
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// SetupRouter creates a bare gin router in test mode.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates a router group guarded by JWT auth.
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken mints a signed access token for a test identity.
func GenerateTestToken(userID, name, email, role string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"email": email,
		"role":  role,
		"iss":   "service-api",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DoRequest executes an HTTP request against the test router.
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse decodes a JSON object response body.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedUser creates a user row.
func SeedUser(t *testing.T, db *gorm.DB, id, username, email, role string) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:       id,
		Username: username,
		Email:    email,
		Password: "x",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

// SeedProduct creates a product row with the given stock.
func SeedProduct(t *testing.T, db *gorm.DB, id, name string, quantity int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:       id,
		Name:     name,
		Price:    100,
		Quantity: quantity,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return p
}

// SeedAnnouncement creates an announcement row in the given status.
func SeedAnnouncement(t *testing.T, db *gorm.DB, id, clientID, title, status string) *entity.Announcement {
	t.Helper()
	a := &entity.Announcement{
		ID:       id,
		ClientID: clientID,
		Title:    title,
		Status:   status,
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("Failed to seed announcement: %v", err)
	}
	return a
}

// SeedOrder creates an order row in the given status.
func SeedOrder(t *testing.T, db *gorm.DB, id, clientID, managerID, title, status string) *entity.Order {
	t.Helper()
	o := &entity.Order{
		ID:       id,
		ClientID: clientID,
		Title:    title,
		Status:   status,
	}
	if managerID != "" {
		o.ManagerID = &managerID
	}
	if err := db.Create(o).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	return o
}
