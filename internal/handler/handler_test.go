package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/util"
)

const testSecret = "test-secret"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, email string) (*models.User, string) {
	t.Helper()
	user := models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := util.GenerateToken(testSecret, user.ID, 0)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return &user, token
}

type envelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w, env
}

// testRouter wires a minimal authenticated API around the given DB.
// It mirrors the production route table for the endpoints under test.
func testRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api")
	api.Use(authStub(db))

	accountHandler := NewAccountHandler(db)
	api.POST("/accounts", accountHandler.Create)
	api.GET("/accounts", accountHandler.List)
	api.GET("/accounts/summary", accountHandler.Summary)
	api.GET("/accounts/:id", accountHandler.Get)
	api.PUT("/accounts/:id", accountHandler.Update)
	api.DELETE("/accounts/:id", accountHandler.Delete)
	api.GET("/accounts/:id/balance-history", accountHandler.BalanceHistory)

	categoryHandler := NewCategoryHandler(db)
	api.POST("/categories", categoryHandler.Create)
	api.GET("/categories/stats", categoryHandler.Stats)

	txHandler := NewTransactionHandler(db, 20)
	api.POST("/transactions", txHandler.Create)
	api.GET("/transactions", txHandler.List)
	api.GET("/transactions/summary", txHandler.Summary)
	api.GET("/transactions/range", txHandler.Range)
	api.PUT("/transactions/:id", txHandler.Update)
	api.DELETE("/transactions/:id", txHandler.Delete)

	dashboardHandler := NewDashboardHandler(db, testAppConfig())
	api.GET("/dashboard", dashboardHandler.Dashboard)
	api.GET("/dashboard/quick-stats", dashboardHandler.QuickStats)

	return r
}

// authStub resolves the bearer token like the production middleware but
// against the test secret.
func authStub(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""
		if auth := c.GetHeader("Authorization"); len(auth) > 7 {
			tokenStr = auth[7:]
		}
		claims, err := util.ParseToken(testSecret, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
			c.Abort()
			return
		}
		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "user not found")
			c.Abort()
			return
		}
		c.Set("currentUser", &user)
		c.Next()
	}
}

func seedAccount(t *testing.T, r http.Handler, token, title, initial string) uint {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/accounts", token, gin.H{
		"title":   title,
		"initial": initial,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create account %s: status %d body %s", title, w.Code, w.Body.String())
	}
	account := env.Data["account"].(map[string]interface{})
	return uint(account["id"].(float64))
}

func seedCategory(t *testing.T, r http.Handler, token, title string) uint {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/categories", token, gin.H{"title": title})
	if w.Code != http.StatusOK {
		t.Fatalf("create category %s: status %d body %s", title, w.Code, w.Body.String())
	}
	category := env.Data["category"].(map[string]interface{})
	return uint(category["id"].(float64))
}

func seedTransaction(t *testing.T, r http.Handler, token string, categoryID, accountID uint, title, amount, txType, date string) uint {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"title":       title,
		"amount":      amount,
		"type":        txType,
		"category_id": categoryID,
		"account_id":  accountID,
		"date":        date,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create transaction %s: status %d body %s", title, w.Code, w.Body.String())
	}
	tx := env.Data["transaction"].(map[string]interface{})
	return uint(tx["id"].(float64))
}

func testAppConfig() config.AppConfig {
	return config.AppConfig{
		PageSize:      20,
		RecentLimit:   10,
		TrendMonths:   6,
		TopCategories: 5,
	}
}
