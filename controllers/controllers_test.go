package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/controllers"
	"github.com/yeremiapane/restaurant-orders/database"
	"github.com/yeremiapane/restaurant-orders/middlewares"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	db      *gorm.DB
	router  *gin.Engine
	tokens  *utils.TokenIssuer
	users   *database.UserRepository
	orders  *services.OrderService
	catalog *services.MenuCatalog
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.Seed(context.Background(), db, nil))
	return db
}

// setupServer wires the order, menu and auth handlers over a fresh database.
// finder replaces the repository behind my-orders when non-nil.
func setupServer(t *testing.T, finder services.OrderFinder) *testServer {
	t.Helper()
	db := setupTestDB(t)

	users := database.NewUserRepository(db)
	orderRepo := database.NewOrderRepository(db)
	catalog := services.NewMenuCatalog(database.NewMenuRepository(db))
	resolver := services.NewIdentityResolver(users)
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	revoked := utils.NewRevocationList(time.Hour)

	if finder == nil {
		finder = orderRepo
	}
	orderService := services.NewOrderService(orderRepo, users, catalog, nil, nil)
	lookup := services.NewOrderLookupService(resolver, finder, time.Second, nil)
	auth := services.NewAuthService(users, resolver, tokens, &utils.PasswordHasher{Cost: 4}, revoked)

	oc := controllers.NewOrderController(orderService, lookup)
	mc := controllers.NewMenuController(catalog)
	uc := controllers.NewUserController(auth)
	authn := middlewares.NewAuthenticator(tokens, revoked)

	r := gin.New()
	r.POST("/api/auth/register", uc.Register)
	r.POST("/api/auth/login", uc.Login)
	r.POST("/api/auth/logout", authn.RequireAuth(), uc.Logout)
	r.GET("/api/menu", mc.GetAllMenus)
	r.GET("/api/menu/category/:category", mc.GetMenusByCategory)
	r.POST("/api/orders", authn.OptionalAuth(), oc.CreateOrder)
	secured := r.Group("/api/orders", authn.RequireAuth())
	secured.GET("", oc.GetAllOrders)
	secured.GET("/my-orders", oc.GetMyOrders)
	secured.GET("/user/:user_id", oc.GetOrdersByUserID)
	secured.GET("/user/email/:email", oc.GetOrdersByUserEmail)
	secured.GET("/user/phone/:phone", oc.GetOrdersByUserPhone)
	secured.GET("/:order_id", oc.GetOrderByID)
	secured.PUT("/:order_id/status", oc.UpdateOrderStatus)
	secured.POST("/:order_id/items", oc.AddOrderItem)
	secured.DELETE("/:order_id/items/:item_id", oc.RemoveOrderItem)
	secured.DELETE("/:order_id", middlewares.RequireRoles(models.RoleStaff, models.RoleAdmin), oc.DeleteOrder)

	return &testServer{
		db:      db,
		router:  r,
		tokens:  tokens,
		users:   users,
		orders:  orderService,
		catalog: catalog,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *testServer) createUser(t *testing.T, email, phone, role string) (*models.User, string) {
	t.Helper()
	user := &models.User{FullName: "Test User", Email: email, Phone: phone, Password: "x", Role: role}
	require.NoError(t, s.users.Create(context.Background(), user))
	token, err := s.tokens.Issue(utils.Principal{UserID: user.ID, Email: user.Email, Role: user.Role})
	require.NoError(t, err)
	return user, token
}

func (s *testServer) menuID(t *testing.T, name string) uint {
	t.Helper()
	var item models.MenuItem
	require.NoError(t, s.db.Where("name = ?", name).First(&item).Error)
	return item.ID
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}
