package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/jpashop/backend/internal/application/catalog"
	memberapp "github.com/jpashop/backend/internal/application/member"
	orderingapp "github.com/jpashop/backend/internal/application/ordering"
	"github.com/jpashop/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.APIPrefix())
	assert.Nil(t, r.writeGuard)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "/api/v2", r.APIPrefix())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("orders", "/orders")
		assert.Equal(t, "orders", g.Name())
		assert.Equal(t, "/orders", g.Prefix())
	})

	t.Run("registers subgroups and middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("orders", "/orders").Use(func(c *gin.Context) {
			c.Header("X-Group", "orders")
		})
		g.Group("delivery", "/:id/delivery").POST("/complete", func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("id"))
		})
		g.RegisterRoutes(engine.Group("/api/v1"), nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/42/delivery/complete", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "42", w.Body.String())
		assert.Equal(t, "orders", w.Header().Get("X-Group"))
	})
}

func TestWriteGuard(t *testing.T) {
	engine := gin.New()
	guard := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
	r := NewRouter(engine, WithWriteGuard(guard))

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	g := NewDomainGroup("items", "/items")
	g.GET("", ok)
	g.POST("", ok)
	g.PUT("/:id", ok)
	r.Register(g).Setup()

	tests := []struct {
		method string
		path   string
		auth   string
		want   int
	}{
		{http.MethodGet, "/api/v1/items", "", http.StatusOK},
		{http.MethodPost, "/api/v1/items", "", http.StatusUnauthorized},
		{http.MethodPut, "/api/v1/items/1", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/items", "Bearer x", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" "+tt.auth, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRegisterAPI(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	RegisterAPI(r, APIHandlers{
		System:    handler.NewSystemHandler("jpashop", "test", nil),
		Member:    handler.NewMemberHandler(memberapp.NewService(nil, nil, nil)),
		Item:      handler.NewItemHandler(catalogapp.NewItemService(nil, nil, nil)),
		Order:     handler.NewOrderHandler(orderingapp.NewService(nil, nil, nil)),
		OrderView: handler.NewOrderViewHandler(orderingapp.NewQueryService(nil, nil)),
	})
	r.Setup()

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /api/v1/system/info",
		"GET /api/v1/system/ping",
		"POST /api/v1/members",
		"GET /api/v1/members",
		"GET /api/v1/members/:id",
		"PUT /api/v1/members/:id",
		"POST /api/v1/items",
		"GET /api/v1/items",
		"GET /api/v1/items/:id",
		"PUT /api/v1/items/:id",
		"POST /api/v1/items/:id/stock",
		"POST /api/v1/orders",
		"GET /api/v1/orders",
		"GET /api/v1/orders/:id",
		"POST /api/v1/orders/:id/cancel",
		"POST /api/v1/orders/:id/delivery/complete",
		"GET /api/v1/order-views/entities",
		"GET /api/v1/order-views/fetch-join",
		"GET /api/v1/order-views/paged",
		"GET /api/v1/order-views/dto",
		"GET /api/v1/order-views/dto-optimized",
		"GET /api/v1/order-views/dto-flat",
		"GET /api/v1/order-views/simple",
		"GET /api/v1/order-views/simple-dto",
	}
	require.Len(t, engine.Routes(), len(expected))
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestRegisterPages(t *testing.T) {
	engine := gin.New()
	h := handler.NewPageHandler(
		memberapp.NewService(nil, nil, nil),
		catalogapp.NewItemService(nil, nil, nil),
		orderingapp.NewService(nil, nil, nil),
	)
	require.NoError(t, RegisterPages(engine, h))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jpashop")
	assert.Len(t, engine.Routes(), 13)
}
