package router

import (
	"github.com/jpashop/backend/internal/interfaces/http/handler"
)

// APIHandlers bundles the JSON API handlers
type APIHandlers struct {
	System    *handler.SystemHandler
	Member    *handler.MemberHandler
	Item      *handler.ItemHandler
	Order     *handler.OrderHandler
	OrderView *handler.OrderViewHandler
}

// RegisterAPI registers the shop's domain groups on r
func RegisterAPI(r *Router, h APIHandlers) {
	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/ping", h.System.Ping)

	members := NewDomainGroup("members", "/members")
	members.POST("", h.Member.Join)
	members.GET("", h.Member.List)
	members.GET("/:id", h.Member.GetByID)
	members.PUT("/:id", h.Member.Update)

	items := NewDomainGroup("items", "/items")
	items.POST("", h.Item.Create)
	items.GET("", h.Item.List)
	items.GET("/:id", h.Item.GetByID)
	items.PUT("/:id", h.Item.Update)
	items.POST("/:id/stock", h.Item.AddStock)

	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", h.Order.Place)
	orders.GET("", h.Order.Search)
	orders.GET("/:id", h.Order.GetByID)
	orders.POST("/:id/cancel", h.Order.Cancel)
	orders.Group("delivery", "/:id/delivery").
		POST("/complete", h.Order.CompleteDelivery)

	views := NewDomainGroup("order-views", "/order-views")
	views.GET("/entities", h.OrderView.Entities)
	views.GET("/fetch-join", h.OrderView.FetchJoin)
	views.GET("/paged", h.OrderView.Paged)
	views.GET("/dto", h.OrderView.DTOs)
	views.GET("/dto-optimized", h.OrderView.DTOsOptimized)
	views.GET("/dto-flat", h.OrderView.DTOsFlat)
	views.GET("/simple", h.OrderView.Simple)
	views.GET("/simple-dto", h.OrderView.SimpleDTOs)

	r.Register(system).
		Register(members).
		Register(items).
		Register(orders).
		Register(views)
}
