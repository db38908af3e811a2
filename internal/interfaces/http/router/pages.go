package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jpashop/backend/internal/interfaces/http/handler"
	"github.com/jpashop/backend/web"
)

// RegisterPages installs the embedded templates and the page routes at the root
func RegisterPages(engine *gin.Engine, h *handler.PageHandler) error {
	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse page templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/", h.Home)
	engine.GET("/members/new", h.MemberForm)
	engine.POST("/members/new", h.CreateMember)
	engine.GET("/members", h.MemberList)
	engine.GET("/items/new", h.ItemForm)
	engine.POST("/items/new", h.CreateItem)
	engine.GET("/items", h.ItemList)
	engine.GET("/items/:id/edit", h.EditItemForm)
	engine.POST("/items/:id/edit", h.UpdateItem)
	engine.GET("/order", h.OrderForm)
	engine.POST("/order", h.CreateOrder)
	engine.GET("/orders", h.OrderList)
	engine.POST("/orders/:id/cancel", h.CancelOrder)
	return nil
}
