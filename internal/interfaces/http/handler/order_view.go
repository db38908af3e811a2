package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	orderingapp "github.com/jpashop/backend/internal/application/ordering"
)

// OrderViewHandler exposes the order read strategies
type OrderViewHandler struct {
	BaseHandler
	queryService *orderingapp.QueryService
}

// NewOrderViewHandler creates a new OrderViewHandler
func NewOrderViewHandler(queryService *orderingapp.QueryService) *OrderViewHandler {
	return &OrderViewHandler{queryService: queryService}
}

// Entities godoc
// @Summary      Orders as mapped entities
// @Description  Loads every order aggregate and maps it to a view
// @Tags         order-views
// @Produce      json
// @Success      200 {object} APIResponse[[]orderingapp.OrderView]
// @Router       /order-views/entities [get]
func (h *OrderViewHandler) Entities(c *gin.Context) {
	views, err := h.queryService.ListEntities(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, views)
}

// FetchJoin godoc
// @Summary      Orders with member, delivery and lines loaded together
// @Tags         order-views
// @Produce      json
// @Success      200 {object} APIResponse[[]orderingapp.OrderView]
// @Router       /order-views/fetch-join [get]
func (h *OrderViewHandler) FetchJoin(c *gin.Context) {
	views, err := h.queryService.ListWithMemberDelivery(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, views)
}

// Paged godoc
// @Summary      Paged orders with batched line lookup
// @Tags         order-views
// @Produce      json
// @Param        offset query int false "Offset" default(0)
// @Param        limit query int false "Limit" default(100)
// @Success      200 {object} APIResponse[[]orderingapp.OrderView]
// @Router       /order-views/paged [get]
func (h *OrderViewHandler) Paged(c *gin.Context) {
	h.windowed(c, h.queryService.ListWithItemsPaged)
}

// DTOs godoc
// @Summary      Order projections with per-order line queries
// @Tags         order-views
// @Produce      json
// @Param        offset query int false "Offset" default(0)
// @Param        limit query int false "Limit" default(100)
// @Success      200 {object} APIResponse[[]orderingapp.OrderView]
// @Router       /order-views/dto [get]
func (h *OrderViewHandler) DTOs(c *gin.Context) {
	h.windowed(c, h.queryService.ListDTOs)
}

// DTOsOptimized godoc
// @Summary      Order projections with one batched line query
// @Tags         order-views
// @Produce      json
// @Param        offset query int false "Offset" default(0)
// @Param        limit query int false "Limit" default(100)
// @Success      200 {object} APIResponse[[]orderingapp.OrderView]
// @Router       /order-views/dto-optimized [get]
func (h *OrderViewHandler) DTOsOptimized(c *gin.Context) {
	h.windowed(c, h.queryService.ListDTOsOptimized)
}

// DTOsFlat godoc
// @Summary      Order projections from one flat joined query
// @Tags         order-views
// @Produce      json
// @Param        offset query int false "Offset" default(0)
// @Param        limit query int false "Limit" default(100)
// @Success      200 {object} APIResponse[[]orderingapp.OrderView]
// @Router       /order-views/dto-flat [get]
func (h *OrderViewHandler) DTOsFlat(c *gin.Context) {
	h.windowed(c, h.queryService.ListDTOsFlat)
}

// Simple godoc
// @Summary      Order summaries mapped from entities
// @Tags         order-views
// @Produce      json
// @Param        offset query int false "Offset" default(0)
// @Param        limit query int false "Limit" default(100)
// @Success      200 {object} APIResponse[[]orderingapp.SimpleOrderView]
// @Router       /order-views/simple [get]
func (h *OrderViewHandler) Simple(c *gin.Context) {
	var window orderingapp.PageWindow
	if err := c.ShouldBindQuery(&window); err != nil {
		h.BindingError(c, err)
		return
	}

	views, err := h.queryService.ListSimpleEntities(c.Request.Context(), window)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, views)
}

// SimpleDTOs godoc
// @Summary      Order summaries selected directly as projections
// @Tags         order-views
// @Produce      json
// @Param        offset query int false "Offset" default(0)
// @Param        limit query int false "Limit" default(100)
// @Success      200 {object} APIResponse[[]orderingapp.SimpleOrderView]
// @Router       /order-views/simple-dto [get]
func (h *OrderViewHandler) SimpleDTOs(c *gin.Context) {
	var window orderingapp.PageWindow
	if err := c.ShouldBindQuery(&window); err != nil {
		h.BindingError(c, err)
		return
	}

	views, err := h.queryService.ListSimple(c.Request.Context(), window)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, views)
}

func (h *OrderViewHandler) windowed(c *gin.Context, list func(context.Context, orderingapp.PageWindow) ([]orderingapp.OrderView, error)) {
	var window orderingapp.PageWindow
	if err := c.ShouldBindQuery(&window); err != nil {
		h.BindingError(c, err)
		return
	}

	views, err := list(c.Request.Context(), window)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, views)
}
