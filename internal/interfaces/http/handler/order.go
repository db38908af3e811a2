package handler

import (
	"github.com/gin-gonic/gin"
	orderingapp "github.com/jpashop/backend/internal/application/ordering"
)

// IdempotencyKeyHeader carries the client-chosen key for order placement
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderHandler handles order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderingapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderingapp.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Place godoc
// @Summary      Place an order
// @Description  Place an order for a member. Stock is removed for every line.
// @Description  A repeated Idempotency-Key is rejected while the first request is remembered.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client request key"
// @Param        request body orderingapp.PlaceOrderRequest true "Order request"
// @Success      201 {object} APIResponse[orderingapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Place(c *gin.Context) {
	var req orderingapp.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	order, err := h.orderService.Place(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, order)
}

// Search godoc
// @Summary      Search orders
// @Tags         orders
// @Produce      json
// @Param        member_name query string false "Member name substring"
// @Param        status query string false "Order status" Enums(ORDER, CANCEL)
// @Success      200 {object} APIResponse[[]orderingapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /orders [get]
func (h *OrderHandler) Search(c *gin.Context) {
	var req orderingapp.OrderSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	orders, err := h.orderService.Search(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, orders)
}

// GetByID godoc
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[orderingapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel godoc
// @Summary      Cancel an order
// @Description  Cancel an order and restore stock. Delivered orders cannot be cancelled.
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[orderingapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.parseID(c, "order")
	if !ok {
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// CompleteDelivery godoc
// @Summary      Complete an order's delivery
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[orderingapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/delivery/complete [post]
func (h *OrderHandler) CompleteDelivery(c *gin.Context) {
	id, ok := h.parseID(c, "order")
	if !ok {
		return
	}

	order, err := h.orderService.CompleteDelivery(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}
