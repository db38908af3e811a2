package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/jpashop/backend/internal/application/catalog"
)

// ItemHandler handles item API endpoints
type ItemHandler struct {
	BaseHandler
	itemService *catalogapp.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *catalogapp.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// Create godoc
// @Summary      Create an item
// @Description  Create a book, album or movie. Only the attributes of the requested kind are stored.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateItemRequest true "Item creation request"
// @Success      201 {object} APIResponse[catalogapp.ItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	var req catalogapp.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, item)
}

// List godoc
// @Summary      List items
// @Tags         items
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        kind query string false "Item kind" Enums(BOOK, ALBUM, MOVIE)
// @Param        search query string false "Name substring"
// @Param        in_stock query bool false "Only items with stock"
// @Success      200 {object} APIResponse[[]catalogapp.ItemResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /items [get]
func (h *ItemHandler) List(c *gin.Context) {
	var filter catalogapp.ItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	items, total, err := h.itemService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// GetByID godoc
// @Summary      Get item by ID
// @Tags         items
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ItemResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /items/{id} [get]
func (h *ItemHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "item")
	if !ok {
		return
	}

	item, err := h.itemService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// Update godoc
// @Summary      Update an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body catalogapp.UpdateItemRequest true "Item update request"
// @Success      200 {object} APIResponse[catalogapp.ItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "item")
	if !ok {
		return
	}

	var req catalogapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// AddStock godoc
// @Summary      Add stock to an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body catalogapp.AddStockRequest true "Quantity to add"
// @Success      200 {object} APIResponse[catalogapp.ItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /items/{id}/stock [post]
func (h *ItemHandler) AddStock(c *gin.Context) {
	id, ok := h.parseID(c, "item")
	if !ok {
		return
	}

	var req catalogapp.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.itemService.AddStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}
