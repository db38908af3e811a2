package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateItemRequest creates a book, album or movie. Only the attributes of
// the requested kind are used.
type CreateItemRequest struct {
	Kind          string          `json:"kind" form:"kind" binding:"required,item_kind"`
	Name          string          `json:"name" form:"name" binding:"required,max=200"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" form:"stock_quantity" binding:"min=0"`
	Author        string          `json:"author" form:"author" binding:"max=255"`
	ISBN          string          `json:"isbn" form:"isbn" binding:"max=255"`
	Artist        string          `json:"artist" form:"artist" binding:"max=255"`
	Etc           string          `json:"etc" form:"etc" binding:"max=255"`
	Director      string          `json:"director" form:"director" binding:"max=255"`
	Actor         string          `json:"actor" form:"actor" binding:"max=255"`
}

// UpdateItemRequest replaces the common fields and the kind attributes
type UpdateItemRequest struct {
	Name          string          `json:"name" form:"name" binding:"required,max=200"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" form:"stock_quantity" binding:"min=0"`
	Author        string          `json:"author" form:"author" binding:"max=255"`
	ISBN          string          `json:"isbn" form:"isbn" binding:"max=255"`
	Artist        string          `json:"artist" form:"artist" binding:"max=255"`
	Etc           string          `json:"etc" form:"etc" binding:"max=255"`
	Director      string          `json:"director" form:"director" binding:"max=255"`
	Actor         string          `json:"actor" form:"actor" binding:"max=255"`
}

// AddStockRequest adds units to an item's stock
type AddStockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ItemListFilter represents list query parameters
type ItemListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Kind     string `form:"kind" binding:"omitempty,item_kind"`
	Search   string `form:"search"`
	InStock  *bool  `form:"in_stock"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	Kind          string          `json:"kind"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Author        string          `json:"author,omitempty"`
	ISBN          string          `json:"isbn,omitempty"`
	Artist        string          `json:"artist,omitempty"`
	Etc           string          `json:"etc,omitempty"`
	Director      string          `json:"director,omitempty"`
	Actor         string          `json:"actor,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToItemResponse converts an item to its response DTO
func ToItemResponse(item *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:            item.ID,
		Kind:          item.Kind.String(),
		Name:          item.Name,
		Price:         item.Price,
		StockQuantity: item.StockQuantity,
		Author:        item.Author,
		ISBN:          item.ISBN,
		Artist:        item.Artist,
		Etc:           item.Etc,
		Director:      item.Director,
		Actor:         item.Actor,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
		Version:       item.Version,
	}
}

// ToItemResponses converts items to response DTOs
func ToItemResponses(items []catalog.Item) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}
