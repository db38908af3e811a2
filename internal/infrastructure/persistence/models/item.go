package models

import (
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ItemModel is the persistence model for every item kind. DType holds the
// one-letter kind code; columns of other kinds stay empty.
type ItemModel struct {
	AggregateModel
	DType         string          `gorm:"column:dtype;type:char(1);not null;index"`
	Name          string          `gorm:"type:varchar(200);not null;index"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	StockQuantity int             `gorm:"not null;default:0"`
	Author        string          `gorm:"type:varchar(100);not null;default:''"`
	ISBN          string          `gorm:"column:isbn;type:varchar(100);not null;default:''"`
	Artist        string          `gorm:"type:varchar(100);not null;default:''"`
	Etc           string          `gorm:"type:varchar(100);not null;default:''"`
	Director      string          `gorm:"type:varchar(100);not null;default:''"`
	Actor         string          `gorm:"type:varchar(100);not null;default:''"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "item"
}

// ToDomain converts the persistence model to a domain Item.
// An unknown dtype is returned as an error rather than guessed.
func (m *ItemModel) ToDomain() (*catalog.Item, error) {
	kind, err := catalog.KindFromDType(m.DType)
	if err != nil {
		return nil, err
	}
	return &catalog.Item{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Kind:              kind,
		Name:              m.Name,
		Price:             m.Price,
		StockQuantity:     m.StockQuantity,
		Author:            m.Author,
		ISBN:              m.ISBN,
		Artist:            m.Artist,
		Etc:               m.Etc,
		Director:          m.Director,
		Actor:             m.Actor,
	}, nil
}

// FromDomain populates the persistence model from a domain Item
func (m *ItemModel) FromDomain(i *catalog.Item) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.DType = i.Kind.DType()
	m.Name = i.Name
	m.Price = i.Price
	m.StockQuantity = i.StockQuantity
	m.Author = i.Author
	m.ISBN = i.ISBN
	m.Artist = i.Artist
	m.Etc = i.Etc
	m.Director = i.Director
	m.Actor = i.Actor
}

// ItemModelFromDomain creates a new persistence model from a domain Item
func ItemModelFromDomain(i *catalog.Item) *ItemModel {
	m := &ItemModel{}
	m.FromDomain(i)
	return m
}
