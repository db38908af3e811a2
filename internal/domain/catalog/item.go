package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Kind is the kind of a catalog item. All kinds share one table and are told
// apart by a one-letter discriminator.
type Kind string

const (
	KindBook  Kind = "BOOK"
	KindAlbum Kind = "ALBUM"
	KindMovie Kind = "MOVIE"
)

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	switch k {
	case KindBook, KindAlbum, KindMovie:
		return true
	}
	return false
}

// DType returns the discriminator stored for the kind
func (k Kind) DType() string {
	switch k {
	case KindBook:
		return "B"
	case KindAlbum:
		return "A"
	case KindMovie:
		return "M"
	}
	return ""
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// KindFromDType maps a stored discriminator back to a Kind
func KindFromDType(dtype string) (Kind, error) {
	switch dtype {
	case "B":
		return KindBook, nil
	case "A":
		return KindAlbum, nil
	case "M":
		return KindMovie, nil
	}
	return "", shared.NewDomainError("INVALID_KIND", fmt.Sprintf("unknown item discriminator %q", dtype))
}

// ParseKind parses a kind name case-insensitively
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", shared.NewDomainError("INVALID_KIND", fmt.Sprintf("unknown item kind %q", s))
	}
	return k, nil
}

// Item is a sellable catalog entry. Kind-specific attributes are only
// meaningful for their own kind: Author and ISBN for books, Artist and Etc for
// albums, Director and Actor for movies.
type Item struct {
	shared.BaseAggregateRoot
	Kind          Kind
	Name          string
	Price         decimal.Decimal
	StockQuantity int

	Author string
	ISBN   string

	Artist string
	Etc    string

	Director string
	Actor    string
}

// NewBook creates a new book
func NewBook(name string, price decimal.Decimal, stock int, author, isbn string) (*Item, error) {
	item, err := newItem(KindBook, name, price, stock)
	if err != nil {
		return nil, err
	}
	if err := item.SetBookDetails(author, isbn); err != nil {
		return nil, err
	}
	item.emitCreated()
	return item, nil
}

// NewAlbum creates a new album
func NewAlbum(name string, price decimal.Decimal, stock int, artist, etc string) (*Item, error) {
	item, err := newItem(KindAlbum, name, price, stock)
	if err != nil {
		return nil, err
	}
	if err := item.SetAlbumDetails(artist, etc); err != nil {
		return nil, err
	}
	item.emitCreated()
	return item, nil
}

// NewMovie creates a new movie
func NewMovie(name string, price decimal.Decimal, stock int, director, actor string) (*Item, error) {
	item, err := newItem(KindMovie, name, price, stock)
	if err != nil {
		return nil, err
	}
	if err := item.SetMovieDetails(director, actor); err != nil {
		return nil, err
	}
	item.emitCreated()
	return item, nil
}

func newItem(kind Kind, name string, price decimal.Decimal, stock int) (*Item, error) {
	name = strings.TrimSpace(name)
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}

	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		Name:              name,
		Price:             price,
		StockQuantity:     stock,
	}, nil
}

func (i *Item) emitCreated() {
	i.AddDomainEvent(NewItemCreatedEvent(i))
}

// AddStock increases the stock quantity
func (i *Item) AddStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.StockQuantity += quantity
	i.Touch()
	return nil
}

// RemoveStock decreases the stock quantity. Stock never goes below zero.
func (i *Item) RemoveStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	rest := i.StockQuantity - quantity
	if rest < 0 {
		return shared.NewDomainError(shared.ErrInsufficientStock.Code,
			fmt.Sprintf("need more stock: %s has %d, requested %d", i.Name, i.StockQuantity, quantity))
	}
	i.StockQuantity = rest
	i.Touch()
	return nil
}

// Update changes the fields shared by every kind
func (i *Item) Update(name string, price decimal.Decimal, stock int) error {
	name = strings.TrimSpace(name)
	if err := validateItemName(name); err != nil {
		return err
	}
	if err := validatePrice(price); err != nil {
		return err
	}
	if stock < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}

	i.Name = name
	i.Price = price
	i.StockQuantity = stock
	i.Touch()
	i.AddDomainEvent(NewItemUpdatedEvent(i))
	return nil
}

// SetBookDetails sets the author and ISBN of a book
func (i *Item) SetBookDetails(author, isbn string) error {
	if err := i.requireKind(KindBook); err != nil {
		return err
	}
	if err := validateAttr("author", author); err != nil {
		return err
	}
	if err := validateAttr("isbn", isbn); err != nil {
		return err
	}
	i.Author = strings.TrimSpace(author)
	i.ISBN = strings.TrimSpace(isbn)
	return nil
}

// SetAlbumDetails sets the artist and free-form notes of an album
func (i *Item) SetAlbumDetails(artist, etc string) error {
	if err := i.requireKind(KindAlbum); err != nil {
		return err
	}
	if err := validateAttr("artist", artist); err != nil {
		return err
	}
	if err := validateAttr("etc", etc); err != nil {
		return err
	}
	i.Artist = strings.TrimSpace(artist)
	i.Etc = strings.TrimSpace(etc)
	return nil
}

// SetMovieDetails sets the director and lead actor of a movie
func (i *Item) SetMovieDetails(director, actor string) error {
	if err := i.requireKind(KindMovie); err != nil {
		return err
	}
	if err := validateAttr("director", director); err != nil {
		return err
	}
	if err := validateAttr("actor", actor); err != nil {
		return err
	}
	i.Director = strings.TrimSpace(director)
	i.Actor = strings.TrimSpace(actor)
	return nil
}

// IsInStock reports whether at least quantity units are available
func (i *Item) IsInStock(quantity int) bool {
	return i.StockQuantity >= quantity
}

func (i *Item) requireKind(kind Kind) error {
	if i.Kind != kind {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			fmt.Sprintf("item %s is a %s, not a %s", i.ID, i.Kind, kind))
	}
	return nil
}

func validateItemName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}

func validateAttr(field, value string) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > 255 {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("%s cannot exceed 255 characters", field))
	}
	return nil
}
