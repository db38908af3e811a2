package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/jpashop/backend/internal/application/catalog"
	memberapp "github.com/jpashop/backend/internal/application/member"
	orderingapp "github.com/jpashop/backend/internal/application/ordering"
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/jpashop/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// pageListSize bounds the member and item lists shown on pages
const pageListSize = 100

// PageHandler serves the server-rendered shop pages. Templates are expected
// to be installed on the engine with SetHTMLTemplate.
type PageHandler struct {
	memberService *memberapp.Service
	itemService   *catalogapp.ItemService
	orderService  *orderingapp.Service
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(
	memberService *memberapp.Service,
	itemService *catalogapp.ItemService,
	orderService *orderingapp.Service,
) *PageHandler {
	return &PageHandler{
		memberService: memberService,
		itemService:   itemService,
		orderService:  orderService,
	}
}

type pageData struct {
	Title       string
	Error       string
	FieldErrors map[string]string
	Action      string
	Form        any
	Members     []memberapp.MemberResponse
	Items       []catalogapp.ItemResponse
	Orders      []orderingapp.OrderResponse
	Search      orderSearchForm
}

type memberForm struct {
	Name    string
	City    string
	Street  string
	Zipcode string
}

type bookForm struct {
	Name          string
	Price         string
	StockQuantity string
	Author        string
	ISBN          string
}

type orderForm struct {
	MemberID string
	ItemID   string
	Count    string
}

type orderSearchForm struct {
	MemberName string
	Status     string
}

// Home renders the landing page
func (h *PageHandler) Home(c *gin.Context) {
	logger.L(c.Request.Context()).Debug("home page")
	c.HTML(http.StatusOK, "home.html", pageData{Title: "Home"})
}

// MemberForm renders the join form
func (h *PageHandler) MemberForm(c *gin.Context) {
	c.HTML(http.StatusOK, "member_form.html", pageData{Title: "Join", Form: memberForm{}})
}

// CreateMember handles the join form
func (h *PageHandler) CreateMember(c *gin.Context) {
	form := memberForm{
		Name:    c.PostForm("name"),
		City:    c.PostForm("city"),
		Street:  c.PostForm("street"),
		Zipcode: c.PostForm("zipcode"),
	}
	data := pageData{Title: "Join", Form: form}

	if strings.TrimSpace(form.Name) == "" {
		data.FieldErrors = map[string]string{"name": "Member name is required"}
		c.HTML(http.StatusBadRequest, "member_form.html", data)
		return
	}

	_, err := h.memberService.Join(c.Request.Context(), memberapp.JoinMemberRequest{
		Name:    form.Name,
		Address: memberapp.AddressDTO{City: form.City, Street: form.Street, Zipcode: form.Zipcode},
	})
	if err != nil {
		h.renderFormError(c, "member_form.html", data, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// MemberList renders all members
func (h *PageHandler) MemberList(c *gin.Context) {
	members, _, err := h.memberService.List(c.Request.Context(), memberapp.MemberListFilter{PageSize: pageListSize})
	if err != nil {
		h.renderFormError(c, "member_list.html", pageData{Title: "Members"}, err)
		return
	}
	c.HTML(http.StatusOK, "member_list.html", pageData{Title: "Members", Members: members})
}

// ItemForm renders the book registration form
func (h *PageHandler) ItemForm(c *gin.Context) {
	c.HTML(http.StatusOK, "item_form.html", pageData{Title: "New book", Action: "/items/new", Form: bookForm{}})
}

// CreateItem handles the book registration form
func (h *PageHandler) CreateItem(c *gin.Context) {
	form := readBookForm(c)
	data := pageData{Title: "New book", Action: "/items/new", Form: form}

	price, stock, fieldErrors := form.parse()
	if len(fieldErrors) > 0 {
		data.FieldErrors = fieldErrors
		c.HTML(http.StatusBadRequest, "item_form.html", data)
		return
	}

	_, err := h.itemService.Create(c.Request.Context(), catalogapp.CreateItemRequest{
		Kind:          catalog.KindBook.String(),
		Name:          form.Name,
		Price:         price,
		StockQuantity: stock,
		Author:        form.Author,
		ISBN:          form.ISBN,
	})
	if err != nil {
		h.renderFormError(c, "item_form.html", data, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/items")
}

// ItemList renders all items
func (h *PageHandler) ItemList(c *gin.Context) {
	items, err := h.listItems(c)
	if err != nil {
		h.renderFormError(c, "item_list.html", pageData{Title: "Items"}, err)
		return
	}
	c.HTML(http.StatusOK, "item_list.html", pageData{Title: "Items", Items: items})
}

// EditItemForm renders the edit form filled with the item's current values
func (h *PageHandler) EditItemForm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.renderNotFound(c)
		return
	}
	item, err := h.itemService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.renderNotFound(c)
			return
		}
		h.renderFormError(c, "item_form.html", pageData{Title: "Edit item"}, err)
		return
	}

	c.HTML(http.StatusOK, "item_form.html", pageData{
		Title:  "Edit item",
		Action: "/items/" + id.String() + "/edit",
		Form: bookForm{
			Name:          item.Name,
			Price:         item.Price.String(),
			StockQuantity: strconv.Itoa(item.StockQuantity),
			Author:        item.Author,
			ISBN:          item.ISBN,
		},
	})
}

// UpdateItem handles the edit form. Attributes of other kinds are kept.
func (h *PageHandler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.renderNotFound(c)
		return
	}
	form := readBookForm(c)
	data := pageData{Title: "Edit item", Action: "/items/" + id.String() + "/edit", Form: form}

	price, stock, fieldErrors := form.parse()
	if len(fieldErrors) > 0 {
		data.FieldErrors = fieldErrors
		c.HTML(http.StatusBadRequest, "item_form.html", data)
		return
	}

	current, err := h.itemService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.renderFormError(c, "item_form.html", data, err)
		return
	}
	_, err = h.itemService.Update(c.Request.Context(), id, catalogapp.UpdateItemRequest{
		Name:          form.Name,
		Price:         price,
		StockQuantity: stock,
		Author:        form.Author,
		ISBN:          form.ISBN,
		Artist:        current.Artist,
		Etc:           current.Etc,
		Director:      current.Director,
		Actor:         current.Actor,
	})
	if err != nil {
		h.renderFormError(c, "item_form.html", data, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/items")
}

// OrderForm renders the order form with member and item choices
func (h *PageHandler) OrderForm(c *gin.Context) {
	data := pageData{Title: "Order", Form: orderForm{Count: "1"}}
	if err := h.loadOrderChoices(c, &data); err != nil {
		h.renderFormError(c, "order_form.html", data, err)
		return
	}
	c.HTML(http.StatusOK, "order_form.html", data)
}

// CreateOrder handles the order form
func (h *PageHandler) CreateOrder(c *gin.Context) {
	form := orderForm{
		MemberID: c.PostForm("memberId"),
		ItemID:   c.PostForm("itemId"),
		Count:    c.PostForm("count"),
	}
	data := pageData{Title: "Order", Form: form}

	memberID, errMember := uuid.Parse(form.MemberID)
	itemID, errItem := uuid.Parse(form.ItemID)
	count, errCount := strconv.Atoi(strings.TrimSpace(form.Count))
	switch {
	case errMember != nil:
		data.Error = "Select a member"
	case errItem != nil:
		data.Error = "Select an item"
	case errCount != nil || count < 1:
		data.Error = "Count must be a positive number"
	}
	if data.Error != "" {
		_ = h.loadOrderChoices(c, &data)
		c.HTML(http.StatusBadRequest, "order_form.html", data)
		return
	}

	_, err := h.orderService.Place(c.Request.Context(), orderingapp.PlaceOrderRequest{
		MemberID: memberID,
		Lines:    []orderingapp.OrderLineRequest{{ItemID: itemID, Count: count}},
	})
	if err != nil {
		_ = h.loadOrderChoices(c, &data)
		h.renderFormError(c, "order_form.html", data, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/orders")
}

// OrderList renders the order search page
func (h *PageHandler) OrderList(c *gin.Context) {
	search := orderSearchForm{
		MemberName: c.Query("memberName"),
		Status:     c.Query("orderStatus"),
	}
	h.renderOrderList(c, search, "")
}

// CancelOrder cancels an order from the list and returns to it
func (h *PageHandler) CancelOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.renderNotFound(c)
		return
	}
	if _, err := h.orderService.Cancel(c.Request.Context(), id); err != nil {
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) {
			h.renderFormError(c, "order_list.html", pageData{Title: "Orders"}, err)
			return
		}
		h.renderOrderList(c, orderSearchForm{}, domainErr.Message)
		return
	}
	c.Redirect(http.StatusSeeOther, "/orders")
}

func (h *PageHandler) renderOrderList(c *gin.Context, search orderSearchForm, message string) {
	data := pageData{Title: "Orders", Search: search, Error: message}
	orders, err := h.orderService.Search(c.Request.Context(), orderingapp.OrderSearchRequest{
		MemberName: search.MemberName,
		Status:     search.Status,
	})
	if err != nil {
		h.renderFormError(c, "order_list.html", data, err)
		return
	}
	data.Orders = orders
	status := http.StatusOK
	if message != "" {
		status = http.StatusUnprocessableEntity
	}
	c.HTML(status, "order_list.html", data)
}

func (h *PageHandler) loadOrderChoices(c *gin.Context, data *pageData) error {
	members, _, err := h.memberService.List(c.Request.Context(), memberapp.MemberListFilter{PageSize: pageListSize})
	if err != nil {
		return err
	}
	items, err := h.listItems(c)
	if err != nil {
		return err
	}
	data.Members = members
	data.Items = items
	return nil
}

func (h *PageHandler) listItems(c *gin.Context) ([]catalogapp.ItemResponse, error) {
	items, _, err := h.itemService.List(c.Request.Context(), catalogapp.ItemListFilter{
		PageSize: pageListSize,
		OrderBy:  "name",
	})
	return items, err
}

// renderFormError re-renders page with the error. Domain errors show their
// message; anything else is logged and shown generically.
func (h *PageHandler) renderFormError(c *gin.Context, page string, data pageData, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		data.Error = domainErr.Message
		status := http.StatusUnprocessableEntity
		if errors.Is(err, shared.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.HTML(status, page, data)
		return
	}

	logger.L(c.Request.Context()).Error("Page request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	data.Error = "An unexpected error occurred"
	c.HTML(http.StatusInternalServerError, page, data)
}

func (h *PageHandler) renderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "home.html", pageData{Title: "Not found", Error: "The requested page does not exist"})
}

func readBookForm(c *gin.Context) bookForm {
	return bookForm{
		Name:          c.PostForm("name"),
		Price:         c.PostForm("price"),
		StockQuantity: c.PostForm("stockQuantity"),
		Author:        c.PostForm("author"),
		ISBN:          c.PostForm("isbn"),
	}
}

// parse converts the numeric fields, collecting a message per invalid field
func (f bookForm) parse() (decimal.Decimal, int, map[string]string) {
	fieldErrors := make(map[string]string)
	if strings.TrimSpace(f.Name) == "" {
		fieldErrors["name"] = "Item name is required"
	}
	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil {
		fieldErrors["price"] = "Price must be a number"
	}
	stock := 0
	if s := strings.TrimSpace(f.StockQuantity); s != "" {
		stock, err = strconv.Atoi(s)
		if err != nil || stock < 0 {
			fieldErrors["stockQuantity"] = "Stock quantity must be a non-negative whole number"
		}
	}
	return price, stock, fieldErrors
}
