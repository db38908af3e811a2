package handler

import (
	"github.com/gin-gonic/gin"
	memberapp "github.com/jpashop/backend/internal/application/member"
)

// MemberHandler handles member API endpoints
type MemberHandler struct {
	BaseHandler
	memberService *memberapp.Service
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *memberapp.Service) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// Join godoc
// @Summary      Join a member
// @Description  Register a member. Names are unique.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body memberapp.JoinMemberRequest true "Member registration"
// @Success      201 {object} APIResponse[memberapp.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members [post]
func (h *MemberHandler) Join(c *gin.Context) {
	var req memberapp.JoinMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	m, err := h.memberService.Join(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, m)
}

// List godoc
// @Summary      List members
// @Tags         members
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Name substring"
// @Success      200 {object} APIResponse[[]memberapp.MemberResponse]
// @Router       /members [get]
func (h *MemberHandler) List(c *gin.Context) {
	var filter memberapp.MemberListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	members, total, err := h.memberService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, members, total, page, pageSize)
}

// GetByID godoc
// @Summary      Get member by ID
// @Tags         members
// @Produce      json
// @Param        id path string true "Member ID" format(uuid)
// @Success      200 {object} APIResponse[memberapp.MemberResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /members/{id} [get]
func (h *MemberHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "member")
	if !ok {
		return
	}

	m, err := h.memberService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, m)
}

// Update godoc
// @Summary      Update a member
// @Description  Rename a member and optionally replace the address
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id path string true "Member ID" format(uuid)
// @Param        request body memberapp.UpdateMemberRequest true "Member update"
// @Success      200 {object} APIResponse[memberapp.UpdateMemberResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members/{id} [put]
func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "member")
	if !ok {
		return
	}

	var req memberapp.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	m, err := h.memberService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, m)
}

// pageOrDefault mirrors the services' paging defaults for the response meta
func pageOrDefault(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
