package member

import (
	"time"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/member"
	"github.com/jpashop/backend/internal/domain/shared/valueobject"
)

// AddressDTO is the wire form of an address
type AddressDTO struct {
	City    string `json:"city" form:"city" binding:"max=100"`
	Street  string `json:"street" form:"street" binding:"max=200"`
	Zipcode string `json:"zipcode" form:"zipcode" binding:"max=20"`
}

// ToAddress converts the DTO to a validated address
func (a AddressDTO) ToAddress() (valueobject.Address, error) {
	return valueobject.NewAddress(a.City, a.Street, a.Zipcode)
}

// ToAddressDTO converts an address to its wire form
func ToAddressDTO(a valueobject.Address) AddressDTO {
	return AddressDTO{City: a.City(), Street: a.Street(), Zipcode: a.Zipcode()}
}

// JoinMemberRequest represents a request to register a member
type JoinMemberRequest struct {
	Name    string     `json:"name" form:"name" binding:"required,max=100"`
	Address AddressDTO `json:"address"`
}

// UpdateMemberRequest renames a member and optionally replaces the address
type UpdateMemberRequest struct {
	Name    string      `json:"name" binding:"required,max=100"`
	Address *AddressDTO `json:"address"`
}

// MemberListFilter represents list query parameters
type MemberListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Address   AddressDTO `json:"address"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Version   int        `json:"version"`
}

// UpdateMemberResponse is returned by the update endpoint
type UpdateMemberResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ToMemberResponse converts a member to its response DTO
func ToMemberResponse(m *member.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Address:   ToAddressDTO(m.Address),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Version:   m.Version,
	}
}

// ToMemberResponses converts members to response DTOs
func ToMemberResponses(members []member.Member) []MemberResponse {
	responses := make([]MemberResponse, len(members))
	for i := range members {
		responses[i] = ToMemberResponse(&members[i])
	}
	return responses
}
