package models

import (
	"github.com/jpashop/backend/internal/domain/member"
	"github.com/jpashop/backend/internal/domain/shared/valueobject"
)

// MemberModel is the persistence model for the Member aggregate
type MemberModel struct {
	AggregateModel
	Name    string `gorm:"type:varchar(100);not null;uniqueIndex:uq_member_name"`
	City    string `gorm:"type:varchar(100);not null;default:''"`
	Street  string `gorm:"type:varchar(200);not null;default:''"`
	Zipcode string `gorm:"type:varchar(20);not null;default:''"`
}

// TableName returns the table name for GORM
func (MemberModel) TableName() string {
	return "member"
}

// ToDomain converts the persistence model to a domain Member
func (m *MemberModel) ToDomain() *member.Member {
	return &member.Member{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Address:           valueobject.RestoreAddress(m.City, m.Street, m.Zipcode),
	}
}

// FromDomain populates the persistence model from a domain Member
func (m *MemberModel) FromDomain(mem *member.Member) {
	m.FromDomainAggregateRoot(mem.BaseAggregateRoot)
	m.Name = mem.Name
	m.City = mem.Address.City()
	m.Street = mem.Address.Street()
	m.Zipcode = mem.Address.Zipcode()
}

// MemberModelFromDomain creates a new persistence model from a domain Member
func MemberModelFromDomain(mem *member.Member) *MemberModel {
	m := &MemberModel{}
	m.FromDomain(mem)
	return m
}
