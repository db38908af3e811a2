package member

import (
	"strings"
	"unicode/utf8"

	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/jpashop/backend/internal/domain/shared/valueobject"
)

// MaxNameLength is the maximum length of a member name
const MaxNameLength = 100

// Member is a registered shopper. Member names are unique.
type Member struct {
	shared.BaseAggregateRoot
	Name    string
	Address valueobject.Address
}

// NewMember creates a new member
func NewMember(name string, address valueobject.Address) (*Member, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	m := &Member{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Address:           address,
	}
	m.AddDomainEvent(NewMemberJoinedEvent(m))

	return m, nil
}

// Rename changes the member's name
func (m *Member) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	if name == m.Name {
		return nil
	}

	oldName := m.Name
	m.Name = name
	m.Touch()
	m.AddDomainEvent(NewMemberRenamedEvent(m, oldName))

	return nil
}

// ChangeAddress replaces the member's address
func (m *Member) ChangeAddress(address valueobject.Address) {
	if m.Address.Equals(address) {
		return
	}
	m.Address = address
	m.Touch()
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Member name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return shared.NewDomainError("INVALID_NAME", "Member name cannot exceed 100 characters")
	}
	return nil
}
