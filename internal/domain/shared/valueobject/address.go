package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jpashop/backend/internal/domain/shared"
)

// Column limits for address parts
const (
	MaxCityLength    = 100
	MaxStreetLength  = 200
	MaxZipcodeLength = 20
)

// Address is an immutable value object for a postal address.
// Every part is optional; an address with all parts empty is the empty address.
type Address struct {
	city    string
	street  string
	zipcode string
}

// NewAddress trims and validates the parts of an address
func NewAddress(city, street, zipcode string) (Address, error) {
	city = strings.TrimSpace(city)
	street = strings.TrimSpace(street)
	zipcode = strings.TrimSpace(zipcode)

	if utf8.RuneCountInString(city) > MaxCityLength {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", fmt.Sprintf("city cannot exceed %d characters", MaxCityLength))
	}
	if utf8.RuneCountInString(street) > MaxStreetLength {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", fmt.Sprintf("street cannot exceed %d characters", MaxStreetLength))
	}
	if utf8.RuneCountInString(zipcode) > MaxZipcodeLength {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", fmt.Sprintf("zipcode cannot exceed %d characters", MaxZipcodeLength))
	}

	return Address{city: city, street: street, zipcode: zipcode}, nil
}

// MustNewAddress creates an Address, panics on error
func MustNewAddress(city, street, zipcode string) Address {
	addr, err := NewAddress(city, street, zipcode)
	if err != nil {
		panic(err)
	}
	return addr
}

// RestoreAddress rebuilds an address from stored columns without validation
func RestoreAddress(city, street, zipcode string) Address {
	return Address{city: city, street: street, zipcode: zipcode}
}

// EmptyAddress returns the empty address
func EmptyAddress() Address {
	return Address{}
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// Street returns the street
func (a Address) Street() string {
	return a.street
}

// Zipcode returns the zipcode
func (a Address) Zipcode() string {
	return a.zipcode
}

// IsEmpty reports whether no part of the address is set
func (a Address) IsEmpty() bool {
	return a.city == "" && a.street == "" && a.zipcode == ""
}

// FullAddress joins the non-empty parts with a single space
func (a Address) FullAddress() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.city, a.street, a.zipcode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// String implements fmt.Stringer
func (a Address) String() string {
	return a.FullAddress()
}

// Equals compares two addresses by value
func (a Address) Equals(other Address) bool {
	return a == other
}

type addressJSON struct {
	City    string `json:"city"`
	Street  string `json:"street"`
	Zipcode string `json:"zipcode"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{City: a.city, Street: a.street, Zipcode: a.zipcode})
}

// UnmarshalJSON implements json.Unmarshaler, applying NewAddress validation
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	addr, err := NewAddress(v.City, v.Street, v.Zipcode)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer, storing the address as JSON
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}
	return json.Unmarshal(data, a)
}
