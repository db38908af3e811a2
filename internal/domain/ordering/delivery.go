package ordering

import (
	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/jpashop/backend/internal/domain/shared/valueobject"
)

// DeliveryStatus represents the shipping state of an order
type DeliveryStatus string

const (
	DeliveryStatusReady DeliveryStatus = "READY"
	DeliveryStatusComp  DeliveryStatus = "COMP"
)

// IsValid checks if the status is a valid DeliveryStatus
func (s DeliveryStatus) IsValid() bool {
	return s == DeliveryStatusReady || s == DeliveryStatusComp
}

// Delivery is the shipment of one order
type Delivery struct {
	ID      uuid.UUID
	OrderID uuid.UUID
	Address valueobject.Address
	Status  DeliveryStatus
}

// NewDelivery creates a delivery ready to ship to address
func NewDelivery(orderID uuid.UUID, address valueobject.Address) Delivery {
	return Delivery{
		ID:      uuid.New(),
		OrderID: orderID,
		Address: address,
		Status:  DeliveryStatusReady,
	}
}

// Complete marks the delivery as done
func (d *Delivery) Complete() error {
	if d.Status == DeliveryStatusComp {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Delivery is already completed")
	}
	d.Status = DeliveryStatusComp
	return nil
}
