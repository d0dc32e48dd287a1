package quantity

import (
	"time"

	"github.com/google/uuid"

	"github.com/TemirB/wb-cart-quantity/internal/domain"
)

type UUIDUnitFactory struct {
	now func() time.Time
}

func NewUUIDUnitFactory() *UUIDUnitFactory {
	return &UUIDUnitFactory{now: time.Now}
}

func (f *UUIDUnitFactory) CreateForItem(item *domain.OrderItem) (domain.OrderItemUnit, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return domain.OrderItemUnit{}, err
	}
	return domain.OrderItemUnit{
		ID:        id.String(),
		ItemID:    item.ID,
		CreatedAt: f.now().UTC(),
	}, nil
}
