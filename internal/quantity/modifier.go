package quantity

import (
	"github.com/TemirB/wb-cart-quantity/internal/domain"
)

//go:generate mockgen -source internal/quantity/modifier.go -destination=internal/quantity/modifier_mock_test.go -package=quantity

// Modifier sets the quantity of a cart line.
type Modifier interface {
	Modify(item *domain.OrderItem, targetQuantity int) error
}

// ModifierFunc adapts a plain function to Modifier.
type ModifierFunc func(item *domain.OrderItem, targetQuantity int) error

func (f ModifierFunc) Modify(item *domain.OrderItem, targetQuantity int) error {
	return f(item, targetQuantity)
}

// UnitFactory creates a new unit for item without attaching it.
type UnitFactory interface {
	CreateForItem(item *domain.OrderItem) (domain.OrderItemUnit, error)
}

// UnitModifier adds or removes units until the item holds exactly
// targetQuantity of them. Non-positive targets are ignored.
type UnitModifier struct {
	factory UnitFactory
}

// NewUnitModifier returns a UnitModifier that creates missing units through factory.
func NewUnitModifier(factory UnitFactory) *UnitModifier {
	return &UnitModifier{factory: factory}
}

func (m *UnitModifier) Modify(item *domain.OrderItem, targetQuantity int) error {
	current := item.Quantity()
	if targetQuantity <= 0 || targetQuantity == current {
		return nil
	}

	if targetQuantity < current {
		item.Units = item.Units[:targetQuantity]
		item.RecalculateTotal()
		return nil
	}

	for i := current; i < targetQuantity; i++ {
		unit, err := m.factory.CreateForItem(item)
		if err != nil {
			item.RecalculateTotal()
			return err
		}
		item.Units = append(item.Units, unit)
	}
	item.RecalculateTotal()
	return nil
}
