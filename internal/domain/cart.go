package domain

import "time"

type Cart struct {
	CartUID    string      `json:"cart_uid" validate:"required,max=64"`
	SessionID  string      `json:"session_id,omitempty" validate:"max=128"`
	Currency   string      `json:"currency" validate:"required,len=3,uppercase"`
	Items      []OrderItem `json:"items" validate:"dive"`
	ItemsTotal int64       `json:"items_total"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// OrderItem is a cart line. Its quantity is the number of units it holds.
type OrderItem struct {
	ID        string          `json:"id" validate:"required,max=64"`
	CartUID   string          `json:"cart_uid,omitempty"`
	ProductID string          `json:"product_id" validate:"required"`
	Name      string          `json:"name"`
	UnitPrice int64           `json:"unit_price" validate:"gte=0"`
	Units     []OrderItemUnit `json:"units,omitempty"`
	Total     int64           `json:"total"`
}

type OrderItemUnit struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *OrderItem) Quantity() int {
	return len(i.Units)
}

func (i *OrderItem) RecalculateTotal() {
	i.Total = i.UnitPrice * int64(i.Quantity())
}

// Item returns a pointer into c.Items, so changes through it are kept.
func (c *Cart) Item(id string) (*OrderItem, error) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i], nil
		}
	}
	return nil, ErrItemNotFound
}

func (c *Cart) Recalculate() {
	var total int64
	for i := range c.Items {
		c.Items[i].RecalculateTotal()
		total += c.Items[i].Total
	}
	c.ItemsTotal = total
}

func (c *Cart) Clone() *Cart {
	out := *c
	if c.Items != nil {
		out.Items = make([]OrderItem, len(c.Items))
		for i, it := range c.Items {
			if it.Units != nil {
				it.Units = append([]OrderItemUnit(nil), it.Units...)
			}
			out.Items[i] = it
		}
	}
	return &out
}
