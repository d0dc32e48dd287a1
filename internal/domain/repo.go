package domain

import (
	"context"
)

type CartRepository interface {
	Upsert(ctx context.Context, cart *Cart) error
	GetByUID(ctx context.Context, cartUID string) (*Cart, error)
	RecentCartIDs(ctx context.Context, limit int) ([]string, error)
}
