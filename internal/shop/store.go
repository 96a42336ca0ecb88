package shop

import (
	"context"
	"errors"
)

var (
	// ErrInvalidID is returned when an identifier cannot be parsed by the store.
	ErrInvalidID = errors.New("invalid id")
	// ErrValidation marks input rejected before it reaches a store.
	ErrValidation = errors.New("validation failed")
)

type ProductStore interface {
	InsertProduct(ctx context.Context, p Product) (string, error)
	FindProducts(ctx context.Context, f ProductFilter, limit, offset int) ([]Product, error)
	// FindProductsByIDs returns the products that exist among ids, in no
	// particular order. Each returned ID is spelled exactly as requested.
	FindProductsByIDs(ctx context.Context, ids []string) ([]Product, error)
}

type OrderStore interface {
	InsertOrder(ctx context.Context, o Order) (string, error)
	// ListOrdersByUser returns one page of the user's orders sorted by id, plus
	// every product referenced by an item on that page.
	ListOrdersByUser(ctx context.Context, userID string, limit, offset int) ([]Order, []Product, error)
}

// Store is what a backing database has to provide.
type Store interface {
	ProductStore
	OrderStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
