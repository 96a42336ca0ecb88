package shop

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// UnknownProductName is shown for items whose product no longer resolves.
const UnknownProductName = "Unknown"

// OrderService prices new orders against the catalog and lists a user's orders.
type OrderService struct {
	Products ProductStore
	Orders   OrderStore
}

func NewOrderService(products ProductStore, orders OrderStore) *OrderService {
	return &OrderService{Products: products, Orders: orders}
}

// Create prices o at the current catalog prices and stores it. Items whose
// product is not found contribute zero. The returned order carries the new id
// and the computed total.
func (s *OrderService) Create(ctx context.Context, o Order) (Order, error) {
	if err := validateOrder(o); err != nil {
		return Order{}, err
	}

	ids := distinctProductIDs(o.Items)
	ps, err := s.Products.FindProductsByIDs(ctx, ids)
	if err != nil {
		return Order{}, fmt.Errorf("lookup prices: %w", err)
	}
	requested := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		requested[id] = struct{}{}
	}
	prices := make(map[string]decimal.Decimal, len(ps))
	for _, p := range ps {
		// a product found under another spelling of its id would be priced as missing
		if _, ok := requested[p.ID]; !ok {
			return Order{}, fmt.Errorf("%w: lookup returned product %q, which was not requested", ErrInvalidID, p.ID)
		}
		prices[p.ID] = p.Price
	}

	o.ID = ""
	o.Total = Total(o.Items, prices)
	id, err := s.Orders.InsertOrder(ctx, o)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	o.ID = id
	return o, nil
}

// Total sums price*qty over items, a missing price counting as zero.
func Total(items []Item, prices map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		price, ok := prices[it.ProductID]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return total
}

func (s *OrderService) List(ctx context.Context, userID string, limit, offset int) (OrderPage, error) {
	if strings.TrimSpace(userID) == "" {
		return OrderPage{}, fmt.Errorf("%w: userId is required", ErrValidation)
	}
	if err := validateWindow(limit, offset); err != nil {
		return OrderPage{}, err
	}

	found, ps, err := s.Orders.ListOrdersByUser(ctx, userID, limit, offset)
	if err != nil {
		return OrderPage{}, fmt.Errorf("list orders: %w", err)
	}

	names := make(map[string]string, len(ps))
	for _, p := range ps {
		names[p.ID] = p.Name
	}
	data := make([]ListedOrder, 0, len(found))
	for _, o := range found {
		data = append(data, enrich(o, names))
	}
	return OrderPage{Data: data, Page: NewPage(limit, offset, len(data))}, nil
}

func enrich(o Order, names map[string]string) ListedOrder {
	items := make([]ListedItem, 0, len(o.Items))
	for _, it := range o.Items {
		name, ok := names[it.ProductID]
		if !ok {
			name = UnknownProductName
		}
		items = append(items, ListedItem{
			Qty:            it.Qty,
			ProductDetails: ProductDetails{ID: it.ProductID, Name: name},
		})
	}
	return ListedOrder{ID: o.ID, UserID: o.UserID, Items: items, Total: o.Total}
}

func distinctProductIDs(items []Item) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

func validateOrder(o Order) error {
	if strings.TrimSpace(o.UserID) == "" {
		return fmt.Errorf("%w: userId is required", ErrValidation)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	for _, it := range o.Items {
		if it.ProductID == "" {
			return fmt.Errorf("%w: productId is required", ErrValidation)
		}
		if it.Qty < 1 {
			return fmt.Errorf("%w: qty for product %s must be positive", ErrValidation, it.ProductID)
		}
	}
	return nil
}
