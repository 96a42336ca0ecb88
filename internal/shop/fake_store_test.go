package shop

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// fakeStore keeps records in memory; ids are zero padded counters so that
// lexical order matches insertion order.
type fakeStore struct {
	products map[string]Product
	orders   map[string]Order
	seq      int

	insertErr error
	findErr   error
	lookups   [][]string
	// lookupKey, when set, maps a requested id to the stored one the way a
	// lenient id parser would.
	lookupKey func(string) string
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: map[string]Product{}, orders: map[string]Order{}}
}

func (f *fakeStore) nextID() string {
	f.seq++
	return fmt.Sprintf("%024d", f.seq)
}

func (f *fakeStore) InsertProduct(ctx context.Context, p Product) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	p.ID = f.nextID()
	f.products[p.ID] = p
	return p.ID, nil
}

func (f *fakeStore) FindProducts(ctx context.Context, flt ProductFilter, limit, offset int) ([]Product, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []Product
	for _, p := range f.sortedProducts() {
		if flt.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(flt.Name)) {
			continue
		}
		if flt.Size != "" && !hasSize(p, flt.Size) {
			continue
		}
		out = append(out, p)
	}
	return window(out, limit, offset), nil
}

func (f *fakeStore) FindProductsByIDs(ctx context.Context, ids []string) ([]Product, error) {
	f.lookups = append(f.lookups, ids)
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []Product
	for _, id := range ids {
		if f.lookupKey != nil {
			id = f.lookupKey(id)
		}
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertOrder(ctx context.Context, o Order) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	o.ID = f.nextID()
	f.orders[o.ID] = o
	return o.ID, nil
}

func (f *fakeStore) ListOrdersByUser(ctx context.Context, userID string, limit, offset int) ([]Order, []Product, error) {
	if f.findErr != nil {
		return nil, nil, f.findErr
	}
	ids := make([]string, 0, len(f.orders))
	for id, o := range f.orders {
		if o.UserID == userID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	var page []Order
	for _, id := range window(ids, limit, offset) {
		page = append(page, f.orders[id])
	}
	var ps []Product
	for _, o := range page {
		for _, it := range o.Items {
			if p, ok := f.products[it.ProductID]; ok {
				ps = append(ps, p)
			}
		}
	}
	return page, ps, nil
}

func (f *fakeStore) sortedProducts() []Product {
	out := make([]Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func hasSize(p Product, size string) bool {
	for _, s := range p.Sizes {
		if s.Size == size {
			return true
		}
	}
	return false
}

func window[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit < len(in) {
		in = in[:limit]
	}
	return in
}
