package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-shop-api/internal/shop"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Store keeps products and orders as JSONB documents. Ids are UUIDv7 strings,
// so ordering by id follows insertion order.
type Store struct {
	DB DB
}

func New(db DB) *Store { return &Store{DB: db} }

const (
	qInsertProduct = `INSERT INTO products (id, doc) VALUES ($1, $2)`

	qFindProducts = `SELECT id, doc FROM products
		WHERE ($1::text = '' OR doc->>'name' ILIKE '%' || $1::text || '%')
		  AND ($2::text = '' OR doc->'sizes' @> jsonb_build_array(jsonb_build_object('size', $2::text)))
		ORDER BY id LIMIT $3 OFFSET $4`

	qProductsByIDs = `SELECT id, doc FROM products WHERE id = ANY($1)`

	qInsertOrder = `INSERT INTO orders (id, user_id, doc) VALUES ($1, $2, $3)`

	qOrdersByUser = `SELECT id, doc FROM orders WHERE user_id = $1 ORDER BY id LIMIT $2 OFFSET $3`
)

type productDoc struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Sizes []shop.Size     `json:"sizes"`
}

type orderDoc struct {
	UserID string          `json:"userId"`
	Items  []shop.Item     `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	if c, ok := s.DB.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}

func (s *Store) InsertProduct(ctx context.Context, p shop.Product) (string, error) {
	sizes := p.Sizes
	if sizes == nil {
		sizes = []shop.Size{}
	}
	doc, err := json.Marshal(productDoc{Name: p.Name, Price: p.Price, Sizes: sizes})
	if err != nil {
		return "", fmt.Errorf("encode product: %w", err)
	}
	id, err := newID()
	if err != nil {
		return "", err
	}
	if _, err := s.DB.Exec(ctx, qInsertProduct, id, doc); err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

func (s *Store) FindProducts(ctx context.Context, f shop.ProductFilter, limit, offset int) ([]shop.Product, error) {
	rows, err := s.DB.Query(ctx, qFindProducts, likeEscaper.Replace(f.Name), f.Size, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return scanProducts(rows)
}

func (s *Store) FindProductsByIDs(ctx context.Context, ids []string) ([]shop.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.DB.Query(ctx, qProductsByIDs, ids)
	if err != nil {
		return nil, fmt.Errorf("find products by id: %w", err)
	}
	return scanProducts(rows)
}

func (s *Store) InsertOrder(ctx context.Context, o shop.Order) (string, error) {
	doc, err := json.Marshal(orderDoc{UserID: o.UserID, Items: o.Items, Total: o.Total})
	if err != nil {
		return "", fmt.Errorf("encode order: %w", err)
	}
	id, err := newID()
	if err != nil {
		return "", err
	}
	if _, err := s.DB.Exec(ctx, qInsertOrder, id, o.UserID, doc); err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

// ListOrdersByUser reads the page of orders, then fetches the products the
// page references in one query.
func (s *Store) ListOrdersByUser(ctx context.Context, userID string, limit, offset int) ([]shop.Order, []shop.Product, error) {
	rows, err := s.DB.Query(ctx, qOrdersByUser, userID, limit, offset)
	if err != nil {
		return nil, nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []shop.Order
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, nil, fmt.Errorf("scan order: %w", err)
		}
		var d orderDoc
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, nil, fmt.Errorf("decode order %s: %w", id, err)
		}
		orders = append(orders, shop.Order{ID: id, UserID: d.UserID, Items: d.Items, Total: d.Total})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows: %w", err)
	}

	var ids []string
	seen := map[string]bool{}
	for _, o := range orders {
		for _, it := range o.Items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				ids = append(ids, it.ProductID)
			}
		}
	}
	products, err := s.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return orders, products, nil
}

func scanProducts(rows pgx.Rows) ([]shop.Product, error) {
	defer rows.Close()

	var out []shop.Product
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		var d productDoc
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode product %s: %w", id, err)
		}
		if d.Sizes == nil {
			d.Sizes = []shop.Size{}
		}
		out = append(out, shop.Product{ID: id, Name: d.Name, Price: d.Price, Sizes: d.Sizes})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
