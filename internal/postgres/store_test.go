package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ariefcatur/go-shop-api/internal/shop"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// docArg captures the JSON document passed to an insert.
type docArg struct{ raw []byte }

func (d *docArg) Match(v any) bool {
	b, ok := v.([]byte)
	if ok {
		d.raw = b
	}
	return ok
}

func TestInsertProduct(t *testing.T) {
	mock := newMock(t)
	doc := &docArg{}
	mock.ExpectExec("INSERT INTO products").
		WithArgs(pgxmock.AnyArg(), doc).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := New(mock).InsertProduct(context.Background(), shop.Product{
		Name:  "Shirt",
		Price: decimal.NewFromInt(20),
		Sizes: []shop.Size{{Size: "M", Quantity: 5}},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.JSONEq(t, `{"name":"Shirt","price":20,"sizes":[{"size":"M","quantity":5}]}`, string(doc.raw))
}

func TestInsertProduct_EmptySizesStoredAsArray(t *testing.T) {
	mock := newMock(t)
	doc := &docArg{}
	mock.ExpectExec("INSERT INTO products").
		WithArgs(pgxmock.AnyArg(), doc).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	_, err := New(mock).InsertProduct(context.Background(), shop.Product{Name: "Cap", Price: decimal.NewFromInt(3)})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(doc.raw, &m))
	assert.Equal(t, []any{}, m["sizes"])
}

func TestFindProducts_EscapesNameAndPassesWindow(t *testing.T) {
	mock := newMock(t)
	rows := pgxmock.NewRows([]string{"id", "doc"}).
		AddRow("0190a1b2-0000-7000-8000-000000000001", []byte(`{"name":"50% off","price":9.5,"sizes":[]}`))
	mock.ExpectQuery("SELECT id, doc FROM products").
		WithArgs(`50\% off`, "M", 10, 20).
		WillReturnRows(rows)

	ps, err := New(mock).FindProducts(context.Background(), shop.ProductFilter{Name: "50% off", Size: "M"}, 10, 20)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, ps, 1)
	assert.Equal(t, "50% off", ps[0].Name)
	assert.Equal(t, "9.5", ps[0].Price.String())
	assert.Equal(t, []shop.Size{}, ps[0].Sizes)
}

func TestFindProductsByIDs(t *testing.T) {
	t.Run("empty input skips the query", func(t *testing.T) {
		mock := newMock(t)
		ps, err := New(mock).FindProductsByIDs(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, ps)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error surfaces", func(t *testing.T) {
		mock := newMock(t)
		boom := errors.New("connection reset")
		mock.ExpectQuery("FROM products WHERE id = ANY").
			WithArgs([]string{"a"}).
			WillReturnError(boom)

		_, err := New(mock).FindProductsByIDs(context.Background(), []string{"a"})
		require.ErrorIs(t, err, boom)
	})
}

func TestInsertOrder(t *testing.T) {
	mock := newMock(t)
	doc := &docArg{}
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(pgxmock.AnyArg(), "u1", doc).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	_, err := New(mock).InsertOrder(context.Background(), shop.Order{
		UserID: "u1",
		Items:  []shop.Item{{ProductID: "p1", Qty: 3}},
		Total:  decimal.NewFromInt(60),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.JSONEq(t, `{"userId":"u1","items":[{"productId":"p1","qty":3}],"total":60}`, string(doc.raw))
}

func TestListOrdersByUser_JoinsReferencedProducts(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT id, doc FROM orders WHERE user_id").
		WithArgs("u1", 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "doc"}).
			AddRow("o1", []byte(`{"userId":"u1","items":[{"productId":"p1","qty":3},{"productId":"gone","qty":1}],"total":60}`)).
			AddRow("o2", []byte(`{"userId":"u1","items":[{"productId":"p1","qty":1}],"total":20}`)))
	mock.ExpectQuery("FROM products WHERE id = ANY").
		WithArgs([]string{"p1", "gone"}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "doc"}).
			AddRow("p1", []byte(`{"name":"Shirt","price":20,"sizes":[{"size":"M","quantity":5}]}`)))

	orders, products, err := New(mock).ListOrdersByUser(context.Background(), "u1", 10, 0)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, orders, 2)
	assert.Equal(t, "o1", orders[0].ID)
	assert.Equal(t, []shop.Item{{ProductID: "p1", Qty: 3}, {ProductID: "gone", Qty: 1}}, orders[0].Items)
	assert.Equal(t, "60", orders[0].Total.String())
	require.Len(t, products, 1)
	assert.Equal(t, "Shirt", products[0].Name)
}

func TestListOrdersByUser_EmptyPage(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT id, doc FROM orders WHERE user_id").
		WithArgs("nobody", 5, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "doc"}))

	orders, products, err := New(mock).ListOrdersByUser(context.Background(), "nobody", 5, 0)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, orders)
	assert.Empty(t, products)
}
