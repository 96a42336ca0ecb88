package mongodb

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ariefcatur/go-shop-api/internal/shop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMongoStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test needs docker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	container, uri := startMongo(ctx, t)
	defer terminateContainer(t, container)

	store, err := Connect(ctx, uri, "shop_test")
	require.NoError(t, err)
	defer func() { _ = store.Close(context.Background()) }()

	catalog := shop.NewCatalogService(store)
	orders := shop.NewOrderService(store, store)

	t.Run("product round trip", func(t *testing.T) {
		in := shop.Product{
			Name:  "Roundtrip Tee",
			Price: decimal.RequireFromString("12.50"),
			Sizes: []shop.Size{{Size: "S", Quantity: 1}, {Size: "S", Quantity: 4}},
		}
		id, err := catalog.Create(ctx, in)
		require.NoError(t, err)

		got, err := store.FindProductsByIDs(ctx, []string{id})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, id, got[0].ID)
		assert.Equal(t, in.Name, got[0].Name)
		assert.True(t, in.Price.Equal(got[0].Price))
		assert.Equal(t, in.Sizes, got[0].Sizes)
	})

	t.Run("shirt order", func(t *testing.T) {
		p1, err := catalog.Create(ctx, shop.Product{
			Name:  "Shirt",
			Price: decimal.NewFromInt(20),
			Sizes: []shop.Size{{Size: "M", Quantity: 5}},
		})
		require.NoError(t, err)

		o, err := orders.Create(ctx, shop.Order{UserID: "u1", Items: []shop.Item{{ProductID: p1, Qty: 3}}})
		require.NoError(t, err)
		assert.Equal(t, "60", o.Total.String())

		page, err := orders.List(ctx, "u1", 10, 0)
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, o.ID, page.Data[0].ID)
		assert.Equal(t, []shop.ListedItem{{Qty: 3, ProductDetails: shop.ProductDetails{ID: p1, Name: "Shirt"}}}, page.Data[0].Items)
		assert.True(t, page.Data[0].Total.Equal(decimal.NewFromInt(60)))
	})

	t.Run("unknown product", func(t *testing.T) {
		o, err := orders.Create(ctx, shop.Order{
			UserID: "u-unknown",
			Items:  []shop.Item{{ProductID: "000000000000000000000000", Qty: 2}},
		})
		require.NoError(t, err)
		assert.True(t, o.Total.IsZero())

		page, err := orders.List(ctx, "u-unknown", 10, 0)
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, shop.UnknownProductName, page.Data[0].Items[0].ProductDetails.Name)
		assert.Equal(t, "000000000000000000000000", page.Data[0].Items[0].ProductDetails.ID)
	})

	t.Run("malformed product id", func(t *testing.T) {
		_, err := orders.Create(ctx, shop.Order{UserID: "u1", Items: []shop.Item{{ProductID: "nope", Qty: 1}}})
		require.ErrorIs(t, err, shop.ErrInvalidID)
	})

	t.Run("uppercase product id", func(t *testing.T) {
		id, err := catalog.Create(ctx, shop.Product{Name: "Upper Shirt", Price: decimal.NewFromInt(20), Sizes: []shop.Size{}})
		require.NoError(t, err)

		_, err = orders.Create(ctx, shop.Order{UserID: "u-upper", Items: []shop.Item{{ProductID: strings.ToUpper(id), Qty: 3}}})
		require.ErrorIs(t, err, shop.ErrInvalidID)

		page, err := orders.List(ctx, "u-upper", 10, 0)
		require.NoError(t, err)
		assert.Empty(t, page.Data)
	})

	t.Run("filters and paging", func(t *testing.T) {
		var ids []string
		for i, size := range []string{"XS", "XL", "XS"} {
			id, err := catalog.Create(ctx, shop.Product{
				Name:  fmt.Sprintf("Paged HOODIE %d", i),
				Price: decimal.NewFromInt(30),
				Sizes: []shop.Size{{Size: size, Quantity: 0}},
			})
			require.NoError(t, err)
			ids = append(ids, id)
		}

		page, err := catalog.List(ctx, shop.ProductFilter{Name: "paged hoodie", Size: "XS"}, 10, 0)
		require.NoError(t, err)
		require.Len(t, page.Data, 2)
		assert.Equal(t, ids[0], page.Data[0].ID)
		assert.Equal(t, ids[2], page.Data[1].ID)

		page, err = catalog.List(ctx, shop.ProductFilter{Name: "Paged"}, 2, 1)
		require.NoError(t, err)
		require.Len(t, page.Data, 2)
		assert.Equal(t, ids[1], page.Data[0].ID)
		assert.Equal(t, shop.Page{Next: 3, Limit: 2, Previous: 0}, page.Page)
	})

	t.Run("orders scoped to user", func(t *testing.T) {
		p, err := catalog.Create(ctx, shop.Product{Name: "Scoped", Price: decimal.NewFromInt(1)})
		require.NoError(t, err)
		for _, u := range []string{"alice", "bob", "alice"} {
			_, err := orders.Create(ctx, shop.Order{UserID: u, Items: []shop.Item{{ProductID: p, Qty: 1}}})
			require.NoError(t, err)
		}

		page, err := orders.List(ctx, "alice", 10, 0)
		require.NoError(t, err)
		require.Len(t, page.Data, 2)
		for _, o := range page.Data {
			assert.Equal(t, "alice", o.UserID)
		}
	})
}

func startMongo(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	return container, fmt.Sprintf("mongodb://%s:%s", host, mappedPort.Port())
}

func terminateContainer(t *testing.T, c testcontainers.Container) {
	t.Helper()
	terminateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, c.Terminate(terminateCtx))
}
