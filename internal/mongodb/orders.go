package mongodb

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-shop-api/internal/shop"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// InsertOrder stores o. Every item product id has to be a valid ObjectID,
// the listing pipeline converts them with $toObjectId.
func (s *Store) InsertOrder(ctx context.Context, o shop.Order) (string, error) {
	for _, it := range o.Items {
		if _, err := parseID(it.ProductID); err != nil {
			return "", err
		}
	}
	res, err := s.orders.InsertOne(ctx, toOrderDoc(o))
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	return insertedHex(res)
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID string, limit, offset int) ([]shop.Order, []shop.Product, error) {
	cur, err := s.orders.Aggregate(ctx, listOrdersPipeline(userID, limit, offset))
	if err != nil {
		return nil, nil, fmt.Errorf("aggregate orders: %w", err)
	}
	defer cur.Close(ctx)

	var (
		orders   []shop.Order
		products []shop.Product
		seen     = map[string]bool{}
	)
	for cur.Next(ctx) {
		var d joinedOrderDoc
		if err := cur.Decode(&d); err != nil {
			return nil, nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, d.order())
		for _, pd := range d.ProductDetails {
			p := pd.product()
			if !seen[p.ID] {
				seen[p.ID] = true
				products = append(products, p)
			}
		}
	}
	if err := cur.Err(); err != nil {
		return nil, nil, fmt.Errorf("orders cursor: %w", err)
	}
	return orders, products, nil
}

// listOrdersPipeline pages the user's orders first and joins products after,
// so the lookup only touches the returned page.
func listOrdersPipeline(userID string, limit, offset int) mongo.Pipeline {
	toObjectIDs := bson.D{{Key: "$map", Value: bson.D{
		{Key: "input", Value: "$items"},
		{Key: "as", Value: "item"},
		{Key: "in", Value: bson.D{
			{Key: "qty", Value: "$$item.qty"},
			{Key: "productId", Value: bson.D{{Key: "$toObjectId", Value: "$$item.productId"}}},
		}},
	}}}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: userID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$skip", Value: int64(offset)}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$addFields", Value: bson.D{{Key: "items", Value: toObjectIDs}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collProducts},
			{Key: "localField", Value: "items.productId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "productDetails"},
		}}},
	}
}
