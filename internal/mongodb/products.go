package mongodb

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ariefcatur/go-shop-api/internal/shop"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) InsertProduct(ctx context.Context, p shop.Product) (string, error) {
	res, err := s.products.InsertOne(ctx, toProductDoc(p))
	if err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}
	return insertedHex(res)
}

func (s *Store) FindProducts(ctx context.Context, f shop.ProductFilter, limit, offset int) ([]shop.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cur, err := s.products.Find(ctx, productQuery(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return decodeProducts(ctx, cur)
}

func (s *Store) FindProductsByIDs(ctx context.Context, ids []string) ([]shop.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := parseID(id)
		if err != nil {
			return nil, err
		}
		oids = append(oids, oid)
	}

	cur, err := s.products.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
	if err != nil {
		return nil, fmt.Errorf("find products by id: %w", err)
	}
	return decodeProducts(ctx, cur)
}

// productQuery builds the find filter. The name is matched as a literal,
// case-insensitive substring; size matches any element of sizes by label.
func productQuery(f shop.ProductFilter) bson.D {
	q := bson.D{}
	if f.Name != "" {
		q = append(q, bson.E{Key: "name", Value: primitive.Regex{Pattern: regexp.QuoteMeta(f.Name), Options: "i"}})
	}
	if f.Size != "" {
		q = append(q, bson.E{Key: "sizes", Value: bson.D{{Key: "$elemMatch", Value: bson.D{{Key: "size", Value: f.Size}}}}})
	}
	return q
}

func decodeProducts(ctx context.Context, cur *mongo.Cursor) ([]shop.Product, error) {
	defer cur.Close(ctx)

	var out []shop.Product
	for cur.Next(ctx) {
		var d productDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		out = append(out, d.product())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("products cursor: %w", err)
	}
	return out, nil
}

func insertedHex(res *mongo.InsertOneResult) (string, error) {
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}
