package mongodb

import (
	"fmt"

	"github.com/ariefcatur/go-shop-api/internal/shop"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// amount is written as Decimal128. Reads also accept doubles and integers,
// which is what older documents in the collections hold.
type amount struct{ decimal.Decimal }

func (a amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d, err := primitive.ParseDecimal128(a.String())
	if err != nil {
		return 0, nil, fmt.Errorf("encode amount %s: %w", a.String(), err)
	}
	return bson.MarshalValue(d)
}

func (a *amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Decimal128:
		d, err := decimal.NewFromString(rv.Decimal128().String())
		if err != nil {
			return fmt.Errorf("decode amount: %w", err)
		}
		a.Decimal = d
	case bsontype.Double:
		a.Decimal = decimal.NewFromFloat(rv.Double())
	case bsontype.Int32:
		a.Decimal = decimal.NewFromInt32(rv.Int32())
	case bsontype.Int64:
		a.Decimal = decimal.NewFromInt(rv.Int64())
	case bsontype.Null, bsontype.Undefined:
		a.Decimal = decimal.Zero
	default:
		return fmt.Errorf("decode amount: unexpected bson type %s", t)
	}
	return nil
}

type sizeDoc struct {
	Size     string `bson:"size"`
	Quantity int    `bson:"quantity"`
}

type productDoc struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Price amount             `bson:"price"`
	Sizes []sizeDoc          `bson:"sizes"`
}

type itemDoc struct {
	ProductID string `bson:"productId"`
	Qty       int    `bson:"qty"`
}

type orderDoc struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID string             `bson:"userId"`
	Items  []itemDoc          `bson:"items"`
	Total  amount             `bson:"total"`
}

// joinedOrderDoc is one result of the order listing pipeline: item product ids
// converted to ObjectIDs, and the looked up products alongside.
type joinedOrderDoc struct {
	ID     primitive.ObjectID `bson:"_id"`
	UserID string             `bson:"userId"`
	Items  []struct {
		ProductID primitive.ObjectID `bson:"productId"`
		Qty       int                `bson:"qty"`
	} `bson:"items"`
	Total          amount       `bson:"total"`
	ProductDetails []productDoc `bson:"productDetails"`
}

func toProductDoc(p shop.Product) productDoc {
	sizes := make([]sizeDoc, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		sizes = append(sizes, sizeDoc{Size: s.Size, Quantity: s.Quantity})
	}
	return productDoc{Name: p.Name, Price: amount{p.Price}, Sizes: sizes}
}

func (d productDoc) product() shop.Product {
	sizes := make([]shop.Size, 0, len(d.Sizes))
	for _, s := range d.Sizes {
		sizes = append(sizes, shop.Size{Size: s.Size, Quantity: s.Quantity})
	}
	return shop.Product{ID: d.ID.Hex(), Name: d.Name, Price: d.Price.Decimal, Sizes: sizes}
}

func toOrderDoc(o shop.Order) orderDoc {
	items := make([]itemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemDoc{ProductID: it.ProductID, Qty: it.Qty})
	}
	return orderDoc{UserID: o.UserID, Items: items, Total: amount{o.Total}}
}

func (d joinedOrderDoc) order() shop.Order {
	items := make([]shop.Item, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, shop.Item{ProductID: it.ProductID.Hex(), Qty: it.Qty})
	}
	return shop.Order{ID: d.ID.Hex(), UserID: d.UserID, Items: items, Total: d.Total.Decimal}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q is not an ObjectID", shop.ErrInvalidID, id)
	}
	// ids come back as lowercase hex; any other spelling would not match them
	if oid.Hex() != id {
		return primitive.NilObjectID, fmt.Errorf("%w: %q must be lowercase hex", shop.ErrInvalidID, id)
	}
	return oid, nil
}
