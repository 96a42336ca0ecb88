package shop

const (
	TopicProductCreated = "shop.product.created"
	TopicOrderCreated   = "shop.order.created"
)

// Partition key is the record id, so all events of one record keep their order.
func PartitionKey(id string) []byte { return []byte(id) }
