package redisx

import (
	"fmt"
	"time"
)

const (
	// Product by id: shop:product:{id} -> JSON encoded shop.Product
	KeyProduct = "shop:product:%s"
)

var TTLProduct = 5 * time.Minute

func productKey(id string) string { return fmt.Sprintf(KeyProduct, id) }
