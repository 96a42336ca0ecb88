package shop

import "github.com/shopspring/decimal"

func init() {
	// prices and totals go out as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Size struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Sizes []Size          `json:"sizes"`
}

type Item struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// Order as persisted. Total is computed once at creation and never recomputed.
type Order struct {
	ID     string          `json:"id"`
	UserID string          `json:"userId"`
	Items  []Item          `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

type ProductDetails struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ListedItem struct {
	Qty            int            `json:"qty"`
	ProductDetails ProductDetails `json:"productDetails"`
}

// ListedOrder is an order as returned by listing, items enriched with product names.
type ListedOrder struct {
	ID     string          `json:"id"`
	UserID string          `json:"userId"`
	Items  []ListedItem    `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

type ProductFilter struct {
	Name string // case-insensitive substring
	Size string // exact label of any sizes entry
}

type ProductPage struct {
	Data []Product `json:"data"`
	Page Page      `json:"page"`
}

type OrderPage struct {
	Data []ListedOrder `json:"data"`
	Page Page          `json:"page"`
}
