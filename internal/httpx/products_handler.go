package httpx

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/ariefcatur/go-shop-api/internal/shop"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

// EventPublisher receives domain events after a successful create. It is
// implemented by the kafka producer; nil disables publishing.
type EventPublisher interface {
	PublishEnvelope(topic string, key []byte, ev shop.Envelope)
}

type CreateProductReq struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Sizes []shop.Size     `json:"sizes"`
}

type CreatedResp struct {
	ID string `json:"id"`
}

type ProductsHandler struct {
	Catalog *shop.CatalogService
	Events  EventPublisher
	Service string
	Logger  *log.Logger
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Post("/products", h.createProduct)
	r.Get("/products", h.listProducts)
}

func (h *ProductsHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductReq
	if err := decodeBody(w, r, createProductSchema, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p := shop.Product{Name: req.Name, Price: req.Price, Sizes: req.Sizes}
	id, err := h.Catalog.Create(ctx, p)
	if err != nil {
		fail(w, r, h.Logger, err, "failed to create product")
		return
	}

	if h.Events != nil {
		ev, err := shop.NewEnvelope(shop.EventProductCreated, h.Service, middleware.GetReqID(r.Context()), id,
			shop.ProductCreatedPayload{ProductID: id, Name: p.Name, Price: p.Price, Sizes: p.Sizes})
		if err != nil {
			h.Logger.Printf("product %s: %v", id, err)
		} else {
			h.Events.PublishEnvelope(shop.TopicProductCreated, shop.PartitionKey(id), ev)
		}
	}

	writeJSON(w, http.StatusCreated, CreatedResp{ID: id})
}

func (h *ProductsHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := window(r, shop.DefaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f := shop.ProductFilter{
		Name: r.URL.Query().Get("name"),
		Size: r.URL.Query().Get("size"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	page, err := h.Catalog.List(ctx, f, limit, offset)
	if err != nil {
		fail(w, r, h.Logger, err, "failed to list products")
		return
	}
	writeJSON(w, http.StatusOK, page)
}
