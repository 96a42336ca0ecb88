package httpx

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/ariefcatur/go-shop-api/internal/shop"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type CreateOrderReq struct {
	UserID string      `json:"userId"`
	Items  []shop.Item `json:"items"`
}

type OrdersHandler struct {
	Orders  *shop.OrderService
	Events  EventPublisher
	Service string
	Logger  *log.Logger
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{userId}", h.listOrders)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := decodeBody(w, r, createOrderSchema, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.Create(ctx, shop.Order{UserID: req.UserID, Items: req.Items})
	if err != nil {
		fail(w, r, h.Logger, err, "failed to create order")
		return
	}

	if h.Events != nil {
		ev, err := shop.NewEnvelope(shop.EventOrderCreated, h.Service, middleware.GetReqID(r.Context()), o.ID,
			shop.OrderCreatedPayload{OrderID: o.ID, UserID: o.UserID, Items: o.Items, Total: o.Total})
		if err != nil {
			h.Logger.Printf("order %s: %v", o.ID, err)
		} else {
			h.Events.PublishEnvelope(shop.TopicOrderCreated, shop.PartitionKey(o.ID), ev)
		}
	}

	writeJSON(w, http.StatusCreated, CreatedResp{ID: o.ID})
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}
	limit, offset, err := window(r, shop.DefaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, err := h.Orders.List(ctx, userID, limit, offset)
	if err != nil {
		fail(w, r, h.Logger, err, "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, page)
}
