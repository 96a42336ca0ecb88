package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ariefcatur/go-shop-api/internal/shop"
	"github.com/go-chi/chi/v5/middleware"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// fail maps an accessor error to a response. Client errors echo the message,
// anything else is logged with the request id and reported as msg.
func fail(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error, msg string) {
	switch {
	case errors.Is(err, shop.ErrValidation), errors.Is(err, shop.ErrInvalidID):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		if logger != nil {
			logger.Printf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
		}
		writeError(w, http.StatusInternalServerError, msg)
	}
}
