package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const maxBodyBytes = 1 << 20

const schemaCreateProduct = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "price", "sizes"],
  "properties": {
    "name":  { "type": "string", "minLength": 1 },
    "price": { "type": "number", "minimum": 0 },
    "sizes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["size"],
        "properties": {
          "size":     { "type": "string" },
          "quantity": { "type": "integer", "minimum": 0 }
        }
      }
    }
  }
}`

const schemaCreateOrder = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["userId", "items"],
  "properties": {
    "userId": { "type": "string", "minLength": 1 },
    "items": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["productId", "qty"],
        "properties": {
          "productId": { "type": "string", "minLength": 1 },
          "qty":       { "type": "integer", "minimum": 1 }
        }
      }
    }
  }
}`

var (
	createProductSchema = mustSchema(schemaCreateProduct)
	createOrderSchema   = mustSchema(schemaCreateOrder)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(err)
	}
	return schema
}

// decodeBody reads the request body, checks it against schema and decodes
// it into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("cannot read body: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("request does not conform to schema: %s", strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		// the schema accepts 3.0 as an integer, the decoder does not
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
		}
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// window reads limit and offset from the query string with their defaults.
// Range checks happen in the accessors.
func window(r *http.Request, defLimit int) (limit, offset int, err error) {
	q := r.URL.Query()
	limit, offset = defLimit, 0
	if v := q.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("limit must be an integer")
		}
	}
	if v := q.Get("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("offset must be an integer")
		}
	}
	return limit, offset, nil
}
