package gio

import (
	"encoding/json"
	"fmt"
)

// Codec turns a typed value into a request body. Encode returns the body
// bytes and the content type to set when the request has none.
type Codec interface {
	Encode(v interface{}) (body []byte, contentType string, err error)
}

// JSONCodec encodes bodies with encoding/json. This is the client default.
type JSONCodec struct{}

// Encode marshals v to JSON.
func (JSONCodec) Encode(v interface{}) ([]byte, string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, "", fmt.Errorf("can't encode body: %w", err)
	}
	return b, "application/json", nil
}
