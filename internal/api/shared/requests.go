package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrEmptyBody is returned by DecodeJSON when the request carried no body.
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON decodes the request body into v. An empty body surfaces as
// ErrEmptyBody so handlers can reject it with a uniform message.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// DecodeJSONMap decodes the request body into a generic map, used by
// partial-update handlers that need to distinguish absent fields from
// explicit values.
func DecodeJSONMap(r *http.Request) (map[string]any, error) {
	payload := map[string]any{}
	if err := DecodeJSON(r, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
