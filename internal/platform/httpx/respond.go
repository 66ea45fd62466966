package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

// ErrInvalidJSON is returned by DecodeObject for an empty, malformed or
// non-object body.
var ErrInvalidJSON = errors.New("httpx: invalid json body")

// DecodeObject decodes the body into a generic object keeping numbers as
// json.Number.
func DecodeObject(r *http.Request) (map[string]any, error) {
	if r.Body == nil {
		return nil, ErrInvalidJSON
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if payload == nil {
		return nil, ErrInvalidJSON
	}
	return payload, nil
}
