package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrBodyTooLarge is returned by DecodeJSON when the request body exceeds
	// the limit installed by the body size middleware.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrMalformedBody is returned by DecodeJSON for bodies that are not a
	// single JSON object.
	ErrMalformedBody = errors.New("malformed request body")
)

// DecodeJSON decodes a single JSON object from the request body into v.
// Unknown fields are ignored. Trailing data after the object is rejected.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return classifyDecodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err != nil {
			return classifyDecodeError(err)
		}
		return fmt.Errorf("%w: trailing data", ErrMalformedBody)
	}
	return nil
}

func classifyDecodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: %w", ErrMalformedBody, err)
}
