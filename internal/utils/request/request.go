// Package request holds the parsing steps shared by every handler: JSON
// bodies and typed query parameters.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// ErrEmptyBody is returned by DecodeJSON when the client sent nothing.
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON decodes the request body into v. Unknown fields are rejected so
// a typo in a key does not silently become a zero value.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	if err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// RequiredString returns the trimmed query parameter name, or an error when
// it is missing or blank.
func RequiredString(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", fmt.Errorf("query parameter %s is required", name)
	}
	return v, nil
}

// RequiredInt parses the query parameter name as a base-10 integer.
func RequiredInt(r *http.Request, name string) (int, error) {
	raw, err := RequiredString(r, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s must be an integer", name)
	}
	return n, nil
}

// IntList parses a comma-separated list such as "1,2,3". Repeated
// parameters (?stations=1&stations=2) are accepted too.
func IntList(r *http.Request, name string) ([]int, error) {
	var out []int
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("query parameter %s: %q is not an integer", name, part)
			}
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("query parameter %s is required", name)
	}
	return out, nil
}
