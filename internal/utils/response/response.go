// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Success bodies can be any JSON shape (a list of phones, a map of
// households, a message). Error bodies always use the same envelope:
//
//	{ "status": "error", "error": "field zip is required" }
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/safety-alerts/internal/dataset"
)

// Response is the envelope for errors and plain acknowledgements.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Msg    string `json:"message,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON sets the content type, writes status, then encodes data.
// Headers are locked once WriteHeader has been called.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any error into the error envelope.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// Message is a success acknowledgement for mutations.
func Message(format string, args ...any) Response {
	return Response{
		Status: StatusOK,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// ValidationError turns validator field errors into one readable sentence,
// e.g. "field firstName is required, field birthdate must be MM/dd/yyyy".
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "notblank":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must not be blank", e.Field()))
		case "datetime":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be MM/dd/yyyy", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}

// StatusFor maps a store error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, dataset.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, dataset.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, dataset.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err with the status StatusFor picks. Field validation
// failures get the per-field message.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		WriteJSON(w, status, ValidationError(verrs))
		return
	}
	WriteJSON(w, status, GeneralError(err))
}
