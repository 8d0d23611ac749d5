// Package person contains the HTTP handlers for the Person resource.
//
// A person is addressed by its (firstName, lastName) pair: in the body for
// POST and PUT, in query parameters for DELETE.
package person

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/safety-alerts/internal/types"
	"github.com/aanand-mishra/safety-alerts/internal/utils/request"
	"github.com/aanand-mishra/safety-alerts/internal/utils/response"
)

// Store is the part of dataset.Store these handlers need.
type Store interface {
	Persons() []types.Person
	CreatePerson(ctx context.Context, p types.Person) error
	UpdatePerson(ctx context.Context, p types.Person) (types.Person, error)
	DeletePerson(ctx context.Context, firstName, lastName string) error
}

// New handles POST /person
//
//	201: { "status": "ok", "message": "person John Boyd created" }
//	400: empty/malformed body or a blank required field
//	409: an identical person already exists
func New(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a person")

		var p types.Person
		if err := request.DecodeJSON(r, &p); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := store.CreatePerson(r.Context(), p); err != nil {
			slog.Error("error creating person",
				slog.String("name", p.FullName()),
				slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.Message("person %s created", p.FullName()))
	}
}

// GetList handles GET /persons
// Returns [] rather than null when empty.
func GetList(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all persons")
		response.WriteJSON(w, http.StatusOK, store.Persons())
	}
}

// Update handles PUT /person
// Every field is required, as on creation; the name pair selects the person.
//
//	200: the updated person
//	404: no person with that name
//	409: the stored values are already identical
func Update(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p types.Person
		if err := request.DecodeJSON(r, &p); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("updating a person", slog.String("name", p.FullName()))

		updated, err := store.UpdatePerson(r.Context(), p)
		if err != nil {
			slog.Error("error updating person",
				slog.String("name", p.FullName()),
				slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /person?firstName=John&lastName=Boyd
func Delete(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		first := r.URL.Query().Get("firstName")
		last := r.URL.Query().Get("lastName")
		slog.Info("deleting a person",
			slog.String("firstName", first),
			slog.String("lastName", last))

		if err := store.DeletePerson(r.Context(), first, last); err != nil {
			slog.Error("error deleting person",
				slog.String("firstName", first),
				slog.String("lastName", last),
				slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.Message("person %s %s deleted", first, last))
	}
}
