// Package firestation contains the HTTP handlers that maintain the
// address → station mapping.
package firestation

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/safety-alerts/internal/types"
	"github.com/aanand-mishra/safety-alerts/internal/utils/request"
	"github.com/aanand-mishra/safety-alerts/internal/utils/response"
)

type Store interface {
	FireStations() []types.FireStation
	CreateFireStation(ctx context.Context, fs types.FireStation) error
	UpdateFireStation(ctx context.Context, fs types.FireStation) (types.FireStation, error)
	DeleteFireStation(ctx context.Context, address string) error
}

// New handles POST /firestation
// Body: { "address": "1509 Culver St", "station": 3 }
func New(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fs types.FireStation
		if err := request.DecodeJSON(r, &fs); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("creating a fire station mapping", slog.String("address", fs.Address))

		if err := store.CreateFireStation(r.Context(), fs); err != nil {
			slog.Error("error creating fire station",
				slog.String("address", fs.Address),
				slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated,
			response.Message("address %s mapped to station %d", fs.Address, fs.Station))
	}
}

// GetList handles GET /firestations
func GetList(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all fire stations")
		response.WriteJSON(w, http.StatusOK, store.FireStations())
	}
}

// Update handles PUT /firestation
// Re-assigns the address to another station. Re-sending the current
// station is a 409.
func Update(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fs types.FireStation
		if err := request.DecodeJSON(r, &fs); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("updating a fire station mapping",
			slog.String("address", fs.Address),
			slog.Int("station", fs.Station))

		updated, err := store.UpdateFireStation(r.Context(), fs)
		if err != nil {
			slog.Error("error updating fire station",
				slog.String("address", fs.Address),
				slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /firestation?address=...
func Delete(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := r.URL.Query().Get("address")
		slog.Info("deleting a fire station mapping", slog.String("address", address))

		if err := store.DeleteFireStation(r.Context(), address); err != nil {
			slog.Error("error deleting fire station",
				slog.String("address", address),
				slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.Message("mapping for %s deleted", address))
	}
}
