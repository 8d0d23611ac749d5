// Package medicalrecord contains the HTTP handlers for medical records.
package medicalrecord

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/safety-alerts/internal/types"
	"github.com/aanand-mishra/safety-alerts/internal/utils/request"
	"github.com/aanand-mishra/safety-alerts/internal/utils/response"
)

type Store interface {
	MedicalRecords() []types.MedicalRecord
	CreateMedicalRecord(ctx context.Context, r types.MedicalRecord) error
	UpdateMedicalRecord(ctx context.Context, r types.MedicalRecord) (types.MedicalRecord, error)
	DeleteMedicalRecord(ctx context.Context, firstName, lastName string) error
}

// New handles POST /medicalRecord
//
//	{ "firstName": "John", "lastName": "Boyd", "birthdate": "03/06/1984",
//	  "medications": ["aznol:350mg"], "allergies": ["nillacilan"] }
//
// Missing medications/allergies are stored as empty lists.
func New(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec types.MedicalRecord
		if err := request.DecodeJSON(r, &rec); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("creating a medical record", slog.String("name", rec.FullName()))

		if err := store.CreateMedicalRecord(r.Context(), rec); err != nil {
			slog.Error("error creating medical record",
				slog.String("name", rec.FullName()),
				slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated,
			response.Message("medical record for %s created", rec.FullName()))
	}
}

// GetList handles GET /medicalRecords
func GetList(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all medical records")
		response.WriteJSON(w, http.StatusOK, store.MedicalRecords())
	}
}

// Update handles PUT /medicalRecord
// Replaces birthdate, medications and allergies of the named record.
func Update(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec types.MedicalRecord
		if err := request.DecodeJSON(r, &rec); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("updating a medical record", slog.String("name", rec.FullName()))

		updated, err := store.UpdateMedicalRecord(r.Context(), rec)
		if err != nil {
			slog.Error("error updating medical record",
				slog.String("name", rec.FullName()),
				slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /medicalRecord?firstName=...&lastName=...
func Delete(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		first := r.URL.Query().Get("firstName")
		last := r.URL.Query().Get("lastName")
		slog.Info("deleting a medical record",
			slog.String("firstName", first),
			slog.String("lastName", last))

		if err := store.DeleteMedicalRecord(r.Context(), first, last); err != nil {
			slog.Error("error deleting medical record",
				slog.String("firstName", first),
				slog.String("lastName", last),
				slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK,
			response.Message("medical record for %s %s deleted", first, last))
	}
}
