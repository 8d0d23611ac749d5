package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/safety-alerts/internal/dataset"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteJSON(rec, http.StatusCreated, map[string]int{"station": 3}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"station":3}` {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("CreatePerson: %w", dataset.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("CreatePerson: %w", dataset.ErrConflict), http.StatusConflict},
		{fmt.Errorf("DeletePerson: %w", dataset.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("UpdatePerson: %w: %w", dataset.ErrPersist, errors.New("disk full")), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := StatusFor(tc.err); got != tc.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWriteErrorUsesFieldMessages(t *testing.T) {
	type body struct {
		FirstName string `validate:"required"`
		Birthdate string `validate:"datetime=01/02/2006"`
	}
	verr := validator.New().Struct(body{Birthdate: "13/45/2000"})
	err := fmt.Errorf("CreateMedicalRecord: %w: %w", dataset.ErrValidation, verr)

	rec := httptest.NewRecorder()
	WriteError(rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var got Response
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "field FirstName is required, field Birthdate must be MM/dd/yyyy"
	if got.Status != StatusError || got.Error != want {
		t.Fatalf("got %+v, want error %q", got, want)
	}
}

func TestMessage(t *testing.T) {
	got := Message("person %s deleted", "John Boyd")
	if got.Status != StatusOK || got.Msg != "person John Boyd deleted" || got.Error != "" {
		t.Fatalf("unexpected message %+v", got)
	}
}
