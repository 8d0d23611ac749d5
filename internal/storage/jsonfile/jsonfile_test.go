package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aanand-mishra/safety-alerts/internal/storage"
	"github.com/aanand-mishra/safety-alerts/internal/types"
)

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	store, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	ds := types.Dataset{
		Persons:      []types.Person{{FirstName: "Jane", LastName: "Doe", Address: "123 Main St", City: "Culver", Zip: 97451, Phone: "555", Email: "j@d.com"}},
		FireStations: []types.FireStation{{Address: "123 Main St", Station: 1}},
		MedicalRecords: []types.MedicalRecord{
			{FirstName: "Jane", LastName: "Doe", Birthdate: "01/01/1985", Medications: []string{"a"}, Allergies: []string{}},
		},
	}
	if err := store.Write(ctx, ds); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got.Persons) != 1 || got.Persons[0] != ds.Persons[0] {
		t.Fatalf("persons mismatch: %+v", got.Persons)
	}
	if len(got.FireStations) != 1 || got.FireStations[0] != ds.FireStations[0] {
		t.Fatalf("stations mismatch: %+v", got.FireStations)
	}
	if len(got.MedicalRecords) != 1 || got.MedicalRecords[0].Medications[0] != "a" {
		t.Fatalf("records mismatch: %+v", got.MedicalRecords)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the document, found %d entries", len(entries))
	}
}

func TestReadMissingIsEmpty(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := store.Read(context.Background()); !errors.Is(err, storage.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestReadCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{"persons": [`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = store.Read(context.Background())
	if err == nil || errors.Is(err, storage.ErrEmpty) {
		t.Fatalf("expected structural error, got %v", err)
	}
}

func TestNewRejectsEmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error")
	}
}
