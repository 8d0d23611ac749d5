package dataset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aanand-mishra/safety-alerts/internal/storage"
	"github.com/aanand-mishra/safety-alerts/internal/storage/jsonfile"
	"github.com/aanand-mishra/safety-alerts/internal/types"
)

// memBackend is an in-memory storage.Storage with switchable failures.
type memBackend struct {
	mu       sync.Mutex
	doc      *types.Dataset
	readErr  error
	writeErr error
	writes   int
}

func (m *memBackend) Read(context.Context) (types.Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return types.Dataset{}, m.readErr
	}
	if m.doc == nil {
		return types.Dataset{}, storage.ErrEmpty
	}
	return *m.doc, nil
}

func (m *memBackend) Write(_ context.Context, ds types.Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	snap := stateFromDataset(ds).dataset()
	m.doc = &snap
	return nil
}

func (m *memBackend) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleDataset() types.Dataset {
	return types.Dataset{
		Persons: []types.Person{
			{FirstName: "John", LastName: "Boyd", Address: "1509 Culver St", City: "Culver", Zip: 97451, Phone: "841-874-6512", Email: "jaboyd@email.com"},
			{FirstName: "Tenley", LastName: "Boyd", Address: "1509 Culver St", City: "Culver", Zip: 97451, Phone: "841-874-6512", Email: "tenz@email.com"},
			{FirstName: "Jonanathan", LastName: "Marrack", Address: "29 15th St", City: "Culver", Zip: 97451, Phone: "841-874-6513", Email: "drk@email.com"},
			{FirstName: "Peter", LastName: "Duncan", Address: "644 Gershwin Cir", City: "culver", Zip: 97451, Phone: "841-874-6512", Email: "jaboyd@email.com"},
		},
		FireStations: []types.FireStation{
			{Address: "1509 Culver St", Station: 3},
			{Address: "29 15th St", Station: 2},
			{Address: "644 Gershwin Cir", Station: 1},
		},
		MedicalRecords: []types.MedicalRecord{
			{FirstName: "John", LastName: "Boyd", Birthdate: "03/06/1984", Medications: []string{"aznol:350mg", "hydrapermazol:100mg"}, Allergies: []string{"nillacilan"}},
			{FirstName: "Tenley", LastName: "Boyd", Birthdate: "02/18/2012", Medications: []string{}, Allergies: []string{"peanut"}},
			{FirstName: "Jonanathan", LastName: "Marrack", Birthdate: "01/03/1989", Medications: []string{}, Allergies: []string{}},
		},
	}
}

func newLoadedStore(t *testing.T) (*Store, *memBackend) {
	t.Helper()
	ds := sampleDataset()
	backend := &memBackend{doc: &ds}
	s := New(backend, discardLogger())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s, backend
}

func TestNewStoreIsEmptyNotNil(t *testing.T) {
	s := New(&memBackend{}, nil)
	if s.Persons() == nil || s.FireStations() == nil || s.MedicalRecords() == nil {
		t.Fatalf("accessors must return empty collections, not nil")
	}
	ds := s.Snapshot()
	if len(ds.Persons)+len(ds.FireStations)+len(ds.MedicalRecords) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", ds)
	}
}

func TestLoadFailureKeepsState(t *testing.T) {
	s, backend := newLoadedStore(t)

	backend.readErr = errors.New("disk on fire")
	if err := s.Load(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
	if got := len(s.Persons()); got != 4 {
		t.Fatalf("state changed after failed load: %d persons", got)
	}
}

func TestLoadEmptyBackend(t *testing.T) {
	s := New(&memBackend{}, discardLogger())
	err := s.Load(context.Background())
	if !errors.Is(err, storage.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestLoadOrSeed(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "seed.json")
	raw, err := storage.Encode(sampleDataset())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(seed, raw, 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	backend := &memBackend{}
	s := New(backend, discardLogger())
	if err := s.LoadOrSeed(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(s.Persons()) != 4 {
		t.Fatalf("expected seeded persons, got %d", len(s.Persons()))
	}
	if backend.writes != 1 {
		t.Fatalf("expected seed written through backend once, got %d", backend.writes)
	}

	// A populated backend is never re-seeded.
	if err := s.LoadOrSeed(context.Background(), seed); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if backend.writes != 1 {
		t.Fatalf("populated backend was re-seeded")
	}
}

func TestLoadOrSeedWithoutSeedPath(t *testing.T) {
	s := New(&memBackend{}, discardLogger())
	if err := s.LoadOrSeed(context.Background(), ""); !errors.Is(err, storage.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")
	backend, err := jsonfile.New(path)
	if err != nil {
		t.Fatalf("jsonfile: %v", err)
	}

	ds := sampleDataset()
	mem := &memBackend{doc: &ds}
	src := New(mem, discardLogger())
	if err := src.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	src.backend = backend
	if err := src.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	dst := New(backend, discardLogger())
	if err := dst.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}

	want, got := src.Snapshot(), dst.Snapshot()
	if len(got.Persons) != len(want.Persons) || len(got.FireStations) != len(want.FireStations) ||
		len(got.MedicalRecords) != len(want.MedicalRecords) {
		t.Fatalf("size mismatch: got %+v want %+v", got, want)
	}
	for i := range want.Persons {
		if got.Persons[i] != want.Persons[i] {
			t.Fatalf("person %d: got %+v want %+v", i, got.Persons[i], want.Persons[i])
		}
	}
	for i := range want.MedicalRecords {
		if !sameRecord(got.MedicalRecords[i], want.MedicalRecords[i]) {
			t.Fatalf("record %d: got %+v want %+v", i, got.MedicalRecords[i], want.MedicalRecords[i])
		}
	}
}

func TestSaveFailure(t *testing.T) {
	s, backend := newLoadedStore(t)
	backend.writeErr = errors.New("read-only filesystem")

	if err := s.Save(context.Background()); !errors.Is(err, ErrPersist) {
		t.Fatalf("expected ErrPersist, got %v", err)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	s, _ := newLoadedStore(t)

	ps := s.Persons()
	ps[0].FirstName = "Mallory"
	recs := s.MedicalRecords()
	recs[0].Medications[0] = "tampered"

	if s.Persons()[0].FirstName != "John" {
		t.Fatalf("person mutated through accessor")
	}
	if s.MedicalRecords()[0].Medications[0] != "aznol:350mg" {
		t.Fatalf("record mutated through accessor")
	}
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	s, _ := newLoadedStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			p := types.Person{FirstName: "Load", LastName: "Tester", Address: "1 Test Rd", City: "Culver", Zip: 97451 + i, Phone: "0", Email: "t@t"}
			if err := s.CreatePerson(ctx, p); err != nil {
				t.Errorf("create %d: %v", i, err)
			}
		}(i)
		go func() {
			defer wg.Done()
			s.View(func(q *Query) {
				_ = q.PersonsByStationNumber(3)
				_ = q.MedicalRecordsByPersons(q.AllPersons())
			})
		}()
	}
	wg.Wait()

	if got := len(s.Persons()); got != 12 {
		t.Fatalf("expected 12 persons, got %d", got)
	}
}
