// Package dataset owns the in-memory persons, fire stations and medical
// records, keeps them consistent across mutations, and persists the whole
// snapshot through a storage.Storage backend.
//
// Concurrency: one RWMutex guards the state. Queries run under the read
// lock for their whole duration (see View). Mutations take the write lock,
// apply their change to a clone, persist the clone and only then swap it in.
// Committed slices are therefore never modified in place.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/aanand-mishra/safety-alerts/internal/storage"
	"github.com/aanand-mishra/safety-alerts/internal/types"
)

type state struct {
	persons  []types.Person
	stations []types.FireStation
	records  []types.MedicalRecord
}

func newState() state {
	return state{
		persons:  []types.Person{},
		stations: []types.FireStation{},
		records:  []types.MedicalRecord{},
	}
}

func stateFromDataset(ds types.Dataset) state {
	st := state{
		persons:  slices.Clone(ds.Persons),
		stations: slices.Clone(ds.FireStations),
		records:  make([]types.MedicalRecord, 0, len(ds.MedicalRecords)),
	}
	if st.persons == nil {
		st.persons = []types.Person{}
	}
	if st.stations == nil {
		st.stations = []types.FireStation{}
	}
	for _, r := range ds.MedicalRecords {
		st.records = append(st.records, cloneRecord(r))
	}
	return st
}

func (st state) clone() state {
	return stateFromDataset(st.dataset())
}

func (st state) dataset() types.Dataset {
	return types.Dataset{
		Persons:        st.persons,
		FireStations:   st.stations,
		MedicalRecords: st.records,
	}
}

// cloneRecord deep-copies a record and replaces nil lists with empty ones,
// so responses encode [] rather than null.
func cloneRecord(r types.MedicalRecord) types.MedicalRecord {
	r.Medications = cloneList(r.Medications)
	r.Allergies = cloneList(r.Allergies)
	return r
}

func cloneList(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}

// Store is the process-wide dataset.
type Store struct {
	mu      sync.RWMutex
	state   state
	backend storage.Storage
	log     *slog.Logger
}

// New returns an empty store persisting through backend.
func New(backend storage.Storage, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		state:   newState(),
		backend: backend,
		log:     log,
	}
}

// Load replaces the in-memory state with the backend's document. On any
// error the previous state is kept.
func (s *Store) Load(ctx context.Context) error {
	ds, err := s.backend.Read(ctx)
	if errors.Is(err, storage.ErrEmpty) {
		s.log.Warn("no dataset stored yet", slog.String("error", err.Error()))
		return fmt.Errorf("dataset.Load: %w", err)
	}
	if err != nil {
		s.log.Error("failed to load dataset", slog.String("error", err.Error()))
		return fmt.Errorf("dataset.Load: %w", err)
	}

	s.mu.Lock()
	s.state = stateFromDataset(ds)
	s.mu.Unlock()

	s.log.Info("dataset loaded",
		slog.Int("persons", len(ds.Persons)),
		slog.Int("firestations", len(ds.FireStations)),
		slog.Int("medicalrecords", len(ds.MedicalRecords)))
	return nil
}

// LoadOrSeed loads the backend document. When the backend holds nothing yet
// and seedPath is set, the seed file is loaded and written through the
// backend once.
func (s *Store) LoadOrSeed(ctx context.Context, seedPath string) error {
	err := s.Load(ctx)
	if err == nil || !errors.Is(err, storage.ErrEmpty) || seedPath == "" {
		return err
	}

	s.log.Info("backend is empty, seeding dataset", slog.String("seed_path", seedPath))
	ds, err := storage.ReadFile(seedPath)
	if err != nil {
		return fmt.Errorf("dataset.LoadOrSeed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := stateFromDataset(ds)
	if err := s.backend.Write(ctx, next.dataset()); err != nil {
		return fmt.Errorf("dataset.LoadOrSeed: %w: %w", ErrPersist, err)
	}
	s.state = next
	return nil
}

// Save writes the current snapshot through the backend.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.backend.Write(ctx, s.state.dataset()); err != nil {
		s.log.Error("failed to save dataset", slog.String("error", err.Error()))
		return fmt.Errorf("dataset.Save: %w: %w", ErrPersist, err)
	}
	return nil
}

// Persons returns a copy of all persons in insertion order.
func (s *Store) Persons() []types.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.persons)
}

// FireStations returns a copy of all fire station mappings.
func (s *Store) FireStations() []types.FireStation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.stations)
}

// MedicalRecords returns a deep copy of all medical records.
func (s *Store) MedicalRecords() []types.MedicalRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.MedicalRecord, 0, len(s.state.records))
	for _, r := range s.state.records {
		out = append(out, cloneRecord(r))
	}
	return out
}

// Snapshot returns a deep copy of the whole dataset.
func (s *Store) Snapshot() types.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone().dataset()
}

// View runs fn with a Query over a consistent state. fn must not retain q.
func (s *Store) View(fn func(q *Query)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&Query{st: &s.state})
}

// mutate applies fn to a clone of the state, persists the result and commits
// it. Nothing is committed if fn or the backend write fails.
func (s *Store) mutate(ctx context.Context, op string, fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	if err := fn(&next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.backend.Write(ctx, next.dataset()); err != nil {
		s.log.Error("failed to persist dataset",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w: %w", op, ErrPersist, err)
	}

	s.state = next
	return nil
}
