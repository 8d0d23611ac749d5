package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/aanand-mishra/safety-alerts/internal/types"
)

// validate is shared: a validator caches struct metadata and is safe for
// concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names ("firstName") rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// "required" accepts whitespace-only strings; notblank does not.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Errorf("register notblank: %w", err))
	}

	return v
}

func validateEntity(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrValidation, verrs)
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func requireKey(fields ...string) error {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: key parameters must not be blank", ErrValidation)
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Persons
// ─────────────────────────────────────────────────────────────────────────────

// CreatePerson appends p unless a person with identical fields already exists.
// Two people may share a name as long as some other field differs.
func (s *Store) CreatePerson(ctx context.Context, p types.Person) error {
	if err := validateEntity(p); err != nil {
		return fmt.Errorf("CreatePerson: %w", err)
	}

	err := s.mutate(ctx, "CreatePerson", func(st *state) error {
		if slices.Contains(st.persons, p) {
			return fmt.Errorf("person %s: %w", p.FullName(), ErrConflict)
		}
		st.persons = append(st.persons, p)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("person created", slog.String("name", p.FullName()))
	return nil
}

// UpdatePerson overwrites the contact fields of the first person named like p.
// Submitting the values already stored is a conflict.
func (s *Store) UpdatePerson(ctx context.Context, p types.Person) (types.Person, error) {
	if err := validateEntity(p); err != nil {
		return types.Person{}, fmt.Errorf("UpdatePerson: %w", err)
	}

	err := s.mutate(ctx, "UpdatePerson", func(st *state) error {
		i := slices.IndexFunc(st.persons, func(e types.Person) bool { return e.Key() == p.Key() })
		if i < 0 {
			return fmt.Errorf("person %s: %w", p.FullName(), ErrNotFound)
		}
		if st.persons[i] == p {
			return fmt.Errorf("person %s unchanged: %w", p.FullName(), ErrConflict)
		}
		cur := &st.persons[i]
		cur.Address = p.Address
		cur.City = p.City
		cur.Zip = p.Zip
		cur.Phone = p.Phone
		cur.Email = p.Email
		return nil
	})
	if err != nil {
		return types.Person{}, err
	}

	s.log.Info("person updated", slog.String("name", p.FullName()))
	return p, nil
}

// DeletePerson removes every person with the given name.
func (s *Store) DeletePerson(ctx context.Context, firstName, lastName string) error {
	if err := requireKey(firstName, lastName); err != nil {
		return fmt.Errorf("DeletePerson: %w", err)
	}
	key := types.NameKey{FirstName: firstName, LastName: lastName}

	err := s.mutate(ctx, "DeletePerson", func(st *state) error {
		n := len(st.persons)
		st.persons = slices.DeleteFunc(st.persons, func(e types.Person) bool { return e.Key() == key })
		if len(st.persons) == n {
			return fmt.Errorf("person %s %s: %w", firstName, lastName, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("person deleted", slog.String("name", firstName+" "+lastName))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fire stations
// ─────────────────────────────────────────────────────────────────────────────

// CreateFireStation maps a new address to a station. An address can only be
// mapped once.
func (s *Store) CreateFireStation(ctx context.Context, fs types.FireStation) error {
	if err := validateEntity(fs); err != nil {
		return fmt.Errorf("CreateFireStation: %w", err)
	}

	err := s.mutate(ctx, "CreateFireStation", func(st *state) error {
		if slices.ContainsFunc(st.stations, func(e types.FireStation) bool { return e.Address == fs.Address }) {
			return fmt.Errorf("fire station for %q: %w", fs.Address, ErrConflict)
		}
		st.stations = append(st.stations, fs)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("fire station created",
		slog.String("address", fs.Address),
		slog.Int("station", fs.Station))
	return nil
}

// UpdateFireStation changes the station covering fs.Address.
func (s *Store) UpdateFireStation(ctx context.Context, fs types.FireStation) (types.FireStation, error) {
	if err := validateEntity(fs); err != nil {
		return types.FireStation{}, fmt.Errorf("UpdateFireStation: %w", err)
	}

	err := s.mutate(ctx, "UpdateFireStation", func(st *state) error {
		i := slices.IndexFunc(st.stations, func(e types.FireStation) bool { return e.Address == fs.Address })
		if i < 0 {
			return fmt.Errorf("fire station for %q: %w", fs.Address, ErrNotFound)
		}
		if st.stations[i].Station == fs.Station {
			return fmt.Errorf("fire station for %q already %d: %w", fs.Address, fs.Station, ErrConflict)
		}
		st.stations[i].Station = fs.Station
		return nil
	})
	if err != nil {
		return types.FireStation{}, err
	}

	s.log.Info("fire station updated",
		slog.String("address", fs.Address),
		slog.Int("station", fs.Station))
	return fs, nil
}

// DeleteFireStation removes the mapping(s) for address.
func (s *Store) DeleteFireStation(ctx context.Context, address string) error {
	if err := requireKey(address); err != nil {
		return fmt.Errorf("DeleteFireStation: %w", err)
	}

	err := s.mutate(ctx, "DeleteFireStation", func(st *state) error {
		n := len(st.stations)
		st.stations = slices.DeleteFunc(st.stations, func(e types.FireStation) bool { return e.Address == address })
		if len(st.stations) == n {
			return fmt.Errorf("fire station for %q: %w", address, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("fire station deleted", slog.String("address", address))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Medical records
// ─────────────────────────────────────────────────────────────────────────────

// CreateMedicalRecord appends r unless a record with the same name exists.
func (s *Store) CreateMedicalRecord(ctx context.Context, r types.MedicalRecord) error {
	if err := validateEntity(r); err != nil {
		return fmt.Errorf("CreateMedicalRecord: %w", err)
	}
	r = cloneRecord(r)

	err := s.mutate(ctx, "CreateMedicalRecord", func(st *state) error {
		if slices.ContainsFunc(st.records, func(e types.MedicalRecord) bool { return e.Key() == r.Key() }) {
			return fmt.Errorf("medical record %s: %w", r.FullName(), ErrConflict)
		}
		st.records = append(st.records, r)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("medical record created", slog.String("name", r.FullName()))
	return nil
}

// UpdateMedicalRecord replaces birthdate, medications and allergies of the
// record named like r.
func (s *Store) UpdateMedicalRecord(ctx context.Context, r types.MedicalRecord) (types.MedicalRecord, error) {
	if err := validateEntity(r); err != nil {
		return types.MedicalRecord{}, fmt.Errorf("UpdateMedicalRecord: %w", err)
	}
	r = cloneRecord(r)

	err := s.mutate(ctx, "UpdateMedicalRecord", func(st *state) error {
		i := slices.IndexFunc(st.records, func(e types.MedicalRecord) bool { return e.Key() == r.Key() })
		if i < 0 {
			return fmt.Errorf("medical record %s: %w", r.FullName(), ErrNotFound)
		}
		if sameRecord(st.records[i], r) {
			return fmt.Errorf("medical record %s unchanged: %w", r.FullName(), ErrConflict)
		}
		cur := &st.records[i]
		cur.Birthdate = r.Birthdate
		cur.Medications = r.Medications
		cur.Allergies = r.Allergies
		return nil
	})
	if err != nil {
		return types.MedicalRecord{}, err
	}

	s.log.Info("medical record updated", slog.String("name", r.FullName()))
	return cloneRecord(r), nil
}

// DeleteMedicalRecord removes every record with the given name.
func (s *Store) DeleteMedicalRecord(ctx context.Context, firstName, lastName string) error {
	if err := requireKey(firstName, lastName); err != nil {
		return fmt.Errorf("DeleteMedicalRecord: %w", err)
	}
	key := types.NameKey{FirstName: firstName, LastName: lastName}

	err := s.mutate(ctx, "DeleteMedicalRecord", func(st *state) error {
		n := len(st.records)
		st.records = slices.DeleteFunc(st.records, func(e types.MedicalRecord) bool { return e.Key() == key })
		if len(st.records) == n {
			return fmt.Errorf("medical record %s %s: %w", firstName, lastName, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("medical record deleted", slog.String("name", firstName+" "+lastName))
	return nil
}

func sameRecord(a, b types.MedicalRecord) bool {
	return a.Key() == b.Key() &&
		a.Birthdate == b.Birthdate &&
		slices.Equal(a.Medications, b.Medications) &&
		slices.Equal(a.Allergies, b.Allergies)
}
