// Package alerts assembles the dispatch views (child alert, fire, flood,
// station coverage, phone and e-mail lists, person info) out of the joins
// exposed by dataset.Query.
//
// Every view runs inside a single Store.View call, so it sees one consistent
// snapshot even while mutations are being applied.
package alerts

import (
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/aanand-mishra/safety-alerts/internal/age"
	"github.com/aanand-mishra/safety-alerts/internal/dataset"
	"github.com/aanand-mishra/safety-alerts/internal/types"
)

// ErrNotFound is returned by views that produced nothing to report.
var ErrNotFound = dataset.ErrNotFound

// Service builds the views.
type Service struct {
	store *dataset.Store
	ages  *age.Calculator
	log   *slog.Logger
}

// NewService returns a Service reading from store. A nil ages uses the wall clock.
func NewService(store *dataset.Store, ages *age.Calculator, log *slog.Logger) *Service {
	if ages == nil {
		ages = age.NewCalculator(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, ages: ages, log: log}
}

// ChildAlert lists the minors living at address, each with the names of all
// adults of the household.
func (s *Service) ChildAlert(address string) ([]types.ChildResponse, error) {
	var out []types.ChildResponse

	s.store.View(func(q *dataset.Query) {
		persons := q.PersonsByAddress(address)
		if len(persons) == 0 {
			return
		}
		records := q.MedicalRecordsByPersons(persons)

		type aged struct {
			rec types.MedicalRecord
			age int
		}
		all := lo.Map(records, func(r types.MedicalRecord, _ int) aged {
			return aged{rec: r, age: s.ages.Age(r.Birthdate)}
		})
		adults, minors := lo.FilterReject(all, func(a aged, _ int) bool { return age.IsAdult(a.age) })

		// The household list is complete before any child is built.
		family := lo.Map(adults, func(a aged, _ int) string { return a.rec.FullName() })

		out = lo.Map(minors, func(m aged, _ int) types.ChildResponse {
			return types.ChildResponse{
				FirstName: m.rec.FirstName,
				LastName:  m.rec.LastName,
				Age:       m.age,
				Family:    append([]string{}, family...),
			}
		})
	})

	if len(out) == 0 {
		return nil, ErrNotFound
	}
	s.log.Debug("child alert", slog.String("address", address), slog.Int("children", len(out)))
	return out, nil
}

// FireInfo lists the residents of address that have a medical record, and
// the station covering it (dataset.NoStation when uncovered). It always
// succeeds.
func (s *Service) FireInfo(address string) types.FireResponse {
	resp := types.FireResponse{FireInfos: []types.FireInfo{}, StationNumber: dataset.NoStation}

	s.store.View(func(q *dataset.Query) {
		persons := q.PersonsByAddress(address)
		byName := lo.KeyBy(q.MedicalRecordsByPersons(persons), func(r types.MedicalRecord) types.NameKey {
			return r.Key()
		})

		resp.FireInfos = lo.FilterMap(persons, func(p types.Person, _ int) (types.FireInfo, bool) {
			r, ok := byName[p.Key()]
			if !ok {
				return types.FireInfo{}, false
			}
			return types.FireInfo{
				LastName:    p.LastName,
				Phone:       p.Phone,
				Age:         s.ages.Age(r.Birthdate),
				Medications: r.Medications,
				Allergies:   r.Allergies,
			}, true
		})
		resp.StationNumber = q.StationByAddress(address)
	})

	return resp
}

// FireStationCoverage lists everyone covered by station n together with an
// adult/child count taken from their medical records. At least one covered
// person must have a record.
func (s *Service) FireStationCoverage(n int) (types.FireStationResponse, error) {
	var (
		resp  types.FireStationResponse
		found bool
	)

	s.store.View(func(q *dataset.Query) {
		persons := q.PersonsByStationNumber(n)
		if len(persons) == 0 {
			return
		}
		records := q.MedicalRecordsByPersons(persons)
		if len(records) == 0 {
			return
		}

		adults := lo.CountBy(records, func(r types.MedicalRecord) bool {
			return age.IsAdult(s.ages.Age(r.Birthdate))
		})
		resp = types.FireStationResponse{
			Persons: lo.Map(persons, func(p types.Person, _ int) types.PersonInfo {
				return types.PersonInfo{
					FirstName: p.FirstName,
					LastName:  p.LastName,
					Address:   p.Address,
					Phone:     p.Phone,
				}
			}),
			AdultCount: adults,
			ChildCount: len(records) - adults,
		}
		found = true
	})

	if !found {
		return types.FireStationResponse{}, ErrNotFound
	}
	return resp, nil
}

// Flood groups by address every household covered by any of stations.
// Residents without a medical record are still listed, with age.Unknown and
// empty medication and allergy lists.
func (s *Service) Flood(stations []int) (map[string][]types.FloodResponse, error) {
	out := map[string][]types.FloodResponse{}

	s.store.View(func(q *dataset.Query) {
		addresses := map[string]struct{}{}
		for _, n := range stations {
			for a := range q.AddressesByStationNumber(n) {
				addresses[a] = struct{}{}
			}
		}
		if len(addresses) == 0 {
			return
		}

		var persons []types.Person
		for a := range addresses {
			persons = append(persons, q.PersonsByAddress(a)...)
		}
		if len(persons) == 0 {
			return
		}

		byName := lo.KeyBy(q.MedicalRecordsByPersons(persons), func(r types.MedicalRecord) string {
			return floodKey(r.FirstName, r.LastName)
		})

		for addr, residents := range lo.GroupBy(persons, func(p types.Person) string { return p.Address }) {
			out[addr] = lo.Map(residents, func(p types.Person, _ int) types.FloodResponse {
				resp := types.FloodResponse{
					FirstName:   p.FirstName,
					LastName:    p.LastName,
					Phone:       p.Phone,
					Age:         age.Unknown,
					Medications: []string{},
					Allergies:   []string{},
				}
				if r, ok := byName[floodKey(p.FirstName, p.LastName)]; ok {
					resp.Age = s.ages.Age(r.Birthdate)
					resp.Medications = r.Medications
					resp.Allergies = r.Allergies
				}
				return resp
			})
		}
	})

	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

func floodKey(first, last string) string {
	return strings.ToLower(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// CommunityEmail returns the e-mail of every person living in city, compared
// case-insensitively. Duplicates are kept.
func (s *Service) CommunityEmail(city string) ([]string, error) {
	var emails []string

	s.store.View(func(q *dataset.Query) {
		emails = lo.FilterMap(q.AllPersons(), func(p types.Person, _ int) (string, bool) {
			return p.Email, strings.EqualFold(p.City, city)
		})
	})

	if len(emails) == 0 {
		return nil, ErrNotFound
	}
	return emails, nil
}

// PhoneAlert returns the phone numbers of everyone covered by station n.
func (s *Service) PhoneAlert(n int) ([]string, error) {
	var phones []string

	s.store.View(func(q *dataset.Query) {
		phones = lo.Map(q.PersonsByStationNumber(n), func(p types.Person, _ int) string { return p.Phone })
	})

	if len(phones) == 0 {
		return nil, ErrNotFound
	}
	return phones, nil
}

// PersonInfoByLastName returns the details of every person with that last
// name who has a medical record.
func (s *Service) PersonInfoByLastName(lastName string) ([]types.PersonInfoLastNameResponse, error) {
	var out []types.PersonInfoLastNameResponse

	s.store.View(func(q *dataset.Query) {
		persons := q.PersonsByLastName(lastName)
		if len(persons) == 0 {
			return
		}
		byName := lo.KeyBy(q.MedicalRecordsByPersons(persons), func(r types.MedicalRecord) string {
			return r.FullName()
		})

		out = lo.FilterMap(persons, func(p types.Person, _ int) (types.PersonInfoLastNameResponse, bool) {
			r, ok := byName[p.FullName()]
			if !ok {
				return types.PersonInfoLastNameResponse{}, false
			}
			return types.PersonInfoLastNameResponse{
				LastName:    p.LastName,
				Address:     p.Address,
				Age:         s.ages.Age(r.Birthdate),
				Email:       p.Email,
				Medications: r.Medications,
				Allergies:   r.Allergies,
			}, true
		})
	})

	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}
