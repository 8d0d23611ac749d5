package dataset

import (
	"slices"

	"github.com/aanand-mishra/safety-alerts/internal/types"
)

// NoStation is returned by StationByAddress when no station covers the address.
const NoStation = -1

// Query is the read-only join/lookup engine over one consistent state.
// It is only valid inside the Store.View callback that produced it.
//
// Matching rules: names and addresses compare exactly (case-sensitive);
// only CommunityEmail's city filter, in the alerts package, folds case.
type Query struct {
	st *state
}

// AllPersons returns every person in insertion order.
func (q *Query) AllPersons() []types.Person {
	return slices.Clone(q.st.persons)
}

// PersonsByAddress returns the persons living at addr. An empty addr matches nobody.
func (q *Query) PersonsByAddress(addr string) []types.Person {
	out := []types.Person{}
	if addr == "" {
		return out
	}
	for _, p := range q.st.persons {
		if p.Address == addr {
			out = append(out, p)
		}
	}
	return out
}

// PersonsByStationNumber returns the persons whose address is covered by station n.
func (q *Query) PersonsByStationNumber(n int) []types.Person {
	covered := make(map[string]struct{})
	for _, s := range q.st.stations {
		if s.Station == n {
			covered[s.Address] = struct{}{}
		}
	}

	out := []types.Person{}
	for _, p := range q.st.persons {
		if _, ok := covered[p.Address]; ok {
			out = append(out, p)
		}
	}
	return out
}

// MedicalRecordsByPersons returns, in record order, every record whose name
// pair matches one of ps.
func (q *Query) MedicalRecordsByPersons(ps []types.Person) []types.MedicalRecord {
	out := []types.MedicalRecord{}
	if len(ps) == 0 {
		return out
	}

	keys := make(map[types.NameKey]struct{}, len(ps))
	for _, p := range ps {
		keys[p.Key()] = struct{}{}
	}
	for _, r := range q.st.records {
		if _, ok := keys[r.Key()]; ok {
			out = append(out, cloneRecord(r))
		}
	}
	return out
}

// StationByAddress returns the first station covering addr, or NoStation.
func (q *Query) StationByAddress(addr string) int {
	if addr == "" {
		return NoStation
	}
	for _, s := range q.st.stations {
		if s.Address == addr {
			return s.Station
		}
	}
	return NoStation
}

// PersonsByLastName returns the persons with exactly that last name.
func (q *Query) PersonsByLastName(name string) []types.Person {
	out := []types.Person{}
	if name == "" {
		return out
	}
	for _, p := range q.st.persons {
		if p.LastName == name {
			out = append(out, p)
		}
	}
	return out
}

// AddressesByStationNumber returns the set of addresses covered by station n.
// Station 0 and a station with no addresses both yield an empty set.
func (q *Query) AddressesByStationNumber(n int) map[string]struct{} {
	out := make(map[string]struct{})
	if n == 0 {
		return out
	}
	for _, s := range q.st.stations {
		if s.Station == n {
			out[s.Address] = struct{}{}
		}
	}
	return out
}
