package dataset

import (
	"testing"

	"github.com/aanand-mishra/safety-alerts/internal/types"
)

func TestPersonsByAddressContainsEveryPerson(t *testing.T) {
	s, _ := newLoadedStore(t)

	s.View(func(q *Query) {
		for _, p := range q.AllPersons() {
			found := false
			for _, got := range q.PersonsByAddress(p.Address) {
				if got == p {
					found = true
				}
			}
			if !found {
				t.Errorf("PersonsByAddress(%q) does not contain %s", p.Address, p.FullName())
			}
		}
		if got := q.PersonsByAddress(""); len(got) != 0 {
			t.Errorf("empty address matched %d persons", len(got))
		}
	})
}

func TestPersonsByAddressIsExact(t *testing.T) {
	s, _ := newLoadedStore(t)
	s.View(func(q *Query) {
		if got := q.PersonsByAddress("1509 culver st"); len(got) != 0 {
			t.Fatalf("address match must be case-sensitive, got %d", len(got))
		}
		if got := q.PersonsByAddress("1509 Culver St"); len(got) != 2 {
			t.Fatalf("expected 2 Boyds, got %d", len(got))
		}
	})
}

func TestPersonsByStationNumber(t *testing.T) {
	s, _ := newLoadedStore(t)
	s.View(func(q *Query) {
		got := q.PersonsByStationNumber(3)
		if len(got) != 2 || got[0].FirstName != "John" || got[1].FirstName != "Tenley" {
			t.Fatalf("unexpected persons for station 3: %+v", got)
		}
		if got := q.PersonsByStationNumber(42); len(got) != 0 {
			t.Fatalf("expected nobody for station 42, got %+v", got)
		}
	})
}

func TestMedicalRecordsByPersons(t *testing.T) {
	s, _ := newLoadedStore(t)
	s.View(func(q *Query) {
		if got := q.MedicalRecordsByPersons(nil); got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil result, got %#v", got)
		}

		ps := q.PersonsByAddress("1509 Culver St")
		got := q.MedicalRecordsByPersons(ps)
		if len(got) != 2 {
			t.Fatalf("expected 2 records, got %d", len(got))
		}
		keys := map[types.NameKey]bool{}
		for _, p := range ps {
			keys[p.Key()] = true
		}
		for _, r := range got {
			if !keys[r.Key()] {
				t.Fatalf("record %s does not belong to any input person", r.FullName())
			}
		}

		// Peter Duncan has no record.
		if got := q.MedicalRecordsByPersons(q.PersonsByAddress("644 Gershwin Cir")); len(got) != 0 {
			t.Fatalf("expected no records, got %+v", got)
		}
	})
}

func TestStationByAddress(t *testing.T) {
	s, _ := newLoadedStore(t)
	s.View(func(q *Query) {
		if got := q.StationByAddress("29 15th St"); got != 2 {
			t.Fatalf("expected station 2, got %d", got)
		}
		if got := q.StationByAddress("unknown address"); got != NoStation {
			t.Fatalf("expected %d, got %d", NoStation, got)
		}
		if got := q.StationByAddress(""); got != NoStation {
			t.Fatalf("expected %d for empty address, got %d", NoStation, got)
		}
	})
}

func TestStationByAddressFirstMatchWins(t *testing.T) {
	ds := types.Dataset{FireStations: []types.FireStation{
		{Address: "1 Dup Rd", Station: 7},
		{Address: "1 Dup Rd", Station: 8},
	}}
	s := New(&memBackend{doc: &ds}, discardLogger())
	if err := s.Load(t.Context()); err != nil {
		t.Fatalf("load: %v", err)
	}
	s.View(func(q *Query) {
		if got := q.StationByAddress("1 Dup Rd"); got != 7 {
			t.Fatalf("expected first mapping (7), got %d", got)
		}
	})
}

func TestPersonsByLastName(t *testing.T) {
	s, _ := newLoadedStore(t)
	s.View(func(q *Query) {
		if got := q.PersonsByLastName("Boyd"); len(got) != 2 {
			t.Fatalf("expected 2 Boyds, got %d", len(got))
		}
		if got := q.PersonsByLastName("boyd"); len(got) != 0 {
			t.Fatalf("last name match must be case-sensitive")
		}
	})
}

func TestAddressesByStationNumber(t *testing.T) {
	ds := sampleDataset()
	ds.FireStations = append(ds.FireStations, types.FireStation{Address: "748 Townings Dr", Station: 2})
	s := New(&memBackend{doc: &ds}, discardLogger())
	if err := s.Load(t.Context()); err != nil {
		t.Fatalf("load: %v", err)
	}

	s.View(func(q *Query) {
		two := q.AddressesByStationNumber(2)
		if len(two) != 2 {
			t.Fatalf("expected 2 addresses for station 2, got %v", two)
		}
		for _, st := range ds.FireStations {
			_, ok := two[st.Address]
			if ok != (st.Station == 2) {
				t.Fatalf("address %q membership wrong", st.Address)
			}
		}

		if got := q.AddressesByStationNumber(0); len(got) != 0 {
			t.Fatalf("station 0 must yield an empty set, got %v", got)
		}
		if got := q.AddressesByStationNumber(99); len(got) != 0 {
			t.Fatalf("unknown station must yield an empty set, got %v", got)
		}

		union := map[string]struct{}{}
		for _, n := range []int{1, 2} {
			for a := range q.AddressesByStationNumber(n) {
				union[a] = struct{}{}
			}
		}
		if len(union) != 3 {
			t.Fatalf("expected 3 addresses in union of stations 1 and 2, got %v", union)
		}
	})
}
