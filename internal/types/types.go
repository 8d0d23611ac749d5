// Package types holds all shared data structures (models) used across
// the application. Handlers, storage, the dataset store and the alert views
// all import types without depending on each other.
package types

// Person is a resident as stored in the "persons" collection.
//
// Struct tags serve two purposes:
//
//  1. json:"...": controls how the field appears in the persisted
//     document and in API responses (camelCase, as in the data file).
//
//  2. validate:"...": rules checked by the go-playground/validator
//     package. "required" means the field must be non-zero, so a zip of 0
//     is rejected; "notblank" also rejects whitespace-only strings.
type Person struct {
	FirstName string `json:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName"  validate:"required,notblank"`
	Address   string `json:"address"   validate:"required,notblank"`
	City      string `json:"city"      validate:"required,notblank"`
	Zip       int    `json:"zip"       validate:"required"`
	Phone     string `json:"phone"     validate:"required,notblank"`
	Email     string `json:"email"     validate:"required,notblank"`
}

// Key returns the natural key of the person (first + last name).
func (p Person) Key() NameKey {
	return NameKey{FirstName: p.FirstName, LastName: p.LastName}
}

// FullName returns "firstName lastName".
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// FireStation maps one address to the station number covering it.
// The address is the natural key.
type FireStation struct {
	Address string `json:"address" validate:"required,notblank"`
	Station int    `json:"station" validate:"required"`
}

// MedicalRecord is keyed by the same (firstName, lastName) pair as Person.
// A record may exist without a matching person and vice versa.
//
// The birthdate uses the fixed MM/dd/yyyy layout; the validator's
// datetime rule takes a Go reference-time layout, hence 01/02/2006.
type MedicalRecord struct {
	FirstName   string   `json:"firstName"   validate:"required,notblank"`
	LastName    string   `json:"lastName"    validate:"required,notblank"`
	Birthdate   string   `json:"birthdate"   validate:"required,notblank,datetime=01/02/2006"`
	Medications []string `json:"medications"`
	Allergies   []string `json:"allergies"`
}

// Key returns the natural key of the record.
func (m MedicalRecord) Key() NameKey {
	return NameKey{FirstName: m.FirstName, LastName: m.LastName}
}

// FullName returns "firstName lastName".
func (m MedicalRecord) FullName() string {
	return m.FirstName + " " + m.LastName
}

// NameKey is the case-sensitive (firstName, lastName) pair used to join
// persons to medical records. It is comparable and can be used as a map key.
type NameKey struct {
	FirstName string
	LastName  string
}

// Dataset is the whole persisted document. Field order in the JSON output
// follows struct order; element order inside each collection is insertion
// order and is preserved on save.
type Dataset struct {
	Persons        []Person        `json:"persons"`
	FireStations   []FireStation   `json:"firestations"`
	MedicalRecords []MedicalRecord `json:"medicalrecords"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Derived view responses
// ─────────────────────────────────────────────────────────────────────────────

// ChildResponse is one minor living at an address, with the names of every
// adult in the same household.
type ChildResponse struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Age       int      `json:"age"`
	Family    []string `json:"family"`
}

// FireInfo describes one resident of an address for the fire view.
type FireInfo struct {
	LastName    string   `json:"lastName"`
	Phone       string   `json:"phone"`
	Age         int      `json:"age"`
	Medications []string `json:"medications"`
	Allergies   []string `json:"allergies"`
}

// FireResponse lists the residents of an address and the station covering it.
// StationNumber is -1 when no station covers the address.
type FireResponse struct {
	FireInfos     []FireInfo `json:"fireInfos"`
	StationNumber int        `json:"stationNumber"`
}

// PersonInfo is the contact subset of a Person returned by station coverage.
type PersonInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

// FireStationResponse lists everyone covered by a station with an
// adult/child head count computed from their medical records.
type FireStationResponse struct {
	Persons    []PersonInfo `json:"persons"`
	AdultCount int          `json:"adultCount"`
	ChildCount int          `json:"childCount"`
}

// FloodResponse is one household member in the flood view.
type FloodResponse struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Phone       string   `json:"phone"`
	Age         int      `json:"age"`
	Medications []string `json:"medications"`
	Allergies   []string `json:"allergies"`
}

// PersonInfoLastNameResponse is one person returned by a last-name lookup.
type PersonInfoLastNameResponse struct {
	LastName    string   `json:"lastName"`
	Address     string   `json:"address"`
	Age         int      `json:"age"`
	Email       string   `json:"email"`
	Medications []string `json:"medications"`
	Allergies   []string `json:"allergies"`
}
