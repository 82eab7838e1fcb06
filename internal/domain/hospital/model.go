package hospital

import (
	"maps"
	"slices"
)

// Kind identifies an entity collection. It selects the id prefix and the
// backend bucket the collection is persisted under.
type Kind int

const (
	KindPatient Kind = iota
	KindDoctor
	KindDepartment
	KindAppointment
)

// Prefix returns the id prefix for the kind.
func (k Kind) Prefix() string {
	switch k {
	case KindPatient:
		return "P"
	case KindDoctor:
		return "D"
	case KindDepartment:
		return "DP"
	case KindAppointment:
		return "A"
	}
	return ""
}

// Bucket returns the backend bucket name for the kind.
func (k Kind) Bucket() string {
	switch k {
	case KindPatient:
		return "patients"
	case KindDoctor:
		return "doctors"
	case KindDepartment:
		return "departments"
	case KindAppointment:
		return "appointments"
	}
	return ""
}

func (k Kind) String() string { return k.Bucket() }

// Kinds lists every collection in load and save order.
var Kinds = []Kind{KindPatient, KindDoctor, KindDepartment, KindAppointment}

// Person is the field set shared by patients and doctors.
type Person struct {
	ID          string
	Name        string
	Gender      string
	PhoneNumber string
}

// Patient is a person under care. MedicalHistory is append-only and keeps
// insertion order.
type Patient struct {
	Person
	DateOfBirth    string
	BloodType      string
	MedicalHistory []string
	InsuranceInfo  string
}

func (p *Patient) clone() Patient {
	c := *p
	c.MedicalHistory = append([]string(nil), p.MedicalHistory...)
	return c
}

// DaySet is a set of YYYY-MM-DD date strings.
type DaySet map[string]struct{}

// NewDaySet returns a set holding days.
func NewDaySet(days ...string) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

func (s DaySet) Add(day string)      { s[day] = struct{}{} }
func (s DaySet) Remove(day string)   { delete(s, day) }
func (s DaySet) Has(day string) bool { _, ok := s[day]; return ok }

// Sorted returns the days in ascending order. Serialization relies on this
// ordering being deterministic.
func (s DaySet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Doctor is a person who sees patients on the dates in AvailableDays.
// DepartmentID is checked against the department collection only when the
// doctor is created.
type Doctor struct {
	Person
	Specialization string
	LicenseNumber  string
	AvailableDays  DaySet
	DepartmentID   string
}

// IsAvailableOn reports whether day is one of the doctor's available days.
func (d *Doctor) IsAvailableOn(day string) bool {
	return d.AvailableDays.Has(day)
}

func (d *Doctor) clone() Doctor {
	c := *d
	c.AvailableDays = NewDaySet(d.AvailableDays.Sorted()...)
	return c
}

type Department struct {
	ID       string
	Name     string
	Location string
}

// Status is the appointment lifecycle state.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Terminal reports whether no further transition is defined from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment books a patient with a doctor. Time is free text. Notes are
// filled in on completion.
type Appointment struct {
	ID        string
	PatientID string
	DoctorID  string
	Date      string
	Time      string
	Status    Status
	Notes     string
}

// PatientFields are the caller-supplied fields of a new patient.
type PatientFields struct {
	Name          string
	Gender        string
	PhoneNumber   string
	DateOfBirth   string
	BloodType     string
	InsuranceInfo string
}

// DoctorFields are the caller-supplied fields of a new doctor.
type DoctorFields struct {
	Name           string
	Gender         string
	PhoneNumber    string
	Specialization string
	LicenseNumber  string
	DepartmentID   string
}
