package hospital

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ehr/hospital/internal/platform/calendar"
)

// Store owns the four entity collections and enforces the cross-entity
// rules between them. Collections are loaded from the backend when the
// store is opened and written back only by Save, ExportTo and Close.
//
// A Store is not safe for concurrent use.
type Store struct {
	backend Backend
	log     zerolog.Logger
	clock   calendar.Clock
	ids     *IDGenerator
	metrics Recorder

	// legacy allows transitions out of Completed and Cancelled.
	legacy bool

	patients     map[string]*Patient
	doctors      map[string]*Doctor
	departments  map[string]*Department
	appointments map[string]*Appointment
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option { return func(s *Store) { s.log = l } }

func WithClock(c calendar.Clock) Option { return func(s *Store) { s.clock = c } }

func WithIDGenerator(g *IDGenerator) Option { return func(s *Store) { s.ids = g } }

func WithRecorder(r Recorder) Option { return func(s *Store) { s.metrics = r } }

// WithLegacyTransitions makes cancel and complete unconditional, so a
// completed appointment can still be cancelled.
func WithLegacyTransitions() Option { return func(s *Store) { s.legacy = true } }

// Open loads every collection from backend. Malformed lines are logged and
// skipped; backend read failures abort the open.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		log:     zerolog.Nop(),
		clock:   calendar.SystemClock,
		ids:     NewIDGenerator(IDSchemeClock, nil),
		metrics: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.patients, err = loadBucket(ctx, s, KindPatient, DeserializePatient, func(p *Patient) string { return p.ID }); err != nil {
		return nil, err
	}
	if s.doctors, err = loadBucket(ctx, s, KindDoctor, DeserializeDoctor, func(d *Doctor) string { return d.ID }); err != nil {
		return nil, err
	}
	if s.departments, err = loadBucket(ctx, s, KindDepartment, DeserializeDepartment, func(d *Department) string { return d.ID }); err != nil {
		return nil, err
	}
	if s.appointments, err = loadBucket(ctx, s, KindAppointment, DeserializeAppointment, func(a *Appointment) string { return a.ID }); err != nil {
		return nil, err
	}

	s.log.Debug().
		Int("patients", len(s.patients)).
		Int("doctors", len(s.doctors)).
		Int("departments", len(s.departments)).
		Int("appointments", len(s.appointments)).
		Msg("record store loaded")
	return s, nil
}

func loadBucket[T any](ctx context.Context, s *Store, kind Kind, decode func(string) (*T, error), idOf func(*T) string) (map[string]*T, error) {
	bucket := kind.Bucket()
	lines, err := s.backend.Load(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", bucket, err)
	}
	out := make(map[string]*T, len(lines))
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		v, err := decode(line)
		if err != nil {
			s.log.Warn().Err(err).Str("bucket", bucket).Int("line", i+1).Msg("skipping malformed record")
			s.metrics.RecordSkipped(bucket)
			continue
		}
		out[idOf(v)] = v
	}
	s.metrics.CollectionSize(bucket, len(out))
	return out, nil
}

// Save rewrites every collection in the store's own backend. All four
// buckets are attempted; failures are joined.
func (s *Store) Save(ctx context.Context) error {
	return s.observe("save", s.saveTo(ctx, s.backend))
}

// ExportTo writes every collection to another backend, leaving the store's
// own backend untouched.
func (s *Store) ExportTo(ctx context.Context, b Backend) error {
	return s.observe("export", s.saveTo(ctx, b))
}

func (s *Store) saveTo(ctx context.Context, b Backend) error {
	return errors.Join(
		saveBucket(ctx, s, b, KindPatient, s.patients, SerializePatient),
		saveBucket(ctx, s, b, KindDoctor, s.doctors, SerializeDoctor),
		saveBucket(ctx, s, b, KindDepartment, s.departments, SerializeDepartment),
		saveBucket(ctx, s, b, KindAppointment, s.appointments, SerializeAppointment),
	)
}

func saveBucket[T any](ctx context.Context, s *Store, b Backend, kind Kind, m map[string]*T, encode func(*T) string) error {
	ids := sortedIDs(m)
	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = encode(m[id])
	}
	if err := b.Save(ctx, kind.Bucket(), lines); err != nil {
		return fmt.Errorf("save %s: %w", kind.Bucket(), err)
	}
	s.metrics.CollectionSize(kind.Bucket(), len(lines))
	return nil
}

// Close saves every collection and closes the backend. Failures are logged,
// not returned, so shutdown always completes.
func (s *Store) Close(ctx context.Context) {
	if err := s.Save(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to save records on close")
	}
	if err := s.backend.Close(); err != nil {
		s.log.Error().Err(err).Msg("failed to close backend")
	}
}

// Summary counts the records in each collection.
type Summary struct {
	Patients     int
	Doctors      int
	Departments  int
	Appointments int
}

func (s *Store) Summary() Summary {
	return Summary{
		Patients:     len(s.patients),
		Doctors:      len(s.doctors),
		Departments:  len(s.departments),
		Appointments: len(s.appointments),
	}
}

func (s *Store) observe(op string, err error) error {
	s.metrics.Operation(op, err)
	return err
}

func sortedIDs[T any](m map[string]*T) []string {
	return slices.Sorted(maps.Keys(m))
}

// collect returns copies of the values of m accepted by keep, ascending by id.
func collect[T any](m map[string]*T, keep func(*T) bool, copyOf func(*T) T) []T {
	out := make([]T, 0, len(m))
	for _, id := range sortedIDs(m) {
		v := m[id]
		if keep == nil || keep(v) {
			out = append(out, copyOf(v))
		}
	}
	return out
}

// -- Patient --

// AddPatient assigns an id and inserts a new patient. It has no
// preconditions and cannot fail.
func (s *Store) AddPatient(f PatientFields) Patient {
	id := s.ids.Generate(KindPatient, func(id string) bool { _, ok := s.patients[id]; return ok })
	p := &Patient{
		Person:        Person{ID: id, Name: f.Name, Gender: f.Gender, PhoneNumber: f.PhoneNumber},
		DateOfBirth:   f.DateOfBirth,
		BloodType:     f.BloodType,
		InsuranceInfo: f.InsuranceInfo,
	}
	s.patients[id] = p
	s.metrics.Operation("add_patient", nil)
	s.log.Debug().Str("patient_id", id).Msg("patient added")
	return p.clone()
}

// RemovePatient deletes a patient. Appointments referencing it are kept.
func (s *Store) RemovePatient(id string) bool {
	if _, ok := s.patients[id]; !ok {
		return false
	}
	delete(s.patients, id)
	s.metrics.Operation("remove_patient", nil)
	return true
}

func (s *Store) GetPatient(id string) (Patient, bool) {
	p, ok := s.patients[id]
	if !ok {
		return Patient{}, false
	}
	return p.clone(), true
}

func (s *Store) ListPatients() []Patient {
	return collect(s.patients, nil, (*Patient).clone)
}

// UpdatePatient replaces the editable fields of a patient. The id and the
// medical history are kept.
func (s *Store) UpdatePatient(id string, f PatientFields) error {
	p, ok := s.patients[id]
	if !ok {
		return s.observe("update_patient", fmt.Errorf("%w: patient %s", ErrNotFound, id))
	}
	p.Name, p.Gender, p.PhoneNumber = f.Name, f.Gender, f.PhoneNumber
	p.DateOfBirth = f.DateOfBirth
	p.BloodType = f.BloodType
	p.InsuranceInfo = f.InsuranceInfo
	s.log.Debug().Str("patient_id", id).Msg("patient updated")
	return s.observe("update_patient", nil)
}

// AddMedicalHistoryEntry appends a dated entry to a patient's history.
func (s *Store) AddMedicalHistoryEntry(patientID, entry string) error {
	p, ok := s.patients[patientID]
	if !ok {
		return s.observe("add_history", fmt.Errorf("%w: patient %s", ErrNotFound, patientID))
	}
	s.appendHistory(p, entry)
	return s.observe("add_history", nil)
}

func (s *Store) appendHistory(p *Patient, entry string) {
	p.MedicalHistory = append(p.MedicalHistory, calendar.Today(s.clock())+": "+entry)
}

// -- Department --

func (s *Store) AddDepartment(name, location string) Department {
	id := s.ids.Generate(KindDepartment, func(id string) bool { _, ok := s.departments[id]; return ok })
	d := &Department{ID: id, Name: name, Location: location}
	s.departments[id] = d
	s.metrics.Operation("add_department", nil)
	s.log.Debug().Str("department_id", id).Msg("department added")
	return *d
}

// UpdateDepartment renames or relocates a department.
func (s *Store) UpdateDepartment(id, name, location string) error {
	d, ok := s.departments[id]
	if !ok {
		return s.observe("update_department", fmt.Errorf("%w: department %s", ErrNotFound, id))
	}
	d.Name, d.Location = name, location
	s.log.Debug().Str("department_id", id).Msg("department updated")
	return s.observe("update_department", nil)
}

// RemoveDepartment deletes a department no doctor refers to. It returns
// false when id is absent and ErrReferential while any doctor is assigned.
func (s *Store) RemoveDepartment(id string) (bool, error) {
	if _, ok := s.departments[id]; !ok {
		return false, nil
	}
	for _, d := range s.doctors {
		if d.DepartmentID == id {
			return false, s.observe("remove_department",
				fmt.Errorf("%w: department %s still has doctor %s assigned", ErrReferential, id, d.ID))
		}
	}
	delete(s.departments, id)
	return true, s.observe("remove_department", nil)
}

func (s *Store) GetDepartment(id string) (Department, bool) {
	d, ok := s.departments[id]
	if !ok {
		return Department{}, false
	}
	return *d, true
}

func (s *Store) ListDepartments() []Department {
	return collect(s.departments, nil, func(d *Department) Department { return *d })
}

// -- Doctor --

// AddDoctor inserts a doctor with no available days. The department must
// exist.
func (s *Store) AddDoctor(f DoctorFields) (Doctor, error) {
	if _, ok := s.departments[f.DepartmentID]; !ok {
		return Doctor{}, s.observe("add_doctor",
			fmt.Errorf("%w: department %s does not exist", ErrReferential, f.DepartmentID))
	}
	id := s.ids.Generate(KindDoctor, func(id string) bool { _, ok := s.doctors[id]; return ok })
	d := &Doctor{
		Person:         Person{ID: id, Name: f.Name, Gender: f.Gender, PhoneNumber: f.PhoneNumber},
		Specialization: f.Specialization,
		LicenseNumber:  f.LicenseNumber,
		AvailableDays:  NewDaySet(),
		DepartmentID:   f.DepartmentID,
	}
	s.doctors[id] = d
	s.log.Debug().Str("doctor_id", id).Str("department_id", f.DepartmentID).Msg("doctor added")
	return d.clone(), s.observe("add_doctor", nil)
}

// UpdateDoctor replaces the editable fields of a doctor. A new department
// must exist. Available days are kept.
func (s *Store) UpdateDoctor(id string, f DoctorFields) error {
	d, ok := s.doctors[id]
	if !ok {
		return s.observe("update_doctor", fmt.Errorf("%w: doctor %s", ErrNotFound, id))
	}
	if _, ok := s.departments[f.DepartmentID]; !ok {
		return s.observe("update_doctor",
			fmt.Errorf("%w: department %s does not exist", ErrReferential, f.DepartmentID))
	}
	d.Name, d.Gender, d.PhoneNumber = f.Name, f.Gender, f.PhoneNumber
	d.Specialization = f.Specialization
	d.LicenseNumber = f.LicenseNumber
	d.DepartmentID = f.DepartmentID
	s.log.Debug().Str("doctor_id", id).Str("department_id", f.DepartmentID).Msg("doctor updated")
	return s.observe("update_doctor", nil)
}

// RemoveDoctor deletes a doctor. Appointments referencing it are kept.
func (s *Store) RemoveDoctor(id string) bool {
	if _, ok := s.doctors[id]; !ok {
		return false
	}
	delete(s.doctors, id)
	s.metrics.Operation("remove_doctor", nil)
	return true
}

func (s *Store) GetDoctor(id string) (Doctor, bool) {
	d, ok := s.doctors[id]
	if !ok {
		return Doctor{}, false
	}
	return d.clone(), true
}

func (s *Store) ListDoctors() []Doctor {
	return collect(s.doctors, nil, (*Doctor).clone)
}

func (s *Store) DoctorsInDepartment(departmentID string) []Doctor {
	return collect(s.doctors, func(d *Doctor) bool { return d.DepartmentID == departmentID }, (*Doctor).clone)
}

// AddAvailableDay registers day for a doctor. Adding a day twice is a no-op.
func (s *Store) AddAvailableDay(doctorID, day string) error {
	d, err := s.availabilityTarget(doctorID, day)
	if err != nil {
		return s.observe("add_available_day", err)
	}
	d.AvailableDays.Add(day)
	return s.observe("add_available_day", nil)
}

func (s *Store) RemoveAvailableDay(doctorID, day string) error {
	d, err := s.availabilityTarget(doctorID, day)
	if err != nil {
		return s.observe("remove_available_day", err)
	}
	d.AvailableDays.Remove(day)
	return s.observe("remove_available_day", nil)
}

func (s *Store) availabilityTarget(doctorID, day string) (*Doctor, error) {
	d, ok := s.doctors[doctorID]
	if !ok {
		return nil, fmt.Errorf("%w: doctor %s", ErrNotFound, doctorID)
	}
	if !calendar.IsValidDate(day) {
		return nil, fmt.Errorf("%w: date %q, expected YYYY-MM-DD", ErrInvalidFormat, day)
	}
	if d.AvailableDays == nil {
		d.AvailableDays = NewDaySet()
	}
	return d, nil
}
