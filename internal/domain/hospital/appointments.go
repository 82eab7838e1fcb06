package hospital

import (
	"fmt"

	"github.com/ehr/hospital/internal/platform/calendar"
)

// ScheduleAppointment books patientID with doctorID on date. Both must
// exist, date must be a valid calendar date and one of the doctor's
// available days. The time is stored verbatim.
func (s *Store) ScheduleAppointment(patientID, doctorID, date, time string) (Appointment, error) {
	if _, ok := s.patients[patientID]; !ok {
		return Appointment{}, s.observe("schedule_appointment", fmt.Errorf("%w: patient %s", ErrNotFound, patientID))
	}
	doc, ok := s.doctors[doctorID]
	if !ok {
		return Appointment{}, s.observe("schedule_appointment", fmt.Errorf("%w: doctor %s", ErrNotFound, doctorID))
	}
	if !calendar.IsValidDate(date) {
		return Appointment{}, s.observe("schedule_appointment",
			fmt.Errorf("%w: date %q, expected YYYY-MM-DD", ErrInvalidFormat, date))
	}
	if !doc.IsAvailableOn(date) {
		return Appointment{}, s.observe("schedule_appointment",
			fmt.Errorf("%w: doctor %s is not available on %s", ErrUnavailable, doctorID, date))
	}

	id := s.ids.Generate(KindAppointment, func(id string) bool { _, ok := s.appointments[id]; return ok })
	a := &Appointment{
		ID:        id,
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Time:      time,
		Status:    StatusScheduled,
	}
	s.appointments[id] = a
	s.log.Debug().Str("appointment_id", id).Str("patient_id", patientID).Str("doctor_id", doctorID).Msg("appointment scheduled")
	return *a, s.observe("schedule_appointment", nil)
}

// CancelAppointment marks an appointment Cancelled. It returns false when
// id is absent and ErrTerminalStatus when the appointment is already
// Completed or Cancelled.
func (s *Store) CancelAppointment(id string) (bool, error) {
	a, ok := s.appointments[id]
	if !ok {
		return false, nil
	}
	if err := s.checkTransition(a); err != nil {
		return false, s.observe("cancel_appointment", err)
	}
	a.Status = StatusCancelled
	return true, s.observe("cancel_appointment", nil)
}

// CompleteAppointment marks an appointment Completed with notes and, when
// both the patient and the doctor still exist, appends a visit entry to the
// patient's medical history. A missing patient or doctor does not fail the
// completion.
func (s *Store) CompleteAppointment(id, notes string) (bool, error) {
	a, ok := s.appointments[id]
	if !ok {
		return false, nil
	}
	if err := s.checkTransition(a); err != nil {
		return false, s.observe("complete_appointment", err)
	}
	a.Status = StatusCompleted
	a.Notes = notes

	p, pok := s.patients[a.PatientID]
	d, dok := s.doctors[a.DoctorID]
	if pok && dok {
		s.appendHistory(p, fmt.Sprintf("Appointment with Dr. %s (%s) on %s at %s: %s",
			d.Name, d.Specialization, a.Date, a.Time, notes))
	} else {
		s.log.Warn().Str("appointment_id", id).Bool("patient_found", pok).Bool("doctor_found", dok).
			Msg("appointment completed without history entry")
	}
	return true, s.observe("complete_appointment", nil)
}

func (s *Store) checkTransition(a *Appointment) error {
	if s.legacy || !a.Status.Terminal() {
		return nil
	}
	return fmt.Errorf("%w: appointment %s is %s", ErrTerminalStatus, a.ID, a.Status)
}

func (s *Store) GetAppointment(id string) (Appointment, bool) {
	a, ok := s.appointments[id]
	if !ok {
		return Appointment{}, false
	}
	return *a, true
}

func (s *Store) ListAppointments() []Appointment {
	return s.filterAppointments(nil)
}

func (s *Store) AppointmentsByPatient(patientID string) []Appointment {
	return s.filterAppointments(func(a *Appointment) bool { return a.PatientID == patientID })
}

func (s *Store) AppointmentsByDoctor(doctorID string) []Appointment {
	return s.filterAppointments(func(a *Appointment) bool { return a.DoctorID == doctorID })
}

func (s *Store) AppointmentsByDate(date string) []Appointment {
	return s.filterAppointments(func(a *Appointment) bool { return a.Date == date })
}

func (s *Store) filterAppointments(keep func(*Appointment) bool) []Appointment {
	return collect(s.appointments, keep, func(a *Appointment) Appointment { return *a })
}
