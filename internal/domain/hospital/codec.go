package hospital

import (
	"fmt"
	"strings"
)

// Persisted line layout. The field order is the on-disk schema; do not
// reorder.
//
//	patient:     id,name,gender,phone,dateOfBirth,bloodType,history(a|b|c),insurance
//	doctor:      id,name,gender,phone,specialization,license,days(a|b|c),departmentId
//	department:  id,name,location
//	appointment: id,patientId,doctorId,date,time,status,notes
//
// Delimiters and backslashes inside a field are backslash-escaped, and line
// breaks are written as \n and \r so a record never spans two lines. Lines
// whose fields contain none of these are identical to the unescaped layout.
const (
	fieldSep = ','
	listSep  = '|'
	escape   = '\\'

	patientFields     = 8
	doctorFields      = 8
	departmentFields  = 3
	appointmentFields = 7
)

func SerializePatient(p *Patient) string {
	return joinFields(
		escapeField(p.ID),
		escapeField(p.Name),
		escapeField(p.Gender),
		escapeField(p.PhoneNumber),
		escapeField(p.DateOfBirth),
		escapeField(p.BloodType),
		joinList(p.MedicalHistory),
		escapeField(p.InsuranceInfo),
	)
}

func DeserializePatient(line string) (*Patient, error) {
	f, err := splitRecord(line, patientFields, "patient")
	if err != nil {
		return nil, err
	}
	return &Patient{
		Person:         Person{ID: unescapeField(f[0]), Name: unescapeField(f[1]), Gender: unescapeField(f[2]), PhoneNumber: unescapeField(f[3])},
		DateOfBirth:    unescapeField(f[4]),
		BloodType:      unescapeField(f[5]),
		MedicalHistory: splitList(f[6]),
		InsuranceInfo:  unescapeField(f[7]),
	}, nil
}

func SerializeDoctor(d *Doctor) string {
	return joinFields(
		escapeField(d.ID),
		escapeField(d.Name),
		escapeField(d.Gender),
		escapeField(d.PhoneNumber),
		escapeField(d.Specialization),
		escapeField(d.LicenseNumber),
		joinList(d.AvailableDays.Sorted()),
		escapeField(d.DepartmentID),
	)
}

func DeserializeDoctor(line string) (*Doctor, error) {
	f, err := splitRecord(line, doctorFields, "doctor")
	if err != nil {
		return nil, err
	}
	return &Doctor{
		Person:         Person{ID: unescapeField(f[0]), Name: unescapeField(f[1]), Gender: unescapeField(f[2]), PhoneNumber: unescapeField(f[3])},
		Specialization: unescapeField(f[4]),
		LicenseNumber:  unescapeField(f[5]),
		AvailableDays:  NewDaySet(splitList(f[6])...),
		DepartmentID:   unescapeField(f[7]),
	}, nil
}

func SerializeDepartment(d *Department) string {
	return joinFields(escapeField(d.ID), escapeField(d.Name), escapeField(d.Location))
}

func DeserializeDepartment(line string) (*Department, error) {
	f, err := splitRecord(line, departmentFields, "department")
	if err != nil {
		return nil, err
	}
	return &Department{ID: unescapeField(f[0]), Name: unescapeField(f[1]), Location: unescapeField(f[2])}, nil
}

func SerializeAppointment(a *Appointment) string {
	return joinFields(
		escapeField(a.ID),
		escapeField(a.PatientID),
		escapeField(a.DoctorID),
		escapeField(a.Date),
		escapeField(a.Time),
		escapeField(string(a.Status)),
		escapeField(a.Notes),
	)
}

func DeserializeAppointment(line string) (*Appointment, error) {
	f, err := splitRecord(line, appointmentFields, "appointment")
	if err != nil {
		return nil, err
	}
	return &Appointment{
		ID:        unescapeField(f[0]),
		PatientID: unescapeField(f[1]),
		DoctorID:  unescapeField(f[2]),
		Date:      unescapeField(f[3]),
		Time:      unescapeField(f[4]),
		Status:    Status(unescapeField(f[5])),
		Notes:     unescapeField(f[6]),
	}, nil
}

func joinFields(fields ...string) string {
	return strings.Join(fields, string(fieldSep))
}

// splitRecord splits line into raw, still-escaped fields and keeps the first
// want of them.
func splitRecord(line string, want int, entity string) ([]string, error) {
	f := splitEscaped(line, fieldSep)
	if len(f) < want {
		return nil, fmt.Errorf("%w: %s record has %d fields, want at least %d", ErrInvalidFormat, entity, len(f), want)
	}
	return f[:want], nil
}

// joinList escapes each item and joins them with the list separator. An
// empty list yields the empty string, so a list holding a single empty item
// reads back as empty.
func joinList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	escaped := make([]string, len(items))
	for i, it := range items {
		escaped[i] = escapeField(it)
	}
	return strings.Join(escaped, string(listSep))
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := splitEscaped(raw, listSep)
	items := make([]string, len(parts))
	for i, p := range parts {
		items[i] = unescapeField(p)
	}
	return items
}

// splitEscaped cuts s at every sep not preceded by the escape byte. Escape
// sequences are left in place for unescapeField.
func splitEscaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case escape:
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func escapeField(s string) string {
	if !strings.ContainsAny(s, "\\,|\n\r") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case escape, fieldSep, listSep:
			b.WriteByte(escape)
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// unescapeField reverses escapeField. A backslash not followed by a
// delimiter, another backslash, n or r is kept literally.
func unescapeField(s string) string {
	if strings.IndexByte(s, escape) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == escape && i+1 < len(s) {
			switch n := s[i+1]; n {
			case escape, fieldSep, listSep:
				b.WriteByte(n)
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
