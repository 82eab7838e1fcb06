package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ehr/hospital/internal/domain/hospital"
	"github.com/ehr/hospital/pkg/pagination"
)

func printPerson(w io.Writer, p hospital.Person) {
	fmt.Fprintf(w, "ID: %s\n", p.ID)
	fmt.Fprintf(w, "Name: %s\n", p.Name)
	fmt.Fprintf(w, "Gender: %s\n", p.Gender)
	fmt.Fprintf(w, "Phone: %s\n", p.PhoneNumber)
}

func printPatient(w io.Writer, p hospital.Patient) {
	printPerson(w, p.Person)
	fmt.Fprintf(w, "Date of Birth: %s\n", p.DateOfBirth)
	fmt.Fprintf(w, "Blood Type: %s\n", p.BloodType)
	fmt.Fprintf(w, "Insurance: %s\n", p.InsuranceInfo)
	fmt.Fprintln(w, "Medical History:")
	if len(p.MedicalHistory) == 0 {
		fmt.Fprintln(w, "  No records available")
		return
	}
	for _, entry := range p.MedicalHistory {
		fmt.Fprintf(w, "  %s\n", entry)
	}
}

func printDoctor(w io.Writer, d hospital.Doctor) {
	printPerson(w, d.Person)
	fmt.Fprintf(w, "Specialization: %s\n", d.Specialization)
	fmt.Fprintf(w, "License Number: %s\n", d.LicenseNumber)
	fmt.Fprintf(w, "Department ID: %s\n", d.DepartmentID)
	if len(d.AvailableDays) == 0 {
		fmt.Fprintln(w, "Available Days: None set")
		return
	}
	fmt.Fprintf(w, "Available Days: %s\n", strings.Join(d.AvailableDays.Sorted(), ", "))
}

func printDepartment(w io.Writer, d hospital.Department) {
	fmt.Fprintf(w, "Department ID: %s\n", d.ID)
	fmt.Fprintf(w, "Name: %s\n", d.Name)
	fmt.Fprintf(w, "Location: %s\n", d.Location)
}

func printAppointment(w io.Writer, a hospital.Appointment) {
	fmt.Fprintf(w, "Appointment ID: %s\n", a.ID)
	fmt.Fprintf(w, "Patient ID: %s\n", a.PatientID)
	fmt.Fprintf(w, "Doctor ID: %s\n", a.DoctorID)
	fmt.Fprintf(w, "Date: %s\n", a.Date)
	fmt.Fprintf(w, "Time: %s\n", a.Time)
	fmt.Fprintf(w, "Status: %s\n", a.Status)
	if a.Notes != "" {
		fmt.Fprintf(w, "Notes: %s\n", a.Notes)
	}
}

// printPageFooter reports the visible window and the offsets of the
// neighbouring pages when a listing is truncated.
func printPageFooter[T any](w io.Writer, page pagination.Page[T]) {
	p := page.Params()
	if !p.HasPrevious() && !page.HasMore {
		return
	}
	if len(page.Items) == 0 {
		fmt.Fprintf(w, "No records at offset %d (total %d).\n", page.Offset, page.Total)
	} else {
		fmt.Fprintf(w, "Showing %d-%d of %d.\n", page.Offset+1, page.Offset+len(page.Items), page.Total)
	}
	if p.HasPrevious() {
		fmt.Fprintf(w, "Previous page: --offset %d\n", p.PreviousOffset())
	}
	if p.HasNext(page.Total) {
		fmt.Fprintf(w, "Next page: --offset %d\n", p.NextOffset())
	}
}
