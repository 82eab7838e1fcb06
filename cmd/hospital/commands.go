package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ehr/hospital/internal/domain/hospital"
	"github.com/ehr/hospital/internal/platform/calendar"
	"github.com/ehr/hospital/internal/platform/persistence"
	"github.com/ehr/hospital/pkg/pagination"
)

// addPageFlags registers --limit and --offset on a list command.
func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("limit", pagination.DefaultLimit, "Maximum number of records to show")
	cmd.Flags().Int("offset", 0, "Number of records to skip")
}

func pageParams(cmd *cobra.Command) pagination.Params {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	return pagination.New(limit, offset)
}

// setChanged copies the value of each flag the user passed into its target.
// Flags left unset keep the target's current value.
func setChanged(cmd *cobra.Command, targets map[string]*string) {
	for name, dst := range targets {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
}

// -- patient --

func patientCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Manage patients",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new patient",
		Args:  cobra.NoArgs,
		RunE: a.storeRunE(true, func(cmd *cobra.Command, _ []string, s *session) error {
			f := hospital.PatientFields{}
			f.Name, _ = cmd.Flags().GetString("name")
			f.Gender, _ = cmd.Flags().GetString("gender")
			f.PhoneNumber, _ = cmd.Flags().GetString("phone")
			f.DateOfBirth, _ = cmd.Flags().GetString("dob")
			f.BloodType, _ = cmd.Flags().GetString("blood-type")
			f.InsuranceInfo, _ = cmd.Flags().GetString("insurance")
			if !calendar.IsValidDate(f.DateOfBirth) {
				return fmt.Errorf("%w: date of birth %q, expected YYYY-MM-DD", hospital.ErrInvalidFormat, f.DateOfBirth)
			}
			p := s.store.AddPatient(f)
			fmt.Fprintf(cmd.OutOrStdout(), "Patient added successfully with ID: %s\n", p.ID)
			return nil
		}),
	}
	addCmd.Flags().String("name", "", "Patient name")
	addCmd.Flags().String("gender", "", "Gender (M/F/Other)")
	addCmd.Flags().String("phone", "", "Phone number")
	addCmd.Flags().String("dob", "", "Date of birth (YYYY-MM-DD)")
	addCmd.Flags().String("blood-type", "", "Blood type")
	addCmd.Flags().String("insurance", "", "Insurance information")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("dob")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <patient-id>",
		Short: "Show a patient with their appointments",
		Args:  cobra.ExactArgs(1),
		RunE: a.storeRunE(false, func(cmd *cobra.Command, args []string, s *session) error {
			p, ok := s.store.GetPatient(args[0])
			if !ok {
				return fmt.Errorf("%w: patient %s", hospital.ErrNotFound, args[0])
			}
			w := cmd.OutOrStdout()
			printPatient(w, p)
			if appts := s.store.AppointmentsByPatient(p.ID); len(appts) > 0 {
				fmt.Fprintln(w, "\nAppointments:")
				for _, ap := range appts {
					fmt.Fprintf(w, "ID: %s - Date: %s - Time: %s - Status: %s\n", ap.ID, ap.Date, ap.Time, ap.Status)
				}
			}
			return nil
		}),
	})

	updateCmd := &cobra.Command{
		Use:   "update <patient-id>",
		Short: "Change a patient's details",
		Args:  cobra.ExactArgs(1),
		RunE: a.storeRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			p, ok := s.store.GetPatient(args[0])
			if !ok {
				return fmt.Errorf("%w: patient %s", hospital.ErrNotFound, args[0])
			}
			f := hospital.PatientFields{
				Name: p.Name, Gender: p.Gender, PhoneNumber: p.PhoneNumber,
				DateOfBirth: p.DateOfBirth, BloodType: p.BloodType, InsuranceInfo: p.InsuranceInfo,
			}
			setChanged(cmd, map[string]*string{
				"name": &f.Name, "gender": &f.Gender, "phone": &f.PhoneNumber,
				"dob": &f.DateOfBirth, "blood-type": &f.BloodType, "insurance": &f.InsuranceInfo,
			})
			if cmd.Flags().Changed("dob") && !calendar.IsValidDate(f.DateOfBirth) {
				return fmt.Errorf("%w: date of birth %q, expected YYYY-MM-DD", hospital.ErrInvalidFormat, f.DateOfBirth)
			}
			if err := s.store.UpdatePatient(p.ID, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Patient %s updated.\n", p.ID)
			return nil
		}),
	}
	updateCmd.Flags().String("name", "", "Patient name")
	updateCmd.Flags().String("gender", "", "Gender (M/F/Other)")
	updateCmd.Flags().String("phone", "", "Phone number")
	updateCmd.Flags().String("dob", "", "Date of birth (YYYY-MM-DD)")
	updateCmd.Flags().String("blood-type", "", "Blood type")
	updateCmd.Flags().String("insurance", "", "Insurance information")
	cmd.AddCommand(updateCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered patients",
		Args:  cobra.NoArgs,
		RunE: a.storeRunE(false, func(cmd *cobra.Command, _ []string, s *session) error {
			page := pagination.Apply(s.store.ListPatients(), pageParams(cmd))
			w := cmd.OutOrStdout()
			if page.Total == 0 {
				fmt.Fprintln(w, "No patients registered in the system.")
				return nil
			}
			for _, p := range page.Items {
				fmt.Fprintf(w, "ID: %s - Name: %s\n", p.ID, p.Name)
			}
			printPageFooter(w, page)
			return nil
		}),
	}
	addPageFlags(listCmd)
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <patient-id>",
		Short: "Remove a patient (appointments are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: a.storeRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			if !s.store.RemovePatient(args[0]) {
				return fmt.Errorf("%w: patient %s", hospital.ErrNotFound, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Patient %s removed.\n", args[0])
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "history <patient-id> <entry>...",
		Short: "Append a dated medical history entry",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.storeRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.store.AddMedicalHistoryEntry(args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Medical history entry added successfully.")
			return nil
		}),
	})

	return cmd
}

// -- doctor --

func doctorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Manage doctors",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new doctor in an existing department",
		Args:  cobra.NoArgs,
		RunE: a.storeRunE(true, func(cmd *cobra.Command, _ []string, s *session) error {
			f := hospital.DoctorFields{}
			f.Name, _ = cmd.Flags().GetString("name")
			f.Gender, _ = cmd.Flags().GetString("gender")
			f.PhoneNumber, _ = cmd.Flags().GetString("phone")
			f.Specialization, _ = cmd.Flags().GetString("specialization")
			f.LicenseNumber, _ = cmd.Flags().GetString("license")
			f.DepartmentID, _ = cmd.Flags().GetString("department")
			d, err := s.store.AddDoctor(f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Doctor added successfully with ID: %s\n", d.ID)
			return nil
		}),
	}
	addCmd.Flags().String("name", "", "Doctor name")
	addCmd.Flags().String("gender", "", "Gender (M/F/Other)")
	addCmd.Flags().String("phone", "", "Phone number")
	addCmd.Flags().String("specialization", "", "Specialization")
	addCmd.Flags().String("license", "", "License number")
	addCmd.Flags().String("department", "", "Department ID")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("department")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <doctor-id>",
		Short: "Show a doctor with their appointments",
		Args:  cobra.ExactArgs(1),
		RunE: a.storeRunE(false, func(cmd *cobra.Command, args []string, s *session) error {
			d, ok := s.store.GetDoctor(args[0])
			if !ok {
				return fmt.Errorf("%w: doctor %s", hospital.ErrNotFound, args[0])
			}
			w := cmd.OutOrStdout()
			printDoctor(w, d)
			if appts := s.store.AppointmentsByDoctor(d.ID); len(appts) > 0 {
				fmt.Fprintln(w, "\nAppointments:")
				for _, ap := range appts {
					fmt.Fprintf(w, "ID: %s - Patient: %s - Date: %s - Time: %s - Status: %s\n",
						ap.ID, ap.PatientID, ap.Date, ap.Time, ap.Status)
				}
			}
			return nil
		}),
	})

	updateCmd := &cobra.Command{
		Use:   "update <doctor-id>",
		Short: "Change a doctor's details or department",
		Args:  cobra.ExactArgs(1),
		RunE: a.storeRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			d, ok := s.store.GetDoctor(args[0])
			if !ok {
				return fmt.Errorf("%w: doctor %s", hospital.ErrNotFound, args[0])
			}
			f := hospital.DoctorFields{
				Name: d.Name, Gender: d.Gender, PhoneNumber: d.PhoneNumber,
				Specialization: d.Specialization, LicenseNumber: d.LicenseNumber, DepartmentID: d.DepartmentID,
			}
			setChanged(cmd, map[string]*string{
				"name": &f.Name, "gender": &f.Gender, "phone": &f.PhoneNumber,
				"specialization": &f.Specialization, "license": &f.LicenseNumber, "department": &f.DepartmentID,
			})
			if err := s.store.UpdateDoctor(d.ID, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Doctor %s updated.\n", d.ID)
			return nil
		}),
	}
	updateCmd.Flags().String("name", "", "Doctor name")
	updateCmd.Flags().String("gender", "", "Gender (M/F/Other)")
	updateCmd.Flags().String("phone", "", "Phone number")
	updateCmd.Flags().String("specialization", "", "Specialization")
	updateCmd.Flags().String("license", "", "License number")
	updateCmd.Flags().String("department", "", "Department ID")
	cmd.AddCommand(updateCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered doctors",
		Args:  cobra.NoArgs,
		RunE: a.storeRunE(false, func(cmd *cobra.Command, _ []string, s *session) error {
			page := pagination.Apply(s.store.ListDoctors(), pageParams(cmd))
			w := cmd.OutOrStdout()
			if page.Total == 0 {
				fmt.Fprintln(w, "No doctors registered in the system.")
				return nil
			}
			for _, d := range page.Items {
				fmt.Fprintf(w, "ID: %s - Name: %s - Specialization: %s\n", d.ID, d.Name, d.Specialization)
			}
			printPageFooter(w, page)
			return nil
		}),
	}
	addPageFlags(listCmd)
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <doctor-id>",
		Short: "Remove a doctor (appointments are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: a.storeRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			if !s.store.RemoveDoctor(args[0]) {
				return fmt.Errorf("%w: doctor %s", hospital.ErrNotFound, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Doctor %s removed.\n", args[0])
			return nil
		}),
	})

	cmd.AddCommand(availabilityCmd(a))
	return cmd
}

func availabilityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Manage the days a doctor accepts appointments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <doctor-id> <date>",
		Short: "Add an available day (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: a.storeRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.store.AddAvailableDay(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Available day %s added for doctor %s.\n", args[1], args[0])
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <doctor-id> <date>",
		Short: "Remove an available day (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: a.storeRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.store.RemoveAvailableDay(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Available day %s removed for doctor %s.\n", args[1], args[0])
			return nil
		}),
	})

	return cmd
}

// -- department --

func departmentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "department",
		Short: "Manage departments",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a department",
		Args:  cobra.NoArgs,
		RunE: a.storeRunE(true, func(cmd *cobra.Command, _ []string, s *session) error {
			name, _ := cmd.Flags().GetString("name")
			location, _ := cmd.Flags().GetString("location")
			d := s.store.AddDepartment(name, location)
			fmt.Fprintf(cmd.OutOrStdout(), "Department added successfully with ID: %s\n", d.ID)
			return nil
		}),
	}
	addCmd.Flags().String("name", "", "Department name")
	addCmd.Flags().String("location", "", "Department location")
	_ = addCmd.MarkFlagRequired("name")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <department-id>",
		Short: "Show a department with its doctors",
		Args:  cobra.ExactArgs(1),
		RunE: a.storeRunE(false, func(cmd *cobra.Command, args []string, s *session) error {
			d, ok := s.store.GetDepartment(args[0])
			if !ok {
				return fmt.Errorf("%w: department %s", hospital.ErrNotFound, args[0])
			}
			w := cmd.OutOrStdout()
			printDepartment(w, d)
			doctors := s.store.DoctorsInDepartment(d.ID)
			if len(doctors) == 0 {
				fmt.Fprintln(w, "\nNo doctors assigned to this department.")
				return nil
			}
			fmt.Fprintln(w, "\nDoctors in this department:")
			for _, doc := range doctors {
				fmt.Fprintf(w, "ID: %s - Name: %s - Specialization: %s\n", doc.ID, doc.Name, doc.Specialization)
			}
			return nil
		}),
	})

	updateCmd := &cobra.Command{
		Use:   "update <department-id>",
		Short: "Rename or relocate a department",
		Args:  cobra.ExactArgs(1),
		RunE: a.storeRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			d, ok := s.store.GetDepartment(args[0])
			if !ok {
				return fmt.Errorf("%w: department %s", hospital.ErrNotFound, args[0])
			}
			setChanged(cmd, map[string]*string{"name": &d.Name, "location": &d.Location})
			if err := s.store.UpdateDepartment(d.ID, d.Name, d.Location); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Department %s updated.\n", d.ID)
			return nil
		}),
	}
	updateCmd.Flags().String("name", "", "Department name")
	updateCmd.Flags().String("location", "", "Department location")
	cmd.AddCommand(updateCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List departments",
		Args:  cobra.NoArgs,
		RunE: a.storeRunE(false, func(cmd *cobra.Command, _ []string, s *session) error {
			page := pagination.Apply(s.store.ListDepartments(), pageParams(cmd))
			w := cmd.OutOrStdout()
			if page.Total == 0 {
				fmt.Fprintln(w, "No departments registered in the system.")
				return nil
			}
			for _, d := range page.Items {
				fmt.Fprintf(w, "ID: %s - Name: %s - Location: %s\n", d.ID, d.Name, d.Location)
			}
			printPageFooter(w, page)
			return nil
		}),
	}
	addPageFlags(listCmd)
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <department-id>",
		Short: "Remove a department no doctor is assigned to",
		Args:  cobra.ExactArgs(1),
		RunE: a.storeRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			ok, err := s.store.RemoveDepartment(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: department %s", hospital.ErrNotFound, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Department %s removed.\n", args[0])
			return nil
		}),
	})

	return cmd
}

// -- appointment --

func appointmentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointment",
		Short: "Schedule and manage appointments",
	}

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Book a patient with a doctor on one of the doctor's available days",
		Args:  cobra.NoArgs,
		RunE: a.storeRunE(true, func(cmd *cobra.Command, _ []string, s *session) error {
			patientID, _ := cmd.Flags().GetString("patient")
			doctorID, _ := cmd.Flags().GetString("doctor")
			date, _ := cmd.Flags().GetString("date")
			at, _ := cmd.Flags().GetString("time")
			ap, err := s.store.ScheduleAppointment(patientID, doctorID, date, at)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appointment scheduled successfully with ID: %s\n", ap.ID)
			return nil
		}),
	}
	scheduleCmd.Flags().String("patient", "", "Patient ID")
	scheduleCmd.Flags().String("doctor", "", "Doctor ID")
	scheduleCmd.Flags().String("date", "", "Date (YYYY-MM-DD)")
	scheduleCmd.Flags().String("time", "", "Time (HH:MM)")
	for _, name := range []string{"patient", "doctor", "date", "time"} {
		_ = scheduleCmd.MarkFlagRequired(name)
	}
	cmd.AddCommand(scheduleCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <appointment-id>",
		Short: "Show an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: a.storeRunE(false, func(cmd *cobra.Command, args []string, s *session) error {
			ap, ok := s.store.GetAppointment(args[0])
			if !ok {
				return fmt.Errorf("%w: appointment %s", hospital.ErrNotFound, args[0])
			}
			printAppointment(cmd.OutOrStdout(), ap)
			return nil
		}),
	})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments, optionally for one patient, doctor or date",
		Args:  cobra.NoArgs,
		RunE: a.storeRunE(false, func(cmd *cobra.Command, _ []string, s *session) error {
			patientID, _ := cmd.Flags().GetString("patient")
			doctorID, _ := cmd.Flags().GetString("doctor")
			date, _ := cmd.Flags().GetString("date")

			var appts []hospital.Appointment
			switch {
			case patientID != "":
				appts = s.store.AppointmentsByPatient(patientID)
			case doctorID != "":
				appts = s.store.AppointmentsByDoctor(doctorID)
			case date != "":
				appts = s.store.AppointmentsByDate(date)
			default:
				appts = s.store.ListAppointments()
			}

			page := pagination.Apply(appts, pageParams(cmd))
			w := cmd.OutOrStdout()
			if page.Total == 0 {
				fmt.Fprintln(w, "No appointments found.")
				return nil
			}
			for _, ap := range page.Items {
				fmt.Fprintf(w, "ID: %s - Patient: %s - Doctor: %s - Date: %s - Time: %s - Status: %s\n",
					ap.ID, ap.PatientID, ap.DoctorID, ap.Date, ap.Time, ap.Status)
			}
			printPageFooter(w, page)
			return nil
		}),
	}
	listCmd.Flags().String("patient", "", "Only appointments of this patient")
	listCmd.Flags().String("doctor", "", "Only appointments with this doctor")
	listCmd.Flags().String("date", "", "Only appointments on this date (YYYY-MM-DD)")
	listCmd.MarkFlagsMutuallyExclusive("patient", "doctor", "date")
	addPageFlags(listCmd)
	cmd.AddCommand(listCmd)

	completeCmd := &cobra.Command{
		Use:   "complete <appointment-id>",
		Short: "Mark an appointment completed and record the visit in the patient history",
		Args:  cobra.ExactArgs(1),
		RunE: a.storeRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			notes, _ := cmd.Flags().GetString("notes")
			ok, err := s.store.CompleteAppointment(args[0], notes)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: appointment %s", hospital.ErrNotFound, args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Appointment marked as completed.")
			return nil
		}),
	}
	completeCmd.Flags().String("notes", "", "Visit notes")
	cmd.AddCommand(completeCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <appointment-id>",
		Short: "Cancel an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: a.storeRunE(true, func(cmd *cobra.Command, args []string, s *session) error {
			ok, err := s.store.CancelAppointment(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: appointment %s", hospital.ErrNotFound, args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Appointment cancelled.")
			return nil
		}),
	})

	return cmd
}

// -- summary and transfer --

func summaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show hospital details and record counts",
		Args:  cobra.NoArgs,
		RunE: a.storeRunE(false, func(cmd *cobra.Command, _ []string, s *session) error {
			sum := s.store.Summary()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n%s\n\n", s.cfg.HospitalName, s.cfg.HospitalAddress)
			fmt.Fprintf(w, "Patients: %d\n", sum.Patients)
			fmt.Fprintf(w, "Doctors: %d\n", sum.Doctors)
			fmt.Fprintf(w, "Departments: %d\n", sum.Departments)
			fmt.Fprintf(w, "Appointments: %d\n", sum.Appointments)
			return nil
		}),
	}
}

func transferCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Copy every record into another backend",
		Args:  cobra.NoArgs,
		RunE: a.storeRunE(false, func(cmd *cobra.Command, _ []string, s *session) error {
			opts := s.cfg.Backend()
			opts.Kind, _ = cmd.Flags().GetString("to")
			if dir, _ := cmd.Flags().GetString("to-dir"); dir != "" {
				opts.DataDir = dir
			}
			if path, _ := cmd.Flags().GetString("to-sqlite"); path != "" {
				opts.SQLitePath = path
			}
			if !persistence.Known(opts.Kind) {
				return fmt.Errorf("%w: unknown target backend %q", hospital.ErrInvalidFormat, opts.Kind)
			}
			if opts == s.cfg.Backend() {
				return errors.New("target backend is the source backend")
			}

			ctx := cmd.Context()
			target, err := persistence.Open(ctx, opts)
			if err != nil {
				return fmt.Errorf("open %s backend: %w", opts.Kind, err)
			}
			defer func() {
				if err := target.Close(); err != nil {
					s.log.Error().Err(err).Str("backend", opts.Kind).Msg("failed to close target backend")
				}
			}()

			if err := s.store.ExportTo(ctx, target); err != nil {
				return fmt.Errorf("transfer records: %w", err)
			}
			sum := s.store.Summary()
			s.log.Info().Str("from", s.cfg.StoreBackend).Str("to", opts.Kind).Msg("records transferred")
			fmt.Fprintf(cmd.OutOrStdout(), "Transferred %d patients, %d doctors, %d departments, %d appointments to %s.\n",
				sum.Patients, sum.Doctors, sum.Departments, sum.Appointments, opts.Kind)
			return nil
		}),
	}
	cmd.Flags().String("to", "", "Target backend: file, sqlite, postgres")
	cmd.Flags().String("to-dir", "", "Data directory of a file target (defaults to DATA_DIR)")
	cmd.Flags().String("to-sqlite", "", "Database path of a sqlite target (defaults to SQLITE_PATH)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
