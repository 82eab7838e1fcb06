package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ehr/hospital/internal/domain/hospital"
)

// runCLI executes one command against the file backend in dir and returns
// what it printed on stdout.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--data-dir", dir, "--backend", "file"}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, dir, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

// createdID pulls the identifier out of an "... with ID: X" confirmation.
func createdID(t *testing.T, out string) string {
	t.Helper()
	_, id, ok := strings.Cut(strings.TrimSpace(out), "with ID: ")
	if !ok || id == "" {
		t.Fatalf("no id in output %q", out)
	}
	return id
}

func setQuietEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LEGACY_TRANSITIONS", "false")
	t.Setenv("ID_SCHEME", "clock")
}

func TestCLI_EndToEnd(t *testing.T) {
	setQuietEnv(t)
	dir := t.TempDir()
	metricsFile := filepath.Join(dir, "hospital.prom")
	t.Setenv("METRICS_FILE", metricsFile)

	deptID := createdID(t, mustRun(t, dir, "department", "add", "--name", "Cardiology", "--location", "Bldg A"))
	if !strings.HasPrefix(deptID, "DP") {
		t.Fatalf("department id = %q", deptID)
	}

	if _, err := runCLI(t, dir, "doctor", "add", "--name", "Nobody", "--department", "DP404"); !errors.Is(err, hospital.ErrReferential) {
		t.Errorf("doctor in missing department: expected ErrReferential, got %v", err)
	}
	docID := createdID(t, mustRun(t, dir, "doctor", "add", "--name", "Grey", "--gender", "F",
		"--specialization", "Cardiology", "--license", "LIC-1", "--department", deptID))

	if _, err := runCLI(t, dir, "patient", "add", "--name", "Ann", "--dob", "1990-02-30"); !errors.Is(err, hospital.ErrInvalidFormat) {
		t.Errorf("invalid date of birth: expected ErrInvalidFormat, got %v", err)
	}
	patID := createdID(t, mustRun(t, dir, "patient", "add", "--name", "Ann Lee", "--gender", "F",
		"--phone", "555-0100", "--dob", "1990-05-01", "--blood-type", "O+", "--insurance", "Acme, Gold"))

	schedule := []string{"appointment", "schedule", "--patient", patID, "--doctor", docID, "--date", "2024-07-01", "--time", "10:00"}
	if _, err := runCLI(t, dir, schedule...); !errors.Is(err, hospital.ErrUnavailable) {
		t.Errorf("schedule on unavailable day: expected ErrUnavailable, got %v", err)
	}
	mustRun(t, dir, "doctor", "availability", "add", docID, "2024-07-01")
	apptID := createdID(t, mustRun(t, dir, schedule...))

	if out := mustRun(t, dir, "appointment", "get", apptID); !strings.Contains(out, "Status: Scheduled") {
		t.Errorf("appointment get = %q", out)
	}

	mustRun(t, dir, "appointment", "complete", apptID, "--notes", "Checkup OK")
	out := mustRun(t, dir, "patient", "get", patID)
	if !strings.Contains(out, "Appointment with Dr. Grey (Cardiology) on 2024-07-01 at 10:00: Checkup OK") {
		t.Errorf("history entry missing from %q", out)
	}
	if !strings.Contains(out, "Insurance: Acme, Gold") {
		t.Errorf("insurance with a comma did not survive a reload: %q", out)
	}

	if _, err := runCLI(t, dir, "appointment", "cancel", apptID); !errors.Is(err, hospital.ErrTerminalStatus) {
		t.Errorf("cancel completed: expected ErrTerminalStatus, got %v", err)
	}
	if _, err := runCLI(t, dir, "department", "remove", deptID); !errors.Is(err, hospital.ErrReferential) {
		t.Errorf("remove referenced department: expected ErrReferential, got %v", err)
	}

	if out := mustRun(t, dir, "appointment", "list", "--date", "2024-07-01"); !strings.Contains(out, apptID) {
		t.Errorf("appointment list --date = %q", out)
	}
	if out := mustRun(t, dir, "appointment", "list", "--doctor", "D404"); !strings.Contains(out, "No appointments found.") {
		t.Errorf("appointment list --doctor = %q", out)
	}

	out = mustRun(t, dir, "summary")
	for _, want := range []string{"Patients: 1", "Doctors: 1", "Departments: 1", "Appointments: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q: %q", want, out)
		}
	}

	for _, name := range []string{"patients.csv", "doctors.csv", "departments.csv", "appointments.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	prom, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("read metrics textfile: %v", err)
	}
	if !strings.Contains(string(prom), "hospital_store_records") {
		t.Errorf("metrics textfile = %q", prom)
	}
}

func TestCLI_NotFound(t *testing.T) {
	setQuietEnv(t)
	dir := t.TempDir()

	for _, args := range [][]string{
		{"patient", "get", "P404"},
		{"patient", "remove", "P404"},
		{"patient", "history", "P404", "note"},
		{"doctor", "get", "D404"},
		{"doctor", "availability", "add", "D404", "2024-07-01"},
		{"department", "get", "DP404"},
		{"department", "remove", "DP404"},
		{"appointment", "get", "A404"},
		{"appointment", "complete", "A404"},
		{"appointment", "cancel", "A404"},
	} {
		if _, err := runCLI(t, dir, args...); !errors.Is(err, hospital.ErrNotFound) {
			t.Errorf("%v: expected ErrNotFound, got %v", args, err)
		}
	}
}

func TestCLI_ListPaging(t *testing.T) {
	setQuietEnv(t)
	dir := t.TempDir()

	if out := mustRun(t, dir, "department", "list"); !strings.Contains(out, "No departments registered") {
		t.Errorf("empty list = %q", out)
	}
	for _, name := range []string{"Cardiology", "Oncology", "Radiology"} {
		mustRun(t, dir, "department", "add", "--name", name)
	}

	out := mustRun(t, dir, "department", "list", "--limit", "2")
	if got := strings.Count(out, "ID: DP"); got != 2 {
		t.Errorf("expected 2 rows, got %d in %q", got, out)
	}
	if !strings.Contains(out, "Showing 1-2 of 3.") {
		t.Errorf("missing footer in %q", out)
	}
	if !strings.Contains(out, "Next page: --offset 2") || strings.Contains(out, "Previous page") {
		t.Errorf("first page should only point forward: %q", out)
	}

	out = mustRun(t, dir, "department", "list", "--limit", "2", "--offset", "2")
	if got := strings.Count(out, "ID: DP"); got != 1 {
		t.Errorf("expected 1 row, got %d in %q", got, out)
	}
	if !strings.Contains(out, "Showing 3-3 of 3.") || !strings.Contains(out, "Previous page: --offset 0") {
		t.Errorf("last page footer missing in %q", out)
	}
	if strings.Contains(out, "Next page") {
		t.Errorf("last page should not point forward: %q", out)
	}
}

func TestCLI_PatientHistoryAndRemove(t *testing.T) {
	setQuietEnv(t)
	dir := t.TempDir()

	patID := createdID(t, mustRun(t, dir, "patient", "add", "--name", "Bob", "--dob", "1980-01-01"))
	mustRun(t, dir, "patient", "history", patID, "Allergic", "to", "penicillin")

	out := mustRun(t, dir, "patient", "get", patID)
	if !strings.Contains(out, ": Allergic to penicillin") {
		t.Errorf("history missing from %q", out)
	}

	mustRun(t, dir, "patient", "remove", patID)
	if out := mustRun(t, dir, "patient", "list"); !strings.Contains(out, "No patients registered") {
		t.Errorf("patient list after remove = %q", out)
	}
}

func TestCLI_UpdateChangesOnlyGivenFields(t *testing.T) {
	setQuietEnv(t)
	dir := t.TempDir()

	cardio := createdID(t, mustRun(t, dir, "department", "add", "--name", "Cardiology", "--location", "Bldg A"))
	neuro := createdID(t, mustRun(t, dir, "department", "add", "--name", "Neurology"))
	docID := createdID(t, mustRun(t, dir, "doctor", "add", "--name", "Grey", "--specialization", "Cardiology", "--department", cardio))
	patID := createdID(t, mustRun(t, dir, "patient", "add", "--name", "Bob", "--dob", "1980-01-01", "--blood-type", "A+"))

	mustRun(t, dir, "patient", "update", patID, "--phone", "555-0100")
	out := mustRun(t, dir, "patient", "get", patID)
	for _, want := range []string{"Name: Bob", "Phone: 555-0100", "Blood Type: A+", "Date of Birth: 1980-01-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("patient get missing %q in %q", want, out)
		}
	}
	if _, err := runCLI(t, dir, "patient", "update", patID, "--dob", "01/01/1980"); err == nil {
		t.Error("expected a malformed date of birth to be rejected")
	}

	mustRun(t, dir, "doctor", "update", docID, "--department", neuro)
	out = mustRun(t, dir, "doctor", "get", docID)
	if !strings.Contains(out, "Department ID: "+neuro) || !strings.Contains(out, "Specialization: Cardiology") {
		t.Errorf("doctor get after update = %q", out)
	}
	if _, err := runCLI(t, dir, "doctor", "update", docID, "--department", "DP404"); err == nil {
		t.Error("expected an unknown department to be rejected")
	}

	mustRun(t, dir, "department", "update", cardio, "--location", "Bldg C")
	out = mustRun(t, dir, "department", "get", cardio)
	if !strings.Contains(out, "Name: Cardiology") || !strings.Contains(out, "Location: Bldg C") {
		t.Errorf("department get after update = %q", out)
	}
	if !strings.Contains(out, "No doctors assigned") {
		t.Errorf("moved doctor still listed under %s: %q", cardio, out)
	}
}

func TestCLI_TransferToSQLite(t *testing.T) {
	setQuietEnv(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "hospital.db")
	t.Setenv("SQLITE_PATH", dbPath)

	mustRun(t, dir, "department", "add", "--name", "Cardiology", "--location", "Bldg A")
	mustRun(t, dir, "patient", "add", "--name", "Ann", "--dob", "1990-05-01")

	if _, err := runCLI(t, dir, "transfer", "--to", "file"); err == nil {
		t.Error("expected transfer onto the source backend to fail")
	}
	out := mustRun(t, dir, "transfer", "--to", "sqlite")
	if !strings.Contains(out, "Transferred 1 patients, 0 doctors, 1 departments, 0 appointments to sqlite.") {
		t.Errorf("transfer output = %q", out)
	}

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--backend", "sqlite", "summary"})
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("summary on sqlite: %v", err)
	}
	for _, want := range []string{"Patients: 1", "Departments: 1"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("sqlite summary missing %q: %q", want, stdout.String())
		}
	}
}

func TestCLI_InvalidBackend(t *testing.T) {
	setQuietEnv(t)
	if _, err := runCLI(t, t.TempDir(), "--backend", "tape", "summary"); err == nil {
		t.Error("expected unknown backend to be rejected")
	}
}
