package syslogline

import (
	"errors"
	"testing"
	"time"
)

func mustFormat(t *testing.T, format string) *Format {
	t.Helper()
	f, err := NewFormat(format)
	if err != nil {
		t.Fatalf("NewFormat(%q): %v", format, err)
	}
	return f
}

func TestParseISOFormatWithPID(t *testing.T) {
	f := mustFormat(t, "${ISODATE} ${ORIGIN} ${FACILITY}: ${MESSAGE}")
	line := "2024-01-02T03:04:05 myhost kern: sshd[1234]: Accepted password for root"

	got, err := f.Parse(line)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Line{
		Timestamp:   time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC),
		HasTime:     true,
		Origin:      "myhost",
		Facility:    Kern,
		HasFacility: true,
		Process:     "sshd",
		PID:         1234,
		HasPID:      true,
		Message:     "Accepted password for root",
	}
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Fatalf("Timestamp = %v, want %v", got.Timestamp, want.Timestamp)
	}
	got.Timestamp = want.Timestamp
	if got != want {
		t.Fatalf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParseTraditionalDateSingleDigitDay(t *testing.T) {
	f := mustFormat(t, "${DATE} ${ORIGIN} ${SEVERITY_NUM}: ${MESSAGE}")
	line := "Jan  2 03:04:05 myhost 3: disk: full"

	got, err := f.Parse(line)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	wantYear := time.Now().Year()
	want := time.Date(wantYear, time.January, 2, 3, 4, 5, 0, time.UTC)
	if !got.Timestamp.Equal(want) {
		t.Fatalf("Timestamp = %v, want %v", got.Timestamp, want)
	}
	if got.Origin != "myhost" {
		t.Fatalf("Origin = %q, want myhost", got.Origin)
	}
	if !got.HasSeverity || got.Severity != Err {
		t.Fatalf("Severity = %v (has=%v), want Err", got.Severity, got.HasSeverity)
	}
	if got.Process != "disk" || got.Message != "full" {
		t.Fatalf("Process/Message = %q/%q, want disk/full", got.Process, got.Message)
	}
}

func TestParseNoPID(t *testing.T) {
	f := mustFormat(t, "${ORIGIN}: ${MESSAGE}")
	got, err := f.Parse("myhost: kernel: all clear")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Process != "kernel" || got.HasPID {
		t.Fatalf("Process/HasPID = %q/%v, want kernel/false", got.Process, got.HasPID)
	}
	if got.Message != "all clear" {
		t.Fatalf("Message = %q, want %q", got.Message, "all clear")
	}
}

func TestNewFormatRejectsUnknownMacro(t *testing.T) {
	_, err := NewFormat("${BOGUS} ${MESSAGE}")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestNewFormatRejectsMessageNotLast(t *testing.T) {
	_, err := NewFormat("${MESSAGE} ${ORIGIN}")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestNewFormatRejectsUnterminatedMacro(t *testing.T) {
	_, err := NewFormat("${ORIGIN ${MESSAGE}")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestParseRejectsLiteralMismatch(t *testing.T) {
	f := mustFormat(t, "${ORIGIN}: ${MESSAGE}")
	_, err := f.Parse("myhost - proc: hi")
	if !errors.Is(err, ErrStreamMismatch) {
		t.Fatalf("err = %v, want ErrStreamMismatch", err)
	}
}

func TestParseRejectsUnknownFacility(t *testing.T) {
	f := mustFormat(t, "${FACILITY}: ${MESSAGE}")
	_, err := f.Parse("bogus: proc: hi")
	if !errors.Is(err, ErrStreamMismatch) {
		t.Fatalf("err = %v, want ErrStreamMismatch", err)
	}
}

func TestDissectMessageMalformedPID(t *testing.T) {
	f := mustFormat(t, "${MESSAGE}")
	_, err := f.Parse("proc[abc]: hi")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestDissectMessageNoColon(t *testing.T) {
	f := mustFormat(t, "${MESSAGE}")
	_, err := f.Parse("no colon here")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestIgnoreTokenConsumesWhitespace(t *testing.T) {
	f := mustFormat(t, "${ORIGIN} ${IGNORE}${MESSAGE}")
	got, err := f.Parse("myhost    proc: hi there")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Origin != "myhost" || got.Process != "proc" || got.Message != "hi there" {
		t.Fatalf("got %+v", got)
	}
}

func TestFacilityAndSeverityString(t *testing.T) {
	if Kern.String() != "kern" || Local7.String() != "local7" {
		t.Fatalf("Facility.String() mismatch")
	}
	if Emerg.String() != "emerg" || Debug.String() != "debug" {
		t.Fatalf("Severity.String() mismatch")
	}
}

func TestFacilityNumAndSeverityNum(t *testing.T) {
	f := mustFormat(t, "${FACILITY_NUM} ${SEVERITY_NUM}: ${MESSAGE}")
	got, err := f.Parse("4 2: proc: hi")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Facility != Auth {
		t.Fatalf("Facility = %v, want Auth", got.Facility)
	}
	if got.Severity != Crit {
		t.Fatalf("Severity = %v, want Crit", got.Severity)
	}
}
