package validation

import (
	"errors"
	"testing"
)

type role string

const (
	employee role = "employee"
	admin    role = "admin"
)

func TestFormatValidValues(t *testing.T) {
	got := FormatValidValues([]role{employee, admin})
	want := "employee, admin"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatInvalidValueError(t *testing.T) {
	base := errors.New("invalid role")
	err := FormatInvalidValueError(base, role("boss"), []role{employee, admin})
	if !errors.Is(err, base) {
		t.Fatalf("expected error to wrap %v", base)
	}

	want := "invalid role: \"boss\" (valid: employee, admin)"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
