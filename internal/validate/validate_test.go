package validate

import (
	"strings"
	"testing"
)

func validInput() Input {
	return Input{
		Name:    "Ada Lovelace",
		Email:   "ada@x.com",
		Phone:   "+1 202-555-0101",
		Message: "Need a quote",
	}
}

func TestSubmissionValid(t *testing.T) {
	got, errs := Submission(validInput())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got.Name != "Ada Lovelace" || got.Email != "ada@x.com" {
		t.Fatalf("fields not preserved: %+v", got)
	}
}

func TestSubmissionTrims(t *testing.T) {
	in := validInput()
	in.Name = "  Ada  "
	in.Email = " ada@x.com "
	in.Phone = " 1234567 "
	in.Message = " hi "
	got, errs := Submission(in)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got.Name != "Ada" || got.Email != "ada@x.com" || got.Phone != "1234567" || got.Message != "hi" {
		t.Fatalf("expected trimmed fields, got %+v", got)
	}
}

func TestSubmissionSingleFieldViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		field  string
	}{
		{"empty name", func(in *Input) { in.Name = "" }, "name"},
		{"whitespace name", func(in *Input) { in.Name = "   " }, "name"},
		{"long name", func(in *Input) { in.Name = strings.Repeat("a", 101) }, "name"},
		{"empty email", func(in *Input) { in.Email = "" }, "email"},
		{"not an email", func(in *Input) { in.Email = "not-an-email" }, "email"},
		{"long email", func(in *Input) { in.Email = strings.Repeat("a", 250) + "@b.com" }, "email"},
		{"empty phone", func(in *Input) { in.Phone = "" }, "phone"},
		{"short phone", func(in *Input) { in.Phone = "12345" }, "phone"},
		{"long phone", func(in *Input) { in.Phone = strings.Repeat("1", 21) }, "phone"},
		{"letters in phone", func(in *Input) { in.Phone = "abc-123" }, "phone"},
		{"long message", func(in *Input) { in.Message = strings.Repeat("x", 2001) }, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, errs := Submission(in)
			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			if _, ok := errs[tt.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestSubmissionAllErrorsSurface(t *testing.T) {
	_, errs := Submission(Input{})
	// message is optional, so three required fields fail together
	for _, f := range []string{"name", "email", "phone"} {
		if _, ok := errs[f]; !ok {
			t.Errorf("expected %q in error set, got %v", f, errs)
		}
	}
	if _, ok := errs["message"]; ok {
		t.Error("message should not be flagged when empty")
	}
}

func TestSubmissionOptionalMessage(t *testing.T) {
	in := validInput()
	in.Message = ""
	got, errs := Submission(in)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got.Message != "" {
		t.Fatalf("expected empty message, got %q", got.Message)
	}
}

func TestPhoneBoundaries(t *testing.T) {
	in := validInput()
	in.Phone = "1234567" // exactly 7 chars
	if _, errs := Submission(in); len(errs) != 0 {
		t.Fatalf("7-char phone should pass: %v", errs)
	}
	in.Phone = "+1 (202) 555-0101 99" // exactly 20 chars
	if _, errs := Submission(in); len(errs) != 0 {
		t.Fatalf("20-char phone should pass: %v", errs)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  X@Y.CoM "); got != "x@y.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}
