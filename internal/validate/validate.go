// Package validate contains the pure field validators for contact-form input.
//
// The same rules run in the HTTP handler and again inside the dispatch
// pipeline; the server-side pass is the authority. Validators never panic on
// malformed input, they only report it.
package validate

import (
	"regexp"
	"strings"
)

// Field limits for a contact submission.
const (
	MaxNameLen    = 100
	MaxEmailLen   = 255
	MinPhoneLen   = 7
	MaxPhoneLen   = 20
	MaxMessageLen = 2000
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[\d\s\-()+]+$`)
)

// Input holds the four raw form fields before validation.
type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Normalized holds the trimmed fields after a successful validation pass.
type Normalized struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Submission checks all four fields independently so every failing field
// surfaces at once. It returns the trimmed record and a field-keyed error
// map; the map is empty when the input is valid. Within one field the first
// failing rule wins.
func Submission(in Input) (Normalized, map[string]string) {
	errs := make(map[string]string)

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs["name"] = "Name is required."
	} else if len(name) > MaxNameLen {
		errs["name"] = "Invalid name. Must be 1-100 characters."
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		errs["email"] = "Email is required."
	} else if !emailRe.MatchString(email) || len(email) > MaxEmailLen {
		errs["email"] = "Invalid email address."
	}

	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		errs["phone"] = "Phone is required."
	} else if !phoneRe.MatchString(phone) || len(phone) < MinPhoneLen || len(phone) > MaxPhoneLen {
		errs["phone"] = "Invalid phone number."
	}

	message := strings.TrimSpace(in.Message)
	if len(message) > MaxMessageLen {
		errs["message"] = "Message must be less than 2000 characters."
	}

	if len(errs) > 0 {
		return Normalized{}, errs
	}
	return Normalized{Name: name, Email: email, Phone: phone, Message: message}, nil
}

// NormalizeEmail lower-cases and trims an address. Used only for the
// rate-limit comparison; stored values keep their original case.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
