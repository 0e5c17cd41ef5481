package models

import "fmt"

// GuestUserID is recorded on addresses saved before sign-in.
const GuestUserID = "guest"

type Address struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Pincode     string `json:"pincode"`
	Area        string `json:"area"`
	City        string `json:"city"`
	State       string `json:"state"`
}

// ValidationError reports bad user input. It is always recovered locally and
// never reaches a store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks that all shipping fields are filled in. Callers pre-validate
// in their own forms; this is the second line of defense.
func (a *Address) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"fullName", a.FullName},
		{"phoneNumber", a.PhoneNumber},
		{"pincode", a.Pincode},
		{"area", a.Area},
		{"city", a.City},
		{"state", a.State},
	}
	for _, f := range fields {
		if f.value == "" {
			return &ValidationError{Field: f.name, Reason: "must not be empty"}
		}
	}
	return nil
}

// Clone returns an independent copy, used wherever an order must snapshot the
// address rather than reference it.
func (a *Address) Clone() Address {
	copied := *a
	return copied
}
