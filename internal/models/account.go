// Package models defines the account record kept by the account store
// and the validation rules applied to it.
package models

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// AccountType defines whether an account authenticates against a
// directory or with a locally stored password.
type AccountType string

const (
	// LDAP accounts authenticate against a directory and carry no password.
	LDAP AccountType = "LDAP"
	// Local accounts require a password.
	Local AccountType = "Local"
)

// Length limits count Unicode code points (runes), not bytes or UTF-16 units.
const (
	// MaxLoginLength is the maximum number of characters in a login.
	MaxLoginLength = 100
	// MaxPasswordLength is the maximum number of characters in a password.
	MaxPasswordLength = 100
)

// Validation messages stored in AccountErrors.
const (
	ErrMsgLoginRequired    = "login required"
	ErrMsgLoginTooLong     = "login too long"
	ErrMsgPasswordRequired = "password required"
	ErrMsgPasswordTooLong  = "password too long"
)

// ErrUnknownAccountType is returned for any type other than LDAP or Local.
var ErrUnknownAccountType = errors.New("unknown account type")

// Valid reports whether t is LDAP or Local.
func (t AccountType) Valid() bool {
	return t == LDAP || t == Local
}

// ParseAccountType converts user input into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", ErrUnknownAccountType
	}
	return t, nil
}

// AccountLabel is a free-form tag attached to an account.
type AccountLabel struct {
	// Text is the label as entered by the user.
	Text string `json:"text"`
}

// AccountErrors holds the messages produced by the last validation pass.
// An empty field means the corresponding input is valid.
type AccountErrors struct {
	Login    string `json:"login,omitempty"`
	Password string `json:"password,omitempty"`
}

// Empty reports whether no validation message is set.
func (e AccountErrors) Empty() bool {
	return e.Login == "" && e.Password == ""
}

// Account is a single credential record.
type Account struct {
	// ID is the unique identifier of the record. It never changes.
	ID string `json:"id"`
	// Labels are displayed in the order they were entered.
	Labels []AccountLabel `json:"labels"`
	// Type governs whether Password is required.
	Type AccountType `json:"type"`
	// Login is required and at most MaxLoginLength characters.
	Login string `json:"login"`
	// Password is nil for LDAP accounts.
	Password *string `json:"password"`
	// IsValid caches the result of the last Validate call.
	IsValid bool `json:"isValid"`
	// Errors caches the messages of the last Validate call.
	Errors AccountErrors `json:"errors"`
}

// Validate recomputes Errors and IsValid from Login, Password and Type
// and returns the new IsValid value.
func (a *Account) Validate() bool {
	a.Errors = AccountErrors{}

	switch {
	case strings.TrimSpace(a.Login) == "":
		a.Errors.Login = ErrMsgLoginRequired
	case utf8.RuneCountInString(a.Login) > MaxLoginLength:
		a.Errors.Login = ErrMsgLoginTooLong
	}

	if a.Type == Local {
		switch {
		case a.Password == nil || *a.Password == "":
			a.Errors.Password = ErrMsgPasswordRequired
		case utf8.RuneCountInString(*a.Password) > MaxPasswordLength:
			a.Errors.Password = ErrMsgPasswordTooLong
		}
	}

	a.IsValid = a.Errors.Empty()
	return a.IsValid
}

// Clone returns a deep copy of the account.
func (a Account) Clone() Account {
	out := a
	out.Labels = make([]AccountLabel, len(a.Labels))
	copy(out.Labels, a.Labels)
	if a.Password != nil {
		p := *a.Password
		out.Password = &p
	}
	return out
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
