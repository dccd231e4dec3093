package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		valid   bool
		errors  AccountErrors
	}{
		{
			name:    "local empty",
			account: Account{Type: Local, Login: "", Password: StringPtr("")},
			errors:  AccountErrors{Login: ErrMsgLoginRequired, Password: ErrMsgPasswordRequired},
		},
		{
			name:    "local nil password",
			account: Account{Type: Local, Login: "bob"},
			errors:  AccountErrors{Password: ErrMsgPasswordRequired},
		},
		{
			name:    "ldap without password",
			account: Account{Type: LDAP, Login: "bob"},
			valid:   true,
		},
		{
			name:    "whitespace login",
			account: Account{Type: LDAP, Login: "   "},
			errors:  AccountErrors{Login: ErrMsgLoginRequired},
		},
		{
			name:    "login at limit",
			account: Account{Type: LDAP, Login: strings.Repeat("a", MaxLoginLength)},
			valid:   true,
		},
		{
			name:    "login too long",
			account: Account{Type: LDAP, Login: strings.Repeat("a", MaxLoginLength+1)},
			errors:  AccountErrors{Login: ErrMsgLoginTooLong},
		},
		{
			name:    "multibyte login counted in characters",
			account: Account{Type: LDAP, Login: strings.Repeat("ж", MaxLoginLength)},
			valid:   true,
		},
		{
			name:    "password too long",
			account: Account{Type: Local, Login: "bob", Password: StringPtr(strings.Repeat("p", MaxPasswordLength+1))},
			errors:  AccountErrors{Password: ErrMsgPasswordTooLong},
		},
		{
			name:    "valid local",
			account: Account{Type: Local, Login: "bob", Password: StringPtr("secret")},
			valid:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.account
			got := a.Validate()
			assert.Equal(t, tt.valid, got)
			assert.Equal(t, tt.valid, a.IsValid)
			assert.Equal(t, tt.errors, a.Errors)
		})
	}
}

func TestValidate_ClearsPreviousErrors(t *testing.T) {
	a := Account{Type: LDAP, Login: "bob", Errors: AccountErrors{Password: "stale"}}
	require.True(t, a.Validate())
	assert.True(t, a.Errors.Empty())
}

func TestParseAccountType(t *testing.T) {
	typ, err := ParseAccountType(" LDAP ")
	require.NoError(t, err)
	assert.Equal(t, LDAP, typ)

	typ, err = ParseAccountType("Local")
	require.NoError(t, err)
	assert.Equal(t, Local, typ)

	_, err = ParseAccountType("ldap")
	assert.ErrorIs(t, err, ErrUnknownAccountType)
}

func TestAccountType_Valid(t *testing.T) {
	assert.True(t, LDAP.Valid())
	assert.True(t, Local.Valid())
	assert.False(t, AccountType("Remote").Valid())
	assert.False(t, AccountType("").Valid())
}

func TestValidate_LengthCountsRunes(t *testing.T) {
	// U+1F600 is one rune but two UTF-16 units and four bytes.
	a := Account{Type: LDAP, Login: strings.Repeat("\U0001F600", MaxLoginLength)}
	assert.True(t, a.Validate())

	a.Login += "x"
	assert.False(t, a.Validate())
	assert.Equal(t, ErrMsgLoginTooLong, a.Errors.Login)
}

func TestAccountJSON(t *testing.T) {
	a := Account{ID: "1", Labels: []AccountLabel{{Text: "x"}}, Type: LDAP, Login: "bob"}
	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":"1","labels":[{"text":"x"}],"type":"LDAP","login":"bob","password":null,"isValid":false,"errors":{}}`,
		string(b))
}

func TestClone(t *testing.T) {
	a := Account{ID: "1", Labels: []AccountLabel{{Text: "x"}}, Password: StringPtr("p")}
	c := a.Clone()
	c.Labels[0].Text = "y"
	*c.Password = "q"
	assert.Equal(t, "x", a.Labels[0].Text)
	assert.Equal(t, "p", *a.Password)
}
