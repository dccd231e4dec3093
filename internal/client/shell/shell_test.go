package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/atinyakov/accountstore/internal/models"
	"github.com/atinyakov/accountstore/internal/repository"
	"github.com/atinyakov/accountstore/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T, input string) (*Shell, *service.AccountStore, *bytes.Buffer) {
	t.Helper()
	store := service.NewAccountStore(context.Background(), repository.NewMemorySlotRepository(), "accounts", nil)
	var out bytes.Buffer
	return New(store, strings.NewReader(input), &out), store, &out
}

func TestRun_AddAndEdit(t *testing.T) {
	sh, store, out := newTestShell(t, "add\n")
	require.NoError(t, sh.Run(context.Background()))
	require.Len(t, store.Accounts(), 1)
	id := store.Accounts()[0].ID
	assert.Contains(t, out.String(), "Account added: "+id)

	script := strings.Join([]string{
		"labels " + id + " ops; prod ;",
		"login " + id + " alice",
		"password " + id + " s3cret",
		"list",
		"exit",
		"list",
	}, "\n")
	out.Reset()
	sh.In = strings.NewReader(script)
	require.NoError(t, sh.Run(context.Background()))

	a := store.Accounts()[0]
	assert.Equal(t, "alice", a.Login)
	require.NotNil(t, a.Password)
	assert.Equal(t, "s3cret", *a.Password)
	assert.True(t, a.IsValid)

	text := out.String()
	assert.Contains(t, text, "Labels: ops; prod")
	assert.Contains(t, text, "Password: ******")
	assert.Contains(t, text, "Valid: true")
	assert.Contains(t, text, "Bye")
	assert.Equal(t, 1, strings.Count(text, "ID: "), "commands after exit must not run")
}

func TestRun_TypeSwitch(t *testing.T) {
	sh, store, out := newTestShell(t, "")
	a, err := store.AddAccount(context.Background())
	require.NoError(t, err)

	sh.In = strings.NewReader("type " + a.ID + " LDAP\nlogin " + a.ID + " bob\nlist\n")
	require.NoError(t, sh.Run(context.Background()))

	got := store.Accounts()[0]
	assert.Equal(t, models.LDAP, got.Type)
	assert.Nil(t, got.Password)
	assert.True(t, got.IsValid)
	assert.Contains(t, out.String(), "Password: -")
}

func TestRun_ValidationErrorsListed(t *testing.T) {
	sh, store, out := newTestShell(t, "")
	a, _ := store.AddAccount(context.Background())

	sh.In = strings.NewReader("login " + a.ID + "\nlist\n")
	require.NoError(t, sh.Run(context.Background()))

	assert.Contains(t, out.String(), "Login error: "+models.ErrMsgLoginRequired)
	assert.Contains(t, out.String(), "Password error: "+models.ErrMsgPasswordRequired)
}

func TestRun_RemoveAndUsage(t *testing.T) {
	sh, store, out := newTestShell(t, "")
	a, _ := store.AddAccount(context.Background())

	sh.In = strings.NewReader(strings.Join([]string{
		"remove",
		"labels",
		"type " + a.ID + " remote",
		"login",
		"password",
		"frobnicate",
		"help",
		"remove " + a.ID,
		"list",
	}, "\n"))
	require.NoError(t, sh.Run(context.Background()))

	text := out.String()
	for _, want := range []string{
		"Usage: remove <id>",
		"Usage: labels <id> <a; b; c>",
		"Usage: type <id> <LDAP|Local>",
		"Usage: login <id> <value>",
		"Usage: password <id> <value>",
		"Unknown command",
		"Available commands:",
		"No accounts",
	} {
		assert.Contains(t, text, want)
	}
	assert.Empty(t, store.Accounts())
}

func TestRun_CanceledContext(t *testing.T) {
	sh, _, _ := newTestShell(t, "add\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sh.Run(ctx), context.Canceled)
}

type failingStore struct {
	AccountStore
}

func (failingStore) AddAccount(context.Context) (models.Account, error) {
	return models.Account{}, errors.New("save accounts: disk full")
}

func TestRun_ReportsStoreErrors(t *testing.T) {
	var out bytes.Buffer
	sh := New(failingStore{}, strings.NewReader("add\n"), &out)
	require.NoError(t, sh.Run(context.Background()))
	assert.Contains(t, out.String(), "Error: save accounts: disk full")
}

func TestRun_ValuesKeptAsTyped(t *testing.T) {
	sh, store, out := newTestShell(t, "")
	a, _ := store.AddAccount(context.Background())

	sh.In = strings.NewReader(strings.Join([]string{
		"password " + a.ID + "  pw  ",
		"login " + a.ID + "    ",
		"list",
	}, "\n"))
	require.NoError(t, sh.Run(context.Background()))

	got := store.Accounts()[0]
	require.NotNil(t, got.Password)
	assert.Equal(t, " pw  ", *got.Password)
	assert.Equal(t, "   ", got.Login)
	assert.False(t, got.IsValid)
	assert.Equal(t, models.ErrMsgLoginRequired, got.Errors.Login)
	assert.Contains(t, out.String(), "Password: *****")
}

func TestWord(t *testing.T) {
	head, rest := word("  labels id1   a; b ")
	assert.Equal(t, "labels", head)
	assert.Equal(t, "id1   a; b ", rest)

	head, rest = word("id1  pw ")
	assert.Equal(t, "id1", head)
	assert.Equal(t, " pw ", rest)

	head, rest = word("list")
	assert.Equal(t, "list", head)
	assert.Equal(t, "", rest)
}
