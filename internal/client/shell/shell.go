// Package shell implements a line-oriented front end for the account store.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/atinyakov/accountstore/internal/models"
)

const prompt = "accounts> "

const helpText = `Available commands:
  help                      show this message
  list                      print all accounts
  add                       append an empty account
  remove <id>               delete an account
  labels <id> <a; b; c>     replace labels
  type <id> <LDAP|Local>    change account type
  login <id> <value>        set login
  password <id> <value>     set password
  exit                      leave the shell`

// AccountStore defines the store operations the shell drives.
type AccountStore interface {
	Accounts() []models.Account
	AddAccount(ctx context.Context) (models.Account, error)
	RemoveAccount(ctx context.Context, id string) error
	UpdateLabels(ctx context.Context, id, labels string) error
	UpdateType(ctx context.Context, id string, typ models.AccountType) error
	UpdateLogin(ctx context.Context, id, login string) error
	UpdatePassword(ctx context.Context, id, password string) error
	GetLabelsString(a models.Account) string
}

// Shell reads commands from In and writes results to Out.
type Shell struct {
	Store AccountStore
	In    io.Reader
	Out   io.Writer
}

// New creates a Shell over store.
func New(store AccountStore, in io.Reader, out io.Writer) *Shell {
	return &Shell{Store: store, In: in, Out: out}
}

// Run executes commands until "exit", end of input or ctx cancellation.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.In)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.Out, prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "":
			continue
		case "exit":
			fmt.Fprintln(s.Out, "Bye")
			return nil
		}
		s.exec(ctx, line)
	}
}

func (s *Shell) exec(ctx context.Context, line string) {
	cmd, rest := word(line)
	switch cmd {
	case "help":
		fmt.Fprintln(s.Out, helpText)
	case "list":
		s.list()
	case "add":
		a, err := s.Store.AddAccount(ctx)
		s.report(err, "Account added: "+a.ID)
	case "remove":
		id, _ := word(rest)
		if id == "" {
			fmt.Fprintln(s.Out, "Usage: remove <id>")
			return
		}
		s.report(s.Store.RemoveAccount(ctx, id), "OK")
	case "labels":
		id, labels := word(rest)
		if id == "" {
			fmt.Fprintln(s.Out, "Usage: labels <id> <a; b; c>")
			return
		}
		s.report(s.Store.UpdateLabels(ctx, id, labels), "OK")
	case "type":
		id, value := word(rest)
		typ, err := models.ParseAccountType(value)
		if id == "" || err != nil {
			fmt.Fprintln(s.Out, "Usage: type <id> <LDAP|Local>")
			return
		}
		s.report(s.Store.UpdateType(ctx, id, typ), "OK")
	case "login":
		id, value := word(rest)
		if id == "" {
			fmt.Fprintln(s.Out, "Usage: login <id> <value>")
			return
		}
		s.report(s.Store.UpdateLogin(ctx, id, value), "OK")
	case "password":
		id, value := word(rest)
		if id == "" {
			fmt.Fprintln(s.Out, "Usage: password <id> <value>")
			return
		}
		s.report(s.Store.UpdatePassword(ctx, id, value), "OK")
	default:
		fmt.Fprintln(s.Out, "Unknown command. Type 'help' for a list of commands.")
	}
}

func (s *Shell) report(err error, ok string) {
	if err != nil {
		fmt.Fprintln(s.Out, "Error:", err)
		return
	}
	fmt.Fprintln(s.Out, ok)
}

func (s *Shell) list() {
	accounts := s.Store.Accounts()
	if len(accounts) == 0 {
		fmt.Fprintln(s.Out, "No accounts")
		return
	}
	for _, a := range accounts {
		fmt.Fprintf(s.Out, "ID: %s\nType: %s\nLabels: %s\nLogin: %s\nPassword: %s\nValid: %t\n",
			a.ID, a.Type, s.Store.GetLabelsString(a), a.Login, maskPassword(a.Password), a.IsValid)
		if a.Errors.Login != "" {
			fmt.Fprintf(s.Out, "Login error: %s\n", a.Errors.Login)
		}
		if a.Errors.Password != "" {
			fmt.Fprintf(s.Out, "Password error: %s\n", a.Errors.Password)
		}
		fmt.Fprintln(s.Out, "---")
	}
}

func maskPassword(p *string) string {
	if p == nil {
		return "-"
	}
	return strings.Repeat("*", len([]rune(*p)))
}

// word splits off the first blank-separated word of s. Leading blanks are
// skipped; rest is whatever follows the single separating blank, kept as
// typed so logins and passwords may start or end with spaces.
func word(s string) (head, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}
