// Package service implements the account store: the in-memory list of
// account records, its validation and its mirroring into a persistent slot.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/atinyakov/accountstore/internal/models"
	"github.com/atinyakov/accountstore/internal/repository"
	"go.uber.org/zap"
)

// SlotRepository defines the persistence operations needed by the AccountStore.
type SlotRepository interface {
	// Get returns the value stored under key, or repository.ErrSlotNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put overwrites the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
}

// AccountStore holds the account list and writes the whole list back to
// its slot after every mutation. It is created once per session and shared
// by reference.
type AccountStore struct {
	repo SlotRepository
	key  string
	log  *zap.Logger

	mu        sync.Mutex
	accounts  []models.Account
	listeners map[int]func([]models.Account)
	nextSub   int
}

// NewAccountStore creates an AccountStore over the given slot and loads its
// current content. A nil logger disables logging.
func NewAccountStore(ctx context.Context, repo SlotRepository, key string, log *zap.Logger) *AccountStore {
	if log == nil {
		log = zap.NewNop()
	}
	s := &AccountStore{
		repo:      repo,
		key:       key,
		log:       log.With(zap.String("slot", key)),
		accounts:  []models.Account{},
		listeners: make(map[int]func([]models.Account)),
	}
	s.Load(ctx)
	return s
}

// Load replaces the in-memory list with the slot content. A missing slot
// yields an empty list. A slot that cannot be read or parsed also yields an
// empty list; the failure is logged and not returned.
func (s *AccountStore) Load(ctx context.Context) {
	s.mu.Lock()
	s.accounts = []models.Account{}

	data, err := s.repo.Get(ctx, s.key)
	switch {
	case errors.Is(err, repository.ErrSlotNotFound):
		s.log.Debug("no saved accounts")
	case err != nil:
		s.log.Error("failed to read saved accounts", zap.Error(err))
	default:
		accounts, err := decodeAccounts(data)
		if err != nil {
			s.log.Error("failed to parse saved accounts", zap.Error(err), zap.Int("bytes", len(data)))
			break
		}
		s.accounts = accounts
		s.log.Info("accounts loaded", zap.Int("count", len(accounts)))
	}

	notify := s.notifierLocked()
	s.mu.Unlock()
	notify()
}

// Save writes the full list to the slot, overwriting its previous content.
func (s *AccountStore) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *AccountStore) saveLocked(ctx context.Context) error {
	data, err := json.Marshal(s.accounts)
	if err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	if err := s.repo.Put(ctx, s.key, data); err != nil {
		s.log.Error("failed to save accounts", zap.Error(err))
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

// mutate runs apply under the lock. When apply reports a change, the list
// is persisted and subscribers are notified after the lock is released,
// also when the write fails.
func (s *AccountStore) mutate(ctx context.Context, apply func() bool) error {
	s.mu.Lock()
	if !apply() {
		s.mu.Unlock()
		return nil
	}
	err := s.saveLocked(ctx)
	notify := s.notifierLocked()
	s.mu.Unlock()

	notify()
	return err
}

// Accounts returns a copy of the current list.
func (s *AccountStore) Accounts() []models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Get returns a copy of the account with the given id.
func (s *AccountStore) Get(id string) (models.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.accounts[i].Clone(), true
	}
	return models.Account{}, false
}

// Subscribe registers fn to be called with a snapshot of the list after
// every load and mutation. fn runs synchronously on the mutating goroutine,
// outside the store lock. The returned function removes the subscription.
func (s *AccountStore) Subscribe(fn func([]models.Account)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// AddAccount appends an empty Local account. The new record is not
// validated, so it starts out invalid.
func (s *AccountStore) AddAccount(ctx context.Context) (models.Account, error) {
	a := models.Account{
		ID:       GenerateID(),
		Labels:   []models.AccountLabel{},
		Type:     models.Local,
		Login:    "",
		Password: models.StringPtr(""),
		IsValid:  false,
	}
	err := s.mutate(ctx, func() bool {
		s.accounts = append(s.accounts, a.Clone())
		return true
	})
	return a, err
}

// RemoveAccount deletes the first account with the given id. Unknown ids
// are ignored.
func (s *AccountStore) RemoveAccount(ctx context.Context, id string) error {
	return s.mutate(ctx, func() bool {
		i := s.indexLocked(id)
		if i < 0 {
			return false
		}
		s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
		return true
	})
}

// UpdateLabels replaces the labels of an account with ParseLabels(labels).
// Labels are not validated.
func (s *AccountStore) UpdateLabels(ctx context.Context, id, labels string) error {
	return s.update(ctx, id, false, func(a *models.Account) {
		a.Labels = ParseLabels(labels)
	})
}

// UpdateType switches the account type. The password is reset: nil for
// LDAP, empty for Local. Types other than LDAP and Local are rejected with
// models.ErrUnknownAccountType and leave the record untouched.
func (s *AccountStore) UpdateType(ctx context.Context, id string, typ models.AccountType) error {
	if !typ.Valid() {
		return fmt.Errorf("update type %q: %w", typ, models.ErrUnknownAccountType)
	}
	return s.update(ctx, id, true, func(a *models.Account) {
		a.Type = typ
		if typ == models.LDAP {
			a.Password = nil
		} else {
			a.Password = models.StringPtr("")
		}
	})
}

// UpdateLogin sets the login of an account.
func (s *AccountStore) UpdateLogin(ctx context.Context, id, login string) error {
	return s.update(ctx, id, true, func(a *models.Account) {
		a.Login = login
	})
}

// UpdatePassword sets the password of an account.
func (s *AccountStore) UpdatePassword(ctx context.Context, id, password string) error {
	return s.update(ctx, id, true, func(a *models.Account) {
		a.Password = models.StringPtr(password)
	})
}

// GetLabelsString returns the labels of a as one editable string.
func (s *AccountStore) GetLabelsString(a models.Account) string {
	return LabelsString(a)
}

// ValidateAccount recomputes a.Errors and a.IsValid and returns the result.
func (s *AccountStore) ValidateAccount(a *models.Account) bool {
	return a.Validate()
}

func (s *AccountStore) update(ctx context.Context, id string, validate bool, apply func(*models.Account)) error {
	return s.mutate(ctx, func() bool {
		i := s.indexLocked(id)
		if i < 0 {
			return false
		}
		a := &s.accounts[i]
		apply(a)
		if validate {
			a.Validate()
		}
		return true
	})
}

func (s *AccountStore) indexLocked(id string) int {
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *AccountStore) snapshotLocked() []models.Account {
	return cloneAccounts(s.accounts)
}

// notifierLocked captures the subscribers and the current list so they can
// be called once the lock is released. Each subscriber gets its own copy.
func (s *AccountStore) notifierLocked() func() {
	if len(s.listeners) == 0 {
		return func() {}
	}
	fns := make([]func([]models.Account), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	snapshot := s.snapshotLocked()
	return func() {
		for _, fn := range fns {
			fn(cloneAccounts(snapshot))
		}
	}
}

func cloneAccounts(accounts []models.Account) []models.Account {
	out := make([]models.Account, len(accounts))
	for i, a := range accounts {
		out[i] = a.Clone()
	}
	return out
}
