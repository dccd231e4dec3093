package service

import (
	"encoding/json"
	"fmt"

	"github.com/atinyakov/accountstore/internal/models"
)

// decodeAccounts parses a persisted slot. The top level must be a JSON
// array; every element is then normalized field by field so that records
// written by older or foreign code still load.
func decodeAccounts(data []byte) ([]models.Account, error) {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode accounts: expected array, got null")
	}

	accounts := make([]models.Account, 0, len(raw))
	for _, item := range raw {
		obj, _ := item.(map[string]any)
		accounts = append(accounts, normalizeAccount(obj))
	}
	return accounts, nil
}

// normalizeAccount builds a well-formed account from a loosely typed
// object. A nil obj yields a fresh default record.
func normalizeAccount(obj map[string]any) models.Account {
	a := models.Account{
		ID:     stringField(obj, "id"),
		Labels: normalizeLabels(obj["labels"]),
		Type:   models.Local,
		Login:  stringField(obj, "login"),
	}
	if a.ID == "" {
		a.ID = GenerateID()
	}
	if t, ok := obj["type"].(string); ok && models.AccountType(t) == models.LDAP {
		a.Type = models.LDAP
	}
	if a.Type == models.Local {
		a.Password = models.StringPtr(stringField(obj, "password"))
	}
	a.IsValid, _ = obj["isValid"].(bool)
	if errs, ok := obj["errors"].(map[string]any); ok {
		a.Errors.Login = stringField(errs, "login")
		a.Errors.Password = stringField(errs, "password")
	}
	return a
}

func normalizeLabels(v any) []models.AccountLabel {
	items, ok := v.([]any)
	if !ok {
		return []models.AccountLabel{}
	}
	labels := make([]models.AccountLabel, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		labels = append(labels, models.AccountLabel{Text: stringField(obj, "text")})
	}
	return labels
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
