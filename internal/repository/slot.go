// Package repository provides key-value slot backends that hold the
// serialized account list: a directory of JSON files, a PostgreSQL table
// and an in-memory map.
package repository

import (
	"errors"
	"strings"
)

var (
	// ErrSlotNotFound is returned by Get when nothing was stored under the key.
	ErrSlotNotFound = errors.New("slot not found")
	// ErrInvalidKey is returned for empty keys or keys containing path separators.
	ErrInvalidKey = errors.New("invalid slot key")
)

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return ErrInvalidKey
	}
	return nil
}
