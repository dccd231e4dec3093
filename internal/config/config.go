// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
)

// Storage backends.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Options holds the configuration values for the application.
type Options struct {
	// Storage selects the slot backend: file, postgres or memory.
	Storage string `json:"storage"`

	// StorageDir is the directory holding slot files for the file backend.
	StorageDir string `json:"storage_dir"`

	// SlotKey names the slot that holds the account list.
	SlotKey string `json:"slot_key"`

	// DatabaseDSN holds the database connection string for the postgres backend.
	DatabaseDSN string `json:"database_dsn"`

	// SlotTable is the table holding slots for the postgres backend.
	SlotTable string `json:"slot_table"`

	// LogLevel is passed to logger.Init.
	LogLevel string `json:"log_level"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// ShowVersion prints build information and exits.
	ShowVersion bool `json:"-"`
}

// Parse reads the process arguments and environment.
func Parse() (*Options, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs builds Options from args. Sources are applied in order: flag
// defaults and values, the JSON config file (path from -config/-c or the
// CONFIG variable), then environment variables.
func ParseArgs(args []string) (*Options, error) {
	options := &Options{}

	fs := flag.NewFlagSet("accounts", flag.ContinueOnError)
	fs.StringVar(&options.Storage, "s", StorageFile, "storage backend: file | postgres | memory")
	fs.StringVar(&options.StorageDir, "dir", ".", "directory for the file storage backend")
	fs.StringVar(&options.SlotKey, "key", "accounts", "name of the slot holding the accounts")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.SlotTable, "table", "slots", "slot table for the postgres backend")
	fs.StringVar(&options.LogLevel, "l", "info", "log level")
	fs.StringVar(&options.Config, "config", "", "path to config file")
	fs.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
	fs.BoolVar(&options.ShowVersion, "version", false, "show build version and date")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		data, err := os.ReadFile(options.Config)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := json.Unmarshal(data, options); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	overrideFromEnv(&options.Storage, "STORAGE")
	overrideFromEnv(&options.StorageDir, "STORAGE_DIR")
	overrideFromEnv(&options.SlotKey, "SLOT_KEY")
	overrideFromEnv(&options.DatabaseDSN, "DATABASE_DSN")
	overrideFromEnv(&options.SlotTable, "SLOT_TABLE")
	overrideFromEnv(&options.LogLevel, "LOG_LEVEL")

	if err := options.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}

// Validate checks that the selected backend has what it needs.
func (o *Options) Validate() error {
	switch o.Storage {
	case StorageFile, StorageMemory:
	case StoragePostgres:
		if o.DatabaseDSN == "" {
			return errors.New("postgres storage requires a database DSN")
		}
		if o.SlotTable == "" {
			return errors.New("postgres storage requires a slot table")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", o.Storage)
	}
	if o.SlotKey == "" {
		return errors.New("slot key must not be empty")
	}
	return nil
}

func overrideFromEnv(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
