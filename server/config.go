package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/dekarrin/nightrunner/server/dao/inmem"
	"github.com/dekarrin/nightrunner/server/dao/sqlite"
)

// DBType is the kind of persistence a Database connects to.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// ParseDBType parses the engine part of a DB connection string.
func ParseDBType(s string) (DBType, error) {
	switch strings.ToLower(s) {
	case DatabaseSQLite.String():
		return DatabaseSQLite, nil
	case DatabaseInMemory.String():
		return DatabaseInMemory, nil
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database says where the server keeps worlds, sessions, and command history.
type Database struct {
	Type DBType

	// DataDir is the directory the database files are kept in. Only used by
	// DatabaseSQLite.
	DataDir string
}

// Connect opens the configured store, creating its data directory if needed.
func (db Database) Connect() (dao.Store, error) {
	switch db.Type {
	case DatabaseInMemory:
		return inmem.NewDatastore(), nil
	case DatabaseSQLite:
		if err := os.MkdirAll(db.DataDir, 0770); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}

		store, err := sqlite.NewDatastore(db.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite: %w", err)
		}
		return store, nil
	case DatabaseNone:
		return nil, fmt.Errorf("cannot connect to 'none' DB")
	default:
		return nil, fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// Validate returns an error if db cannot be connected to as configured.
func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		return nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	case DatabaseNone:
		return fmt.Errorf("'none' DB is not valid")
	default:
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// ParseDBConnString parses a connection string of the form "engine:params",
// or just "engine" when the engine takes no params. "inmem" is an in-memory
// store and "sqlite:/path/to/dir" keeps SQLite files in the given directory.
func ParseDBConnString(s string) (Database, error) {
	engStr, paramStr, _ := strings.Cut(s, ":")
	paramStr = strings.TrimSpace(paramStr)

	dbEng, err := ParseDBType(strings.TrimSpace(engStr))
	if err != nil {
		return Database{}, fmt.Errorf("unsupported DB engine: %w", err)
	}

	switch dbEng {
	case DatabaseInMemory:
		if paramStr != "" {
			return Database{}, fmt.Errorf("unsupported param(s) for in-memory DB engine: %s", paramStr)
		}
		return Database{Type: DatabaseInMemory}, nil
	case DatabaseSQLite:
		if paramStr == "" {
			return Database{}, fmt.Errorf("sqlite DB engine requires path to data directory after ':'")
		}
		return Database{Type: DatabaseSQLite, DataDir: paramStr}, nil
	default:
		return Database{}, fmt.Errorf("unknown DB engine: %q", dbEng.String())
	}
}

// Config is a configuration for a NightRunnerServer.
type Config struct {
	// TokenSecret signs session tokens. If not provided, a default key is
	// used.
	TokenSecret []byte

	// DB is where persistence is kept. If not provided, an in-memory store is
	// used.
	DB Database

	// AuthorKey must be given as the Bearer token to upload or delete worlds.
	// If empty, worlds can only be added with PreloadWorlds.
	AuthorKey string

	// PreloadWorlds are paths to world files or directories that are added to
	// the server when it starts.
	PreloadWorlds []string

	// UnauthDelayMillis is how long to wait (in milliseconds) before sending
	// a response that the client was unauthorized or unauthenticated. If not
	// set it defaults to 1 second. Any negative number disables the delay.
	UnauthDelayMillis int
}

// UnauthDelay returns UnauthDelayMillis as a time.Duration. A negative
// UnauthDelayMillis gives a zero duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		return 0
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// FillDefaults returns a copy of cfg with unset values set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.TokenSecret == nil {
		newCFG.TokenSecret = []byte("DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!")
	}
	if newCFG.DB.Type == "" || newCFG.DB.Type == DatabaseNone {
		newCFG.DB = Database{Type: DatabaseInMemory}
	}
	if newCFG.UnauthDelayMillis == 0 {
		newCFG.UnauthDelayMillis = 1000
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Unset
// values are invalid; call Validate on the result of FillDefaults to allow
// them.
func (cfg Config) Validate() error {
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("token secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("token secret: must be no more than %d bytes, but is %d", MaxSecretSize, len(cfg.TokenSecret))
	}
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	return nil
}

// EnvConfig is the server configuration that can be given in environment
// variables.
type EnvConfig struct {
	ListenAddress string `env:"NIGHTRUNNER_LISTEN_ADDRESS" envDefault:"localhost:8080"`
	TokenSecret   string `env:"NIGHTRUNNER_TOKEN_SECRET"`
	Database      string `env:"NIGHTRUNNER_DATABASE"`
	AuthorKey     string `env:"NIGHTRUNNER_AUTHOR_KEY"`
	UnauthDelayMS int    `env:"NIGHTRUNNER_UNAUTH_DELAY_MS"`

	// Worlds is a list of worlds to preload, separated by the OS path list
	// separator.
	Worlds []string `env:"NIGHTRUNNER_WORLDS" envSeparator:":"`
}

// ParseEnvConfig reads an EnvConfig from the environment.
func ParseEnvConfig() (EnvConfig, error) {
	var ec EnvConfig
	if err := env.Parse(&ec); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return ec, nil
}

// Config converts ec to a Config. The token secret is lengthened by repeating
// it until it is at least MinSecretSize bytes.
func (ec EnvConfig) Config() (Config, error) {
	cfg := Config{
		AuthorKey:         ec.AuthorKey,
		PreloadWorlds:     ec.Worlds,
		UnauthDelayMillis: ec.UnauthDelayMS,
	}

	if ec.TokenSecret != "" {
		cfg.TokenSecret = StretchSecret([]byte(ec.TokenSecret))
	}

	if ec.Database != "" {
		db, err := ParseDBConnString(ec.Database)
		if err != nil {
			return Config{}, fmt.Errorf("database: %w", err)
		}
		cfg.DB = db
	}

	return cfg, nil
}

// StretchSecret repeats secret until it is at least MinSecretSize bytes. An
// empty secret is returned as-is.
func StretchSecret(secret []byte) []byte {
	if len(secret) == 0 {
		return secret
	}
	for len(secret) < MinSecretSize {
		doubled := make([]byte, len(secret)*2)
		copy(doubled, secret)
		copy(doubled[len(secret):], secret)
		secret = doubled
	}
	return secret
}
