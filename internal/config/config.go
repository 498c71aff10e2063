// Package config provides Viper-based configuration loading for the skirmish engine.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Battle speed bounds. Higher speeds shorten the attack animation delay.
const (
	MinBattleSpeed     = 1
	MaxBattleSpeed     = 10
	DefaultBattleSpeed = 5
)

// DatabaseConfig holds PostgreSQL connection settings for the encounter journal.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout", or a file path.
	Output string `mapstructure:"output"`
}

// CombatConfig holds combat pacing and debug switches.
type CombatConfig struct {
	// BattleSpeed is in [MinBattleSpeed, MaxBattleSpeed].
	BattleSpeed int `mapstructure:"battle_speed"`
	// Frame is the animation granularity used to pace attack flashes.
	Frame time.Duration `mapstructure:"frame"`
	// Debug enables the abort and destroy-all commands.
	Debug bool `mapstructure:"debug"`
	// ActivePlayer enables forcing focus onto a chosen party member.
	ActivePlayer bool `mapstructure:"active_player"`
	// Seed selects a deterministic dice source when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

// AttackDelay returns the per-cell pause for travelling attack flashes.
//
// Postcondition: Returns a non-negative duration that shrinks as BattleSpeed grows.
func (c CombatConfig) AttackDelay() time.Duration {
	return time.Duration(MaxBattleSpeed-c.BattleSpeed) * time.Millisecond
}

// ContentConfig holds the locations of the YAML and Lua content files.
type ContentConfig struct {
	Tiles     string `mapstructure:"tiles"`
	Creatures string `mapstructure:"creatures"`
	Weapons   string `mapstructure:"weapons"`
	Arenas    string `mapstructure:"arenas"`
	AI        string `mapstructure:"ai"`
	Scripts   string `mapstructure:"scripts"`
	Party     string `mapstructure:"party"`
	// World is the overworld map the party starts on.
	World string `mapstructure:"world"`
}

// JournalConfig selects where finished encounters are recorded.
type JournalConfig struct {
	// Driver is one of "none", "sqlite", "postgres".
	Driver string `mapstructure:"driver"`
	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `mapstructure:"sqlite_path"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Combat   CombatConfig   `mapstructure:"combat"`
	Content  ContentConfig  `mapstructure:"content"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Database DatabaseConfig `mapstructure:"database"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateJournal(c.Journal); err != nil {
		errs = append(errs, err.Error())
	}
	// The database section only matters when the journal lives in postgres.
	if c.Journal.Driver == "postgres" {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.BattleSpeed < MinBattleSpeed || c.BattleSpeed > MaxBattleSpeed {
		errs = append(errs, fmt.Sprintf("combat.battle_speed must be %d-%d, got %d", MinBattleSpeed, MaxBattleSpeed, c.BattleSpeed))
	}
	if c.Frame < 0 {
		errs = append(errs, "combat.frame must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.Tiles == "" {
		errs = append(errs, "content.tiles must not be empty")
	}
	if c.Creatures == "" {
		errs = append(errs, "content.creatures must not be empty")
	}
	if c.Weapons == "" {
		errs = append(errs, "content.weapons must not be empty")
	}
	if c.Arenas == "" {
		errs = append(errs, "content.arenas must not be empty")
	}
	if c.Party == "" {
		errs = append(errs, "content.party must not be empty")
	}
	if c.World == "" {
		errs = append(errs, "content.world must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateJournal(j JournalConfig) error {
	switch j.Driver {
	case "none", "postgres":
		return nil
	case "sqlite":
		if j.SQLitePath == "" {
			return errors.New("journal.sqlite_path must not be empty when journal.driver is sqlite")
		}
		return nil
	default:
		return fmt.Errorf("journal.driver must be one of [none, sqlite, postgres], got %q", j.Driver)
	}
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must be between 0 and database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with SKIRMISH_ environment overrides and
// every default registered.
//
// Postcondition: Returns a non-nil Viper ready for ReadInConfig or direct Set calls.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("combat.battle_speed", DefaultBattleSpeed)
	v.SetDefault("combat.frame", "250ms")
	v.SetDefault("combat.debug", false)
	v.SetDefault("combat.active_player", false)
	v.SetDefault("combat.seed", 0)

	v.SetDefault("content.tiles", "content/tiles.yaml")
	v.SetDefault("content.creatures", "content/creatures")
	v.SetDefault("content.weapons", "content/weapons")
	v.SetDefault("content.arenas", "content/arenas")
	v.SetDefault("content.ai", "content/ai")
	v.SetDefault("content.scripts", "content/scripts")
	v.SetDefault("content.party", "content/party.yaml")
	v.SetDefault("content.world", "content/world.yaml")

	v.SetDefault("journal.driver", "none")
	v.SetDefault("journal.sqlite_path", "skirmish.db")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "skirmish")
	v.SetDefault("database.password", "skirmish")
	v.SetDefault("database.name", "skirmish")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")
}
