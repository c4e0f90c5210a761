package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend identifies a storage engine.
type Backend string

const (
	BackendJSON     Backend = "json"
	BackendMySQL    Backend = "mysql"
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
	BackendMongo    Backend = "mongo"
)

// Config holds connection settings for any backend. Fields that do not apply
// to a given backend are ignored by it.
type Config struct {
	Type     Backend `yaml:"type" json:"type"`
	Host     string  `yaml:"host" json:"host"`
	Port     int     `yaml:"port" json:"port"`
	Username string  `yaml:"username" json:"username"`
	Password string  `yaml:"password" json:"password"`
	Database string  `yaml:"database" json:"database"`

	// FilePath is the datafile location for the json and sqlite backends.
	FilePath string `yaml:"file_path" json:"file_path"`

	MaxOpenConns    int           `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" json:"connect_timeout"`
	QueryTimeout    time.Duration `yaml:"query_timeout" json:"query_timeout"`

	SSLMode string            `yaml:"ssl_mode" json:"ssl_mode"`
	Options map[string]string `yaml:"options" json:"options"`
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a Config with sane pool and timeout defaults applied.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnectTimeout:  10 * time.Second,
		QueryTimeout:    30 * time.Second,
	}
}

// NewConfig builds a Config from defaults plus options.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func WithType(t Backend) Option    { return func(c *Config) { c.Type = t } }
func WithHost(h string) Option     { return func(c *Config) { c.Host = h } }
func WithPort(p int) Option        { return func(c *Config) { c.Port = p } }
func WithUsername(u string) Option { return func(c *Config) { c.Username = u } }
func WithPassword(p string) Option { return func(c *Config) { c.Password = p } }
func WithDatabase(d string) Option { return func(c *Config) { c.Database = d } }
func WithFilePath(p string) Option { return func(c *Config) { c.FilePath = p } }
func WithSSLMode(m string) Option  { return func(c *Config) { c.SSLMode = m } }

func WithMaxOpenConns(n int) Option { return func(c *Config) { c.MaxOpenConns = n } }
func WithMaxIdleConns(n int) Option { return func(c *Config) { c.MaxIdleConns = n } }

func WithConnMaxLifetime(d time.Duration) Option {
	return func(c *Config) { c.ConnMaxLifetime = d }
}

func WithConnectTimeout(d time.Duration) Option {
	return func(c *Config) { c.ConnectTimeout = d }
}

func WithQueryTimeout(d time.Duration) Option {
	return func(c *Config) { c.QueryTimeout = d }
}

// WithOption sets a backend-specific connection option.
func WithOption(key, value string) Option {
	return func(c *Config) {
		if c.Options == nil {
			c.Options = make(map[string]string)
		}
		c.Options[key] = value
	}
}

// MySQLOptions returns the conventional MySQL settings plus overrides.
func MySQLOptions(opts ...Option) Config {
	base := []Option{WithType(BackendMySQL), WithHost("localhost"), WithPort(3306)}
	return NewConfig(append(base, opts...)...)
}

// PostgresOptions returns the conventional PostgreSQL settings plus overrides.
func PostgresOptions(opts ...Option) Config {
	base := []Option{WithType(BackendPostgres), WithHost("localhost"), WithPort(5432), WithSSLMode("disable")}
	return NewConfig(append(base, opts...)...)
}

// SQLiteOptions returns settings for a SQLite datafile plus overrides.
func SQLiteOptions(path string, opts ...Option) Config {
	base := []Option{WithType(BackendSQLite), WithFilePath(path), WithMaxOpenConns(1)}
	return NewConfig(append(base, opts...)...)
}

// MongoOptions returns the conventional MongoDB settings plus overrides.
func MongoOptions(opts ...Option) Config {
	base := []Option{WithType(BackendMongo), WithHost("localhost"), WithPort(27017)}
	return NewConfig(append(base, opts...)...)
}

// JSONFileOptions returns settings for a JSON datafile plus overrides.
func JSONFileOptions(path string, opts ...Option) Config {
	base := []Option{WithType(BackendJSON), WithFilePath(path)}
	return NewConfig(append(base, opts...)...)
}

// Validate checks that the config names a backend and carries the settings
// that backend requires.
func (c Config) Validate() error {
	switch c.Type {
	case BackendJSON, BackendSQLite:
		if c.FilePath == "" {
			return NewValidationError("file_path", fmt.Sprintf("required for %s backend", c.Type))
		}
	case BackendMySQL, BackendPostgres, BackendMongo:
		if c.Host == "" {
			return NewValidationError("host", fmt.Sprintf("required for %s backend", c.Type))
		}
		if c.Database == "" {
			return NewValidationError("database", fmt.Sprintf("required for %s backend", c.Type))
		}
	case "":
		return NewValidationError("type", "backend type is required")
	default:
		return NewValidationError("type", fmt.Sprintf("unknown backend %q", c.Type))
	}
	return nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
