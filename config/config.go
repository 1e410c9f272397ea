// Package config loads the deployment configuration for the sync tool.
//
// Most values are fixed by the deployment: the table list, credentials and
// delivery policy all default here and are not taken from untrusted input.
// Only the database DSN and the API base URL are meant to be overridden,
// via the config file, environment, or command line flags.
package config

import (
	"github.com/cockroachdb/errors"
	"github.com/ilyakaznacheev/cleanenv"
)

const DefaultPath = "config.json"

type Database struct {
	// Driver selects the source dialect: odbc (SQL Anywhere via a DSN),
	// mysql, or postgres.
	Driver   string `json:"driver" env:"RRC_DB_DRIVER" env-default:"odbc"`
	DSN      string `json:"dsn" env:"RRC_DB_DSN"`
	Username string `json:"username" env:"RRC_DB_USER"`
	Password string `json:"password" env:"RRC_DB_PASSWORD"`
}

type API struct {
	URL string `json:"url" env:"RRC_API_URL"`
}

type Config struct {
	Database Database `json:"database"`
	API      API      `json:"api"`
	Tables   []string `json:"tables"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, errors.Wrapf(err, "error reading config file %s", path)
	}
	if len(cfg.Tables) == 0 {
		cfg.Tables = []string{"rrc_clients"}
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.Newf("database dsn must be set")
	}
	if c.API.URL == "" {
		return errors.Newf("api url must be set")
	}
	switch c.Database.Driver {
	case "odbc", "mysql", "postgres":
	default:
		return errors.Newf("unrecognised database driver %q", c.Database.Driver)
	}
	return nil
}
