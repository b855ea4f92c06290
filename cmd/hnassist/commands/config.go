package commands

import (
	"errors"
	"log/slog"
	"os"

	"hnassist/internal/components/configutil"
	"hnassist/internal/scrapers/hackernews"
)

const (
	envUsername = "HNASSIST_USERNAME"
	envPassword = "HNASSIST_PASSWORD"
)

type Config struct {
	Hackernews hackernews.Config `json:"hackernews"`
	Username   string            `json:"username"`
	Password   string            `json:"password"`
}

// loadConfig reads the config file at path (a missing file is not an error), fills in
// the defaults and lets the environment override the credentials.
func loadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file, using defaults", "path", path)
	} else if err != nil {
		return Config{}, err
	}

	cfg.Hackernews, err = configutil.WithDefaults(cfg.Hackernews, hackernews.DefaultConfig())
	if err != nil {
		return Config{}, err
	}

	if username := os.Getenv(envUsername); username != "" {
		cfg.Username = username
	}
	if password := os.Getenv(envPassword); password != "" {
		cfg.Password = password
	}
	return cfg, nil
}

func (c Config) credentials() (string, string, error) {
	if c.Username == "" || c.Password == "" {
		return "", "", errors.New("no credentials, set username and password in the config file or " + envUsername + " and " + envPassword)
	}
	return c.Username, c.Password, nil
}
