package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"pinboard/internal/store"
)

const (
	configFileName = ".pinboardrc"
	envPrefix      = "PINBOARD_"
)

type Config struct {
	SaveDirectory string        `validate:"required"`
	BoardFile     string        `validate:"required"`
	LogFile       string        `validate:"required"`
	LogLevel      string        `validate:"oneof=trace debug info warn error"`
	SaveDelay     time.Duration `validate:"gte=0"`
	Confirmations bool
	CouchURL      string `validate:"omitempty,url"`
	CouchDB       string `validate:"required_with=CouchURL"`
}

func defaultConfig(home string) *Config {
	return &Config{
		SaveDirectory: filepath.Join(home, ".pinboard"),
		BoardFile:     "boards.yaml",
		LogFile:       filepath.Join(home, ".pinboard.log"),
		LogLevel:      "info",
		SaveDelay:     store.DefaultDelay,
		Confirmations: true,
		CouchDB:       "pinboard",
	}
}

// loadConfig reads KEY=VALUE lines from path (default ~/.pinboardrc) and
// then PINBOARD_* environment variables. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	config := defaultConfig(homeDir)

	if path == "" {
		path = filepath.Join(homeDir, configFileName)
	}
	values, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	for key, value := range values {
		if err := config.set(key, value, homeDir); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	for _, key := range []string{"SAVE_DIRECTORY", "BOARD_FILE", "LOG_FILE", "LOG_LEVEL", "SAVE_DELAY", "CONFIRMATIONS", "COUCH_URL", "COUCH_DB"} {
		if value, ok := os.LookupEnv(envPrefix + key); ok {
			if err := config.set(key, value, homeDir); err != nil {
				return nil, fmt.Errorf("environment %s%s: %w", envPrefix, key, err)
			}
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) set(key, value, homeDir string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "savedirectory", "save_directory", "savedir":
		c.SaveDirectory = expandPath(value, homeDir)
	case "boardfile", "board_file":
		c.BoardFile = value
	case "logfile", "log_file":
		c.LogFile = expandPath(value, homeDir)
	case "loglevel", "log_level":
		c.LogLevel = strings.ToLower(value)
	case "savedelay", "save_delay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("save delay %q: %w", value, err)
		}
		c.SaveDelay = d
	case "confirmations", "confirm":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("confirmations %q: %w", value, err)
		}
		c.Confirmations = b
	case "couchurl", "couch_url":
		c.CouchURL = value
	case "couchdb", "couch_db":
		c.CouchDB = value
	}
	return nil
}

// parseBool accepts strconv.ParseBool forms plus yes/no and on/off.
func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(value)
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GetSavePath places filename in the save directory unless it is already a path.
func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) || strings.ContainsRune(filename, filepath.Separator) {
		return filename
	}
	return filepath.Join(c.SaveDirectory, filename)
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return value
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}
