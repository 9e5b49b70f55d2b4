// Package config loads process settings from the environment and gesture
// tuning from JSON.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/DurjaMan27/hand-tracker/internal/gesture"
)

// Environment variables read by Load.
const (
	EnvAddr    = "HANDTRACKER_ADDR"
	EnvDataDir = "HANDTRACKER_DATA_DIR"
	EnvCamera  = "HANDTRACKER_CAMERA"
	EnvFPS     = "HANDTRACKER_FPS"
	EnvWebDir  = "HANDTRACKER_WEB_DIR"
	EnvTuning  = "HANDTRACKER_TUNING"
	EnvProfile = "HANDTRACKER_PROFILE"
	EnvTray    = "HANDTRACKER_TRAY"
	EnvLogFile = "HANDTRACKER_LOG_FILE"
)

// Gesture tuning profiles.
const (
	ProfileDefault = "default"
	ProfileBrowser = "browser"
)

// Defaults.
const (
	DefaultAddr = ":8080"
	DefaultFPS  = 30
)

// Config holds process settings.
type Config struct {
	Addr       string `validate:"required"`
	DataDir    string `validate:"required"`
	CameraID   int    `validate:"gte=0"`
	FPS        int    `validate:"gt=0,lte=240"`
	WebDir     string // static UI directory, empty to disable
	TuningFile string `validate:"omitempty,endswith=.json"` // optional JSON tuning overrides
	Profile    string `validate:"oneof=default browser"`
	Tray       bool
	LogFile    string
}

var validate = validator.New()

// DBPath returns the SQLite database location inside DataDir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "handtracker.db")
}

// Gesture returns the gesture preset named by Profile.
func (c Config) Gesture() gesture.Config {
	if c.Profile == ProfileBrowser {
		return gesture.BrowserConfig()
	}
	return gesture.DefaultConfig()
}

// Load reads envFile (".env" when empty) if it exists, then builds a Config
// from the environment. Variables already set in the environment win over
// the file.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	home, _ := os.UserHomeDir()
	cfg := Config{
		Addr:       getenv(EnvAddr, DefaultAddr),
		DataDir:    getenv(EnvDataDir, filepath.Join(home, ".handtracker")),
		WebDir:     os.Getenv(EnvWebDir),
		TuningFile: os.Getenv(EnvTuning),
		Profile:    strings.ToLower(getenv(EnvProfile, ProfileDefault)),
	}
	cfg.LogFile = getenv(EnvLogFile, filepath.Join(cfg.DataDir, "logs", "events.log"))

	var err error
	if cfg.CameraID, err = atoi(EnvCamera, 0); err != nil {
		return Config{}, err
	}
	if cfg.FPS, err = atoi(EnvFPS, DefaultFPS); err != nil {
		return Config{}, err
	}

	if v := os.Getenv(EnvTray); v != "" {
		if cfg.Tray, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvTray, err)
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func atoi(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
