package traj

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	// DefaultTimeLag corresponds to 30 frames per second
	DefaultTimeLag      = 1.0 / 30.0
	maxSettingsFileSize = 1 * 1024 * 1024
)

// Settings holds analysis parameters supplied by the host application.
// They are constant for a single export operation.
type Settings struct {
	// TimeLag is the physical duration between consecutive trajectory samples
	TimeLag float64 `json:"timelag"`
	// UseReducedConfinedModel fits confined motion with b = c = 1
	UseReducedConfinedModel bool `json:"use_reduced_confined_model"`
}

// DefaultSettings returns 30 fps time lag and full confined model
func DefaultSettings() Settings {
	return Settings{
		TimeLag:                 DefaultTimeLag,
		UseReducedConfinedModel: false,
	}
}

// Validate checks that settings can drive curve building
func (s Settings) Validate() error {
	if math.IsNaN(s.TimeLag) || math.IsInf(s.TimeLag, 0) || s.TimeLag <= 0 {
		return errors.Wrapf(ErrInvalidSettings, "timelag must be positive and finite, got %v", s.TimeLag)
	}
	return nil
}

// LoadSettings reads settings from a JSON file.
// Fields omitted from the file keep their default values.
func LoadSettings(path string) (Settings, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return Settings{}, errors.Wrapf(ErrInvalidSettings, "settings file must have .json extension, got %q", ext)
	}
	info, err := os.Stat(cleanPath)
	if err != nil {
		return Settings{}, newIOError("stat", cleanPath, err)
	}
	if info.Size() > maxSettingsFileSize {
		return Settings{}, errors.Wrapf(ErrInvalidSettings, "settings file too large: %d bytes (max %d)", info.Size(), maxSettingsFileSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Settings{}, newIOError("read", cleanPath, err)
	}
	settings := DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, errors.Wrapf(ErrInvalidSettings, "can't parse %s: %v", cleanPath, err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
