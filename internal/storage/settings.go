package storage

import (
	"encoding/json"
	"fmt"
)

const settingsKey = "panel_settings"

// Settings holds user-tunable panel preferences.
type Settings struct {
	ServiceURL  string `json:"service_url"`
	Theme       string `json:"theme"`
	AutoConnect bool   `json:"auto_connect"`
}

// DefaultSettings returns the values seeded on first run.
func DefaultSettings() Settings {
	return Settings{
		ServiceURL:  "http://localhost:5000",
		Theme:       "light",
		AutoConnect: false,
	}
}

// LoadSettings reads settings from the store, seeding defaults when absent.
func LoadSettings(kv KV) (Settings, error) {
	raw, ok, err := kv.Get(settingsKey)
	if err != nil {
		return DefaultSettings(), fmt.Errorf("failed to read settings: %w", err)
	}
	if !ok {
		defaults := DefaultSettings()
		if err := SaveSettings(kv, defaults); err != nil {
			return defaults, err
		}
		return defaults, nil
	}

	var s Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		// Corrupt settings degrade to defaults rather than blocking the panel.
		return DefaultSettings(), nil
	}
	return s, nil
}

// SaveSettings persists settings to the store.
func SaveSettings(kv KV, s Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := kv.Set(settingsKey, string(data)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
