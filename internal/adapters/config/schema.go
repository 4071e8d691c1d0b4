package config

import (
	"fmt"

	"github.com/bnema/tpx/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const currentSettingsSchemaVersion = 1

type settingsFileSchema struct {
	Version  int            `toml:"version"`
	Prefix   string         `toml:"prefix"`
	Settings settingsSchema `toml:"settings"`
	Log      logSchema      `toml:"log"`
}

type settingsSchema struct {
	RequestTimeout     int    `toml:"request-timeout"`
	RequestCooldown    int    `toml:"request-cooldown"`
	TeleportDelay      int    `toml:"teleport-delay"`
	EnableClickButtons bool   `toml:"enable-click-buttons"`
	RequestConflict    string `toml:"request-conflict"`
}

type logSchema struct {
	Level string `toml:"level"`
}

func validateSettingsVersion(version int) error {
	if version > currentSettingsSchemaVersion {
		return fmt.Errorf("unsupported settings schema version %d (current %d)", version, currentSettingsSchemaVersion)
	}

	return nil
}

func toSettingsSchema(settings domain.Settings) settingsFileSchema {
	return settingsFileSchema{
		Version: currentSettingsSchemaVersion,
		Prefix:  settings.Prefix,
		Settings: settingsSchema{
			RequestTimeout:     settings.RequestTimeoutSeconds,
			RequestCooldown:    settings.RequestCooldownSeconds,
			TeleportDelay:      settings.TeleportDelaySeconds,
			EnableClickButtons: settings.ClickButtonsEnabled,
			RequestConflict:    string(settings.ConflictPolicy),
		},
		Log: logSchema{Level: settings.LogLevel},
	}
}

// EncodeSettings renders the scalar part of settings in the settings.toml layout.
func EncodeSettings(settings domain.Settings) ([]byte, error) {
	data, err := toml.Marshal(toSettingsSchema(settings))
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return data, nil
}

type messagesFileSchema struct {
	Messages map[string]string `yaml:"messages"`
}

func decodeMessages(data []byte) (map[domain.MessageKey]string, error) {
	var file messagesFileSchema
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode messages file: %w", err)
	}

	messages := domain.DefaultMessages()
	for key, template := range file.Messages {
		messages[domain.MessageKey(key)] = template
	}
	return messages, nil
}

func encodeMessages(messages map[domain.MessageKey]string) ([]byte, error) {
	file := messagesFileSchema{Messages: make(map[string]string, len(messages))}
	for key, template := range messages {
		file.Messages[string(key)] = template
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("encode messages file: %w", err)
	}
	return data, nil
}
