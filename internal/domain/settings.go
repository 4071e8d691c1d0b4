package domain

import (
	"fmt"
	"time"
)

type ConflictPolicy string

const (
	ConflictOverwrite ConflictPolicy = "overwrite"
	ConflictReject    ConflictPolicy = "reject"
)

const DefaultPrefix = "&eTPX &f&l>>> "

type Settings struct {
	Prefix                 string
	RequestTimeoutSeconds  int
	RequestCooldownSeconds int
	TeleportDelaySeconds   int
	ClickButtonsEnabled    bool
	ConflictPolicy         ConflictPolicy
	LogLevel               string
	Messages               map[MessageKey]string
}

func DefaultSettings() Settings {
	return Settings{
		Prefix:                 DefaultPrefix,
		RequestTimeoutSeconds:  60,
		RequestCooldownSeconds: 30,
		TeleportDelaySeconds:   3,
		ClickButtonsEnabled:    true,
		ConflictPolicy:         ConflictOverwrite,
		LogLevel:               "info",
		Messages:               DefaultMessages(),
	}
}

func (s Settings) Validate() error {
	if s.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: request-timeout must be positive, got %d", ErrInvalidSettings, s.RequestTimeoutSeconds)
	}
	if s.RequestCooldownSeconds < 0 {
		return fmt.Errorf("%w: request-cooldown must not be negative, got %d", ErrInvalidSettings, s.RequestCooldownSeconds)
	}
	if s.TeleportDelaySeconds < 0 {
		return fmt.Errorf("%w: teleport-delay must not be negative, got %d", ErrInvalidSettings, s.TeleportDelaySeconds)
	}
	switch s.ConflictPolicy {
	case ConflictOverwrite, ConflictReject:
	default:
		return fmt.Errorf("%w: unsupported request-conflict %q", ErrInvalidSettings, s.ConflictPolicy)
	}

	return nil
}

func (s Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

func (s Settings) RequestCooldown() time.Duration {
	return time.Duration(s.RequestCooldownSeconds) * time.Second
}

// Template returns the configured template for key, or a placeholder naming
// the missing key.
func (s Settings) Template(key MessageKey) string {
	if tpl, ok := s.Messages[key]; ok {
		return tpl
	}
	return "message not configured: " + string(key)
}
