package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bnema/tpx/internal/domain"
	"github.com/bnema/tpx/internal/ports"
	"github.com/spf13/viper"
)

const (
	DirKey       = "config.dir"
	DirEnv       = "TPX_CONFIG_DIR"
	SettingsFile = "settings.toml"
	MessagesFile = "messages.yml"

	envPrefix       = "TPX"
	configDirMode   = 0o755
	configFileMode  = 0o644
	tempFilePattern = ".tpx-*.tmp"
)

// Store serves the current settings snapshot and reloads it from disk on
// demand. A reload that fails keeps the previous snapshot.
type Store struct {
	dir     string
	reload  sync.Mutex
	current atomic.Pointer[domain.Settings]
}

var _ ports.SettingsProvider = (*Store)(nil)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	dir, err := resolveDir(cfg.GetString(DirKey))
	if err != nil {
		return nil, err
	}

	s := &Store{dir: dir}
	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

func resolveDir(dir string) (string, error) {
	if dir == "" {
		dir = os.Getenv(DirEnv)
	}
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".config", "tpx")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return abs, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) SettingsPath() string {
	return filepath.Join(s.dir, SettingsFile)
}

func (s *Store) MessagesPath() string {
	return filepath.Join(s.dir, MessagesFile)
}

func (s *Store) Settings() domain.Settings {
	if current := s.current.Load(); current != nil {
		return *current
	}
	return domain.DefaultSettings()
}

func (s *Store) Reload() error {
	s.reload.Lock()
	defer s.reload.Unlock()

	settings, err := s.load()
	if err != nil {
		return err
	}

	s.current.Store(&settings)
	return nil
}

func (s *Store) load() (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	v := viper.New()
	v.SetConfigFile(s.SettingsPath())
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("version", currentSettingsSchemaVersion)
	v.SetDefault("prefix", defaults.Prefix)
	v.SetDefault("settings.request-timeout", defaults.RequestTimeoutSeconds)
	v.SetDefault("settings.request-cooldown", defaults.RequestCooldownSeconds)
	v.SetDefault("settings.teleport-delay", defaults.TeleportDelaySeconds)
	v.SetDefault("settings.enable-click-buttons", defaults.ClickButtonsEnabled)
	v.SetDefault("settings.request-conflict", string(defaults.ConflictPolicy))
	v.SetDefault("log.level", defaults.LogLevel)

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return domain.Settings{}, fmt.Errorf("read settings file: %w", err)
	}
	if err := validateSettingsVersion(v.GetInt("version")); err != nil {
		return domain.Settings{}, err
	}

	messages, err := s.loadMessages()
	if err != nil {
		return domain.Settings{}, err
	}

	settings := domain.Settings{
		Prefix:                 v.GetString("prefix"),
		RequestTimeoutSeconds:  v.GetInt("settings.request-timeout"),
		RequestCooldownSeconds: v.GetInt("settings.request-cooldown"),
		TeleportDelaySeconds:   v.GetInt("settings.teleport-delay"),
		ClickButtonsEnabled:    v.GetBool("settings.enable-click-buttons"),
		ConflictPolicy:         domain.ConflictPolicy(strings.ToLower(strings.TrimSpace(v.GetString("settings.request-conflict")))),
		LogLevel:               v.GetString("log.level"),
		Messages:               messages,
	}
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}

	return settings, nil
}

func (s *Store) loadMessages() (map[domain.MessageKey]string, error) {
	data, err := os.ReadFile(s.MessagesPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultMessages(), nil
		}
		return nil, fmt.Errorf("read messages file: %w", err)
	}

	return decodeMessages(data)
}

// WriteDefaults writes default settings.toml and messages.yml into the
// config directory and returns the paths it wrote. Existing files are kept
// unless force is set.
func (s *Store) WriteDefaults(force bool) ([]string, error) {
	defaults := domain.DefaultSettings()

	settingsData, err := EncodeSettings(defaults)
	if err != nil {
		return nil, err
	}
	messagesData, err := encodeMessages(defaults.Messages)
	if err != nil {
		return nil, err
	}

	var written []string
	for _, file := range []struct {
		path string
		data []byte
	}{
		{path: s.SettingsPath(), data: settingsData},
		{path: s.MessagesPath(), data: messagesData},
	} {
		if !force {
			if _, err := os.Stat(file.path); err == nil {
				continue
			}
		}
		if err := writeFileAtomic(file.path, file.data); err != nil {
			return written, err
		}
		written = append(written, file.path)
	}

	return written, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), configDirMode); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tempFile.Chmod(configFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}

	cleanup = false
	return nil
}
