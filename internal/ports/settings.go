package ports

import "github.com/bnema/tpx/internal/domain"

type SettingsProvider interface {
	Settings() domain.Settings
}

// StaticSettings serves a fixed snapshot.
type StaticSettings domain.Settings

func (s StaticSettings) Settings() domain.Settings {
	return domain.Settings(s)
}
