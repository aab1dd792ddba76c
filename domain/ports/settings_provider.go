package ports

import "github.com/toolforge-dev/toolforge/domain/entities"

// SettingsProvider hands out the current configuration snapshot.
// Implementations may swap snapshots at any time (hot reload); callers take one
// snapshot per call and never mutate it.
type SettingsProvider interface {
	// Current returns the latest settings snapshot. It never returns nil.
	Current() *entities.Settings
}

// SettingsFunc adapts a plain function to SettingsProvider.
type SettingsFunc func() *entities.Settings

// Current implements SettingsProvider.
func (f SettingsFunc) Current() *entities.Settings {
	return f()
}
