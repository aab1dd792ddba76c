package config

import (
	"sync/atomic"

	"github.com/toolforge-dev/toolforge/domain/entities"
	"github.com/toolforge-dev/toolforge/domain/ports"
)

var _ ports.SettingsProvider = (*Provider)(nil)

// Provider publishes the current settings snapshot. Readers never block and
// always see a complete snapshot.
type Provider struct {
	current atomic.Pointer[entities.Settings]
}

// NewProvider creates a Provider holding initial, or defaults when nil.
func NewProvider(initial *entities.Settings) *Provider {
	p := &Provider{}
	p.Store(initial)
	return p
}

// Current implements ports.SettingsProvider.
func (p *Provider) Current() *entities.Settings {
	return p.current.Load()
}

// Store publishes s as the new snapshot. Callers must not modify s afterwards.
func (p *Provider) Store(s *entities.Settings) {
	if s == nil {
		s = entities.DefaultSettings()
	}
	p.current.Store(s)
}
