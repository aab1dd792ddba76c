package toolchains

import (
	"testing"

	"github.com/toolforge-dev/toolforge/domain/entities"
	"github.com/toolforge-dev/toolforge/domain/ports"
	"github.com/toolforge-dev/toolforge/engine"
	"github.com/toolforge-dev/toolforge/internal/testutil"
)

const printArgs = `for a in "$@"; do echo "[$a]"; done`

func newTestAdapters(t *testing.T, settings *entities.Settings, opts ...Option) *Adapters {
	t.Helper()
	testutil.SkipOnWindows(t)

	provider := ports.SettingsFunc(func() *entities.Settings { return settings })
	eng := engine.New(provider, engine.WithLogger(nil))
	return New(eng, append([]Option{WithLogger(nil)}, opts...)...)
}

func settingsWith(mutate func(*entities.Settings)) *entities.Settings {
	s := entities.DefaultSettings()
	mutate(s)
	return s
}
