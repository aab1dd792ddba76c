package toolchains

import (
	"sort"
	"strings"

	"github.com/joho/godotenv"

	domainerrors "github.com/toolforge-dev/toolforge/domain/errors"
	"github.com/toolforge-dev/toolforge/engine"
)

// applyEnvFile overlays the variables of a dotenv file on env.
// An empty path leaves env unchanged.
func applyEnvFile(env []string, path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return env, nil
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, &domainerrors.ConfigError{Field: "envFile", Err: err}
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		env = engine.SetEnv(env, k, vars[k])
	}
	return env, nil
}
