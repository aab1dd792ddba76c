package resolver

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/toolforge-dev/toolforge/domain/entities"
	"github.com/toolforge-dev/toolforge/domain/ports"
)

var _ ports.InstallationLocator = (*Resolver)(nil)

// DefaultMarkers are the binaries whose presence under bin/ marks a valid installation.
var DefaultMarkers = []string{"dcc32.exe", "dcc64.exe", "bds.exe"}

// Option is a functional option for configuring a Resolver.
type Option func(*resolverConfig)

type resolverConfig struct {
	roots   []string
	markers []string
	logger  *slog.Logger
}

func defaultResolverConfig() resolverConfig {
	return resolverConfig{
		roots:   StandardRoots(),
		markers: DefaultMarkers,
		logger:  slog.Default(),
	}
}

// WithRoots adds installation roots scanned after the standard ones.
func WithRoots(roots ...string) Option {
	return func(c *resolverConfig) {
		for _, r := range roots {
			if r = strings.TrimSpace(r); r != "" {
				c.roots = append(c.roots, r)
			}
		}
	}
}

// WithoutStandardRoots disables the platform's well-known roots.
func WithoutStandardRoots() Option {
	return func(c *resolverConfig) {
		c.roots = nil
	}
}

// WithMarkers replaces the binaries that identify a valid installation.
func WithMarkers(markers ...string) Option {
	return func(c *resolverConfig) {
		if len(markers) > 0 {
			c.markers = markers
		}
	}
}

// WithLogger sets the logger. A nil logger discards all records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *resolverConfig) {
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		c.logger = logger
	}
}

// Resolver finds installation directories. It holds no mutable state.
type Resolver struct {
	config resolverConfig
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	cfg := defaultResolverConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Resolver{config: cfg}
}

// Roots returns the roots scanned by Scan, in order.
func (r *Resolver) Roots() []string {
	return append([]string(nil), r.config.roots...)
}

// ResolveInstallPath returns the installation directory best matching
// targetVersion. Existing configured directories take priority over the
// scanned roots. It returns false when nothing suitable exists.
func (r *Resolver) ResolveInstallPath(targetVersion string, configuredPaths []string) (string, bool) {
	logger := r.config.logger

	if existing := existingDirs(configuredPaths); len(existing) > 0 {
		if path, ok := r.FindBestMatch(targetVersion, existing); ok {
			logger.Info("using configured installation", "path", path, "target_version", targetVersion)
			return path, true
		}
	}

	candidates := r.Scan()
	switch len(candidates) {
	case 0:
		logger.Warn("no installation found", "target_version", targetVersion, "roots", r.config.roots)
		return "", false
	case 1:
		logger.Info("using only installation found", "path", candidates[0].Path)
		return candidates[0].Path, true
	}

	best := bestCandidate(targetVersion, candidates)
	logger.Info("resolved installation",
		"path", best.Path,
		"version", best.Version.String(),
		"target_version", targetVersion,
		"candidates", len(candidates))
	return best.Path, true
}

// FindBestMatch picks one of paths for targetVersion, using each directory name
// as its version label. A single path, or any target without a version, yields
// the first path. Paths whose label has no version are ignored; if none has
// one, the first path is returned.
func (r *Resolver) FindBestMatch(targetVersion string, paths []string) (string, bool) {
	switch len(paths) {
	case 0:
		return "", false
	case 1:
		return paths[0], true
	}
	if _, ok := ParseVersion(targetVersion); !ok {
		return paths[0], true
	}

	candidates := make([]entities.InstallationCandidate, 0, len(paths))
	for _, p := range paths {
		label := filepath.Base(filepath.Clean(p))
		v, ok := ParseVersion(label)
		if !ok {
			r.config.logger.Debug("ignoring installation without version", "path", p)
			continue
		}
		candidates = append(candidates, entities.InstallationCandidate{Path: p, RawVersionLabel: label, Version: v})
	}
	if len(candidates) == 0 {
		return paths[0], true
	}
	return bestCandidate(targetVersion, candidates).Path, true
}

// Scan lists valid installations under the configured roots, in root order and
// then by directory name. Unreadable roots and entries are skipped.
func (r *Resolver) Scan() []entities.InstallationCandidate {
	var candidates []entities.InstallationCandidate
	for _, root := range r.config.roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			r.config.logger.Debug("skipping installation root", "root", root, "error", err)
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			v, ok := ParseVersion(entry.Name())
			if !ok {
				continue
			}
			path := filepath.Join(root, entry.Name())
			if !r.isInstallation(path) {
				continue
			}
			candidates = append(candidates, entities.InstallationCandidate{
				Path:            path,
				RawVersionLabel: entry.Name(),
				Version:         v,
			})
		}
	}
	return candidates
}

func (r *Resolver) isInstallation(dir string) bool {
	for _, marker := range r.config.markers {
		info, err := os.Stat(filepath.Join(dir, "bin", marker))
		if err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// bestCandidate applies the ordered fallback. candidates must be non-empty.
func bestCandidate(targetVersion string, candidates []entities.InstallationCandidate) entities.InstallationCandidate {
	target, ok := ParseVersion(targetVersion)
	if !ok {
		return candidates[0]
	}

	var sameMajor, higherMajor, highest *entities.InstallationCandidate
	for i := range candidates {
		c := &candidates[i]
		v := c.Version
		if v == target {
			return *c
		}
		if v.Major == target.Major && (sameMajor == nil || v.Minor > sameMajor.Version.Minor) {
			sameMajor = c
		}
		if v.Major > target.Major && (higherMajor == nil ||
			v.Major < higherMajor.Version.Major ||
			(v.Major == higherMajor.Version.Major && v.Minor > higherMajor.Version.Minor)) {
			higherMajor = c
		}
		if highest == nil || v.Compare(highest.Version) > 0 {
			highest = c
		}
	}

	switch {
	case sameMajor != nil:
		return *sameMajor
	case higherMajor != nil:
		return *higherMajor
	default:
		return *highest
	}
}

func existingDirs(paths []string) []string {
	var out []string
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			out = append(out, p)
		}
	}
	return out
}
