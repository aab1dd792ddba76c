package ports

// InstallationLocator finds a toolchain installation directory for a target version.
// A miss is not an error: callers fall back to the bare executable on PATH.
type InstallationLocator interface {
	ResolveInstallPath(targetVersion string, configuredPaths []string) (string, bool)
}
