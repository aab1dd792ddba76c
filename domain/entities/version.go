package entities

import "fmt"

// Version is a parsed major.minor toolchain version.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

// String formats the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1, 0 or 1 ordering by major, then minor.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major < other.Major:
		return -1
	case v.Major > other.Major:
		return 1
	case v.Minor < other.Minor:
		return -1
	case v.Minor > other.Minor:
		return 1
	default:
		return 0
	}
}

// InstallationCandidate is a directory that plausibly holds a toolchain installation.
// Candidates are built during a single resolution call and never persisted.
type InstallationCandidate struct {
	// Path is the installation directory.
	Path string `json:"path"`

	// RawVersionLabel is the original directory name, kept for diagnostics.
	RawVersionLabel string `json:"raw_version_label"`

	// Version is the version parsed from RawVersionLabel.
	Version Version `json:"version"`
}
