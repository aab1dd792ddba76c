package resolver

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/toolforge-dev/toolforge/domain/entities"
)

var (
	strictVersion   = regexp.MustCompile(`^(\d+)\.(\d+)$`)
	embeddedVersion = regexp.MustCompile(`(\d+)\.(\d+)`)
)

// ParseVersion extracts a major.minor version from label.
// A strict "22.0" form is accepted as is; otherwise the first digits.digits
// substring is used, so "Studio 22.0" parses as 22.0.
func ParseVersion(label string) (entities.Version, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return entities.Version{}, false
	}

	m := strictVersion.FindStringSubmatch(label)
	if m == nil {
		m = embeddedVersion.FindStringSubmatch(label)
	}
	if m == nil {
		return entities.Version{}, false
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return entities.Version{}, false
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return entities.Version{}, false
	}
	return entities.Version{Major: major, Minor: minor}, true
}
