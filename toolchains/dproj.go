package toolchains

import (
	"encoding/xml"
	"errors"
	"os"
	"strings"
)

var (
	errNoPropertyGroup  = errors.New("PropertyGroup not found in project file")
	errNoProjectVersion = errors.New("ProjectVersion element not found in project file")
)

// dprojDocument matches elements by local name, so the MSBuild namespace is optional.
type dprojDocument struct {
	PropertyGroups []struct {
		ProjectVersion *string `xml:"ProjectVersion"`
	} `xml:"PropertyGroup"`
}

// ReadProjectVersion returns the ProjectVersion of the first PropertyGroup in a
// Delphi project file.
func ReadProjectVersion(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var doc dprojDocument
	if err := xml.NewDecoder(f).Decode(&doc); err != nil {
		return "", err
	}
	if len(doc.PropertyGroups) == 0 {
		return "", errNoPropertyGroup
	}

	v := doc.PropertyGroups[0].ProjectVersion
	if v == nil {
		return "", errNoProjectVersion
	}
	return strings.TrimSpace(*v), nil
}
