package domain

import "fmt"

type ChangelogType string

const (
	ChangelogTypeText     ChangelogType = "text"
	ChangelogTypeMarkdown ChangelogType = "markdown"
	ChangelogTypeHTML     ChangelogType = "html"
)

func (t ChangelogType) Valid() bool {
	switch t {
	case ChangelogTypeText, ChangelogTypeMarkdown, ChangelogTypeHTML:
		return true
	}
	return false
}

type ReleaseType string

const (
	ReleaseTypeRelease ReleaseType = "release"
	ReleaseTypeBeta    ReleaseType = "beta"
	ReleaseTypeAlpha   ReleaseType = "alpha"
)

func (t ReleaseType) Valid() bool {
	switch t {
	case ReleaseTypeRelease, ReleaseTypeBeta, ReleaseTypeAlpha:
		return true
	}
	return false
}

// RelationType values are the strings the upload API expects.
type RelationType string

const (
	RelationIncompatible RelationType = "incompatible"
	RelationRequired     RelationType = "requiredDependency"
	RelationEmbedded     RelationType = "embeddedLibrary"
	RelationTool         RelationType = "tool"
	RelationOptional     RelationType = "optionalDependency"
)

func (t RelationType) Valid() bool {
	switch t {
	case RelationIncompatible, RelationRequired, RelationEmbedded, RelationTool, RelationOptional:
		return true
	}
	return false
}

// ParseChangelogType accepts the wire value case-insensitively; "md" and
// "plain" are accepted as aliases.
func ParseChangelogType(s string) (ChangelogType, error) {
	switch lower(s) {
	case "", "text", "plain":
		return ChangelogTypeText, nil
	case "markdown", "md":
		return ChangelogTypeMarkdown, nil
	case "html":
		return ChangelogTypeHTML, nil
	}
	return "", fmt.Errorf("%w: changelog type %q", ErrInvalidEnum, s)
}

func ParseReleaseType(s string) (ReleaseType, error) {
	if s == "" {
		return ReleaseTypeRelease, nil
	}
	t := ReleaseType(lower(s))
	if !t.Valid() {
		return "", fmt.Errorf("%w: release type %q", ErrInvalidEnum, s)
	}
	return t, nil
}
