package domain

import "strings"

// VersionType is one entry of the platform's version-type taxonomy.
type VersionType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GameVersion is one entry of the platform's version list.
type GameVersion struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	GameVersionTypeID int64  `json:"gameVersionTypeID"`
}

const gamePrefix = "minecraft"

// Uploadable reports whether versions of this type may be attached to a file.
func (t VersionType) Uploadable() bool {
	return strings.HasPrefix(t.Slug, gamePrefix) || t.Slug == "java" || t.Slug == "modloader"
}

// NormalizeLabel case-folds a version label for catalog lookups.
func NormalizeLabel(label string) string {
	return lower(label)
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
