package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curseupload/internal/core/domain"
)

func TestBuildArtifact(t *testing.T) {
	a, err := buildArtifact(uploadOptions{
		projectID:       "12345",
		file:            "build/libs/mod.jar",
		changelog:       "notes",
		changelogType:   "md",
		releaseType:     "beta",
		displayName:     "Mod 1.0",
		gameVersions:    []string{"1.20.1", "forge"},
		requires:        []string{"fabric-api"},
		embeds:          []string{"fabric-api"},
		additionalFiles: []string{"build/libs/mod-api.jar"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12345), a.ProjectID())
	assert.Equal(t, domain.ChangelogTypeMarkdown, a.ChangelogType())
	assert.Equal(t, domain.ReleaseTypeBeta, a.ReleaseType())
	assert.Equal(t, "Mod 1.0", a.DisplayName())
	assert.Equal(t, []string{"1.20.1", "forge"}, a.GameVersions())
	assert.Equal(t, []domain.Relation{{Slug: "fabric-api", Type: domain.RelationEmbedded}}, a.Relations())

	children := a.Children()
	require.Len(t, children, 1)
	assert.Equal(t, domain.ReleaseTypeBeta, children[0].ReleaseType())
	assert.Equal(t, a.Relations(), children[0].Relations())
}

func TestBuildArtifact_InvalidInput(t *testing.T) {
	_, err := buildArtifact(uploadOptions{projectID: "abc", file: "mod.jar"})
	assert.Error(t, err)

	_, err = buildArtifact(uploadOptions{projectID: "1", file: "mod.jar", releaseType: "nightly"})
	assert.ErrorIs(t, err, domain.ErrInvalidEnum)
}
