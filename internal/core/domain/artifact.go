package domain

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

type ArtifactState string

const (
	ArtifactStateConfigured    ArtifactState = "CONFIGURED"
	ArtifactStateValidated     ArtifactState = "VALIDATED"
	ArtifactStateMetadataBuilt ArtifactState = "METADATA_BUILT"
	ArtifactStateUploaded      ArtifactState = "UPLOADED"
	ArtifactStateFailed        ArtifactState = "FAILED"
)

// Relation links an artifact to another project on the platform.
type Relation struct {
	Slug string
	Type RelationType
}

// Artifact is one uploadable file. A primary artifact owns its children; a
// child keeps a non-owning reference to its primary and takes its game
// versions from it through the parent file id.
type Artifact struct {
	path      string
	projectID int64
	parent    *Artifact
	children  []*Artifact

	changelog     string
	changelogType ChangelogType
	displayName   string
	releaseType   ReleaseType
	manualRelease bool
	relations     map[string]RelationType
	gameVersions  []string
	versionSet    map[string]struct{}

	fileID int64
	state  ArtifactState
}

// NewArtifact creates a primary artifact for the file at path, to be uploaded
// to the given project.
func NewArtifact(path string, projectID int64) *Artifact {
	return newArtifact(path, projectID, nil)
}

func newArtifact(path string, projectID int64, parent *Artifact) *Artifact {
	return &Artifact{
		path:          path,
		projectID:     projectID,
		parent:        parent,
		changelogType: ChangelogTypeText,
		releaseType:   ReleaseTypeRelease,
		relations:     make(map[string]RelationType),
		versionSet:    make(map[string]struct{}),
		state:         ArtifactStateConfigured,
	}
}

func (a *Artifact) Path() string                 { return a.path }
func (a *Artifact) FileName() string             { return filepath.Base(a.path) }
func (a *Artifact) ProjectID() int64             { return a.projectID }
func (a *Artifact) Parent() *Artifact            { return a.parent }
func (a *Artifact) IsChild() bool                { return a.parent != nil }
func (a *Artifact) Changelog() string            { return a.changelog }
func (a *Artifact) ChangelogType() ChangelogType { return a.changelogType }
func (a *Artifact) DisplayName() string          { return a.displayName }
func (a *Artifact) ReleaseType() ReleaseType     { return a.releaseType }
func (a *Artifact) ManualRelease() bool          { return a.manualRelease }
func (a *Artifact) State() ArtifactState         { return a.state }

// FileID is the remote file id, zero until the artifact has been uploaded.
func (a *Artifact) FileID() int64 { return a.fileID }

func (a *Artifact) Uploaded() bool { return a.state == ArtifactStateUploaded }

// Children returns the child artifacts in the order they were added.
func (a *Artifact) Children() []*Artifact {
	out := make([]*Artifact, len(a.children))
	copy(out, a.children)
	return out
}

// GameVersions returns the requested version labels in insertion order.
func (a *Artifact) GameVersions() []string {
	out := make([]string, len(a.gameVersions))
	copy(out, a.gameVersions)
	return out
}

// Relations returns the configured relations sorted by slug.
func (a *Artifact) Relations() []Relation {
	out := make([]Relation, 0, len(a.relations))
	for slug, t := range a.relations {
		out = append(out, Relation{Slug: slug, Type: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// --- Configuration ---

func (a *Artifact) SetChangelog(changelog string) *Artifact {
	a.changelog = changelog
	return a
}

func (a *Artifact) SetDisplayName(name string) *Artifact {
	a.displayName = name
	return a
}

// SetManualRelease marks the file to be held back until it is released by
// hand on the platform.
func (a *Artifact) SetManualRelease(manual bool) *Artifact {
	a.manualRelease = manual
	return a
}

func (a *Artifact) SetChangelogType(t ChangelogType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: changelog type %q", ErrInvalidEnum, t)
	}
	a.changelogType = t
	return nil
}

func (a *Artifact) SetReleaseType(t ReleaseType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: release type %q", ErrInvalidEnum, t)
	}
	a.releaseType = t
	return nil
}

// AddGameVersion requests a game, loader or java version label. Labels are
// deduplicated case-insensitively.
func (a *Artifact) AddGameVersion(label string) error {
	if a.parent != nil {
		return fmt.Errorf("%w: child artifacts can not have their own versions", ErrStructuralConstraint)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("%w: game version label", ErrMissingField)
	}
	key := NormalizeLabel(label)
	if _, ok := a.versionSet[key]; ok {
		return nil
	}
	a.versionSet[key] = struct{}{}
	a.gameVersions = append(a.gameVersions, label)
	return nil
}

func (a *Artifact) ModLoader(loader string) error {
	return a.AddGameVersion(loader)
}

func (a *Artifact) JavaVersion(version string) error {
	return a.AddGameVersion(version)
}

// AddRelation sets the relation to the project identified by slug, replacing
// any relation already configured for that slug.
func (a *Artifact) AddRelation(slug string, t RelationType) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return fmt.Errorf("%w: relation slug", ErrMissingField)
	}
	if !t.Valid() {
		return fmt.Errorf("%w: relation type %q", ErrInvalidEnum, t)
	}
	a.relations[slug] = t
	return nil
}

func (a *Artifact) Incompatible(slug string) error { return a.AddRelation(slug, RelationIncompatible) }
func (a *Artifact) Requires(slug string) error     { return a.AddRelation(slug, RelationRequired) }
func (a *Artifact) Embeds(slug string) error       { return a.AddRelation(slug, RelationEmbedded) }
func (a *Artifact) Tool(slug string) error         { return a.AddRelation(slug, RelationTool) }
func (a *Artifact) Optional(slug string) error     { return a.AddRelation(slug, RelationOptional) }

// AddAdditionalFile registers a child artifact uploaded alongside this one.
// The child copies the current changelog, changelog type, release type,
// manual release flag and relations; later changes here do not reach it.
func (a *Artifact) AddAdditionalFile(path string) (*Artifact, error) {
	if a.parent != nil {
		return nil, fmt.Errorf("%w: child artifacts must not have their own children", ErrStructuralConstraint)
	}

	child := newArtifact(path, a.projectID, a)
	child.changelog = a.changelog
	child.changelogType = a.changelogType
	child.releaseType = a.releaseType
	child.manualRelease = a.manualRelease
	for slug, t := range a.relations {
		child.relations[slug] = t
	}

	a.children = append(a.children, child)
	return child, nil
}

// --- Lifecycle ---

func (a *Artifact) MarkValidated()     { a.state = ArtifactStateValidated }
func (a *Artifact) MarkMetadataBuilt() { a.state = ArtifactStateMetadataBuilt }
func (a *Artifact) MarkFailed()        { a.state = ArtifactStateFailed }

// MarkUploaded records the remote file id. It succeeds only once.
func (a *Artifact) MarkUploaded(fileID int64) error {
	if a.state == ArtifactStateUploaded {
		return fmt.Errorf("%w: %s has file id %d", ErrAlreadyUploaded, a.FileName(), a.fileID)
	}
	a.fileID = fileID
	a.state = ArtifactStateUploaded
	return nil
}
