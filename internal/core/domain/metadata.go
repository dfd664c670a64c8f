package domain

// DefaultChangelog is sent when an artifact has no changelog of its own.
const DefaultChangelog = "Coming Soon!"

type ProjectRelation struct {
	Slug string       `json:"slug"`
	Type RelationType `json:"type"`
}

type ProjectRelations struct {
	Projects []ProjectRelation `json:"projects"`
}

// Metadata is the JSON part of an upload request. Exactly one of
// GameVersions and ParentFileID is set.
type Metadata struct {
	Changelog                string            `json:"changelog"`
	ChangelogType            ChangelogType     `json:"changelogType"`
	DisplayName              string            `json:"displayName,omitempty"`
	ReleaseType              ReleaseType       `json:"releaseType"`
	GameVersions             []int64           `json:"gameVersions,omitempty"`
	ParentFileID             *int64            `json:"parentFileID,omitempty"`
	Relations                *ProjectRelations `json:"relations,omitempty"`
	IsMarkedForManualRelease bool              `json:"isMarkedForManualRelease"`
}

// NewMetadata derives the wire record for a. versionIDs is used only for a
// primary artifact; a child gets its parent's file id instead.
func NewMetadata(a *Artifact, versionIDs []int64) Metadata {
	md := Metadata{
		Changelog:                a.changelog,
		ChangelogType:            a.changelogType,
		DisplayName:              a.displayName,
		ReleaseType:              a.releaseType,
		IsMarkedForManualRelease: a.manualRelease,
	}
	if md.Changelog == "" {
		md.Changelog = DefaultChangelog
	}

	if relations := a.Relations(); len(relations) > 0 {
		md.Relations = &ProjectRelations{Projects: make([]ProjectRelation, 0, len(relations))}
		for _, r := range relations {
			md.Relations.Projects = append(md.Relations.Projects, ProjectRelation{Slug: r.Slug, Type: r.Type})
		}
	}

	if a.parent != nil {
		parentID := a.parent.fileID
		md.ParentFileID = &parentID
	} else {
		md.GameVersions = append([]int64(nil), versionIDs...)
	}

	return md
}
