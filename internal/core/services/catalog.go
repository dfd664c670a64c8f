package services

import (
	"context"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"curseupload/internal/core/domain"
	output "curseupload/internal/core/ports/output"
)

// VersionCatalog caches the platform's uploadable game versions and resolves
// human readable labels ("1.20.1", "Forge", "Java 17") to numeric ids.
type VersionCatalog struct {
	client output.PlatformClient
	token  string
	logger log.FieldLogger

	mu       sync.RWMutex
	versions map[string]int64
}

// NewVersionCatalog creates an empty catalog. Call Refresh to populate it.
func NewVersionCatalog(client output.PlatformClient, token string, logger log.FieldLogger) *VersionCatalog {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &VersionCatalog{
		client:   client,
		token:    token,
		logger:   logger,
		versions: make(map[string]int64),
	}
}

// Refresh rebuilds the catalog from the platform. On failure the previous
// mapping stays in place and the error is only logged.
func (c *VersionCatalog) Refresh(ctx context.Context) {
	versions, types, err := c.fetch(ctx)
	if err != nil {
		c.logger.WithError(err).Error("failed to fetch CurseForge versions")
		return
	}

	c.mu.Lock()
	c.versions = versions
	c.mu.Unlock()

	c.logger.WithFields(log.Fields{
		"versions":      len(versions),
		"version_types": types,
	}).Debug("version catalog refreshed")
}

// fetch returns the label map built from uploadable version types and the
// number of such types.
func (c *VersionCatalog) fetch(ctx context.Context) (map[string]int64, int, error) {
	types, err := c.client.ListVersionTypes(ctx, c.token)
	if err != nil {
		return nil, 0, err
	}

	typeIDs := make(map[int64]struct{})
	for _, t := range types {
		if t.Uploadable() {
			typeIDs[t.ID] = struct{}{}
		}
	}

	all, err := c.client.ListVersions(ctx, c.token)
	if err != nil {
		return nil, 0, err
	}

	versions := make(map[string]int64, len(all))
	for _, v := range all {
		if _, ok := typeIDs[v.GameVersionTypeID]; ok {
			versions[domain.NormalizeLabel(v.Name)] = v.ID
		}
	}
	return versions, len(typeIDs), nil
}

// Lookup returns the id for label and whether it is known.
func (c *VersionCatalog) Lookup(label string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.versions[domain.NormalizeLabel(label)]
	return id, ok
}

// Resolve maps every label to its id. A single unknown label fails the whole
// call. The result holds distinct ids in ascending order.
func (c *VersionCatalog) Resolve(labels []string) ([]int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[int64]struct{}, len(labels))
	ids := make([]int64, 0, len(labels))
	for _, label := range labels {
		id, ok := c.versions[domain.NormalizeLabel(label)]
		if !ok {
			return nil, &domain.InvalidVersionError{Label: label, Known: c.labelsLocked()}
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Labels returns the known labels, sorted.
func (c *VersionCatalog) Labels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.labelsLocked()
}

func (c *VersionCatalog) labelsLocked() []string {
	labels := make([]string, 0, len(c.versions))
	for label := range c.versions {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func (c *VersionCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.versions)
}
