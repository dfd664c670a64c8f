package services

import (
	"context"
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"curseupload/internal/core/domain"
	"curseupload/internal/testutil"
)

func newTestCatalog(t *testing.T, client *testutil.MockPlatformClient) (*VersionCatalog, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	c := NewVersionCatalog(client, "token", logger)
	c.Refresh(context.Background())
	return c, hook
}

func TestVersionCatalog_Refresh_FiltersVersionTypes(t *testing.T) {
	client := testutil.NewCatalogMock()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	c := NewVersionCatalog(client, "token", logger)
	c.Refresh(context.Background())

	assert.Equal(t, []string{"1.19.2", "1.20", "1.20.1", "fabric", "forge", "java 17"}, c.Labels())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, 4, hook.LastEntry().Data["version_types"])
	assert.Equal(t, 6, hook.LastEntry().Data["versions"])

	_, ok := c.Lookup("1.20.1-bukkit")
	assert.False(t, ok)
	client.AssertCalled(t, "ListVersionTypes", mock.Anything, "token")
}

func TestVersionCatalog_Resolve(t *testing.T) {
	c, _ := newTestCatalog(t, testutil.NewCatalogMock())

	ids, err := c.Resolve([]string{"1.20.1", "FORGE", "forge", "Java 17"})
	require.NoError(t, err)
	assert.Equal(t, []int64{7498, 8326, 9990}, ids)

	id, ok := c.Lookup("Fabric")
	assert.True(t, ok)
	assert.Equal(t, int64(7499), id)
}

func TestVersionCatalog_Resolve_AllOrNothing(t *testing.T) {
	c, _ := newTestCatalog(t, testutil.NewCatalogMock())

	ids, err := c.Resolve([]string{"1.20.1", "1.99", "forge"})
	assert.Nil(t, ids)
	require.ErrorIs(t, err, domain.ErrInvalidVersion)

	var invalid *domain.InvalidVersionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "1.99", invalid.Label)
	assert.Equal(t, c.Labels(), invalid.Known)
}

func TestVersionCatalog_RefreshFailure_KeepsPreviousMapping(t *testing.T) {
	client := new(testutil.MockPlatformClient)
	client.On("ListVersionTypes", mock.Anything, mock.Anything).Return(testutil.SampleVersionTypes(), nil).Once()
	client.On("ListVersions", mock.Anything, mock.Anything).Return(testutil.SampleVersions(), nil).Once()
	client.On("ListVersionTypes", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	c, hook := newTestCatalog(t, client)
	require.Equal(t, 6, c.Len())

	c.Refresh(context.Background())

	assert.Equal(t, 6, c.Len())
	_, ok := c.Lookup("1.20.1")
	assert.True(t, ok)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "failed to fetch CurseForge versions", hook.LastEntry().Message)
}

func TestVersionCatalog_Refresh_ReplacesMapping(t *testing.T) {
	client := new(testutil.MockPlatformClient)
	client.On("ListVersionTypes", mock.Anything, mock.Anything).Return(testutil.SampleVersionTypes(), nil)
	client.On("ListVersions", mock.Anything, mock.Anything).Return(testutil.SampleVersions(), nil).Once()
	client.On("ListVersions", mock.Anything, mock.Anything).Return([]domain.GameVersion{
		{ID: 10001, Name: "1.21", GameVersionTypeID: 1},
	}, nil)

	c, _ := newTestCatalog(t, client)
	c.Refresh(context.Background())

	assert.Equal(t, []string{"1.21"}, c.Labels())
	_, ok := c.Lookup("1.20.1")
	assert.False(t, ok)
}
