package curseforge

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curseupload/internal/config"
	"curseupload/internal/core/domain"
	ports "curseupload/internal/core/ports/output"
	"curseupload/internal/testutil"
)

const testToken = "test-token"

func newTestClient(t *testing.T, fake *testutil.FakePlatform) ports.PlatformClient {
	t.Helper()
	srv := fake.Start(t)
	return NewClient(&config.CurseForgeConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func uploadRequest(t *testing.T) ports.UploadRequest {
	t.Helper()
	return ports.UploadRequest{
		Token:     testToken,
		ProjectID: 12345,
		Metadata: domain.Metadata{
			Changelog:     "Release notes",
			ChangelogType: domain.ChangelogTypeMarkdown,
			ReleaseType:   domain.ReleaseTypeBeta,
			GameVersions:  []int64{7498, 9990},
		},
		FilePath: writeFile(t, "mod-1.0.jar", "jar-bytes"),
	}
}

func TestClient_ListVersions(t *testing.T) {
	for _, gz := range []bool{false, true} {
		fake := testutil.NewFakePlatform(testToken)
		fake.Gzip = gz
		c := newTestClient(t, fake)

		types, err := c.ListVersionTypes(context.Background(), testToken)
		require.NoError(t, err, "gzip=%v", gz)
		assert.Equal(t, testutil.SampleVersionTypes(), types)

		versions, err := c.ListVersions(context.Background(), testToken)
		require.NoError(t, err, "gzip=%v", gz)
		assert.Equal(t, testutil.SampleVersions(), versions)
		assert.Equal(t, 2, fake.ListingRequests())
	}
}

func TestClient_ListVersions_BadToken(t *testing.T) {
	c := newTestClient(t, testutil.NewFakePlatform(testToken))

	_, err := c.ListVersions(context.Background(), "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_UploadFile_Success(t *testing.T) {
	fake := testutil.NewFakePlatform(testToken)
	c := newTestClient(t, fake)
	req := uploadRequest(t)

	id, err := c.UploadFile(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(999), id)

	uploads := fake.Uploads()
	require.Len(t, uploads, 1)
	got := uploads[0]
	assert.Equal(t, int64(12345), got.ProjectID)
	assert.Equal(t, testToken, got.Token)
	assert.NotEmpty(t, got.RequestID)
	assert.Equal(t, "mod-1.0.jar", got.FileName)
	assert.Equal(t, []byte("jar-bytes"), got.Content)
	assert.Equal(t, req.Metadata, got.Metadata)
	assert.Contains(t, got.RawMetadata, `"isMarkedForManualRelease":false`)
	assert.NotContains(t, got.RawMetadata, "parentFileID")
}

func TestClient_UploadFile_RemoteRejected(t *testing.T) {
	fake := testutil.NewFakePlatform(testToken)
	fake.UploadHandler = func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"errorCode": 1001, "errorMessage": "Bad changelog"})
	}
	c := newTestClient(t, fake)

	id, err := c.UploadFile(context.Background(), uploadRequest(t))
	assert.Zero(t, id)

	var rejected *domain.RemoteRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, http.StatusBadRequest, rejected.StatusCode)
	assert.Equal(t, 1001, rejected.Code)
	assert.Equal(t, "Bad changelog", rejected.Message)
}

func TestClient_UploadFile_PlainTextFailure(t *testing.T) {
	fake := testutil.NewFakePlatform(testToken)
	fake.UploadHandler = func(c *gin.Context) {
		c.String(http.StatusBadGateway, "upstream unavailable")
	}
	c := newTestClient(t, fake)

	_, err := c.UploadFile(context.Background(), uploadRequest(t))

	var failed *domain.UploadFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, http.StatusBadGateway, failed.StatusCode)
	assert.Equal(t, "502 Bad Gateway", failed.Status)
	assert.NotErrorIs(t, err, domain.ErrRemoteRejected)
}

func TestClient_UploadFile_MalformedSuccessBody(t *testing.T) {
	fake := testutil.NewFakePlatform(testToken)
	fake.UploadHandler = func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte("{not json"))
	}
	c := newTestClient(t, fake)

	_, err := c.UploadFile(context.Background(), uploadRequest(t))
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestClient_UploadFile_MalformedErrorBody(t *testing.T) {
	fake := testutil.NewFakePlatform(testToken)
	fake.UploadHandler = func(c *gin.Context) {
		c.Data(http.StatusBadRequest, "application/json", []byte("<html>"))
	}
	c := newTestClient(t, fake)

	_, err := c.UploadFile(context.Background(), uploadRequest(t))

	var failed *domain.UploadFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, http.StatusBadRequest, failed.StatusCode)
}

func TestClient_UploadFile_TransportFailure(t *testing.T) {
	srv := testutil.NewFakePlatform(testToken).Start(t)
	c := NewClient(&config.CurseForgeConfig{BaseURL: srv.URL, Timeout: time.Second})
	srv.Close()

	_, err := c.UploadFile(context.Background(), uploadRequest(t))

	var failed *domain.UploadFailedError
	require.True(t, errors.As(err, &failed))
	assert.Zero(t, failed.StatusCode)
}

func TestClient_UploadFile_MissingFile(t *testing.T) {
	c := newTestClient(t, testutil.NewFakePlatform(testToken))
	req := uploadRequest(t)
	req.FilePath = filepath.Join(t.TempDir(), "gone.jar")

	_, err := c.UploadFile(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
