package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	log "github.com/sirupsen/logrus"

	"curseupload/internal/core/domain"
)

// ReceivedUpload is one upload request as seen by FakePlatform.
type ReceivedUpload struct {
	ProjectID   int64
	Token       string
	RequestID   string
	RawMetadata string
	Metadata    domain.Metadata
	FileName    string
	Content     []byte
}

// FakePlatform emulates the subset of the upload API the client talks to.
type FakePlatform struct {
	Token        string
	VersionTypes []domain.VersionType
	Versions     []domain.GameVersion
	// Gzip compresses the version listings.
	Gzip bool
	// UploadHandler replaces the default upload endpoint when set.
	UploadHandler gin.HandlerFunc

	mu         sync.Mutex
	nextID     int64
	uploads    []ReceivedUpload
	getCounter int
}

func NewFakePlatform(token string) *FakePlatform {
	return &FakePlatform{
		Token:        token,
		VersionTypes: SampleVersionTypes(),
		Versions:     SampleVersions(),
		nextID:       999,
	}
}

// Start serves the fake on a local listener closed when the test ends.
func (f *FakePlatform) Start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(f.Router())
	t.Cleanup(srv.Close)
	return srv
}

func (f *FakePlatform) Router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestLogging(), f.requireToken())

	api := r.Group("/api")
	api.GET("/game/version-types", func(c *gin.Context) { f.writeListing(c, f.VersionTypes) })
	api.GET("/game/versions", func(c *gin.Context) { f.writeListing(c, f.Versions) })
	api.POST("/projects/:id/upload-file", func(c *gin.Context) {
		if f.UploadHandler != nil {
			f.UploadHandler(c)
			return
		}
		f.handleUpload(c)
	})
	return r
}

func (f *FakePlatform) Uploads() []ReceivedUpload {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ReceivedUpload, len(f.uploads))
	copy(out, f.uploads)
	return out
}

// SetToken changes the accepted token while the server is running.
func (f *FakePlatform) SetToken(token string) {
	f.mu.Lock()
	f.Token = token
	f.mu.Unlock()
}

// ListingRequests counts GET requests served.
func (f *FakePlatform) ListingRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCounter
}

func requestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.WithFields(log.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": c.GetHeader("X-Request-ID"),
		}).Debug("fake platform request")
	}
}

func (f *FakePlatform) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		f.mu.Lock()
		token := f.Token
		f.mu.Unlock()
		if c.GetHeader("X-Api-Token") != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"errorCode":    401,
				"errorMessage": "Invalid API token",
			})
			return
		}
		c.Next()
	}
}

func (f *FakePlatform) writeListing(c *gin.Context, v interface{}) {
	f.mu.Lock()
	f.getCounter++
	f.mu.Unlock()

	if !f.Gzip {
		c.JSON(http.StatusOK, v)
		return
	}

	c.Header("Content-Encoding", "gzip")
	c.Header("Content-Type", "application/json")
	c.Status(http.StatusOK)
	gz := gzip.NewWriter(c.Writer)
	defer gz.Close()
	_ = json.NewEncoder(gz).Encode(v)
}

func (f *FakePlatform) handleUpload(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errorCode": 404, "errorMessage": "Project not found"})
		return
	}

	raw := c.PostForm("metadata")
	var md domain.Metadata
	if err := json.Unmarshal([]byte(raw), &md); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errorCode": 1000, "errorMessage": "Invalid metadata"})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errorCode": 1002, "errorMessage": "Missing file"})
		return
	}
	file, err := fh.Open()
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.uploads = append(f.uploads, ReceivedUpload{
		ProjectID:   projectID,
		Token:       c.GetHeader("X-Api-Token"),
		RequestID:   c.GetHeader("X-Request-ID"),
		RawMetadata: raw,
		Metadata:    md,
		FileName:    fh.Filename,
		Content:     content,
	})
	f.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"id": id})
}
