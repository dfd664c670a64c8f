package curseforge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	log "github.com/sirupsen/logrus"

	"curseupload/internal/config"
	"curseupload/internal/core/domain"
	ports "curseupload/internal/core/ports/output"
)

const (
	versionTypesPath = "/api/game/version-types"
	versionsPath     = "/api/game/versions"
	uploadPathFormat = "/api/projects/%d/upload-file"

	headerAPIToken  = "X-Api-Token"
	headerRequestID = "X-Request-ID"
	userAgent       = "curseupload"
)

type client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a CurseForge upload API client adapter
func NewClient(cfg *config.CurseForgeConfig) ports.PlatformClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// Upload API response structures
type uploadSuccess struct {
	ID int64 `json:"id"`
}

type uploadError struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func (c *client) ListVersionTypes(ctx context.Context, token string) ([]domain.VersionType, error) {
	var types []domain.VersionType
	if err := c.getJSON(ctx, versionTypesPath, token, &types); err != nil {
		return nil, fmt.Errorf("list version types: %w", err)
	}
	return types, nil
}

func (c *client) ListVersions(ctx context.Context, token string) ([]domain.GameVersion, error) {
	var versions []domain.GameVersion
	if err := c.getJSON(ctx, versionsPath, token, &versions); err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}

func (c *client) getJSON(ctx context.Context, path, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, token)
	// Setting Accept-Encoding by hand disables transparent decompression
	// in net/http, so gzip bodies are decoded below.
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %s", path, resp.Status)
	}

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("open gzip body: %w", err)
		}
		defer gz.Close()
		body = gz
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *client) UploadFile(ctx context.Context, upload ports.UploadRequest) (int64, error) {
	body, contentType, err := encodeUpload(upload)
	if err != nil {
		return 0, &domain.UploadFailedError{Err: err}
	}

	reqURL := c.baseURL + fmt.Sprintf(uploadPathFormat, upload.ProjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return 0, &domain.UploadFailedError{Err: err}
	}
	requestID := c.setHeaders(req, upload.Token)
	req.Header.Set("Content-Type", contentType)

	log.WithFields(log.Fields{
		"url":        reqURL,
		"file":       filepath.Base(upload.FilePath),
		"request_id": requestID,
	}).Debug("sending upload request")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &domain.UploadFailedError{Err: err}
	}
	defer drainAndClose(resp.Body)

	return interpretUploadResponse(resp)
}

// interpretUploadResponse maps an upload response to a file id or a
// classified error. A structured body is only trusted on a JSON content type.
func interpretUploadResponse(resp *http.Response) (int64, error) {
	if resp.StatusCode == http.StatusOK {
		var success uploadSuccess
		if err := json.NewDecoder(resp.Body).Decode(&success); err != nil {
			return 0, &domain.UploadFailedError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Err:        fmt.Errorf("decode upload response: %w", err),
			}
		}
		return success.ID, nil
	}

	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "json") {
		var remote uploadError
		if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
			return 0, &domain.UploadFailedError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Err:        fmt.Errorf("decode error response: %w", err),
			}
		}
		return 0, &domain.RemoteRejectedError{
			StatusCode: resp.StatusCode,
			Code:       remote.ErrorCode,
			Message:    remote.ErrorMessage,
		}
	}

	return 0, &domain.UploadFailedError{StatusCode: resp.StatusCode, Status: resp.Status}
}

func encodeUpload(upload ports.UploadRequest) (io.Reader, string, error) {
	metadata, err := json.Marshal(upload.Metadata)
	if err != nil {
		return nil, "", fmt.Errorf("encode metadata: %w", err)
	}

	f, err := os.Open(upload.FilePath)
	if err != nil {
		return nil, "", fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="metadata"`)
	header.Set("Content-Type", "application/json")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create metadata part: %w", err)
	}
	if _, err := part.Write(metadata); err != nil {
		return nil, "", fmt.Errorf("write metadata part: %w", err)
	}

	part, err = writer.CreateFormFile("file", filepath.Base(upload.FilePath))
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy upload file: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func (c *client) setHeaders(req *http.Request, token string) string {
	requestID := uuid.New().String()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(headerAPIToken, token)
	req.Header.Set(headerRequestID, requestID)
	return requestID
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
