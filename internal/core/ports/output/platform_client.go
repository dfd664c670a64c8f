package ports

import (
	"context"

	"curseupload/internal/core/domain"
)

// UploadRequest is everything the platform needs to accept one file.
type UploadRequest struct {
	Token     string
	ProjectID int64
	Metadata  domain.Metadata
	FilePath  string
}

// PlatformClient is the outbound port to the mod hosting platform.
type PlatformClient interface {
	ListVersionTypes(ctx context.Context, token string) ([]domain.VersionType, error)
	ListVersions(ctx context.Context, token string) ([]domain.GameVersion, error)
	// UploadFile returns the remote file id. Failures are
	// *domain.RemoteRejectedError or *domain.UploadFailedError.
	UploadFile(ctx context.Context, req UploadRequest) (int64, error)
}
