package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"curseupload/internal/core/domain"
	output "curseupload/internal/core/ports/output"
)

// UploadSession owns the API token, the debug flag and the version catalog
// shared by every artifact it uploads.
type UploadSession struct {
	client  output.PlatformClient
	token   string
	debug   bool
	logger  log.FieldLogger
	catalog *VersionCatalog
}

type Option func(*UploadSession)

// WithDebug turns on dry-run mode: metadata is logged instead of uploaded.
func WithDebug(debug bool) Option {
	return func(s *UploadSession) { s.debug = debug }
}

func WithLogger(logger log.FieldLogger) Option {
	return func(s *UploadSession) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewUploadSession creates a session and loads the version catalog.
func NewUploadSession(ctx context.Context, client output.PlatformClient, token string, opts ...Option) *UploadSession {
	s := &UploadSession{
		client: client,
		token:  token,
		logger: log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.catalog = NewVersionCatalog(client, token, s.logger)
	s.catalog.Refresh(ctx)
	return s
}

func (s *UploadSession) Catalog() *VersionCatalog { return s.catalog }
func (s *UploadSession) Debug() bool              { return s.debug }

// Upload uploads a primary artifact followed by its children in the order
// they were added. If the primary fails nothing else is attempted. A failing
// child does not stop its siblings; their errors are joined. Artifacts that
// are already uploaded are reported with their file id and not sent again,
// so calling Upload after a partial failure retries only what failed.
func (s *UploadSession) Upload(ctx context.Context, primary *domain.Artifact) (*domain.UploadReport, error) {
	if primary.IsChild() {
		return nil, fmt.Errorf("%w: upload the primary artifact, not %s", domain.ErrStructuralConstraint, primary.FileName())
	}

	report := &domain.UploadReport{}

	res := s.uploadOnce(ctx, primary)
	report.Results = append(report.Results, res)
	if res.Err != nil {
		return report, res.Err
	}

	var errs []error
	for _, child := range primary.Children() {
		res := s.uploadOnce(ctx, child)
		report.Results = append(report.Results, res)
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", child.FileName(), res.Err))
		}
	}
	return report, errors.Join(errs...)
}

func (s *UploadSession) uploadOnce(ctx context.Context, a *domain.Artifact) domain.UploadResult {
	if a.Uploaded() {
		return domain.UploadResult{
			File:            a.FileName(),
			ProjectID:       a.ProjectID(),
			FileID:          a.FileID(),
			AlreadyUploaded: true,
		}
	}
	return s.uploadArtifact(ctx, a)
}

func (s *UploadSession) uploadArtifact(ctx context.Context, a *domain.Artifact) domain.UploadResult {
	res := domain.UploadResult{File: a.FileName(), ProjectID: a.ProjectID(), DryRun: s.debug}

	fail := func(err error) domain.UploadResult {
		a.MarkFailed()
		s.logFailure(a, err)
		res.Err = err
		return res
	}

	if err := s.Validate(ctx, a); err != nil {
		return fail(err)
	}

	md, err := s.BuildMetadata(a)
	if err != nil {
		return fail(err)
	}

	fileID, err := s.performUpload(ctx, a, md)
	if err != nil {
		return fail(err)
	}
	res.FileID = fileID
	return res
}

// Validate checks that a has what an upload needs. Outside debug mode it
// refreshes the version catalog first so that versions published since the
// session started are accepted.
func (s *UploadSession) Validate(ctx context.Context, a *domain.Artifact) error {
	if !s.debug {
		s.catalog.Refresh(ctx)
	}

	if a.Changelog() == "" {
		return fmt.Errorf("%w: changelog cannot be empty", domain.ErrMissingField)
	}

	// Children inherit the primary's versions through parentFileID.
	if !a.IsChild() && len(a.GameVersions()) == 0 {
		return fmt.Errorf("%w: at least one game version must be defined", domain.ErrMissingField)
	}

	a.MarkValidated()
	return nil
}

// BuildMetadata derives the upload metadata for a. The file must exist and a
// primary needs at least one game version, all of which must resolve. A child
// needs its primary's file id, except in debug mode where nothing has really
// been uploaded.
func (s *UploadSession) BuildMetadata(a *domain.Artifact) (domain.Metadata, error) {
	info, err := os.Stat(a.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Metadata{}, fmt.Errorf("%w: %s", domain.ErrFileNotFound, a.Path())
		}
		return domain.Metadata{}, fmt.Errorf("stat %s: %w", a.Path(), err)
	}
	if info.IsDir() {
		return domain.Metadata{}, fmt.Errorf("%w: %s is a directory", domain.ErrFileNotFound, a.Path())
	}

	var versionIDs []int64
	if a.IsChild() {
		if !s.debug && !a.Parent().Uploaded() {
			return domain.Metadata{}, domain.ErrParentNotUploaded
		}
	} else {
		if len(a.GameVersions()) == 0 {
			return domain.Metadata{}, fmt.Errorf("%w: at least one game version must be defined", domain.ErrMissingField)
		}
		versionIDs, err = s.catalog.Resolve(a.GameVersions())
		if err != nil {
			return domain.Metadata{}, err
		}
	}

	md := domain.NewMetadata(a, versionIDs)
	a.MarkMetadataBuilt()
	return md, nil
}

func (s *UploadSession) performUpload(ctx context.Context, a *domain.Artifact, md domain.Metadata) (int64, error) {
	if s.debug {
		payload, err := json.MarshalIndent(md, "", "  ")
		if err != nil {
			return 0, &domain.UploadFailedError{Err: fmt.Errorf("encode metadata: %w", err)}
		}
		s.logger.WithFields(log.Fields{
			"file":       a.FileName(),
			"project_id": a.ProjectID(),
			"metadata":   string(payload),
		}).Info("debug mode, artifact not uploaded")
		return 0, nil
	}

	fileID, err := s.client.UploadFile(ctx, output.UploadRequest{
		Token:     s.token,
		ProjectID: a.ProjectID(),
		Metadata:  md,
		FilePath:  a.Path(),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUploadFailed) && !errors.Is(err, domain.ErrRemoteRejected) {
			err = &domain.UploadFailedError{Err: err}
		}
		return 0, err
	}

	if err := a.MarkUploaded(fileID); err != nil {
		return 0, err
	}

	s.logger.WithFields(log.Fields{
		"file":       a.FileName(),
		"project_id": a.ProjectID(),
		"file_id":    fileID,
	}).Info("artifact uploaded")
	return fileID, nil
}

func (s *UploadSession) logFailure(a *domain.Artifact, err error) {
	fields := log.Fields{
		"file":       a.FileName(),
		"project_id": a.ProjectID(),
	}

	var rejected *domain.RemoteRejectedError
	var failed *domain.UploadFailedError
	switch {
	case errors.As(err, &rejected):
		fields["status"] = rejected.StatusCode
		fields["error_code"] = rejected.Code
	case errors.As(err, &failed) && failed.StatusCode != 0:
		fields["status"] = failed.StatusCode
	}

	s.logger.WithFields(fields).WithError(err).Error("failed to upload artifact")
}
