package domain

// UploadResult is the outcome of one artifact within an upload batch.
type UploadResult struct {
	File      string
	ProjectID int64
	FileID    int64
	DryRun    bool
	// AlreadyUploaded is set when an earlier call uploaded the artifact.
	AlreadyUploaded bool
	Err             error
}

func (r UploadResult) Succeeded() bool { return r.Err == nil }

// UploadReport lists the artifacts attempted by a session upload, primary
// first and children in insertion order.
type UploadReport struct {
	Results []UploadResult
}

// Failed returns the results that carry an error.
func (r *UploadReport) Failed() []UploadResult {
	var failed []UploadResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}
