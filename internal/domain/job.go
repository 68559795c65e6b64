package domain

// JobStatus enumerates the lifecycle states of a remote video job.
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusDone    JobStatus = "DONE"
	JobStatusFailed  JobStatus = "FAILED"
)

// VideoJob is a handle to an asynchronous server-side generation task. It is
// created in the pending state by a submit call and advanced only by polling.
// A failed job is never retried automatically.
type VideoJob struct {
	ID        string
	Status    JobStatus
	ResultURI string
}

// Terminal reports whether no further polling should occur.
func (j *VideoJob) Terminal() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusFailed
}

// VideoSubmission carries everything a video job submission needs. Scenes is
// only populated by the advanced pipeline.
type VideoSubmission struct {
	Prompt string
	Image  *MediaBlob
	Scenes []MediaBlob
	Audio  *MediaBlob
}
