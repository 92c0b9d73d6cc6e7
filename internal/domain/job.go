package domain

import "time"

// JobStatus mirrors the upstream prediction lifecycle vocabulary. The exact
// set of non-terminal values is upstream-defined; anything that is not
// succeeded, failed or canceled is treated as still in flight.
type JobStatus string

const (
	JobStatusNotSubmitted JobStatus = ""
	JobStatusStarting     JobStatus = "starting"
	JobStatusProcessing   JobStatus = "processing"
	JobStatusSucceeded    JobStatus = "succeeded"
	JobStatusFailed       JobStatus = "failed"
	JobStatusCanceled     JobStatus = "canceled"
)

// Terminal reports whether no further status changes can occur.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusSucceeded, JobStatusFailed, JobStatusCanceled:
		return true
	}
	return false
}

// Job tracks one generation request from submission through to a terminal
// status. The ID is assigned by the upstream service; it is empty until the
// submission response has been processed.
type Job struct {
	ID          string
	Model       string
	Status      JobStatus
	MediaURL    string
	Error       string
	SubmittedAt time.Time
	UpdatedAt   time.Time
}
