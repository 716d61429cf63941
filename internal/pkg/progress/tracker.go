package progress

import (
	"sync"
	"time"
)

// Status is the shared progress record for one background job. Jobs write
// it; the HTTP layer only reads it. There is no cancellation: a stuck job is
// detected by the absence of updates or the Failed flag.
type Status struct {
	JobID       string    `json:"job_id"`
	Percent     int       `json:"percent"`
	Message     string    `json:"message"`
	Done        bool      `json:"done"`
	Failed      bool      `json:"failed"`
	DownloadURL string    `json:"download_url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Tracker is an in-memory progress store keyed by job ID.
type Tracker struct {
	mu   sync.RWMutex
	jobs map[string]Status
}

// NewTracker creates a new progress tracker.
func NewTracker() *Tracker {
	return &Tracker{
		jobs: make(map[string]Status),
	}
}

// Start registers a job at zero percent.
func (t *Tracker) Start(jobID string, message string) {
	t.set(Status{JobID: jobID, Percent: 0, Message: message})
}

// Update reports progress for a running job.
func (t *Tracker) Update(jobID string, percent int, message string) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	t.set(Status{JobID: jobID, Percent: percent, Message: message})
}

// Complete marks a job finished, optionally with a download URL.
func (t *Tracker) Complete(jobID string, message string, downloadURL string) {
	t.set(Status{JobID: jobID, Percent: 100, Message: message, Done: true, DownloadURL: downloadURL})
}

// Fail marks a job failed with an operator-facing message.
func (t *Tracker) Fail(jobID string, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.jobs[jobID]
	s.JobID = jobID
	s.Message = message
	s.Done = true
	s.Failed = true
	s.UpdatedAt = time.Now()
	t.jobs[jobID] = s
}

// Get returns the job's status and whether it is known.
func (t *Tracker) Get(jobID string) (Status, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.jobs[jobID]
	return s, ok
}

func (t *Tracker) set(s Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s.UpdatedAt = time.Now()
	t.jobs[s.JobID] = s
}
