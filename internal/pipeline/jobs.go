package pipeline

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/opgen/internal/optable"
)

// JobStatus represents the state of a generation job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusWalking   JobStatus = "walking"
	StatusEmitting  JobStatus = "emitting"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of a single table generation.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	// Per-job overrides of the configured Go options.
	Package    string `json:"package,omitempty"`
	LookupFunc string `json:"lookup_func,omitempty"`

	Counts Counts `json:"counts"`
	Cached bool   `json:"cached"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   *Result
	err      *JobError
}

// Counts summarises a finished run.
type Counts struct {
	Base        int  `json:"base"`
	Extended    int  `json:"extended"`
	HasExtended bool `json:"has_extended"`
}

// Result is the output of a successful run.
type Result struct {
	Title  string
	Source []byte // formatted Go source
	Tree   string // treeprint listing
	Counts Counts
}

// JobError describes why a job failed. Table errors carry the cell position
// and, for duplicates, the mnemonics involved.
type JobError struct {
	Kind      string   `json:"kind"`
	Message   string   `json:"message"`
	Scope     string   `json:"scope,omitempty"`
	Row       int      `json:"row,omitempty"`
	Cell      int      `json:"cell,omitempty"`
	Mnemonics []string `json:"mnemonics,omitempty"`
}

// NewJob returns a queued job for the uploaded file.
func NewJob(filename string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:          newJobID(),
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		ContentHash: ContentHashHex(data),
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// Complete stores the result and marks the job completed.
func (j *Job) Complete(res *Result, cached bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = res
	j.Counts = res.Counts
	j.Cached = cached
	if j.Title == "" {
		j.Title = res.Title
	}
	j.Status = StatusCompleted
	j.Phase = "done"
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Fail records err and marks the job failed in the given phase.
func (j *Job) Fail(phase string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.err = describeError(err)
	j.Status = StatusFailed
	j.Phase = phase
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Result returns the job's output once it has completed.
func (j *Job) Result() (*Result, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.result != nil
}

// FileData returns the raw file bytes. They are released once the job
// finishes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	Counts      Counts    `json:"counts"`
	Cached      bool      `json:"cached"`
	ContentHash string    `json:"content_hash,omitempty"`
	Error       *JobError `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	snap := JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Title:       j.Title,
		Counts:      j.Counts,
		Cached:      j.Cached,
		ContentHash: j.ContentHash,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
	if j.err != nil {
		e := *j.err
		e.Mnemonics = append([]string(nil), j.err.Mnemonics...)
		snap.Error = &e
	}
	return snap
}

func describeError(err error) *JobError {
	je := &JobError{Kind: "error", Message: err.Error()}
	switch {
	case errors.Is(err, optable.ErrMalformedGroupHeader):
		je.Kind = "malformed_group_header"
	case errors.Is(err, optable.ErrIndexOverflow):
		je.Kind = "index_overflow"
	case errors.Is(err, optable.ErrDuplicateOpcode):
		je.Kind = "duplicate_opcode"
	case errors.Is(err, optable.ErrDuplicateIdentifier):
		je.Kind = "duplicate_identifier"
	}
	var te *optable.TableError
	if errors.As(err, &te) {
		je.Scope = te.Scope.String()
		je.Row = te.Pos.Row + 1
		je.Cell = te.Pos.Col + 1
		je.Mnemonics = te.Mnemonics
	}
	return je
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
