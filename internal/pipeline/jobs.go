package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/mindgest/internal/mindmap"
)

// JobStatus represents the state of a mind map job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusGenerating JobStatus = "generating"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// File is one uploaded document waiting to be parsed.
type File struct {
	Name string
	Data []byte
}

// Job tracks the state of a single notebook mind map request.
type Job struct {
	mu sync.Mutex

	ID     string    `json:"job_id"`
	Name   string    `json:"name"`
	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	files  []File
	result *mindmap.RenderNode
	errors []string
}

// NewJob creates a queued job for the given notebook name and files.
func NewJob(name string, files []File) *Job {
	now := time.Now()
	j := &Job{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
	j.SetFiles(files)
	return j
}

// Progress tracks processing progress.
type Progress struct {
	TotalFiles  int      `json:"total_files"`
	FilesParsed int      `json:"files_parsed"`
	EmptyFiles  int      `json:"empty_files"`
	Errors      []string `json:"errors"`
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

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.lastUpdate()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (j *Job) lastUpdate() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// FileParsed counts one parsed file; empty marks files without usable text.
func (j *Job) FileParsed(empty bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.FilesParsed++
	if empty {
		j.Progress.EmptyFiles++
	}
	j.UpdatedAt = time.Now()
}

// SetFiles attaches the uploaded files.
func (j *Job) SetFiles(files []File) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.files = files
	j.Progress.TotalFiles = len(files)
}

// Files returns the uploaded files.
func (j *Job) Files() []File {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.files
}

// Complete stores the result and releases the uploaded bytes.
func (j *Job) Complete(root *mindmap.RenderNode) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = root
	j.files = nil
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string              `json:"job_id"`
	Name     string              `json:"name"`
	Status   JobStatus           `json:"status"`
	Phase    string              `json:"phase"`
	Progress Progress            `json:"progress"`
	Root     *mindmap.RenderNode `json:"root,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	return JobSnapshot{
		ID:     j.ID,
		Name:   j.Name,
		Status: j.Status,
		Phase:  j.Phase,
		Progress: Progress{
			TotalFiles:  j.Progress.TotalFiles,
			FilesParsed: j.Progress.FilesParsed,
			EmptyFiles:  j.Progress.EmptyFiles,
			Errors:      errs,
		},
		Root: j.result,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
