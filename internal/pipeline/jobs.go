// Package pipeline orchestrates proposal generation jobs: admission,
// progress tracking, rendering, and deferred cleanup.
package pipeline

import (
	"errors"
	"sync"
	"time"

	"propgen/internal/section"
)

// ErrTooManyJobs is returned by Admit when the active-job ceiling is hit.
var ErrTooManyJobs = errors.New("too many active jobs, try again later")

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// StructureSummary is the condensed view of a generated tree that rides
// along with job status.
type StructureSummary struct {
	TotalSections int      `json:"total_sections"`
	MainSections  int      `json:"main_sections"`
	SectionTitles []string `json:"section_titles"`
}

// Job is one generation job's externally visible state.
type Job struct {
	ID        string            `json:"job_id"`
	Status    Status            `json:"status"`
	Message   string            `json:"message"`
	Progress  int               `json:"progress"`
	Files     []string          `json:"files,omitempty"`
	Structure *StructureSummary `json:"structure_info,omitempty"`
}

// JobStore owns all shared job state behind one mutex: the job table, the
// generated trees, the active set, and pending cleanup timers.
type JobStore struct {
	mu        sync.Mutex
	jobs      map[string]*Job
	trees     map[string][]*section.Section
	active    map[string]bool
	timers    map[string]*time.Timer
	maxActive int
}

func NewJobStore(maxActive int) *JobStore {
	return &JobStore{
		jobs:      make(map[string]*Job),
		trees:     make(map[string][]*section.Section),
		active:    make(map[string]bool),
		timers:    make(map[string]*time.Timer),
		maxActive: maxActive,
	}
}

// Admit reserves a slot for a new job. It fails before any job record is
// created when the ceiling is reached.
func (s *JobStore) Admit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.active) >= s.maxActive {
		return ErrTooManyJobs
	}
	s.active[id] = true
	s.jobs[id] = &Job{ID: id, Status: StatusProcessing, Message: "Job accepted", Progress: 0}
	return nil
}

// Update advances a job's progress checkpoint.
func (s *JobStore) Update(id string, progress int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Progress = progress
		job.Message = message
	}
}

func (s *JobStore) SetTree(id string, tree []*section.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees[id] = tree
}

func (s *JobStore) Tree(id string) ([]*section.Section, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tree, ok := s.trees[id]
	return tree, ok
}

// Complete marks a job finished and releases its active slot.
func (s *JobStore) Complete(id, message string, files []string, summary *StructureSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Status = StatusCompleted
		job.Message = message
		job.Progress = 100
		job.Files = files
		job.Structure = summary
	}
	delete(s.active, id)
}

// Fail marks a job errored and releases its active slot.
func (s *JobStore) Fail(id, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Status = StatusError
		job.Message = message
	}
	delete(s.active, id)
}

// Get returns a copy of the job record.
func (s *JobStore) Get(id string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (s *JobStore) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// ScheduleCleanup arms a one-shot timer that removes the job after delay.
// A second schedule for the same job replaces the first.
func (s *JobStore) ScheduleCleanup(id string, delay time.Duration, remove func(files []string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	s.timers[id] = time.AfterFunc(delay, func() {
		s.Cleanup(id, remove)
	})
}

// Cleanup removes every trace of a job immediately and cancels any pending
// timer. The remove callback receives the artifact filenames to delete.
func (s *JobStore) Cleanup(id string, remove func(files []string)) bool {
	s.mu.Lock()
	job, ok := s.jobs[id]
	var files []string
	if ok {
		files = job.Files
	}
	if t, tok := s.timers[id]; tok {
		t.Stop()
		delete(s.timers, id)
	}
	delete(s.jobs, id)
	delete(s.trees, id)
	delete(s.active, id)
	s.mu.Unlock()

	if ok && remove != nil {
		remove(files)
	}
	return ok
}
