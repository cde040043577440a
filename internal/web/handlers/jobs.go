package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/kozaktomas/gridsheet/internal/pdf"
)

// eventChannelBuffer is the per-listener event buffer; slow listeners drop
// events instead of blocking the worker.
const eventChannelBuffer = 100

// JobStatus represents the status of an async render job.
type JobStatus string

// JobStatus constants define the lifecycle states of a render job.
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// RenderJob represents one async document render.
type RenderJob struct {
	EventBroadcaster

	ID          string      `json:"id"`
	Status      JobStatus   `json:"status"`
	Progress    int         `json:"progress"`
	TotalImages int         `json:"total_images"`
	Error       string      `json:"error,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Report      *pdf.Report `json:"report,omitempty"`

	document []byte
}

// GetStatus returns the current job status (implements SSEJob).
func (j *RenderJob) GetStatus() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// Snapshot returns a copy of the job's public fields for JSON responses.
func (j *RenderJob) Snapshot() RenderJob {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return RenderJob{
		ID:          j.ID,
		Status:      j.Status,
		Progress:    j.Progress,
		TotalImages: j.TotalImages,
		Error:       j.Error,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
		Report:      j.Report,
	}
}

// Document returns the rendered PDF bytes, or nil while the job has not
// completed.
func (j *RenderJob) Document() []byte {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.document
}

// Start marks the job as running.
func (j *RenderJob) Start() {
	j.mu.Lock()
	j.Status = JobStatusRunning
	j.mu.Unlock()
}

// SetProgress updates the progress counter.
func (j *RenderJob) SetProgress(p int) {
	j.mu.Lock()
	j.Progress = p
	j.mu.Unlock()
}

// Complete marks the job as finished and stores its payload.
func (j *RenderJob) Complete(document []byte, report *pdf.Report) {
	now := time.Now()
	j.mu.Lock()
	j.Status = JobStatusCompleted
	j.Progress = 100
	j.Report = report
	j.document = document
	j.CompletedAt = &now
	j.mu.Unlock()
}

// Fail marks the job as failed.
func (j *RenderJob) Fail(err error) {
	now := time.Now()
	j.mu.Lock()
	j.Status = JobStatusFailed
	j.Error = err.Error()
	j.CompletedAt = &now
	j.mu.Unlock()
}

// Cancel cancels the render job.
func (j *RenderJob) Cancel() {
	j.EventBroadcaster.Cancel()
	now := time.Now()
	j.mu.Lock()
	j.Status = JobStatusCancelled
	j.CompletedAt = &now
	j.mu.Unlock()
}

// JobEvent represents an event from a job.
type JobEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// EventBroadcaster provides listener management and event broadcasting for
// async jobs. Embed this in job structs to get AddListener, RemoveListener,
// and SendEvent methods.
type EventBroadcaster struct {
	cancel    context.CancelFunc
	listeners []chan JobEvent
	mu        sync.RWMutex
}

// AddListener adds an event listener.
func (b *EventBroadcaster) AddListener() chan JobEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan JobEvent, eventChannelBuffer)
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener removes an event listener.
func (b *EventBroadcaster) RemoveListener(ch chan JobEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// SendEvent sends an event to all listeners.
func (b *EventBroadcaster) SendEvent(event JobEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

// Cancel cancels the job via context and sends a cancelled event.
func (b *EventBroadcaster) Cancel() {
	if b.cancel != nil {
		b.cancel()
	}
	b.SendEvent(JobEvent{Type: "cancelled", Message: "Job cancelled by user"})
}

// SSEJob is the interface required by streamSSEEvents to stream job events via SSE.
type SSEJob interface {
	AddListener() chan JobEvent
	RemoveListener(ch chan JobEvent)
	GetStatus() JobStatus
}

// JobManager manages async render jobs. At most one job runs at a time;
// finished jobs stay queryable until deleted.
type JobManager struct {
	jobs map[string]*RenderJob
	mu   sync.RWMutex
}

// NewJobManager creates a new job manager.
func NewJobManager() *JobManager {
	return &JobManager{
		jobs: make(map[string]*RenderJob),
	}
}

// CreateJob registers a new render job. It fails when another job is still
// pending or running: one document render at a time per instance.
func (m *JobManager) CreateJob(id string, totalImages int, cancel context.CancelFunc) (*RenderJob, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, job := range m.jobs {
		status := job.GetStatus()
		if status == JobStatusPending || status == JobStatusRunning {
			return nil, false
		}
	}

	job := &RenderJob{
		ID:          id,
		Status:      JobStatusPending,
		TotalImages: totalImages,
		StartedAt:   time.Now(),
	}
	job.EventBroadcaster.cancel = cancel
	m.jobs[id] = job
	return job, true
}

// GetJob retrieves a job by ID.
func (m *JobManager) GetJob(id string) *RenderJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id]
}

// DeleteJob removes a job.
func (m *JobManager) DeleteJob(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
}
