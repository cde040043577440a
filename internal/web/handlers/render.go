package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kozaktomas/gridsheet/internal/imagelist"
	"github.com/kozaktomas/gridsheet/internal/pdf"
	"github.com/kozaktomas/gridsheet/internal/settings"
)

// RenderHandler handles document render jobs.
type RenderHandler struct {
	store      *settings.Store
	list       *imagelist.List
	jobManager *JobManager
}

// NewRenderHandler creates a new render handler.
func NewRenderHandler(store *settings.Store, list *imagelist.List, jm *JobManager) *RenderHandler {
	return &RenderHandler{
		store:      store,
		list:       list,
		jobManager: jm,
	}
}

// Start launches a render job over snapshots of the current settings and
// image list. Returns 202 with the job id, or 409 while another render is
// active.
func (h *RenderHandler) Start(w http.ResponseWriter, r *http.Request) {
	paths := h.list.Paths()
	if len(paths) == 0 {
		respondError(w, http.StatusBadRequest, "image list is empty")
		return
	}
	set := h.store.Get()
	if err := set.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	job, ok := h.jobManager.CreateJob(uuid.New().String(), len(paths), cancel)
	if !ok {
		cancel()
		respondError(w, http.StatusConflict, "a render job is already running")
		return
	}

	go h.run(ctx, job, paths, set)

	respondJSON(w, http.StatusAccepted, map[string]string{"id": job.ID})
}

// run drives one render worker and translates its channel events into job
// state and broadcast events.
func (h *RenderHandler) run(ctx context.Context, job *RenderJob, paths []string, set settings.Grid) {
	job.Start()
	job.SendEvent(JobEvent{Type: "started", Data: job.Snapshot()})

	worker := pdf.StartJob(ctx, paths, set)
	for p := range worker.Progress() {
		job.SetProgress(p)
		job.SendEvent(JobEvent{Type: "progress", Data: map[string]int{"progress": p}})
	}

	worker.Wait()
	select {
	case res := <-worker.Done():
		if job.GetStatus() == JobStatusCancelled {
			// Cancelled while the payload was in flight: the caller was
			// already told the job is cancelled, so drop the document.
			return
		}
		job.Complete(res.Document, res.Report)
		job.SendEvent(JobEvent{Type: "completed", Data: job.Snapshot()})
	case err := <-worker.Err():
		job.Fail(err)
		job.SendEvent(JobEvent{Type: "failed", Message: err.Error()})
	default:
		// Cancelled: the Cancel handler already set the state and sent the
		// event; the worker ends silently by contract.
	}
}

// Status returns the current job state.
func (h *RenderHandler) Status(w http.ResponseWriter, r *http.Request) {
	job := h.jobManager.GetJob(chi.URLParam(r, "jobId"))
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	respondJSON(w, http.StatusOK, job.Snapshot())
}

// Events streams job progress as Server-Sent Events.
func (h *RenderHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamSSEEvents(w, r,
		func(id string) SSEJob {
			if job := h.jobManager.GetJob(id); job != nil {
				return job
			}
			return nil
		},
		func(j SSEJob) any {
			return j.(*RenderJob).Snapshot()
		},
	)
}

// Result serves the finished PDF.
func (h *RenderHandler) Result(w http.ResponseWriter, r *http.Request) {
	job := h.jobManager.GetJob(chi.URLParam(r, "jobId"))
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	if job.GetStatus() != JobStatusCompleted {
		respondError(w, http.StatusConflict, "job has not completed")
		return
	}

	doc := job.Document()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="gridsheet.pdf"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(doc)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// Cancel requests cooperative cancellation of a running job.
func (h *RenderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	job := h.jobManager.GetJob(chi.URLParam(r, "jobId"))
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	if isJobTerminal(job.GetStatus()) {
		respondError(w, http.StatusConflict, "job has already finished")
		return
	}

	job.Cancel()
	respondJSON(w, http.StatusOK, job.Snapshot())
}
