package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kozaktomas/gridsheet/internal/imagelist"
)

// waitForTerminal polls the job until it reaches a terminal state.
func waitForTerminal(t *testing.T, jm *JobManager, id string) *RenderJob {
	t.Helper()
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		job := jm.GetJob(id)
		if job == nil {
			t.Fatalf("job %s disappeared", id)
		}
		if isJobTerminal(job.GetStatus()) {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", id)
	return nil
}

func startTestRender(t *testing.T, h *RenderHandler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/api/v1/render", nil))
	assertStatusCode(t, rec, http.StatusAccepted)
	var got map[string]string
	parseJSONResponse(t, rec, &got)
	if got["id"] == "" {
		t.Fatal("expected a job id")
	}
	return got["id"]
}

func TestRenderStartCompletesAndServesResult(t *testing.T) {
	jm := NewJobManager()
	h := NewRenderHandler(testStore(t), testList(t, 3), jm)

	id := startTestRender(t, h)
	job := waitForTerminal(t, jm, id)
	if job.GetStatus() != JobStatusCompleted {
		t.Fatalf("expected completed, got %s (error %q)", job.GetStatus(), job.Snapshot().Error)
	}
	snap := job.Snapshot()
	if snap.Progress != 100 || snap.Report == nil || snap.Report.Placed != 3 {
		t.Errorf("unexpected terminal snapshot: %+v", &snap)
	}

	req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/render/"+id+"/result", nil),
		map[string]string{"jobId": id})
	rec := httptest.NewRecorder()
	h.Result(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %s", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected PDF bytes")
	}
}

func TestRenderStartRejectsEmptyList(t *testing.T) {
	h := NewRenderHandler(testStore(t), imagelist.New(), NewJobManager())

	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/api/v1/render", nil))
	assertStatusCode(t, rec, http.StatusBadRequest)
	assertJSONError(t, rec, "image list is empty")
}

func TestRenderSingleActiveJob(t *testing.T) {
	jm := NewJobManager()
	h := NewRenderHandler(testStore(t), testList(t, 5), jm)

	id := startTestRender(t, h)

	// A second start while the first is pending or running must conflict.
	// The first job may already have finished on a fast machine; only assert
	// the conflict when it has not.
	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/api/v1/render", nil))
	first := jm.GetJob(id)
	if !isJobTerminal(first.GetStatus()) && rec.Code != http.StatusConflict {
		t.Errorf("expected 409 while a job is active, got %d", rec.Code)
	}

	waitForTerminal(t, jm, id)
}

func TestRenderStatusAndUnknownJob(t *testing.T) {
	jm := NewJobManager()
	h := NewRenderHandler(testStore(t), testList(t, 1), jm)

	id := startTestRender(t, h)
	waitForTerminal(t, jm, id)

	req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/render/"+id, nil),
		map[string]string{"jobId": id})
	rec := httptest.NewRecorder()
	h.Status(rec, req)
	assertStatusCode(t, rec, http.StatusOK)

	var snap RenderJob
	parseJSONResponse(t, rec, &snap)
	if snap.ID != id || snap.Status != JobStatusCompleted {
		t.Errorf("unexpected status payload: %+v", &snap)
	}

	req = requestWithChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/render/nope", nil),
		map[string]string{"jobId": "nope"})
	rec = httptest.NewRecorder()
	h.Status(rec, req)
	assertStatusCode(t, rec, http.StatusNotFound)
}

func TestRenderCancel(t *testing.T) {
	jm := NewJobManager()
	h := NewRenderHandler(testStore(t), testList(t, 5), jm)

	id := startTestRender(t, h)

	req := requestWithChiParams(httptest.NewRequest(http.MethodDelete, "/api/v1/render/"+id, nil),
		map[string]string{"jobId": id})
	rec := httptest.NewRecorder()
	h.Cancel(rec, req)

	// Either the cancel landed while the job was active, or the job had
	// already completed and cancel conflicts. Both are valid terminal
	// outcomes; a cancelled job must never serve a result.
	job := waitForTerminal(t, jm, id)
	switch rec.Code {
	case http.StatusOK:
		if job.GetStatus() != JobStatusCancelled {
			t.Errorf("expected cancelled status, got %s", job.GetStatus())
		}
		resReq := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/render/"+id+"/result", nil),
			map[string]string{"jobId": id})
		resRec := httptest.NewRecorder()
		h.Result(resRec, resReq)
		assertStatusCode(t, resRec, http.StatusConflict)
	case http.StatusConflict:
		if !isJobTerminal(job.GetStatus()) {
			t.Errorf("conflict response but job not terminal: %s", job.GetStatus())
		}
	default:
		t.Errorf("unexpected cancel response %d", rec.Code)
	}
}

func TestRenderResultBeforeCompletion(t *testing.T) {
	jm := NewJobManager()
	if _, ok := jm.CreateJob("pending-job", 1, func() {}); !ok {
		t.Fatal("failed to create job")
	}

	h := NewRenderHandler(testStore(t), testList(t, 1), jm)
	req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/render/pending-job/result", nil),
		map[string]string{"jobId": "pending-job"})
	rec := httptest.NewRecorder()
	h.Result(rec, req)
	assertStatusCode(t, rec, http.StatusConflict)
}
