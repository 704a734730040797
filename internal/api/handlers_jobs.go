package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/opgen/internal/pipeline"
)

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.lookupJob(w, r)
	if job == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleJobSource(w http.ResponseWriter, r *http.Request) {
	res := s.jobResult(w, r)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "text/x-go; charset=utf-8")
	w.Write(res.Source)
}

func (s *Server) handleJobTree(w http.ResponseWriter, r *http.Request) {
	res := s.jobResult(w, r)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(res.Tree))
}

func (s *Server) lookupJob(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
	}
	return job
}

// jobResult writes an error response and returns nil unless the job has
// completed.
func (s *Server) jobResult(w http.ResponseWriter, r *http.Request) *pipeline.Result {
	job := s.lookupJob(w, r)
	if job == nil {
		return nil
	}
	if res, ok := job.Result(); ok {
		return res
	}

	snap := job.Snapshot()
	code := http.StatusConflict
	if snap.Status == pipeline.StatusFailed {
		code = http.StatusUnprocessableEntity
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id": snap.ID,
		"status": snap.Status,
		"error":  snap.Error,
	})
	return nil
}
