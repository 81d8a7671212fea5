package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/profile-extractor/internal/pipeline"
	"github.com/jonathan/profile-extractor/internal/server/middleware"
	"github.com/jonathan/profile-extractor/internal/types"
	"go.uber.org/zap"
)

// SubmitResponse is returned by the submission endpoints.
type SubmitResponse struct {
	JobID  string          `json:"job_id"`
	Status types.JobStatus `json:"status"`
	Error  string          `json:"error,omitempty"`
}

// handleSubmit accepts a JSON submission with a URL or a base64 document.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req types.SubmitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxUpload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s.submit(w, r, &req)
}

// handleUpload accepts a multipart form with "domain" and a "document" file.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("document")
	if err != nil {
		verr := &ErrValidation{Field: "document", Message: "file is required"}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read document: "+err.Error())
		return
	}

	s.submit(w, r, &types.SubmitRequest{
		Domain:   types.Domain(r.FormValue("domain")),
		Document: data,
		Filename: header.Filename,
	})
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, req *types.SubmitRequest) {
	logger := s.logger.With(zap.String("domain", string(req.Domain)), zap.String("source", string(req.Source())))
	if client, err := middleware.GetClientID(r); err == nil {
		logger = logger.With(zap.String("client", client))
	}

	id, err := s.jobs.Submit(r.Context(), req)
	switch {
	case err == nil:
		logger.Info("job accepted", zap.String("job_id", id))
		s.jsonResponse(w, http.StatusAccepted, SubmitResponse{JobID: id, Status: types.StatusPending})
	case errors.Is(err, pipeline.ErrQueueFull):
		logger.Warn("job rejected", zap.Error(err))
		w.Header().Set("Retry-After", "5")
		s.errorResponse(w, HTTPStatus(err), err.Error())
	default:
		logger.Info("submission refused", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
	}
}

// handleStatus returns the polling view of a job. Unknown and expired ids
// answer 200 with status "unknown".
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		s.errorResponse(w, http.StatusBadRequest, "Job ID is required")
		return
	}

	job, err := s.jobs.Status(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to read job state", zap.String("job_id", id), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to read job state")
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleEvents streams status changes of a job until it finishes or disappears.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var last types.JobStatus
	for {
		job, err := s.jobs.Status(r.Context(), id)
		if err != nil {
			sse.WriteError("failed to read job state")
			return
		}
		if job.Status != last {
			if job.Status.IsTerminal() || job.Status == types.StatusUnknown {
				sse.WriteComplete(job)
				return
			}
			if err := sse.WriteStatus(job); err != nil {
				return
			}
			last = job.Status
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
