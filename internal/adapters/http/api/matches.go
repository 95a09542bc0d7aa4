package api

import (
	"errors"
	"net/http"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/simulation"
)

type singleRequest struct {
	Sport string   `json:"sport" validate:"required"`
	Side1 []string `json:"side1" validate:"required,min=1,dive,required"`
	Side2 []string `json:"side2" validate:"required,min=1,dive,required"`
}

type multisportRequest struct {
	Side1 []string `json:"side1" validate:"required,min=1,max=64,dive,required"`
	Side2 []string `json:"side2" validate:"required,min=1,max=64,dive,required"`
}

// jobRequest is the body of POST /jobs. The Idempotency-Key header may
// stand in for request_id.
type jobRequest struct {
	RequestID string          `json:"request_id" validate:"omitempty,max=128"`
	Kind      model.MatchKind `json:"kind" validate:"required,oneof=single multisport"`
	Sport     string          `json:"sport" validate:"required_if=Kind single"`
	Side1     []string        `json:"side1" validate:"required,min=1,max=64,dive,required"`
	Side2     []string        `json:"side2" validate:"required,min=1,max=64,dive,required"`
}

type jobAck struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	JobID     string `json:"job_id"`
}

func (s *Server) handleSingle(w http.ResponseWriter, r *http.Request) {
	var req singleRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.deps.SimulateSingle(r.Context(), req.Sport, req.Side1, req.Side2)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMultisport(w http.ResponseWriter, r *http.Request) {
	var req multisportRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.deps.SimulateMultisport(r.Context(), req.Side1, req.Side2)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = r.Header.Get("Idempotency-Key")
	}
	job, dup, err := s.deps.SubmitJob(r.Context(), requestID, model.MatchRequest{
		Kind:  req.Kind,
		Sport: req.Sport,
		Side1: req.Side1,
		Side2: req.Side2,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if dup {
		writeJSON(w, http.StatusOK, jobAck{Status: "duplicate", Duplicate: true, JobID: job.ID})
		return
	}
	writeJSON(w, http.StatusAccepted, jobAck{Status: "accepted", JobID: job.ID})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.deps.Job(pathParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// validationDetail extracts the rejected field and names from a
// simulation.ValidationError.
func validationDetail(err error) (string, []string, bool) {
	var verr *simulation.ValidationError
	if !errors.As(err, &verr) {
		return "", nil, false
	}
	return verr.Field, verr.Names, true
}
