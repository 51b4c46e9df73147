package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/matzehuels/stabilizer/pkg/buildinfo"
	"github.com/matzehuels/stabilizer/pkg/errors"
	"github.com/matzehuels/stabilizer/pkg/io"
	"github.com/matzehuels/stabilizer/pkg/pipeline"
	"github.com/matzehuels/stabilizer/pkg/stability"
)

// AnalyzeRequest is the body of POST /v1/analyze.
type AnalyzeRequest struct {
	// Object is a sliced object in the pkg/io format.
	Object json.RawMessage `json:"object"`

	// Params overrides single fields of the server's parameter set.
	Params json.RawMessage `json:"params,omitempty"`

	// Genealogy requests the part history as "dot" or "svg".
	Genealogy string `json:"genealogy,omitempty"`

	Refresh bool `json:"refresh,omitempty"`
}

// AnalyzeResponse is the body of a successful analysis.
type AnalyzeResponse struct {
	Report     *io.Report `json:"report"`
	ObjectHash string     `json:"object_hash"`
	CacheHit   bool       `json:"cache_hit"`
	Genealogy  string     `json:"genealogy,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleDefaultParams(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Params)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req AnalyzeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if len(req.Object) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request has no object"))
		return
	}
	obj, err := io.ReadObject(bytes.NewReader(req.Object))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	params, err := s.params(req.Params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()
	res, err := s.runner.Analyze(ctx, obj, pipeline.Options{
		Params:    params,
		Workers:   s.cfg.Workers,
		Genealogy: req.Genealogy,
		Refresh:   req.Refresh,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Report:     res.Report,
		ObjectHash: res.ObjectHash,
		CacheHit:   res.CacheHit,
		Genealogy:  string(res.Genealogy),
	})
}

// params overlays the request overrides on the server parameter set.
func (s *Server) params(raw json.RawMessage) (stability.Params, error) {
	p := s.cfg.Params
	if len(raw) == 0 {
		return p, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return p, errors.Wrap(errors.ErrCodeInvalidParams, err, "decode params")
	}
	return p, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, ErrorResponse{
		Error:     errors.UserMessage(err),
		Code:      errors.GetCode(err),
		RequestID: RequestID(r.Context()),
	})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidParams, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodePrecondition:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
