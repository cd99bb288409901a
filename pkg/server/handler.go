package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"math/rand/v2"

	"github.com/mockingj/mockingj/pkg/parser"
)

// maxBodyBytes caps accepted request bodies.
const maxBodyBytes = 4 << 20

// buildHandler registers one route per endpoint on a method+pattern
// ServeMux. Specification path templates ({param}) are already the mux
// wildcard syntax.
func (s *Server) buildHandler() http.Handler {
	mux := http.NewServeMux()
	for i := range s.doc.Endpoints {
		ep := &s.doc.Endpoints[i]
		pattern := ep.Method + " " + joinPath(s.doc.BasePath, ep.Path)
		mux.Handle(pattern, s.endpointHandler(ep))
		s.log.Debug("registered route", "pattern", pattern, "operation", ep.OperationID)
	}

	var h http.Handler = mux
	if s.cfg.Server.Debug {
		h = s.logRequests(h)
	}
	return h
}

func (s *Server) endpointHandler(ep *parser.Endpoint) http.Handler {
	var validator *bodyValidator
	if ep.RequestBody != nil {
		validator = newBodyValidator(ep.RequestBody.Raw)
	}
	status, resp, declared := ep.SuccessResponse()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.applyDelay(r) {
			return // client went away while delaying
		}

		if ep.RequestBody != nil {
			if !s.checkBody(w, r, ep.RequestBody.Required, validator) {
				return
			}
		}

		if !declared {
			writeProblem(w, newProblem(http.StatusNotImplemented,
				"No Response Declared",
				"the specification declares no 2xx or default response for this operation"))
			return
		}
		if resp.Schema == nil {
			w.WriteHeader(status)
			return
		}

		value, err := s.gen.GenerateData(resp.Schema)
		if err != nil {
			s.log.Error("generation failed",
				"method", ep.Method, "path", ep.Path, "error", err)
			writeProblem(w, newProblem(http.StatusInternalServerError,
				"Mock Generation Failed", err.Error()))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(value); err != nil {
			s.log.Error("response encoding failed", "error", err)
		}
	})
}

// checkBody reads and validates the request body. It writes the error
// response itself and reports whether handling may continue.
func (s *Server) checkBody(w http.ResponseWriter, r *http.Request, required bool, v *bodyValidator) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeProblem(w, newProblem(http.StatusRequestEntityTooLarge,
			"Request Body Too Large", err.Error()))
		return false
	}
	if len(data) == 0 {
		if required {
			writeProblem(w, newProblem(http.StatusBadRequest,
				"Request Body Required", "this operation requires a request body"))
			return false
		}
		return true
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		writeProblem(w, newProblem(http.StatusBadRequest,
			"Malformed Request Body", "request body is not valid JSON"))
		return false
	}

	if v != nil {
		if problems, err := v.validate(value); err != nil {
			s.log.Error("request schema compilation failed", "error", err)
			writeProblem(w, newProblem(http.StatusInternalServerError,
				"Request Validation Unavailable", err.Error()))
			return false
		} else if len(problems) > 0 {
			p := newProblem(http.StatusBadRequest,
				"Request Validation Failed", problems[0].Message)
			p.Errors = problems
			writeProblem(w, p)
			return false
		}
	}
	return true
}

// applyDelay sleeps for the configured simulated latency. It reports
// false when the request context ended first.
func (s *Server) applyDelay(r *http.Request) bool {
	d := s.cfg.Mock.ResponseDelay
	if !d.Enabled || d.MaxMS <= 0 {
		return true
	}
	ms := d.MinMS
	if span := d.MaxMS - d.MinMS; span > 0 {
		ms += rand.IntN(span + 1)
	}
	if ms <= 0 {
		return true
	}

	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-r.Context().Done():
		return false
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

func joinPath(base, path string) string {
	if base == "" || base == "/" {
		return path
	}
	return strings.TrimSuffix(base, "/") + path
}
