// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"encoding/json"
	"github.com/go-chi/chi/v5"
	"github.com/orbs-network/counter-controller/instrumentation/logfields"
	"github.com/orbs-network/counter-controller/services/counter"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"io"
	"net/http"
)

// 1KB is plenty for {"value":"4294967295"}
const MAX_REQUEST_BODY_BYTES = 1024

type SetRequest struct {
	Value string `json:"value"`
}

type SubmissionResponse struct {
	Action counter.ActionKind  `json:"action"`
	State  counter.ActionState `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *HttpServer) robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, err := w.Write([]byte("User-agent: *\nDisallow: /\n"))
	if err != nil {
		s.logger.Info("error writing robots.txt response", log.Error(err))
	}
}

func (s *HttpServer) dumpMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, http.StatusOK, s.metricRegistry.ExportAll())
}

func (s *HttpServer) dumpMetricsAsPrometheus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_, err := w.Write([]byte(s.metricRegistry.ExportPrometheus()))
	if err != nil {
		s.logger.Info("error writing response", log.Error(err))
	}
}

func (s *HttpServer) getCounterHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, http.StatusOK, s.service.Affordances(r.URL.Query().Get("input")))
}

func (s *HttpServer) validateHandler(w http.ResponseWriter, r *http.Request) {
	validation := counter.ValidateInput(r.URL.Query().Get("value"))
	s.writeJson(w, http.StatusOK, struct {
		counter.InputValidation
		Valid   bool   `json:"valid"`
		Message string `json:"message,omitempty"`
	}{validation, validation.Valid(), validation.Message()})
}

func (s *HttpServer) getActionStateHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := counter.ParseActionKind(chi.URLParam(r, "action"))
	if err != nil {
		s.writeErrorResponseAndLog(w, &httpErr{http.StatusNotFound, log.Error(err), err.Error()})
		return
	}
	s.writeJson(w, http.StatusOK, SubmissionResponse{Action: kind, State: s.service.ActionState(kind)})
}

func (s *HttpServer) refreshHandler(w http.ResponseWriter, r *http.Request) {
	s.service.Refresh(r.Context())
	s.writeJson(w, http.StatusOK, s.service.Affordances(""))
}

func (s *HttpServer) submitHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := counter.ParseActionKind(chi.URLParam(r, "action"))
	if err != nil {
		s.writeErrorResponseAndLog(w, &httpErr{http.StatusNotFound, log.Error(err), err.Error()})
		return
	}

	var request counter.ActionRequest
	switch kind {
	case counter.INCREASE:
		request = counter.Increase()
	case counter.DECREASE:
		request = counter.Decrease()
	case counter.RESET:
		request = counter.Reset()
	default:
		s.writeErrorResponseAndLog(w, &httpErr{http.StatusBadRequest, nil, "set takes a value, post it to /api/v1/counter/set"})
		return
	}

	s.submit(w, request)
}

func (s *HttpServer) setHandler(w http.ResponseWriter, r *http.Request) {
	input, e := readInput(r)
	if e != nil {
		s.writeErrorResponseAndLog(w, e)
		return
	}

	var body SetRequest
	if err := json.Unmarshal(input, &body); err != nil {
		s.writeErrorResponseAndLog(w, &httpErr{http.StatusBadRequest, log.Error(err), "http request body is not a valid set request"})
		return
	}

	request, err := counter.NewSetRequest(body.Value)
	if err != nil {
		s.writeSubmissionError(w, counter.SET, err)
		return
	}

	s.submit(w, request)
}

func (s *HttpServer) submit(w http.ResponseWriter, request counter.ActionRequest) {
	if err := s.service.SubmitAsync(request); err != nil {
		s.writeSubmissionError(w, request.Kind(), err)
		return
	}

	s.logger.Info("http server accepted submission", logfields.Action(request.Kind()))
	s.writeJson(w, http.StatusAccepted, SubmissionResponse{Action: request.Kind(), State: s.service.ActionState(request.Kind())})
}

func (s *HttpServer) writeSubmissionError(w http.ResponseWriter, kind counter.ActionKind, err error) {
	code := translateErrorToHttpCode(err)
	s.logger.Info("http server rejected submission", logfields.Action(kind), log.Int("status", code), log.Error(err))
	s.writeJson(w, code, errorResponse{Error: err.Error()})
}

func translateErrorToHttpCode(err error) int {
	if err == counter.ErrAlreadyPending {
		return http.StatusConflict
	}

	switch errors.Cause(err).(type) {
	case *counter.ValidationError:
		return http.StatusUnprocessableEntity
	case *counter.AuthorizationDenied:
		return http.StatusForbidden
	case *counter.IneligibleError:
		return http.StatusPreconditionFailed
	case *counter.TransportWriteError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func readInput(r *http.Request) ([]byte, *httpErr) {
	if r.Body == nil {
		return nil, &httpErr{http.StatusBadRequest, nil, "http request body is empty"}
	}

	bytes, err := io.ReadAll(io.LimitReader(r.Body, MAX_REQUEST_BODY_BYTES))
	if err != nil {
		return nil, &httpErr{http.StatusBadRequest, log.Error(err), "http request body is empty"}
	}
	return bytes, nil
}

func (s *HttpServer) writeJson(w http.ResponseWriter, code int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		s.writeErrorResponseAndLog(w, &httpErr{http.StatusInternalServerError, log.Error(err), "failed encoding response"})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		s.logger.Info("error writing response", log.Error(err))
	}
}

func (s *HttpServer) writeErrorResponseAndLog(w http.ResponseWriter, m *httpErr) {
	if m.logField == nil {
		s.logger.Info(m.message)
	} else {
		s.logger.Info(m.message, m.logField)
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(m.code)
	_, err := w.Write([]byte(m.message))
	if err != nil {
		s.logger.Info("error writing response", log.Error(err))
	}
}
