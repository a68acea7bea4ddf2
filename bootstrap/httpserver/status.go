// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"github.com/orbs-network/counter-controller/config"
	"github.com/orbs-network/counter-controller/services/counter"
	"net/http"
	"time"
)

type StatusResponse struct {
	Uptime    int64  `json:"uptime"`
	Connector string `json:"connector"`
	Identity  string `json:"identity,omitempty"`

	Counter struct {
		Display   string    `json:"display"`
		Known     bool      `json:"known"`
		Error     string    `json:"error,omitempty"`
		UpdatedAt time.Time `json:"updatedAt"`
	} `json:"counter"`

	Owner struct {
		Address string `json:"address,omitempty"`
		Known   bool   `json:"known"`
		Error   string `json:"error,omitempty"`
	} `json:"owner"`

	Actions map[counter.ActionKind]counter.ActionState `json:"actions"`

	Version config.Version `json:"version"`
}

func (s *HttpServer) getStatus(w http.ResponseWriter, r *http.Request) {
	reading := s.service.Reading()
	owner := s.service.Owner()

	status := StatusResponse{
		Uptime:    int64(time.Since(s.startTime).Seconds()),
		Connector: s.connector,
		Identity:  s.service.Identity().String(),
		Actions:   make(map[counter.ActionKind]counter.ActionState),
		Version:   config.GetVersion(),
	}

	status.Counter.Display = reading.Display()
	status.Counter.Known = reading.Known
	status.Counter.UpdatedAt = reading.UpdatedAt
	if reading.Err != nil {
		status.Counter.Error = reading.Err.Error()
	}

	status.Owner.Address = owner.Address
	status.Owner.Known = owner.Known
	if owner.Err != nil {
		status.Owner.Error = owner.Err.Error()
	}

	for _, kind := range counter.AllActionKinds {
		status.Actions[kind] = s.service.ActionState(kind)
	}

	s.writeJson(w, http.StatusOK, status)
}
