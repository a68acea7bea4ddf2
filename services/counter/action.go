// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter

import (
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/pkg/errors"
	"time"
)

type ActionKind int

const (
	INCREASE ActionKind = iota
	DECREASE
	RESET
	SET
)

var AllActionKinds = []ActionKind{INCREASE, DECREASE, RESET, SET}

func (k ActionKind) String() string {
	switch k {
	case INCREASE:
		return "increase"
	case DECREASE:
		return "decrease"
	case RESET:
		return "reset"
	case SET:
		return "set"
	}
	return "unknown"
}

func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k ActionKind) Method() adapter.Method {
	switch k {
	case INCREASE:
		return adapter.INCREASE_COUNTER
	case DECREASE:
		return adapter.DECREASE_COUNTER
	case RESET:
		return adapter.RESET_COUNTER
	default:
		return adapter.SET_COUNTER
	}
}

func ParseActionKind(s string) (ActionKind, error) {
	for _, k := range AllActionKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown action %q", s)
}

// ActionRequest can only be built by the constructors below, so a set value is always in range
type ActionRequest struct {
	kind  ActionKind
	value uint32
}

func Increase() ActionRequest {
	return ActionRequest{kind: INCREASE}
}

func Decrease() ActionRequest {
	return ActionRequest{kind: DECREASE}
}

func Reset() ActionRequest {
	return ActionRequest{kind: RESET}
}

func SetTo(value uint32) ActionRequest {
	return ActionRequest{kind: SET, value: value}
}

func NewSetRequest(text string) (ActionRequest, error) {
	validation := ValidateInput(text)
	if !validation.Valid() {
		return ActionRequest{}, &ValidationError{Validation: validation}
	}
	return SetTo(validation.Value), nil
}

func (r ActionRequest) Kind() ActionKind {
	return r.kind
}

func (r ActionRequest) Value() uint32 {
	return r.value
}

func (r ActionRequest) args() []interface{} {
	if r.kind == SET {
		return []interface{}{r.value}
	}
	return nil
}

type ActionStatus int

const (
	IDLE ActionStatus = iota
	PENDING
	FAILED
	SUCCEEDED
)

func (s ActionStatus) String() string {
	switch s {
	case IDLE:
		return "idle"
	case PENDING:
		return "pending"
	case FAILED:
		return "failed"
	case SUCCEEDED:
		return "succeeded"
	}
	return "unknown"
}

func (s ActionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type ActionState struct {
	Status ActionStatus `json:"status"`
	Reason string       `json:"reason,omitempty"`
}

type Transition struct {
	Kind  ActionKind
	State ActionState
	At    time.Time
}
