// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter

import (
	"fmt"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/pkg/errors"
)

// ErrAlreadyPending rejects a request of a kind whose previous request has not settled
var ErrAlreadyPending = errors.New("transaction in progress")

type TransportReadError struct {
	Method adapter.Method
	Cause  error
}

func (e *TransportReadError) Error() string {
	return fmt.Sprintf("failed reading %s: %s", e.Method, e.Cause)
}

type TransportWriteError struct {
	Kind  ActionKind
	Cause error
}

func (e *TransportWriteError) Error() string {
	return fmt.Sprintf("%s transaction failed: %s", e.Kind, e.Cause)
}

type ValidationError struct {
	Validation InputValidation
}

func (e *ValidationError) Error() string {
	if e.Validation.Result == InputEmpty {
		return "no value entered"
	}
	return fmt.Sprintf("%q: %s", e.Validation.Text, e.Validation.Message())
}

type AuthorizationDenied struct {
	Kind     ActionKind
	Identity adapter.Identity
	Owner    OwnerRecord
}

func (e *AuthorizationDenied) Error() string {
	owner := "unknown"
	if e.Owner.Known {
		owner = e.Owner.Address
	}
	return fmt.Sprintf("only the contract owner can %s the counter (owner: %s, caller: %s)", e.Kind, owner, e.Identity)
}

type IneligibleReason int

const (
	REASON_DISCONNECTED IneligibleReason = iota
	REASON_COUNTER_UNKNOWN
	REASON_COUNTER_ZERO
)

func (r IneligibleReason) String() string {
	switch r {
	case REASON_DISCONNECTED:
		return "no wallet connected"
	case REASON_COUNTER_UNKNOWN:
		return "counter value is unknown"
	case REASON_COUNTER_ZERO:
		return "counter is already at 0"
	}
	return "unknown reason"
}

type IneligibleError struct {
	Kind   ActionKind
	Reason IneligibleReason
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Kind, e.Reason)
}

func IsIneligible(err error, reason IneligibleReason) bool {
	ineligible, ok := errors.Cause(err).(*IneligibleError)
	return ok && ineligible.Reason == reason
}
