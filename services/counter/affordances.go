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
	"time"
)

const (
	HINT_CONNECT_TO_INTERACT = "Please connect your wallet to interact with the counter"
	HINT_CONNECT_TO_RESET    = "Please connect your wallet to reset the counter"
	HINT_CONNECT_TO_SET      = "Connect wallet to set counter"
	HINT_OWNER_ONLY          = "Only the contract owner can modify the counter"
	HINT_BELOW_ZERO          = "Cannot decrease counter below 0"
	HINT_ALREADY_ZERO        = "Counter is already at 0"
	HINT_LOADING_OR_PENDING  = "Counter value is loading or transaction in progress"
	HINT_PENDING             = "Transaction in progress"
	HINT_INVALID_NUMBER      = "Enter a valid number"
	OWNER_LOADING            = "Loading..."
)

type CounterView struct {
	Value     *uint64   `json:"value"`
	Display   string    `json:"display"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

type Control struct {
	Kind    ActionKind  `json:"kind"`
	Enabled bool        `json:"enabled"`
	Hint    string      `json:"hint,omitempty"`
	State   ActionState `json:"state"`
}

type SetInput struct {
	Text    string      `json:"text"`
	Result  InputResult `json:"result"`
	Value   *uint32     `json:"value,omitempty"`
	Message string      `json:"message,omitempty"`
	Current string      `json:"current,omitempty"`
}

// Affordances is everything a presentation layer needs to render the counter, computed from one snapshot
type Affordances struct {
	Counter          CounterView   `json:"counter"`
	Identity         string        `json:"identity,omitempty"`
	Owner            string        `json:"owner"`
	Authorization    Authorization `json:"authorization"`
	ConnectPrompt    string        `json:"connectPrompt,omitempty"`
	AccessDenied     string        `json:"accessDenied,omitempty"`
	TransactionError string        `json:"transactionError,omitempty"`
	ResetCost        string        `json:"resetCost"`
	Increase         Control       `json:"increase"`
	Decrease         Control       `json:"decrease"`
	Reset            Control       `json:"reset"`
	Set              Control       `json:"set"`
	SetInput         SetInput      `json:"setInput"`
}

func (s *Service) Affordances(input string) Affordances {
	states := make(map[ActionKind]ActionState)
	for _, kind := range AllActionKinds {
		states[kind] = s.ActionState(kind)
	}
	return buildAffordances(s.wallet.CurrentIdentity(), s.Owner(), s.Reading(), states, ValidateInput(input), s.config.ResetCostLabel())
}

func buildAffordances(identity adapter.Identity, owner OwnerRecord, reading Reading, states map[ActionKind]ActionState, validation InputValidation, resetCost string) Affordances {
	authorization := Authorize(identity, owner)

	a := Affordances{
		Counter:       counterView(reading),
		Identity:      identity.String(),
		Owner:         OWNER_LOADING,
		Authorization: authorization,
		ResetCost:     resetCost,
		SetInput:      setInput(validation, reading),
	}
	if owner.Known {
		a.Owner = owner.Address
	}

	switch authorization {
	case Disconnected:
		a.ConnectPrompt = HINT_CONNECT_TO_INTERACT
	case NotAuthorized:
		a.AccessDenied = HINT_OWNER_ONLY
	}

	for _, kind := range AllActionKinds {
		control := buildControl(kind, identity, owner, reading, states[kind], validation, resetCost)
		switch kind {
		case INCREASE:
			a.Increase = control
		case DECREASE:
			a.Decrease = control
		case RESET:
			a.Reset = control
		case SET:
			a.Set = control
		}
	}

	// increase and decrease share one error display, an increase failure takes precedence over a decrease failure
	if states[INCREASE].Status == FAILED {
		a.TransactionError = states[INCREASE].Reason
	} else if states[DECREASE].Status == FAILED {
		a.TransactionError = states[DECREASE].Reason
	}

	return a
}

func buildControl(kind ActionKind, identity adapter.Identity, owner OwnerRecord, reading Reading, state ActionState, validation InputValidation, resetCost string) Control {
	err := checkEligibility(kind, identity, owner, reading)
	if err == nil && kind == SET && !validation.Valid() {
		err = &ValidationError{Validation: validation}
	}
	if err == nil && state.Status == PENDING {
		err = ErrAlreadyPending
	}

	control := Control{Kind: kind, Enabled: err == nil, State: state}
	if err != nil {
		control.Hint = hintFor(kind, err)
	} else if kind == RESET {
		control.Hint = fmt.Sprintf("Reset counter to 0 (Costs %s)", resetCost)
	}
	return control
}

func hintFor(kind ActionKind, err error) string {
	switch e := errors.Cause(err).(type) {
	case *AuthorizationDenied:
		return HINT_OWNER_ONLY
	case *ValidationError:
		return HINT_INVALID_NUMBER
	case *IneligibleError:
		switch e.Reason {
		case REASON_DISCONNECTED:
			switch kind {
			case RESET:
				return HINT_CONNECT_TO_RESET
			case SET:
				return HINT_CONNECT_TO_SET
			default:
				return HINT_CONNECT_TO_INTERACT
			}
		case REASON_COUNTER_ZERO:
			if kind == RESET {
				return HINT_ALREADY_ZERO
			}
			return HINT_BELOW_ZERO
		case REASON_COUNTER_UNKNOWN:
			return HINT_LOADING_OR_PENDING
		}
	}

	if err == ErrAlreadyPending && kind == DECREASE {
		return HINT_LOADING_OR_PENDING
	}
	return HINT_PENDING
}

func counterView(reading Reading) CounterView {
	view := CounterView{
		Display:   reading.Display(),
		Loading:   reading.Loading,
		UpdatedAt: reading.UpdatedAt,
	}
	if reading.Known {
		value := reading.Value
		view.Value = &value
	}
	if reading.Err != nil {
		view.Error = reading.Err.Error()
	}
	return view
}

func setInput(validation InputValidation, reading Reading) SetInput {
	input := SetInput{
		Text:    validation.Text,
		Result:  validation.Result,
		Message: validation.Message(),
	}
	if validation.Valid() {
		value := validation.Value
		input.Value = &value
	}
	if reading.Known {
		input.Current = fmt.Sprintf("Current: %d", reading.Value)
	}
	return input
}
