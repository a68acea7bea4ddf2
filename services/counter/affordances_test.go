// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

var ignoreTimestamps = cmpopts.IgnoreFields(CounterView{}, "UpdatedAt")

func controlsOf(a Affordances) []Control {
	return []Control{a.Increase, a.Decrease, a.Reset, a.Set}
}

func TestAffordances_DisconnectedScenario(t *testing.T) {
	withService(t, adapter.Disconnected, 5, func(h *harness) {
		a := h.service.Affordances("7")

		require.Equal(t, Disconnected, a.Authorization)
		require.Equal(t, HINT_CONNECT_TO_INTERACT, a.ConnectPrompt)
		for _, control := range controlsOf(a) {
			require.False(t, control.Enabled, "%s should be disabled", control.Kind)
		}
		require.Equal(t, HINT_CONNECT_TO_INTERACT, a.Increase.Hint)
		require.Equal(t, HINT_CONNECT_TO_RESET, a.Reset.Hint)
		require.Equal(t, HINT_CONNECT_TO_SET, a.Set.Hint)
	})
}

func TestAffordances_ConnectedNonOwnerScenario(t *testing.T) {
	withService(t, strangerAddress, 5, func(h *harness) {
		a := h.service.Affordances("7")

		value := uint64(5)
		setValue := uint32(7)
		expected := Affordances{
			Counter:       CounterView{Value: &value, Display: "5"},
			Identity:      strangerAddress.String(),
			Owner:         ownerAddress.String(),
			Authorization: NotAuthorized,
			AccessDenied:  HINT_OWNER_ONLY,
			ResetCost:     "1 STRK",
			Increase:      Control{Kind: INCREASE, Hint: HINT_OWNER_ONLY},
			Decrease:      Control{Kind: DECREASE, Hint: HINT_OWNER_ONLY},
			Reset:         Control{Kind: RESET, Enabled: true, Hint: "Reset counter to 0 (Costs 1 STRK)"},
			Set:           Control{Kind: SET, Hint: HINT_OWNER_ONLY},
			SetInput:      SetInput{Text: "7", Result: InputValid, Value: &setValue, Current: "Current: 5"},
		}

		if diff := cmp.Diff(expected, a, ignoreTimestamps); diff != "" {
			t.Fatalf("unexpected affordances (-want +got):\n%s", diff)
		}
	})
}

func TestAffordances_OwnerWithZeroCounterScenario(t *testing.T) {
	withService(t, ownerAddress, 0, func(h *harness) {
		a := h.service.Affordances("")

		require.Equal(t, Authorized, a.Authorization)
		require.Empty(t, a.ConnectPrompt)
		require.Empty(t, a.AccessDenied)

		require.True(t, a.Increase.Enabled)
		require.Empty(t, a.Increase.Hint)

		require.False(t, a.Decrease.Enabled)
		require.Equal(t, HINT_BELOW_ZERO, a.Decrease.Hint)

		require.False(t, a.Reset.Enabled)
		require.Equal(t, HINT_ALREADY_ZERO, a.Reset.Hint)

		require.False(t, a.Set.Enabled, "empty input keeps set disabled")
		require.Equal(t, HINT_INVALID_NUMBER, a.Set.Hint)
		require.Empty(t, a.SetInput.Message, "empty input shows no message")
	})
}

func TestAffordances_UnknownCounterDisablesDecreaseAndReset(t *testing.T) {
	owner := OwnerRecord{Address: ownerAddress.String(), Known: true}
	idle := map[ActionKind]ActionState{}

	a := buildAffordances(ownerAddress, owner, Reading{}, idle, ValidateInput(""), "1 STRK")

	require.Equal(t, UNKNOWN_DISPLAY, a.Counter.Display)
	require.Nil(t, a.Counter.Value)
	require.False(t, a.Decrease.Enabled)
	require.Equal(t, HINT_LOADING_OR_PENDING, a.Decrease.Hint)
	require.False(t, a.Reset.Enabled)
	require.True(t, a.Increase.Enabled)
	require.Empty(t, a.SetInput.Current)
}

func TestAffordances_PendingDisablesOnlyThatKind(t *testing.T) {
	owner := OwnerRecord{Address: ownerAddress.String(), Known: true}
	states := map[ActionKind]ActionState{
		INCREASE: {Status: PENDING},
		DECREASE: {Status: PENDING},
	}

	a := buildAffordances(ownerAddress, owner, Reading{Value: 3, Known: true}, states, ValidateInput("1"), "1 STRK")

	require.False(t, a.Increase.Enabled)
	require.Equal(t, HINT_PENDING, a.Increase.Hint)
	require.False(t, a.Decrease.Enabled)
	require.Equal(t, HINT_LOADING_OR_PENDING, a.Decrease.Hint)
	require.True(t, a.Reset.Enabled)
	require.True(t, a.Set.Enabled)
}

func TestAffordances_InvalidSetInput(t *testing.T) {
	owner := OwnerRecord{Address: ownerAddress.String(), Known: true}

	a := buildAffordances(ownerAddress, owner, Reading{Value: 3, Known: true}, map[ActionKind]ActionState{}, ValidateInput("4294967296"), "1 STRK")

	require.False(t, a.Set.Enabled)
	require.Equal(t, HINT_INVALID_NUMBER, a.Set.Hint)
	require.Equal(t, INVALID_INPUT_MESSAGE, a.SetInput.Message)
	require.Equal(t, InputOutOfRange, a.SetInput.Result)
	require.Nil(t, a.SetInput.Value)
}

func TestAffordances_CombinedTransactionError(t *testing.T) {
	owner := OwnerRecord{Address: ownerAddress.String(), Known: true}
	states := map[ActionKind]ActionState{
		DECREASE: {Status: FAILED, Reason: "decrease transaction failed: reverted"},
		RESET:    {Status: FAILED, Reason: "reset transaction failed: insufficient balance"},
	}

	a := buildAffordances(ownerAddress, owner, Reading{Value: 3, Known: true, UpdatedAt: time.Now()}, states, ValidateInput(""), "1 STRK")

	require.Equal(t, "decrease transaction failed: reverted", a.TransactionError)
	require.True(t, a.Decrease.Enabled, "a failed action can be retried")
	require.Equal(t, FAILED, a.Reset.State.Status)
}

func TestAffordances_IncreaseFailureTakesPrecedence(t *testing.T) {
	owner := OwnerRecord{Address: ownerAddress.String(), Known: true}
	states := map[ActionKind]ActionState{
		INCREASE: {Status: FAILED, Reason: "increase transaction failed: out of gas"},
		DECREASE: {Status: FAILED, Reason: "decrease transaction failed: reverted"},
	}

	a := buildAffordances(ownerAddress, owner, Reading{Value: 3, Known: true, UpdatedAt: time.Now()}, states, ValidateInput(""), "1 STRK")

	require.Equal(t, "increase transaction failed: out of gas", a.TransactionError)
}

func TestAffordances_ReadErrorIsShown(t *testing.T) {
	reading := Reading{Err: &TransportReadError{Method: adapter.GET_COUNTER, Cause: errTest("rpc down")}}

	a := buildAffordances(adapter.Disconnected, OwnerRecord{}, reading, map[ActionKind]ActionState{}, ValidateInput(""), "1 STRK")

	require.Equal(t, "failed reading get_counter: rpc down", a.Counter.Error)
	require.Equal(t, OWNER_LOADING, a.Owner)
}

type errTest string

func (e errTest) Error() string {
	return string(e)
}
