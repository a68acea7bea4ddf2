// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter_contract

import (
	"bytes"
	"fmt"
	"github.com/orbs-network/orbs-contract-sdk/go/sdk/v1"
	"github.com/orbs-network/orbs-contract-sdk/go/sdk/v1/address"
	"github.com/orbs-network/orbs-contract-sdk/go/sdk/v1/state"
	"math"
)

// helpers for avoiding reliance on strings throughout the system
const CONTRACT_NAME = "Counter"
const METHOD_GET_COUNTER = "get_counter"
const METHOD_OWNER = "owner"

/////////////////////////////////////////////////////////////////
// contract starts here

var PUBLIC = sdk.Export(get_counter, owner, increase_counter, decrease_counter, reset_counter, set_counter)
var SYSTEM = sdk.Export(_init)

// state keys
var OWNER_KEY = []byte("_OWNER_")
var COUNTER_KEY = []byte("_COUNTER_")

// the deployer owns the counter
func _init() {
	state.WriteBytes(OWNER_KEY, address.GetSignerAddress())
}

func get_counter() uint32 {
	return state.ReadUint32(COUNTER_KEY)
}

func owner() []byte {
	return state.ReadBytes(OWNER_KEY)
}

func increase_counter() {
	_requireOwner("increase")
	value := get_counter()
	if value == math.MaxUint32 {
		panic("counter would overflow")
	}
	state.WriteUint32(COUNTER_KEY, value+1)
}

func decrease_counter() {
	_requireOwner("decrease")
	value := get_counter()
	if value == 0 {
		panic("cannot decrease counter below 0")
	}
	state.WriteUint32(COUNTER_KEY, value-1)
}

// anyone may reset, ownership is not checked
func reset_counter() {
	if get_counter() == 0 {
		panic("counter is already at 0")
	}
	state.WriteUint32(COUNTER_KEY, 0)
}

func set_counter(value uint32) {
	_requireOwner("set")
	state.WriteUint32(COUNTER_KEY, value)
}

func _requireOwner(action string) {
	if !bytes.Equal(address.GetSignerAddress(), owner()) {
		panic(fmt.Sprintf("only the owner can %s the counter", action))
	}
}
