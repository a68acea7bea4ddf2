// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"context"
)

// RemoteValue is whatever the transport decoded, its shape depends on the chain and codec
type RemoteValue interface{}

type Identity string

const Disconnected Identity = ""

func (i Identity) IsConnected() bool {
	return i != Disconnected
}

func (i Identity) String() string {
	return string(i)
}

type Method string

const (
	GET_COUNTER      Method = "get_counter"
	OWNER            Method = "owner"
	INCREASE_COUNTER Method = "increase_counter"
	DECREASE_COUNTER Method = "decrease_counter"
	RESET_COUNTER    Method = "reset_counter"
	SET_COUNTER      Method = "set_counter"
)

func (m Method) String() string {
	return string(m)
}

type ContractReader interface {
	ReadCounter(ctx context.Context) (RemoteValue, error)
	ReadOwner(ctx context.Context) (RemoteValue, error)
}

// Submit returns once the transaction settled, a nil error means it was accepted by the remote contract
type ContractWriter interface {
	Submit(ctx context.Context, method Method, args ...interface{}) error
}

type Wallet interface {
	CurrentIdentity() Identity
}

type Contract interface {
	ContractReader
	ContractWriter
}

type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}
