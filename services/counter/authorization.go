// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter

import (
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"strings"
)

type Authorization int

const (
	Disconnected Authorization = iota
	NotAuthorized
	Authorized
)

func (a Authorization) String() string {
	switch a {
	case Disconnected:
		return "disconnected"
	case NotAuthorized:
		return "not-authorized"
	case Authorized:
		return "authorized"
	}
	return "unknown"
}

func (a Authorization) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Authorize is computed once per view, every affordance consumes the same decision
func Authorize(identity adapter.Identity, owner OwnerRecord) Authorization {
	if !identity.IsConnected() {
		return Disconnected
	}
	if !owner.Known || !strings.EqualFold(string(identity), owner.Address) {
		return NotAuthorized
	}
	return Authorized
}

func CanMutate(identity adapter.Identity, owner OwnerRecord) bool {
	return Authorize(identity, owner) == Authorized
}
