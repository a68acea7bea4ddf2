// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ethereum

import (
	_ "embed"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/pkg/errors"
	"strings"
)

//go:embed counter.abi
var counterABIJSON string

func CounterABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(counterABIJSON))
	if err != nil {
		return abi.ABI{}, errors.Wrap(err, "failed parsing embedded counter abi")
	}
	return parsed, nil
}

// selector is the 4 byte method id prefixing the call data of method
func selector(parsed abi.ABI, method adapter.Method, args ...interface{}) ([]byte, error) {
	packed, err := parsed.Pack(method.String(), args...)
	if err != nil {
		return nil, err
	}
	return packed[:4], nil
}
