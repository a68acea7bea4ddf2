// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"math/big"
	"reflect"
	"runtime"
	"strings"
	"time"
)

func ValidateNodeConfig(cfg NodeConfig) error {
	if err := requirePositive(cfg.TransactionTimeout); err != nil {
		return err
	}

	if cfg.HttpSubmissionRate() > 0 && cfg.HttpSubmissionBurst() == 0 {
		return errors.New("http submission burst must be positive when submissions are rate limited")
	}

	switch cfg.ContractConnector() {
	case CONNECTOR_ETHEREUM:
		return validateEthereum(cfg)
	case CONNECTOR_ORBS:
		return validateOrbs(cfg)
	case CONNECTOR_MEMORY:
		return nil
	default:
		return errors.Errorf("unknown contract connector %q, expected one of %s", cfg.ContractConnector(), strings.Join([]string{CONNECTOR_ETHEREUM, CONNECTOR_ORBS, CONNECTOR_MEMORY}, ", "))
	}
}

func validateEthereum(cfg EthereumConnectorConfig) error {
	if err := requireNonEmpty(cfg.EthereumEndpoint); err != nil {
		return err
	}
	if !common.IsHexAddress(cfg.EthereumCounterContractAddress()) {
		return errors.Errorf("ethereum counter contract address %q is not a hex address", cfg.EthereumCounterContractAddress())
	}
	if cfg.EthereumChainId() == 0 {
		return errors.New("ethereum chain id must be set")
	}
	if fee, ok := new(big.Int).SetString(cfg.EthereumResetFeeWei(), 10); !ok || fee.Sign() < 0 {
		return errors.Errorf("ethereum reset fee %q is not a non-negative decimal amount of wei", cfg.EthereumResetFeeWei())
	}
	return nil
}

func validateOrbs(cfg OrbsConnectorConfig) error {
	if err := requireNonEmpty(cfg.OrbsEndpoint); err != nil {
		return err
	}
	if err := requireNonEmpty(cfg.OrbsCounterContractName); err != nil {
		return err
	}
	if cfg.OrbsVirtualChainId() == 0 {
		return errors.New("orbs virtual chain id must be set")
	}
	return nil
}

func requireNonEmpty(f func() string) error {
	if f() == "" {
		return errors.Errorf("%s must not be empty", funcName(f))
	}
	return nil
}

func requirePositive(f func() time.Duration) error {
	if f() <= 0 {
		return errors.Errorf("%s must be positive, got %s", funcName(f), f())
	}
	return nil
}

func funcName(i interface{}) string {
	fullName := runtime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()
	lastDot := strings.LastIndex(fullName, ".")
	return strings.TrimSuffix(fullName[lastDot+1:], "-fm")
}
