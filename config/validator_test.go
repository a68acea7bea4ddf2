// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestValidateNodeConfig_AcceptsPresets(t *testing.T) {
	require.NoError(t, ValidateNodeConfig(ForTests("0xabc")))

	cfg := ForProduction()
	cfg.SetString(ETHEREUM_COUNTER_CONTRACT_ADDRESS, "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	require.NoError(t, ValidateNodeConfig(cfg))
}

func TestValidateNodeConfig_RejectsUnknownConnector(t *testing.T) {
	cfg := ForTests("0xabc")
	cfg.SetString(CONTRACT_CONNECTOR, "starknet")
	require.Error(t, ValidateNodeConfig(cfg))
}

func TestValidateNodeConfig_EthereumRequiresContractAddress(t *testing.T) {
	cfg := ForProduction()
	err := ValidateNodeConfig(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "contract address")
}

func TestValidateNodeConfig_EthereumRequiresDecimalFee(t *testing.T) {
	cfg := ForProduction()
	cfg.SetString(ETHEREUM_COUNTER_CONTRACT_ADDRESS, "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	cfg.SetString(ETHEREUM_RESET_FEE_WEI, "one")
	require.Error(t, ValidateNodeConfig(cfg))
}

func TestValidateNodeConfig_OrbsRequiresEndpoint(t *testing.T) {
	cfg := ForProduction()
	cfg.SetString(CONTRACT_CONNECTOR, CONNECTOR_ORBS)
	require.NoError(t, ValidateNodeConfig(cfg))

	cfg.SetString(ORBS_ENDPOINT, "")
	err := ValidateNodeConfig(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "OrbsEndpoint")
}

func TestValidateNodeConfig_RequiresTransactionTimeout(t *testing.T) {
	cfg := ForTests("0xabc")
	cfg.SetDuration(TRANSACTION_TIMEOUT, 0)
	err := ValidateNodeConfig(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "TransactionTimeout")
}
