// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/stretchr/testify/require"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_FillEmptyConfig(t *testing.T) {
	// setup
	cfg := emptyConfig()
	// execute
	require.NoError(t, mergeTest(cfg))
	// assert
	checkMerged(t, cfg)
}

func TestConfig_OverrideProductionConfig(t *testing.T) {
	// setup
	cfg := ForProduction()
	// execute
	require.NoError(t, mergeTest(cfg))
	// assert
	checkMerged(t, cfg)
	require.EqualValues(t, 256, cfg.HttpMaxConnections(), "untouched keys should keep their preset")
}

func TestConfig_ParsesZeroValues(t *testing.T) {
	// setup
	cfg := emptyConfig()
	require.NoError(t, mergeTest(cfg))
	// execute
	err := modifyFromJson(cfg, `
{
	"logger-full-log": false,
	"ethereum-chain-id": 0,
	"transaction-timeout": "0s",
	"ethereum-endpoint": "",
	"ethereum-reset-fee-wei": "0"
}`)
	// assert
	require.NoError(t, err)
	require.EqualValues(t, false, cfg.LoggerFullLog())
	require.EqualValues(t, 0, cfg.EthereumChainId())
	require.EqualValues(t, 0, cfg.TransactionTimeout())
	require.EqualValues(t, "", cfg.EthereumEndpoint())
	require.EqualValues(t, "0", cfg.EthereumResetFeeWei(), "a numeric fee must not be mistaken for a duration")
}

func TestConfig_RejectsMistypedValues(t *testing.T) {
	cfg := emptyConfig()

	require.Error(t, modifyFromJson(cfg, `{"transaction-timeout": "soon"}`))
	require.Error(t, modifyFromJson(cfg, `{"ethereum-chain-id": -1}`))
	require.Error(t, modifyFromJson(cfg, `{"ethereum-chain-id": 1.5}`))
	require.Error(t, modifyFromJson(cfg, `{"http-max-connections": [1]}`))
}

func TestConfig_EnvironmentOverridesFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "counter-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "config.json")
	require.NoError(t, ioutil.WriteFile(file, []byte(`{"contract-connector": "orbs", "orbs-virtual-chain-id": 1000}`), 0644))

	cfg, err := GetNodeConfigFromFilesAndEnvironment(FilesPaths{file}, map[string]string{
		ORBS_VIRTUAL_CHAIN_ID:    "2000",
		COUNTER_POLLING_INTERVAL: "1s",
		LOGGER_FULL_LOG:          "true",
		"PATH":                   "/usr/bin",
	}, "127.0.0.1:9090")
	require.NoError(t, err)

	require.Equal(t, CONNECTOR_ORBS, cfg.ContractConnector())
	require.EqualValues(t, 2000, cfg.OrbsVirtualChainId())
	require.Equal(t, 1*time.Second, cfg.CounterPollingInterval())
	require.True(t, cfg.LoggerFullLog())
	require.Equal(t, "127.0.0.1:9090", cfg.HttpAddress())
}

func TestConfig_MissingFileIsAnError(t *testing.T) {
	_, err := GetNodeConfigFromFiles(FilesPaths{"/no/such/config.json"}, "")
	require.Error(t, err)
}

func TestFilesPaths_CollectsRepeatedFlags(t *testing.T) {
	var paths FilesPaths
	require.NoError(t, paths.Set("a.json"))
	require.NoError(t, paths.Set("b.json"))
	require.Equal(t, FilesPaths{"a.json", "b.json"}, paths)
	require.Equal(t, "a.json,b.json", paths.String())
}

func mergeTest(cfg mutableNodeConfig) error {
	return modifyFromJson(cfg, `
{
	"http-address": ":9999",
	"contract-connector": "ethereum",
	"ethereum-endpoint": "http://0.0.0.100:8545",
	"ethereum-chain-id": 1337,
	"ethereum-counter-contract-address": "0x5FbDB2315678afecb367f032d93F642f64180aa3",
	"ethereum-reset-fee-wei": "1000",
	"counter-polling-interval": "10s",
	"transaction-timeout": "45s",
	"logger-full-log": true,
	"reset-cost-label": "1 ETH"
}`)
}

func checkMerged(t *testing.T, cfg NodeConfig) {
	require.EqualValues(t, ":9999", cfg.HttpAddress())
	require.EqualValues(t, CONNECTOR_ETHEREUM, cfg.ContractConnector())
	require.EqualValues(t, "http://0.0.0.100:8545", cfg.EthereumEndpoint())
	require.EqualValues(t, 1337, cfg.EthereumChainId())
	require.EqualValues(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", cfg.EthereumCounterContractAddress())
	require.EqualValues(t, "1000", cfg.EthereumResetFeeWei())
	require.EqualValues(t, 10*time.Second, cfg.CounterPollingInterval())
	require.EqualValues(t, 45*time.Second, cfg.TransactionTimeout())
	require.EqualValues(t, true, cfg.LoggerFullLog())
	require.EqualValues(t, "1 ETH", cfg.ResetCostLabel())
}
