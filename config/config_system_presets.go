// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"time"
)

// all other configs are variations from the production one
func defaultProductionConfig() mutableNodeConfig {
	cfg := emptyConfig()

	cfg.SetString(HTTP_ADDRESS, ":8080")
	cfg.SetUint32(HTTP_MAX_CONNECTIONS, 256)
	// a submission is a signed transaction, a burst larger than a few blocks makes no sense
	cfg.SetUint32(HTTP_SUBMISSION_RATE, 5)
	cfg.SetUint32(HTTP_SUBMISSION_BURST, 10)

	cfg.SetString(CONTRACT_CONNECTOR, CONNECTOR_ETHEREUM)

	cfg.SetString(ETHEREUM_ENDPOINT, "http://localhost:8545")
	cfg.SetUint32(ETHEREUM_CHAIN_ID, 31337)
	cfg.SetString(ETHEREUM_RESET_FEE_WEI, "1000000000000000000") // 1 token

	cfg.SetString(ORBS_ENDPOINT, "http://localhost:8081")
	cfg.SetUint32(ORBS_VIRTUAL_CHAIN_ID, 42)
	cfg.SetString(ORBS_COUNTER_CONTRACT_NAME, "Counter")

	// roughly a block, the remote value cannot change faster than that
	cfg.SetDuration(COUNTER_POLLING_INTERVAL, 4*time.Second)
	cfg.SetDuration(OWNER_POLLING_INTERVAL, 1*time.Minute)

	cfg.SetDuration(TRANSACTION_TIMEOUT, 2*time.Minute)
	cfg.SetString(RESET_COST_LABEL, "1 STRK")

	cfg.SetBool(LOGGER_FULL_LOG, false)
	cfg.SetDuration(LOGGER_FILE_TRUNCATION_INTERVAL, 24*time.Hour)
	cfg.SetUint32(LOGGER_BULK_SIZE, 100)

	cfg.SetDuration(METRICS_REPORT_INTERVAL, 30*time.Second)
	cfg.SetString(NTP_ENDPOINT, "pool.ntp.org")

	return cfg
}

func ForProduction() mutableNodeConfig {
	return defaultProductionConfig()
}

// in-memory contract, no pollers, no background reporters
func ForTests(owner string) mutableNodeConfig {
	cfg := defaultProductionConfig()

	cfg.SetString(HTTP_ADDRESS, "127.0.0.1:0")
	cfg.SetUint32(HTTP_SUBMISSION_RATE, 1000)
	cfg.SetUint32(HTTP_SUBMISSION_BURST, 1000)

	cfg.SetString(CONTRACT_CONNECTOR, CONNECTOR_MEMORY)
	cfg.SetString(MEMORY_CONTRACT_OWNER, owner)

	cfg.SetDuration(COUNTER_POLLING_INTERVAL, 0)
	cfg.SetDuration(OWNER_POLLING_INTERVAL, 0)
	cfg.SetDuration(TRANSACTION_TIMEOUT, 5*time.Second)

	cfg.SetBool(LOGGER_FULL_LOG, true)
	cfg.SetDuration(METRICS_REPORT_INTERVAL, 0)
	cfg.SetString(NTP_ENDPOINT, "")

	return cfg
}
