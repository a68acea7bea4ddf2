// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"time"
)

type NodeConfig interface {
	HttpServerConfig
	ContractConnectorConfig
	EthereumConnectorConfig
	OrbsConnectorConfig
	ReadCoordinatorConfig
	ControllerConfig
	LoggerConfig
	MetricsConfig

	MemoryContractOwner() string
}

type HttpServerConfig interface {
	HttpAddress() string
	HttpMaxConnections() uint32
	HttpSubmissionRate() uint32
	HttpSubmissionBurst() uint32
}

type ContractConnectorConfig interface {
	ContractConnector() string
}

type EthereumConnectorConfig interface {
	EthereumEndpoint() string
	EthereumChainId() uint32
	EthereumCounterContractAddress() string
	EthereumPrivateKey() string
	EthereumResetFeeWei() string
	TransactionTimeout() time.Duration
}

type OrbsConnectorConfig interface {
	OrbsEndpoint() string
	OrbsVirtualChainId() uint32
	OrbsCounterContractName() string
	OrbsPublicKey() string
	OrbsPrivateKey() string
	TransactionTimeout() time.Duration
}

type ReadCoordinatorConfig interface {
	CounterPollingInterval() time.Duration
	OwnerPollingInterval() time.Duration
}

type ControllerConfig interface {
	TransactionTimeout() time.Duration
	ResetCostLabel() string
}

type LoggerConfig interface {
	LoggerFullLog() bool
	LoggerFileTruncationInterval() time.Duration
	LoggerHttpEndpoint() string
	LoggerBulkSize() uint32
}

type MetricsConfig interface {
	MetricsReportInterval() time.Duration
	NtpEndpoint() string
}

type mutableNodeConfig interface {
	NodeConfig
	Set(key string, value NodeConfigValue) mutableNodeConfig
	SetDuration(key string, value time.Duration) mutableNodeConfig
	SetUint32(key string, value uint32) mutableNodeConfig
	SetString(key string, value string) mutableNodeConfig
	SetBool(key string, value bool) mutableNodeConfig
	Modify(newValues ...NodeConfigKeyValue) mutableNodeConfig
}

type NodeConfigValue struct {
	Uint32Value   uint32
	DurationValue time.Duration
	StringValue   string
	BoolValue     bool
}

type NodeConfigKeyValue struct {
	Key   string
	Value NodeConfigValue
}

type config struct {
	kv map[string]NodeConfigValue
}

const (
	HTTP_ADDRESS          = "HTTP_ADDRESS"
	HTTP_MAX_CONNECTIONS  = "HTTP_MAX_CONNECTIONS"
	HTTP_SUBMISSION_RATE  = "HTTP_SUBMISSION_RATE"
	HTTP_SUBMISSION_BURST = "HTTP_SUBMISSION_BURST"

	CONTRACT_CONNECTOR = "CONTRACT_CONNECTOR"

	ETHEREUM_ENDPOINT                 = "ETHEREUM_ENDPOINT"
	ETHEREUM_CHAIN_ID                 = "ETHEREUM_CHAIN_ID"
	ETHEREUM_COUNTER_CONTRACT_ADDRESS = "ETHEREUM_COUNTER_CONTRACT_ADDRESS"
	ETHEREUM_PRIVATE_KEY              = "ETHEREUM_PRIVATE_KEY"
	ETHEREUM_RESET_FEE_WEI            = "ETHEREUM_RESET_FEE_WEI"

	ORBS_ENDPOINT              = "ORBS_ENDPOINT"
	ORBS_VIRTUAL_CHAIN_ID      = "ORBS_VIRTUAL_CHAIN_ID"
	ORBS_COUNTER_CONTRACT_NAME = "ORBS_COUNTER_CONTRACT_NAME"
	ORBS_PUBLIC_KEY            = "ORBS_PUBLIC_KEY"
	ORBS_PRIVATE_KEY           = "ORBS_PRIVATE_KEY"

	COUNTER_POLLING_INTERVAL = "COUNTER_POLLING_INTERVAL"
	OWNER_POLLING_INTERVAL   = "OWNER_POLLING_INTERVAL"

	TRANSACTION_TIMEOUT = "TRANSACTION_TIMEOUT"
	RESET_COST_LABEL    = "RESET_COST_LABEL"

	LOGGER_FULL_LOG                 = "LOGGER_FULL_LOG"
	LOGGER_FILE_TRUNCATION_INTERVAL = "LOGGER_FILE_TRUNCATION_INTERVAL"
	LOGGER_HTTP_ENDPOINT            = "LOGGER_HTTP_ENDPOINT"
	LOGGER_BULK_SIZE                = "LOGGER_BULK_SIZE"

	METRICS_REPORT_INTERVAL = "METRICS_REPORT_INTERVAL"
	NTP_ENDPOINT            = "NTP_ENDPOINT"

	MEMORY_CONTRACT_OWNER = "MEMORY_CONTRACT_OWNER"
)

const (
	CONNECTOR_ETHEREUM = "ethereum"
	CONNECTOR_ORBS     = "orbs"
	CONNECTOR_MEMORY   = "memory"
)

func emptyConfig() mutableNodeConfig {
	return &config{
		kv: make(map[string]NodeConfigValue),
	}
}

func (c *config) Set(key string, value NodeConfigValue) mutableNodeConfig {
	c.kv[key] = value
	return c
}

func (c *config) SetDuration(key string, value time.Duration) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{DurationValue: value}
	return c
}

func (c *config) SetUint32(key string, value uint32) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{Uint32Value: value}
	return c
}

func (c *config) SetString(key string, value string) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{StringValue: value}
	return c
}

func (c *config) SetBool(key string, value bool) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{BoolValue: value}
	return c
}

func (c *config) HttpAddress() string {
	return c.kv[HTTP_ADDRESS].StringValue
}

func (c *config) HttpMaxConnections() uint32 {
	return c.kv[HTTP_MAX_CONNECTIONS].Uint32Value
}

func (c *config) HttpSubmissionRate() uint32 {
	return c.kv[HTTP_SUBMISSION_RATE].Uint32Value
}

func (c *config) HttpSubmissionBurst() uint32 {
	return c.kv[HTTP_SUBMISSION_BURST].Uint32Value
}

func (c *config) ContractConnector() string {
	return c.kv[CONTRACT_CONNECTOR].StringValue
}

func (c *config) EthereumEndpoint() string {
	return c.kv[ETHEREUM_ENDPOINT].StringValue
}

func (c *config) EthereumChainId() uint32 {
	return c.kv[ETHEREUM_CHAIN_ID].Uint32Value
}

func (c *config) EthereumCounterContractAddress() string {
	return c.kv[ETHEREUM_COUNTER_CONTRACT_ADDRESS].StringValue
}

func (c *config) EthereumPrivateKey() string {
	return c.kv[ETHEREUM_PRIVATE_KEY].StringValue
}

func (c *config) EthereumResetFeeWei() string {
	return c.kv[ETHEREUM_RESET_FEE_WEI].StringValue
}

func (c *config) OrbsEndpoint() string {
	return c.kv[ORBS_ENDPOINT].StringValue
}

func (c *config) OrbsVirtualChainId() uint32 {
	return c.kv[ORBS_VIRTUAL_CHAIN_ID].Uint32Value
}

func (c *config) OrbsCounterContractName() string {
	return c.kv[ORBS_COUNTER_CONTRACT_NAME].StringValue
}

func (c *config) OrbsPublicKey() string {
	return c.kv[ORBS_PUBLIC_KEY].StringValue
}

func (c *config) OrbsPrivateKey() string {
	return c.kv[ORBS_PRIVATE_KEY].StringValue
}

func (c *config) CounterPollingInterval() time.Duration {
	return c.kv[COUNTER_POLLING_INTERVAL].DurationValue
}

func (c *config) OwnerPollingInterval() time.Duration {
	return c.kv[OWNER_POLLING_INTERVAL].DurationValue
}

func (c *config) TransactionTimeout() time.Duration {
	return c.kv[TRANSACTION_TIMEOUT].DurationValue
}

func (c *config) ResetCostLabel() string {
	return c.kv[RESET_COST_LABEL].StringValue
}

func (c *config) LoggerFullLog() bool {
	return c.kv[LOGGER_FULL_LOG].BoolValue
}

func (c *config) LoggerFileTruncationInterval() time.Duration {
	return c.kv[LOGGER_FILE_TRUNCATION_INTERVAL].DurationValue
}

func (c *config) LoggerHttpEndpoint() string {
	return c.kv[LOGGER_HTTP_ENDPOINT].StringValue
}

func (c *config) LoggerBulkSize() uint32 {
	return c.kv[LOGGER_BULK_SIZE].Uint32Value
}

func (c *config) MetricsReportInterval() time.Duration {
	return c.kv[METRICS_REPORT_INTERVAL].DurationValue
}

func (c *config) NtpEndpoint() string {
	return c.kv[NTP_ENDPOINT].StringValue
}

func (c *config) MemoryContractOwner() string {
	return c.kv[MEMORY_CONTRACT_OWNER].StringValue
}
