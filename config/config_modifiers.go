// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"encoding/json"
	"fmt"
	"github.com/pkg/errors"
	"io/ioutil"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

type valueKind int

const (
	kindString valueKind = iota
	kindUint32
	kindDuration
	kindBool
)

var knownKeys = map[string]valueKind{
	HTTP_ADDRESS:                      kindString,
	HTTP_MAX_CONNECTIONS:              kindUint32,
	HTTP_SUBMISSION_RATE:              kindUint32,
	HTTP_SUBMISSION_BURST:             kindUint32,
	CONTRACT_CONNECTOR:                kindString,
	ETHEREUM_ENDPOINT:                 kindString,
	ETHEREUM_CHAIN_ID:                 kindUint32,
	ETHEREUM_COUNTER_CONTRACT_ADDRESS: kindString,
	ETHEREUM_PRIVATE_KEY:              kindString,
	ETHEREUM_RESET_FEE_WEI:            kindString,
	ORBS_ENDPOINT:                     kindString,
	ORBS_VIRTUAL_CHAIN_ID:             kindUint32,
	ORBS_COUNTER_CONTRACT_NAME:        kindString,
	ORBS_PUBLIC_KEY:                   kindString,
	ORBS_PRIVATE_KEY:                  kindString,
	COUNTER_POLLING_INTERVAL:          kindDuration,
	OWNER_POLLING_INTERVAL:            kindDuration,
	TRANSACTION_TIMEOUT:               kindDuration,
	RESET_COST_LABEL:                  kindString,
	LOGGER_FULL_LOG:                   kindBool,
	LOGGER_FILE_TRUNCATION_INTERVAL:   kindDuration,
	LOGGER_HTTP_ENDPOINT:              kindString,
	LOGGER_BULK_SIZE:                  kindUint32,
	METRICS_REPORT_INTERVAL:           kindDuration,
	NTP_ENDPOINT:                      kindString,
	MEMORY_CONTRACT_OWNER:             kindString,
}

// Mutate
func (c *config) Modify(newValues ...NodeConfigKeyValue) mutableNodeConfig {
	for _, kv := range newValues {
		c.kv[kv.Key] = kv.Value
	}
	return c
}

func modifyFromJson(cfg mutableNodeConfig, source string) error {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(source), &data); err != nil {
		return err
	}

	return populateConfig(cfg, data)
}

// environment values are keyed by their UPPER_SNAKE name, unknown keys are ignored
func modifyFromEnvironment(cfg mutableNodeConfig, env map[string]string) error {
	for key, value := range env {
		if _, known := knownKeys[key]; !known {
			continue
		}
		if err := setValue(cfg, key, value); err != nil {
			return err
		}
	}
	return nil
}

func convertKeyName(key string) string {
	return strings.ToUpper(strings.Replace(key, "-", "_", -1))
}

func populateConfig(cfg mutableNodeConfig, data map[string]interface{}) error {
	for key, value := range data {
		if err := setValue(cfg, convertKeyName(key), value); err != nil {
			return err
		}
	}

	return nil
}

func setValue(cfg mutableNodeConfig, key string, value interface{}) error {
	kind, known := knownKeys[key]

	switch v := value.(type) {
	case bool:
		cfg.SetBool(key, v)
	case float64:
		i, err := parseUint32(v)
		if err != nil {
			return errors.Wrapf(err, "could not decode value for config key %s", key)
		}
		cfg.SetUint32(key, i)
	case string:
		if !known {
			// unknown keys keep the loose behavior: anything that reads as a duration is one
			if duration, err := time.ParseDuration(v); err == nil && !isDigits(v) {
				cfg.SetDuration(key, duration)
			} else {
				cfg.SetString(key, v)
			}
			return nil
		}
		return setTypedString(cfg, key, kind, v)
	default:
		return errors.Errorf("unsupported value type %T for config key %s", value, key)
	}

	return nil
}

func setTypedString(cfg mutableNodeConfig, key string, kind valueKind, v string) error {
	switch kind {
	case kindDuration:
		duration, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "could not decode value for config key %s", key)
		}
		cfg.SetDuration(key, duration)
	case kindUint32:
		i, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return errors.Wrapf(err, "could not decode value for config key %s", key)
		}
		cfg.SetUint32(key, uint32(i))
	case kindBool:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "could not decode value for config key %s", key)
		}
		cfg.SetBool(key, b)
	default:
		cfg.SetString(key, v)
	}
	return nil
}

func parseUint32(f64 float64) (uint32, error) {
	if f64 < 0 || f64 > math.MaxUint32 || f64 != math.Trunc(f64) {
		return 0, fmt.Errorf("%v is not an unsigned 32 bit integer", f64)
	}
	return uint32(f64), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// For main reading several files into one config

type FilesPaths []string

func (i *FilesPaths) String() string {
	return strings.Join(*i, ",")
}

func (i *FilesPaths) Set(value string) error {
	*i = append(*i, value)
	return nil
}

func (i *FilesPaths) Type() string {
	return "stringArray"
}

func GetNodeConfigFromFiles(configFiles FilesPaths, httpAddress string) (NodeConfig, error) {
	return GetNodeConfigFromFilesAndEnvironment(configFiles, nil, httpAddress)
}

// files are merged in order on top of the production preset, environment values win over files
func GetNodeConfigFromFilesAndEnvironment(configFiles FilesPaths, env map[string]string, httpAddress string) (NodeConfig, error) {
	cfg := defaultProductionConfig()

	for _, configFile := range configFiles {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, errors.Errorf("could not open config file: %s", err)
		}

		contents, err := ioutil.ReadFile(configFile)
		if err != nil {
			return nil, err
		}

		if err := modifyFromJson(cfg, string(contents)); err != nil {
			return nil, errors.Wrapf(err, "failed parsing config file %s", configFile)
		}
	}

	if err := modifyFromEnvironment(cfg, env); err != nil {
		return nil, errors.Wrap(err, "failed parsing environment")
	}

	if httpAddress != "" {
		cfg.SetString(HTTP_ADDRESS, httpAddress)
	}

	return cfg, nil
}
