// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter

import (
	"encoding/hex"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const UNKNOWN_DISPLAY = "N/A"

// Reading is the canonical counter value, only the ReadCoordinator creates them
type Reading struct {
	Value     uint64
	Known     bool
	Loading   bool
	Err       error
	UpdatedAt time.Time
}

func (r Reading) Display() string {
	if !r.Known {
		return UNKNOWN_DISPLAY
	}
	return strconv.FormatUint(r.Value, 10)
}

func (r Reading) IsPositive() bool {
	return r.Known && r.Value > 0
}

type OwnerRecord struct {
	Address string
	Known   bool
	Err     error
}

// Normalize never fails, shapes it does not recognize read as unknown
func Normalize(raw adapter.RemoteValue) Reading {
	value, ok := normalizeValue(raw)
	if !ok {
		return Reading{}
	}
	return Reading{Value: value, Known: true}
}

func normalizeValue(raw adapter.RemoteValue) (uint64, bool) {
	switch v := raw.(type) {
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int8:
		return fromSigned(int64(v))
	case int16:
		return fromSigned(int64(v))
	case int32:
		return fromSigned(int64(v))
	case int64:
		return fromSigned(v)
	case int:
		return fromSigned(int64(v))
	case *big.Int:
		return fromBig(v)
	case big.Int:
		return fromBig(&v)
	case []interface{}:
		if len(v) == 0 {
			return 0, false
		}
		return normalizeValue(v[0])
	case []*big.Int:
		if len(v) == 0 {
			return 0, false
		}
		return fromBig(v[0])
	case []uint32:
		if len(v) == 0 {
			return 0, false
		}
		return uint64(v[0]), true
	case []uint64:
		if len(v) == 0 {
			return 0, false
		}
		return v[0], true
	default:
		return 0, false
	}
}

func fromSigned(v int64) (uint64, bool) {
	if v < 0 {
		return 0, false
	}
	return uint64(v), true
}

func fromBig(v *big.Int) (uint64, bool) {
	if v == nil || v.Sign() < 0 || !v.IsUint64() {
		return 0, false
	}
	return v.Uint64(), true
}

// NormalizeOwner applies the same shape rules to the owner address, a zero address means no owner
func NormalizeOwner(raw adapter.RemoteValue) OwnerRecord {
	address, ok := normalizeAddress(raw)
	if !ok {
		return OwnerRecord{}
	}
	return OwnerRecord{Address: address, Known: true}
}

func normalizeAddress(raw adapter.RemoteValue) (string, bool) {
	switch v := raw.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		return trimmed, trimmed != "" && !isZeroHex(trimmed)
	case adapter.Identity:
		return normalizeAddress(string(v))
	case common.Address:
		return v.Hex(), v != (common.Address{})
	case *common.Address:
		if v == nil {
			return "", false
		}
		return normalizeAddress(*v)
	case []byte:
		return normalizeAddress("0x" + hex.EncodeToString(v))
	case *big.Int:
		if v == nil || v.Sign() <= 0 {
			return "", false
		}
		return "0x" + v.Text(16), true
	case []interface{}:
		if len(v) == 0 {
			return "", false
		}
		return normalizeAddress(v[0])
	case []string:
		if len(v) == 0 {
			return "", false
		}
		return normalizeAddress(v[0])
	default:
		return "", false
	}
}

func isZeroHex(s string) bool {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return digits == "" || strings.Trim(digits, "0") == ""
}
