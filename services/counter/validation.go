// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter

import (
	"math"
	"strconv"
	"strings"
)

const INVALID_INPUT_MESSAGE = "Please enter a valid unsigned 32-bit integer."

type InputResult int

const (
	InputEmpty InputResult = iota
	InputMalformed
	InputOutOfRange
	InputValid
)

func (r InputResult) String() string {
	switch r {
	case InputEmpty:
		return "empty"
	case InputMalformed:
		return "malformed"
	case InputOutOfRange:
		return "out-of-range"
	case InputValid:
		return "valid"
	}
	return "unknown"
}

func (r InputResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

type InputValidation struct {
	Text   string
	Value  uint32
	Result InputResult
}

func (v InputValidation) Valid() bool {
	return v.Result == InputValid
}

// empty input is not an error to show, it only keeps submission disabled
func (v InputValidation) Message() string {
	switch v.Result {
	case InputEmpty, InputValid:
		return ""
	default:
		return INVALID_INPUT_MESSAGE
	}
}

// ValidateInput is pure and cheap enough to run on every keystroke
func ValidateInput(text string) InputValidation {
	trimmed := strings.TrimSpace(text)
	v := InputValidation{Text: trimmed}

	if trimmed == "" {
		v.Result = InputEmpty
		return v
	}

	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] < '0' || trimmed[i] > '9' {
			v.Result = InputMalformed
			return v
		}
	}

	// leading zeros are allowed, anything longer than 10 significant digits is out of range
	significant := strings.TrimLeft(trimmed, "0")
	if significant == "" {
		v.Result = InputValid
		return v
	}
	if len(significant) > len(strconv.FormatUint(math.MaxUint32, 10)) {
		v.Result = InputOutOfRange
		return v
	}

	parsed, err := strconv.ParseUint(significant, 10, 64)
	if err != nil || parsed > math.MaxUint32 {
		v.Result = InputOutOfRange
		return v
	}

	v.Value = uint32(parsed)
	v.Result = InputValid
	return v
}
