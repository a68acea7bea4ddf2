// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package logfields

import (
	"context"
	"fmt"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"runtime/debug"
)

// attached to every action lifecycle transition, kept even when the full log is off
var LifecycleLogTag = log.String("flow", "action-lifecycle")

type Errorer interface {
	Error(message string, fields ...*log.Field)
}

func Action(kind fmt.Stringer) *log.Field {
	return log.Stringable("action", kind)
}

func Method(name string) *log.Field {
	return log.String("contract-method", name)
}

func Identity(address string) *log.Field {
	if address == "" {
		return log.String("identity", "disconnected")
	}
	return log.String("identity", address)
}

func Owner(address string) *log.Field {
	return log.String("owner", address)
}

func Counter(value uint64) *log.Field {
	return log.Uint64("counter", value)
}

func Sequence(seq uint64) *log.Field {
	return log.Uint64("read-seq", seq)
}

func ContextStringValue(ctx context.Context, key string) *log.Field {
	val := "not-found-in-context"
	if v := ctx.Value(key); v != nil {
		if vString, ok := v.(string); ok {
			val = vString
		} else {
			val = "found-in-context-but-not-string"
		}
	}
	return log.String(key, val)
}

type govnrErrorer struct {
	logger Errorer
}

func (h *govnrErrorer) Error(err error) {
	h.logger.Error("recovered panic", log.Error(err), log.String("stack-trace", string(debug.Stack())))
}

// GovnrErrorer adapts a logger to the error handler expected by govnr supervised goroutines
func GovnrErrorer(logger Errorer) govnr.Errorer {
	return &govnrErrorer{logger}
}
