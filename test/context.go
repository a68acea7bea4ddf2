// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"context"
	"github.com/orbs-network/govnr"
	"testing"
	"time"
)

const DEFAULT_SHUTDOWN_TIMEOUT = time.Second

func WithContext(f func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f(ctx)
}

// RequireShutdown fails the test when supervised goroutines outlive their (already cancelled) context
func RequireShutdown(tb testing.TB, waiter govnr.ShutdownWaiter, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	waiter.WaitUntilShutdown(ctx)
	if ctx.Err() != nil {
		tb.Fatalf("supervised goroutines still running %s after their context ended", timeout)
	}
}
