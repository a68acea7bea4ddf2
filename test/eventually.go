// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"github.com/orbs-network/go-mock"
	"time"
)

const EVENTUALLY_TIMEOUT = 1 * time.Second
const CONSISTENTLY_TIMEOUT = 200 * time.Millisecond
const pollInterval = 5 * time.Millisecond

func Eventually(f func() bool) bool {
	return EventuallyWithin(EVENTUALLY_TIMEOUT, f)
}

func EventuallyWithin(timeout time.Duration, f func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if f() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollInterval)
	}
}

func Consistently(f func() bool) bool {
	deadline := time.Now().Add(CONSISTENTLY_TIMEOUT)
	for time.Now().Before(deadline) {
		if !f() {
			return false
		}
		time.Sleep(pollInterval)
	}
	return true
}

// EventuallyVerify polls all mocks until each of them verified once or the timeout passes
func EventuallyVerify(mocks ...mock.HasVerify) error {
	verified := make([]bool, len(mocks))
	var lastErr error
	ok := Eventually(func() bool {
		done := true
		for i, m := range mocks {
			if verified[i] {
				continue
			}
			if ok, err := m.Verify(); ok {
				verified[i] = true
			} else {
				lastErr = err
				done = false
			}
		}
		return done
	})
	if ok {
		return nil
	}
	return lastErr
}

func ConsistentlyVerify(mocks ...mock.HasVerify) (err error) {
	Consistently(func() bool {
		for _, m := range mocks {
			if ok, verifyErr := m.Verify(); !ok {
				err = verifyErr
				return false
			}
		}
		return true
	})
	return
}
