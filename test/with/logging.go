// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package with

import (
	"github.com/orbs-network/scribe/log"
	"testing"
)

// the message govnr supervised goroutines log through logfields.GovnrErrorer
const RECOVERED_PANIC_MESSAGE = "recovered panic"

// LoggingHarness fails the test on any error log that was not explicitly allowed
type LoggingHarness struct {
	Logger     log.Logger
	testOutput *log.TestOutput
}

func (h *LoggingHarness) AllowErrorsMatching(pattern string) {
	h.testOutput.AllowErrorsMatching(pattern)
}

// for tests that panic inside supervised goroutines on purpose
func (h *LoggingHarness) AllowRecoveredPanics() {
	h.AllowErrorsMatching(RECOVERED_PANIC_MESSAGE)
}

func Logging(tb testing.TB, f func(harness *LoggingHarness)) {
	testOutput := log.NewTestOutput(tb, log.NewHumanReadableFormatter())
	h := &LoggingHarness{
		Logger:     log.GetLogger(log.String("test", tb.Name())).WithOutput(testOutput),
		testOutput: testOutput,
	}
	defer testOutput.TestTerminated()

	f(h)

	if testOutput.HasErrors() {
		tb.Fatal("test failed; encountered unexpected error logs")
	}
}
