// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// fataler is the part of testing.TB the channel helpers need.
type fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive returns the next value from ch, failing the test if
// none arrives within timeout or ch is closed first.
//
//	report := testutil.RequireReceive(t, reports, 5*time.Second, "build report")
func RequireReceive[T any](t fataler, ch <-chan T, timeout time.Duration, msgAndArgs ...any) T {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("%s: channel closed before a value arrived", describe(msgAndArgs))
		}
		return value
	case <-timer.C:
		t.Fatalf("%s: nothing received after %v", describe(msgAndArgs), timeout)
	}
	panic("unreachable")
}

// RequireClosed waits for ch to close or deliver, failing the test
// after timeout. Pair it with a goroutine that closes ch once a
// sync.WaitGroup drains, so a stuck worker fails instead of hanging.
//
//	testutil.RequireClosed(t, done, 10*time.Second, "readers finished")
func RequireClosed(t fataler, ch <-chan struct{}, timeout time.Duration, msgAndArgs ...any) {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
	case <-timer.C:
		t.Fatalf("%s: still open after %v", describe(msgAndArgs), timeout)
	}
}

// describe renders the optional message: a plain value, or a format
// string and its arguments.
func describe(msgAndArgs []any) string {
	switch {
	case len(msgAndArgs) == 0:
		return "wait"
	case len(msgAndArgs) == 1:
		return fmt.Sprint(msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}
