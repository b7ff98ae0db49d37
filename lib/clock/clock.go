// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts reading the current time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Since returns the time elapsed since start according to c.
func Since(c Clock, start time.Time) time.Duration {
	return c.Now().Sub(start)
}

// OrReal returns c, or Real() when c is nil.
func OrReal(c Clock) Clock {
	if c == nil {
		return Real()
	}
	return c
}
