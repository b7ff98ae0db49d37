// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Real returns a Clock backed by the standard time package. Times are
// reported in UTC so persisted timestamps do not depend on the host
// zone.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }
