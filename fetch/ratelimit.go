// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fetch

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/pubconnector/fault"
)

// limiting for a single request
func limit(ctx context.Context, limiter *rate.Limiter) error {
	r := limiter.Reserve()
	if !r.OK() {
		return fault.ErrRateLimited
	}
	if err := sleep(ctx, r.Delay()); nil != err {
		r.Cancel()
		return err
	}
	return nil
}

// wait for a duration or until the context is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
