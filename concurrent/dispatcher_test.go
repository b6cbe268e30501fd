//----------------------------------------------------------------------
// This file is part of Gospel.
// Copyright (C) 2011-2024 Bernd Fix  >Y<
//
// Gospel is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// Gospel is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package concurrent

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/bfix/qsieve/math"
)

type TestDispatchable struct {
	busy  atomic.Int32
	found atomic.Int32
}

// Worker tests candidate exponents i for Mersenne primality of 2^i-1.
func (d *TestDispatchable) Worker(ctx context.Context, n int, taskCh chan int, resCh chan int) {
	for {
		select {
		case <-ctx.Done():
			return

		case i := <-taskCh:
			d.busy.Add(1)
			m := math.TWO.Pow(i).Sub(math.ONE)
			if m.ProbablyPrime(64) {
				resCh <- i
			}
			d.busy.Add(-1)
		}
	}
}

func (d *TestDispatchable) Eval(result int) bool {
	fmt.Printf("got: 2^%d-1 is prime\n", result)
	return d.found.Add(1) >= 5
}

func (d *TestDispatchable) Busy() int {
	return int(d.busy.Load())
}

func TestWorker(t *testing.T) {

	// run dispatcher
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher[int, int](ctx, 8, new(TestDispatchable))
	defer cancel()

	// process tasks until finished
	for i := 0; ; i++ {
		if !d.Process(i) {
			break
		}
	}
}
