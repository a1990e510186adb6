/*
Copyright © 2026 the ResGenWest authors.
This file is part of ResGenWest.

ResGenWest is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ResGenWest is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ResGenWest.  If not, see <http://www.gnu.org/licenses/>.
*/

package frontier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ctessum/requestcache"
	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/singleflight"
)

// query is a single question asked of the Solver.
type query struct {
	minCost bool
	amount  int64
}

func (q query) key() string {
	if q.minCost {
		return fmt.Sprintf("v:%d", q.amount)
	}
	return fmt.Sprintf("b:%d", q.amount)
}

func (q query) String() string {
	if q.minCost {
		return fmt.Sprintf("min cost for value >= %d", q.amount)
	}
	return fmt.Sprintf("max value for budget %d", q.amount)
}

// job is the payload handed to a worker pool.
type job struct {
	a *adapter
	q query
}

func processJob(ctx context.Context, payload interface{}) (interface{}, error) {
	j := payload.(job)
	sol, err := j.a.process(ctx, j.q)
	if err != nil {
		return nil, err
	}
	return sol, nil
}

// requestcache workers run for the life of the process, so there is one
// pool per worker count and runs with the same Workers setting share it.
var (
	poolMu sync.Mutex
	pools  = make(map[int]*requestcache.Cache)
)

func workerPool(workers int) *requestcache.Cache {
	if workers < 1 {
		workers = 1
	}
	poolMu.Lock()
	defer poolMu.Unlock()
	c, ok := pools[workers]
	if !ok {
		c = requestcache.NewCache(processJob, workers)
		pools[workers] = c
	}
	return c
}

// adapter sits between the engine and a Solver for the duration of one
// run. It bounds every call by the configured timeout, verifies the
// answers, and memoizes them by budget or value so repeated probes do
// not reach the solver twice. It is safe for concurrent use.
type adapter struct {
	solver  Solver
	groups  []Group
	timeout time.Duration
	pool    *requestcache.Cache

	// flight collapses concurrent identical queries into one solver call.
	flight singleflight.Group

	mu   sync.Mutex
	memo *lru.Cache // nil when memoization is off

	calls int64
}

func newAdapter(s Solver, groups []Group, cfg Config) *adapter {
	a := &adapter{
		solver:  s,
		groups:  groups,
		timeout: cfg.SolverTimeout,
		pool:    workerPool(cfg.Workers),
	}
	if cfg.CacheEntries > 0 {
		a.memo = lru.New(cfg.CacheEntries)
	}
	return a
}

// MaxValue asks for the highest value reachable within budget.
func (a *adapter) MaxValue(ctx context.Context, budget int64) (Solution, error) {
	return a.do(ctx, query{amount: budget})
}

// MinCost asks for the cheapest selection reaching at least minValue.
func (a *adapter) MinCost(ctx context.Context, minValue int64) (Solution, error) {
	return a.do(ctx, query{minCost: true, amount: minValue})
}

// Calls returns the number of queries that reached the solver.
func (a *adapter) Calls() int { return int(atomic.LoadInt64(&a.calls)) }

func (a *adapter) cached(key string) (Solution, bool) {
	if a.memo == nil {
		return Solution{}, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.memo.Get(key)
	if !ok {
		return Solution{}, false
	}
	return v.(Solution), true
}

// remember stores a successful answer. Failures are never memoized.
func (a *adapter) remember(key string, sol Solution) {
	if a.memo == nil {
		return
	}
	a.mu.Lock()
	a.memo.Add(key, sol)
	a.mu.Unlock()
}

func (a *adapter) do(ctx context.Context, q query) (Solution, error) {
	if err := ctx.Err(); err != nil {
		return Solution{}, err
	}
	key := q.key()
	if sol, ok := a.cached(key); ok {
		return sol, nil
	}
	v, err, _ := a.flight.Do(key, func() (interface{}, error) {
		if sol, ok := a.cached(key); ok {
			return sol, nil
		}
		res, err := a.pool.NewRequest(ctx, job{a: a, q: q}, key).Result()
		if err != nil {
			return nil, err
		}
		a.remember(key, res.(Solution))
		return res, nil
	})
	if err != nil {
		return Solution{}, err
	}
	return v.(Solution), nil
}

func (a *adapter) process(ctx context.Context, q query) (Solution, error) {
	atomic.AddInt64(&a.calls, 1)
	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	var (
		sol Solution
		err error
	)
	if q.minCost {
		sol, err = a.solver.MinCost(callCtx, a.groups, q.amount)
	} else {
		sol, err = a.solver.MaxValue(callCtx, a.groups, q.amount)
	}
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return Solution{}, fmt.Errorf("%w: %v after %v", ErrSolverTimeout, q, a.timeout)
		}
		return Solution{}, err
	}
	if err := sol.check(a.groups); err != nil {
		return Solution{}, err
	}
	if !q.minCost && sol.Cost > q.amount {
		return Solution{}, fmt.Errorf("frontier: solver exceeded budget %d with cost %d", q.amount, sol.Cost)
	}
	if q.minCost && sol.Value < q.amount {
		return Solution{}, fmt.Errorf("frontier: solver reached value %d below the requested %d", sol.Value, q.amount)
	}
	return sol, nil
}
