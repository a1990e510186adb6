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
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Point is one solved budget threshold.
type Point struct {
	// Threshold is the budget the point was obtained with.
	Threshold int64
	// Cost and CO2 are the achieved totals. Cost <= Threshold.
	Cost, CO2 int64
	// Selection holds the chosen option index for every block.
	Selection []int
}

// run holds the state of a single Build call.
type run struct {
	cfg      Config
	log      logrus.FieldLogger
	adapter  *adapter
	min, max int64

	mu       sync.Mutex
	warnings []string
	partial  bool
}

// Build constructs the (cost, CO2) frontier for groups using solver.
// Configuration and data errors are reported before the solver is
// called. A failure of the first solver call, which establishes the
// baseline at the most expensive budget, is fatal; later per-point
// failures only drop the affected point. ctx is checked between solver
// calls. Solver calls run on a worker pool that is shared by every run
// with the same cfg.Workers.
func Build(ctx context.Context, solver Solver, groups []Group, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateGroups(groups); err != nil {
		return nil, err
	}
	min, max, err := CostRange(groups)
	if err != nil {
		return nil, err
	}
	r := &run{
		cfg:     cfg,
		log:     cfg.logger(),
		adapter: newAdapter(solver, groups, cfg),
		min:     min,
		max:     max,
	}
	r.log.WithFields(logrus.Fields{
		"mode":      cfg.Mode,
		"blocks":    len(groups),
		"minBudget": min,
		"maxBudget": max,
	}).Info("frontier: starting run")

	baseline, err := r.adapter.MaxValue(ctx, max)
	if err != nil {
		return nil, fmt.Errorf("frontier: establishing baseline at budget %d: %w", max, err)
	}
	points := []Point{{Threshold: max, Cost: baseline.Cost, CO2: baseline.Value, Selection: baseline.Selection}}

	if min == max {
		r.log.WithField("cost", min).Info("frontier: all combinations cost the same")
	} else {
		var more []Point
		switch cfg.Mode {
		case Steps:
			more, err = r.steps(ctx)
		case Tight:
			more, err = r.tight(ctx, points[0])
		}
		if err != nil {
			return nil, err
		}
		points = append(points, more...)
	}
	sortPoints(points)

	if cfg.Refine {
		if points, err = r.refine(ctx, points); err != nil {
			return nil, err
		}
	}
	if cfg.Prune {
		before := len(points)
		points = Prune(points)
		r.log.WithFields(logrus.Fields{"before": before, "after": len(points)}).Debug("frontier: pruned dominated points")
	}

	res := Assemble(cfg, len(groups), min, max, points)
	res.SolverCalls = r.adapter.Calls()
	res.Partial = r.partial
	res.Warnings = r.warnings
	r.log.WithFields(logrus.Fields{
		"points":      len(res.Points),
		"solverCalls": res.SolverCalls,
		"partial":     res.Partial,
	}).Info("frontier: run complete")
	return res, nil
}

// Thresholds returns n uniformly spaced budgets between min and max,
// both included, rounded half up using exact integer arithmetic.
func Thresholds(min, max int64, n int) []int64 {
	if n < 2 {
		n = 2
	}
	span := max - min
	d := int64(n - 1)
	q, rem := span/d, span%d
	out := make([]int64, n)
	for i := int64(0); i < int64(n); i++ {
		out[i] = min + q*i + (rem*i+d/2)/d
	}
	return out
}

// steps solves every threshold except the baseline one independently.
func (r *run) steps(ctx context.Context) ([]Point, error) {
	budgets := Thresholds(r.min, r.max, r.cfg.Steps)
	seen := map[int64]bool{r.max: true}

	var (
		mu     sync.Mutex
		points []Point
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for _, b := range budgets {
		if seen[b] {
			continue
		}
		seen[b] = true
		b := b
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sol, err := r.adapter.MaxValue(gctx, b)
			if err != nil {
				if gctx.Err() != nil {
					return err
				}
				r.drop(b, err)
				return nil
			}
			mu.Lock()
			points = append(points, Point{Threshold: b, Cost: sol.Cost, CO2: sol.Value, Selection: sol.Selection})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("frontier: steps run cancelled: %w", err)
	}
	return points, nil
}

// tight walks the frontier breakpoints downwards from the baseline.
// Every probe is one unit below the last achieved cost, so no breakpoint
// can be skipped.
func (r *run) tight(ctx context.Context, baseline Point) ([]Point, error) {
	var points []Point
	prev := baseline
	budget := baseline.Cost - 1
	for iter := 1; budget >= r.min; iter++ {
		if iter >= r.cfg.MaxIterations {
			r.warn(ErrIterationCapReached.Error(), logrus.Fields{"iterations": iter, "budget": budget})
			r.partial = true
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("frontier: tight run cancelled: %w", err)
		}
		sol, err := r.adapter.MaxValue(ctx, budget)
		if err != nil {
			if IsFatal(err) {
				return nil, fmt.Errorf("frontier: tight run at budget %d: %w", budget, err)
			}
			r.drop(budget, err)
			budget--
			continue
		}
		if sol.Cost >= prev.Cost || sameSelection(sol.Selection, prev.Selection) {
			r.log.WithFields(logrus.Fields{"budget": budget, "cost": sol.Cost}).Info("frontier: plateau reached")
			break
		}
		p := Point{Threshold: budget, Cost: sol.Cost, CO2: sol.Value, Selection: sol.Selection}
		points = append(points, p)
		prev = p
		budget = sol.Cost - 1
	}
	return points, nil
}

// refine replaces each point by the cheapest selection that reaches the
// same CO2. Failed refinements keep the raw point.
func (r *run) refine(ctx context.Context, points []Point) ([]Point, error) {
	out := make([]Point, len(points))
	copy(out, points)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i := range out {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := Refine(gctx, r.adapter, out[i])
			if err != nil {
				if gctx.Err() != nil {
					return err
				}
				r.warn("frontier: refinement failed; keeping raw point", logrus.Fields{"cost": out[i].Cost, "co2": out[i].CO2, "error": err})
				return nil
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("frontier: refinement cancelled: %w", err)
	}
	sortPoints(out)
	return out, nil
}

func (r *run) drop(budget int64, err error) {
	r.warn("frontier: dropping point", logrus.Fields{"budget": budget, "error": err})
}

func (r *run) warn(msg string, f logrus.Fields) {
	r.log.WithFields(f).Warn(msg)
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := f["budget"]; ok {
		msg = fmt.Sprintf("%s (budget %v)", msg, b)
	}
	if e, ok := f["error"]; ok {
		msg = fmt.Sprintf("%s: %v", msg, e)
	}
	r.warnings = append(r.warnings, msg)
}

func sameSelection(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sortPoints orders points by ascending cost, then descending CO2, then
// ascending threshold.
func sortPoints(p []Point) {
	sort.SliceStable(p, func(i, j int) bool {
		if p[i].Cost != p[j].Cost {
			return p[i].Cost < p[j].Cost
		}
		if p[i].CO2 != p[j].CO2 {
			return p[i].CO2 > p[j].CO2
		}
		return p[i].Threshold < p[j].Threshold
	})
}
