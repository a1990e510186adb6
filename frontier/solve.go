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

	"github.com/sirupsen/logrus"
)

// Solve finds the single highest-CO2 selection costing at most budget.
// The result holds one point, or none if no selection fits the budget.
// With cfg.Refine the point is replaced by the cheapest selection reaching
// the same CO2. cfg.Mode, Steps and MaxIterations are ignored.
func Solve(ctx context.Context, solver Solver, groups []Group, budget int64, cfg Config) (*Result, error) {
	cfg.Mode = Steps
	if cfg.Steps < 2 {
		cfg.Steps = 2
	}
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
	log := cfg.logger()
	a := newAdapter(solver, groups, cfg)

	var (
		points   []Point
		warnings []string
	)
	sol, err := a.MaxValue(ctx, budget)
	switch {
	case errors.Is(err, ErrInfeasible):
		msg := fmt.Sprintf("frontier: no selection fits the budget %d; the cheapest costs %d", budget, min)
		log.WithFields(logrus.Fields{"budget": budget, "minBudget": min}).Warn(msg)
		warnings = append(warnings, msg)
	case err != nil:
		return nil, fmt.Errorf("frontier: solving at budget %d: %w", budget, err)
	default:
		p := Point{Threshold: budget, Cost: sol.Cost, CO2: sol.Value, Selection: sol.Selection}
		if cfg.Refine {
			if rp, err := Refine(ctx, a, p); err != nil {
				msg := "frontier: refinement failed; keeping raw point"
				log.WithError(err).Warn(msg)
				warnings = append(warnings, fmt.Sprintf("%s: %v", msg, err))
			} else {
				p = rp
			}
		}
		points = append(points, p)
	}
	res := Assemble(cfg, len(groups), min, max, points)
	res.SolverCalls = a.Calls()
	res.Warnings = warnings
	return res, nil
}
