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
	"math"
)

// Candidate is one (cost, value) choice available to a group, in
// scaled integer units.
type Candidate struct {
	Cost, Value int64
}

// Group is a block and its ordered candidates. Exactly one candidate
// must be chosen per group; its index is the selection identifier.
type Group struct {
	ID         string
	Candidates []Candidate
}

// Solution is the answer to a single solver query.
type Solution struct {
	// Selection holds the chosen candidate index for every group.
	Selection []int
	Cost      int64
	Value     int64
}

// Solver answers exact multiple-choice knapsack queries. Implementations
// must return an exact optimum (not a heuristic one), pick exactly one
// candidate per group, and return ErrInfeasible when the constraint
// cannot be met. They should return promptly once ctx is done.
type Solver interface {
	// MaxValue maximizes the total value subject to a total cost of
	// at most budget.
	MaxValue(ctx context.Context, groups []Group, budget int64) (Solution, error)

	// MinCost minimizes the total cost subject to a total value of at
	// least minValue.
	MinCost(ctx context.Context, groups []Group, minValue int64) (Solution, error)
}

// ValidateGroups checks that every group can contribute exactly one
// candidate.
func ValidateGroups(groups []Group) error {
	if len(groups) == 0 {
		return &DataError{Reason: "there are no blocks to optimize"}
	}
	for i, g := range groups {
		if len(g.Candidates) == 0 {
			id := g.ID
			if id == "" {
				id = fmt.Sprintf("#%d", i)
			}
			return &DataError{Block: id, Reason: "no candidate options"}
		}
	}
	return nil
}

// CostRange returns the cost of the cheapest combination (the lowest-cost
// candidate in every group) and of the most expensive one.
func CostRange(groups []Group) (min, max int64, err error) {
	for _, g := range groups {
		lo, hi := g.Candidates[0].Cost, g.Candidates[0].Cost
		for _, c := range g.Candidates[1:] {
			if c.Cost < lo {
				lo = c.Cost
			}
			if c.Cost > hi {
				hi = c.Cost
			}
		}
		if min, err = addChecked(min, lo); err != nil {
			return 0, 0, err
		}
		if max, err = addChecked(max, hi); err != nil {
			return 0, 0, err
		}
	}
	return min, max, nil
}

func addChecked(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, &OverflowError{Quantity: "total cost", Value: float64(a) + float64(b), Max: math.MaxInt64}
	}
	return a + b, nil
}

// check verifies that s is a well formed answer for groups.
func (s Solution) check(groups []Group) error {
	if len(s.Selection) != len(groups) {
		return fmt.Errorf("frontier: solver selected %d candidates for %d groups", len(s.Selection), len(groups))
	}
	var cost, value int64
	for i, j := range s.Selection {
		if j < 0 || j >= len(groups[i].Candidates) {
			return fmt.Errorf("frontier: solver selected candidate %d of %d for group %s", j, len(groups[i].Candidates), groups[i].ID)
		}
		cost += groups[i].Candidates[j].Cost
		value += groups[i].Candidates[j].Value
	}
	if cost != s.Cost || value != s.Value {
		return fmt.Errorf("frontier: solver reported totals (%d, %d) but selection sums to (%d, %d)", s.Cost, s.Value, cost, value)
	}
	return nil
}
