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

// Package mckp solves multiple-choice knapsack problems exactly: one
// candidate has to be chosen from every group, and either the total value
// is maximized under a cost budget or the total cost is minimized for a
// value target.
//
// The solver keeps, after each group, only the partial selections that are
// not dominated by another partial selection (lower or equal cost and
// higher or equal value). Any completion of a dominated partial selection
// is matched by the same completion of the one dominating it, so the
// answers are exact optima.
package mckp

import (
	"context"
	"sort"

	"github.com/JuliaSM98/ResGenWest-Thessaloniki/frontier"
)

// Solver implements frontier.Solver. The zero value is ready to use and
// holds no state between calls.
type Solver struct{}

var _ frontier.Solver = Solver{}

// state is a partial selection covering the groups processed so far.
type state struct {
	cost, value int64
	parent      int // index in the previous layer
	choice      int // candidate chosen in the current group
}

// MaxValue returns the highest-value selection costing at most budget. Of
// several selections with that value, the cheapest is returned.
func (Solver) MaxValue(ctx context.Context, groups []frontier.Group, budget int64) (frontier.Solution, error) {
	if err := frontier.ValidateGroups(groups); err != nil {
		return frontier.Solution{}, err
	}
	minRest := suffix(groups, func(g frontier.Group) int64 {
		m := g.Candidates[0].Cost
		for _, c := range g.Candidates[1:] {
			if c.Cost < m {
				m = c.Cost
			}
		}
		return m
	})
	layers, err := expand(ctx, groups, func(i int, s state) bool {
		return s.cost+minRest[i+1] <= budget
	})
	if err != nil {
		return frontier.Solution{}, err
	}
	last := layers[len(layers)-1]
	if len(last) == 0 {
		return frontier.Solution{}, frontier.ErrInfeasible
	}
	// Non-dominated states are ordered by increasing cost and value.
	return backtrack(layers, len(last)-1), nil
}

// MinCost returns the cheapest selection with a value of at least
// minValue. Of several selections with that cost, the one with the highest
// value is returned.
func (Solver) MinCost(ctx context.Context, groups []frontier.Group, minValue int64) (frontier.Solution, error) {
	if err := frontier.ValidateGroups(groups); err != nil {
		return frontier.Solution{}, err
	}
	maxRest := suffix(groups, func(g frontier.Group) int64 {
		m := g.Candidates[0].Value
		for _, c := range g.Candidates[1:] {
			if c.Value > m {
				m = c.Value
			}
		}
		return m
	})
	layers, err := expand(ctx, groups, func(i int, s state) bool {
		return s.value+maxRest[i+1] >= minValue
	})
	if err != nil {
		return frontier.Solution{}, err
	}
	for i, s := range layers[len(layers)-1] {
		if s.value >= minValue {
			return backtrack(layers, i), nil
		}
	}
	return frontier.Solution{}, frontier.ErrInfeasible
}

// suffix returns o where o[i] is the sum of f over groups[i:].
func suffix(groups []frontier.Group, f func(frontier.Group) int64) []int64 {
	o := make([]int64, len(groups)+1)
	for i := len(groups) - 1; i >= 0; i-- {
		o[i] = o[i+1] + f(groups[i])
	}
	return o
}

// expand builds one layer of non-dominated partial selections per group.
// keep reports whether a partial selection covering groups[:i+1] can still
// be completed. ctx is checked once per group.
func expand(ctx context.Context, groups []frontier.Group, keep func(i int, s state) bool) ([][]state, error) {
	layers := make([][]state, len(groups)+1)
	layers[0] = []state{{}}
	for i, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prev := layers[i]
		next := make([]state, 0, len(prev)*len(g.Candidates))
		for pi, s := range prev {
			for ci, c := range g.Candidates {
				ns := state{cost: s.cost + c.Cost, value: s.value + c.Value, parent: pi, choice: ci}
				if keep(i, ns) {
					next = append(next, ns)
				}
			}
		}
		layers[i+1] = nonDominated(next)
		if len(layers[i+1]) == 0 {
			return [][]state{nil}, nil
		}
	}
	return layers, nil
}

// nonDominated keeps the states that no other state beats on both cost
// and value, ordered by increasing cost.
func nonDominated(s []state) []state {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].cost != s[j].cost {
			return s[i].cost < s[j].cost
		}
		return s[i].value > s[j].value
	})
	o := s[:0]
	for _, st := range s {
		if len(o) > 0 && st.value <= o[len(o)-1].value {
			continue
		}
		o = append(o, st)
	}
	return o
}

func backtrack(layers [][]state, idx int) frontier.Solution {
	n := len(layers) - 1
	sol := frontier.Solution{
		Selection: make([]int, n),
		Cost:      layers[n][idx].cost,
		Value:     layers[n][idx].value,
	}
	for i := n; i > 0; i-- {
		s := layers[i][idx]
		sol.Selection[i-1] = s.choice
		idx = s.parent
	}
	return sol
}
