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

// Result is the finished frontier of a run. It owns its points and
// selections and is not modified after Assemble returns.
type Result struct {
	Mode   Mode
	Config Config

	// MinBudget and MaxBudget are the costs of the cheapest and the most
	// expensive combination, in scaled units.
	MinBudget, MaxBudget int64

	// Points is ordered by ascending cost.
	Points []Point

	// NumGroups is the number of blocks a selection covers.
	NumGroups int

	// SolverCalls is the number of queries that reached the solver.
	SolverCalls int

	// Partial is true when tight mode hit its iteration cap.
	Partial bool

	// Warnings lists the non-fatal problems met during the run.
	Warnings []string
}

// Assemble packages points into a Result. Points are ordered by cost,
// exact (cost, CO2) duplicates are collapsed and selections are copied.
func Assemble(cfg Config, numGroups int, minBudget, maxBudget int64, points []Point) *Result {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sortPoints(sorted)

	res := &Result{
		Mode:      cfg.Mode,
		Config:    cfg,
		MinBudget: minBudget,
		MaxBudget: maxBudget,
		NumGroups: numGroups,
	}
	for _, p := range sorted {
		if n := len(res.Points); n > 0 && res.Points[n-1].Cost == p.Cost && res.Points[n-1].CO2 == p.CO2 {
			continue
		}
		sel := make([]int, len(p.Selection))
		copy(sel, p.Selection)
		p.Selection = sel
		res.Points = append(res.Points, p)
	}
	return res
}

// Costs returns the point costs in currency units.
func (r *Result) Costs(s Scaler) []float64 {
	o := make([]float64, len(r.Points))
	for i, p := range r.Points {
		o[i] = s.CostValue(p.Cost)
	}
	return o
}

// CO2s returns the point CO2 reductions in mass units.
func (r *Result) CO2s(s Scaler) []float64 {
	o := make([]float64, len(r.Points))
	for i, p := range r.Points {
		o[i] = s.CO2Value(p.CO2)
	}
	return o
}
