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
)

// MinCoster finds the cheapest selection that reaches a value level.
type MinCoster interface {
	MinCost(ctx context.Context, minValue int64) (Solution, error)
}

// Refine returns p with its cost and selection replaced by the cheapest
// selection reaching the same CO2. The threshold is kept. The result never
// costs more than p and always has the same CO2; a witness that would
// break either guarantee is rejected with an error.
func Refine(ctx context.Context, s MinCoster, p Point) (Point, error) {
	sol, err := s.MinCost(ctx, p.CO2)
	if err != nil {
		return p, fmt.Errorf("frontier: refining point (%d, %d): %w", p.Cost, p.CO2, err)
	}
	if sol.Cost > p.Cost {
		return p, fmt.Errorf("frontier: refining point (%d, %d): witness costs %d", p.Cost, p.CO2, sol.Cost)
	}
	if sol.Value != p.CO2 {
		// The cheapest selection reaching co2* can only exceed it if it
		// also beats p on cost, which contradicts p being optimal.
		return p, fmt.Errorf("frontier: refining point (%d, %d): witness reaches co2 %d", p.Cost, p.CO2, sol.Value)
	}
	p.Cost = sol.Cost
	p.Selection = sol.Selection
	return p, nil
}
