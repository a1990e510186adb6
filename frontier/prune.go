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

// Prune collapses points to a strict staircase: costs and CO2 both
// strictly increasing. Of each distinct CO2 level only the cheapest point
// is kept, and points that do not improve on a cheaper point are dropped.
func Prune(points []Point) []Point {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sortPoints(sorted)
	var out []Point
	for _, p := range sorted {
		if len(out) > 0 && p.CO2 <= out[len(out)-1].CO2 {
			continue
		}
		out = append(out, p)
	}
	return out
}
