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

// Package frontier builds the exact Pareto frontier of total cost versus
// total CO2 reduction when exactly one option has to be chosen for every
// block.
//
// Inputs are converted to integer units with a Scaler so that every
// optimization is exact and reproducible. Build then drives repeated
// single-objective queries against a Solver, either at uniformly spaced
// budgets (Steps) or by walking the frontier breakpoints from the top
// (Tight), optionally minimizes the cost of every point (Refine) and
// removes dominated points (Prune).
package frontier
