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
	"errors"
	"fmt"
)

var (
	// ErrInfeasible is returned by a Solver when no selection satisfies
	// the requested constraint.
	ErrInfeasible = errors.New("frontier: no feasible selection")

	// ErrSolverTimeout is returned when a single solver call exceeds
	// Config.SolverTimeout.
	ErrSolverTimeout = errors.New("frontier: solver call timed out")

	// ErrIterationCapReached is recorded as a warning when tight mode stops
	// at Config.MaxIterations before reaching the cheapest combination.
	ErrIterationCapReached = errors.New("frontier: iteration cap reached; frontier is partial")
)

// ConfigError reports an invalid engine setting. It is always detected
// before any solving starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("frontier: invalid configuration %s: %s", e.Field, e.Reason)
}

// DataError reports input data that makes the one-option-per-block
// requirement impossible to meet, such as a block without candidates or
// a negative area.
type DataError struct {
	Block  string
	Reason string
}

func (e *DataError) Error() string {
	if e.Block == "" {
		return fmt.Sprintf("frontier: invalid input data: %s", e.Reason)
	}
	return fmt.Sprintf("frontier: invalid input data for block %s: %s", e.Block, e.Reason)
}

// OverflowError reports a value that cannot be represented in the
// fixed-point integer range.
type OverflowError struct {
	Quantity string
	Value    float64
	Max      int64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("frontier: %s value %g exceeds the representable magnitude %d", e.Quantity, e.Value, e.Max)
}

// IsFatal reports whether err must abort a run.
// Solver timeouts and infeasible probes are per-point failures.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrSolverTimeout) && !errors.Is(err, ErrInfeasible)
}
