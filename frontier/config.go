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
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Mode selects how budget thresholds are chosen.
type Mode string

const (
	// Steps solves at uniformly spaced budgets between the cheapest and
	// the most expensive combination.
	Steps Mode = "steps"

	// Tight walks the exact breakpoints of the frontier, from the most
	// expensive combination downwards.
	Tight Mode = "tight"
)

// ParseMode converts a budget mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Steps, Tight:
		return m, nil
	default:
		return "", &ConfigError{Field: "Mode", Reason: fmt.Sprintf("unknown budget mode %q; valid modes are %q and %q", s, Steps, Tight)}
	}
}

// Config holds the settings of a single frontier run.
type Config struct {
	Mode Mode

	// Steps is the number of budget samples in steps mode (>= 2).
	Steps int

	// Refine enables the cost-minimizing tie-break after each point.
	Refine bool

	// Prune collapses the frontier to a strict staircase.
	Prune bool

	// MaxIterations bounds the number of solver calls in tight mode.
	MaxIterations int

	// Workers is the number of solver calls allowed to run at once.
	Workers int

	// SolverTimeout bounds every solver call. Zero disables the bound.
	SolverTimeout time.Duration

	// CacheEntries is the number of solver answers memoized per run.
	CacheEntries int

	// Log receives progress and warning messages. If nil,
	// logrus.StandardLogger() is used.
	Log logrus.FieldLogger `json:"-" toml:"-"`
}

// DefaultConfig returns the settings used by the command line tool
// when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Mode:          Steps,
		Steps:         41,
		Prune:         true,
		MaxIterations: 10000,
		Workers:       runtime.GOMAXPROCS(-1),
		SolverTimeout: 10 * time.Second,
		CacheEntries:  1000,
	}
}

// Validate checks the configuration before any solving starts.
func (c Config) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.Mode == Steps && c.Steps < 2 {
		return &ConfigError{Field: "BudgetSteps", Reason: fmt.Sprintf("step count %d must be >= 2", c.Steps)}
	}
	if c.Mode == Tight && c.MaxIterations < 1 {
		return &ConfigError{Field: "MaxIterations", Reason: fmt.Sprintf("%d must be >= 1", c.MaxIterations)}
	}
	if c.Workers < 1 {
		return &ConfigError{Field: "Workers", Reason: fmt.Sprintf("%d must be >= 1", c.Workers)}
	}
	if c.SolverTimeout < 0 {
		return &ConfigError{Field: "SolverTimeout", Reason: fmt.Sprintf("%v must not be negative", c.SolverTimeout)}
	}
	if c.CacheEntries < 0 {
		return &ConfigError{Field: "CacheEntries", Reason: fmt.Sprintf("%d must not be negative", c.CacheEntries)}
	}
	return nil
}

func (c Config) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}
