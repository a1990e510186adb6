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

package retrofitutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/JuliaSM98/ResGenWest-Thessaloniki/frontier"
	"github.com/JuliaSM98/ResGenWest-Thessaloniki/mckp"
	"github.com/JuliaSM98/ResGenWest-Thessaloniki/retrofit"
	"github.com/sirupsen/logrus"
)

// newLogger returns a logger writing to w and to a new file at logFile.
func newLogger(w io.Writer, logFile string) (*logrus.Logger, func(), error) {
	f, err := os.Create(logFile)
	if err != nil {
		return nil, nil, fmt.Errorf("retrofit: problem creating log file: %v", err)
	}
	log := logrus.New()
	log.Out = io.MultiWriter(w, f)
	log.Formatter = &logrus.TextFormatter{DisableColors: true, FullTimestamp: true}
	return log, func() { f.Close() }, nil
}

// loadProblem reads the blocks and the option catalog and builds the
// groups to optimize.
func loadProblem(r *RunConfig, log logrus.FieldLogger) (*retrofit.Problem, retrofit.Catalog, error) {
	blocks, err := retrofit.LoadBlocks(r.Blocks)
	if err != nil {
		return nil, nil, err
	}
	cat, err := retrofit.LoadOptionsFile(r.Options)
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(logrus.Fields{
		"blocks":  len(blocks),
		"options": cat.Len(),
	}).Info("retrofit: loaded inputs")
	p, err := retrofit.BuildGroups(blocks, cat, r.Intensity, r.Scaler)
	if err != nil {
		return nil, nil, err
	}
	return p, cat, nil
}

// Frontier computes the cost versus CO2 frontier configured in r and
// writes the requested output files. No output file other than the log
// is written if the run fails.
func Frontier(ctx context.Context, w io.Writer, r *RunConfig) (*frontier.Result, error) {
	log, closeLog, err := newLogger(w, r.LogFile)
	if err != nil {
		return nil, err
	}
	defer closeLog()
	start := time.Now()

	p, cat, err := loadProblem(r, log)
	if err != nil {
		log.WithError(err).Error("retrofit: run failed")
		return nil, err
	}
	cfg := r.Engine
	cfg.Log = log
	res, err := frontier.Build(ctx, mckp.Solver{}, p.Groups, cfg)
	if err != nil {
		log.WithError(err).Error("retrofit: run failed")
		return nil, err
	}

	if err := writeFile(r.OutputFile, func(w io.Writer) error { return WriteFrontierCSV(w, res, r.Scaler) }); err != nil {
		return nil, err
	}
	if r.MetadataFile != "" {
		meta := newMetadata(string(res.Mode), r, p, cat, res)
		if err := writeFile(r.MetadataFile, meta.write); err != nil {
			return nil, err
		}
	}
	if r.SelectionsFile != "" {
		if err := writeFile(r.SelectionsFile, func(w io.Writer) error { return WriteSelections(w, p, res) }); err != nil {
			return nil, err
		}
	}
	if r.SnapshotFile != "" {
		if err := writeFile(r.SnapshotFile, func(w io.Writer) error { return WriteSnapshot(w, r) }); err != nil {
			return nil, err
		}
	}
	if r.PlotFile != "" {
		if err := PlotFrontier(r.PlotFile, r.PlotTitle, res, r.Scaler); err != nil {
			return nil, err
		}
	}
	log.WithFields(logrus.Fields{
		"points":   len(res.Points),
		"partial":  res.Partial,
		"warnings": len(res.Warnings),
		"duration": time.Since(start).String(),
	}).Info("retrofit: frontier written")
	return res, nil
}

// Solve finds the selection with the largest CO2 reduction within
// r.Budget and writes the requested output files. An infeasible budget
// produces a frontier table without rows.
func Solve(ctx context.Context, w io.Writer, r *RunConfig) (*frontier.Result, error) {
	if r.Budget < 0 {
		return nil, &frontier.ConfigError{Field: "Budget", Reason: "you need to specify a budget >= 0 for the solve command"}
	}
	budget, err := r.Scaler.Cost(r.Budget)
	if err != nil {
		return nil, err
	}
	log, closeLog, err := newLogger(w, r.LogFile)
	if err != nil {
		return nil, err
	}
	defer closeLog()

	p, cat, err := loadProblem(r, log)
	if err != nil {
		log.WithError(err).Error("retrofit: run failed")
		return nil, err
	}
	cfg := r.Engine
	cfg.Log = log
	res, err := frontier.Solve(ctx, mckp.Solver{}, p.Groups, budget, cfg)
	if err != nil {
		log.WithError(err).Error("retrofit: run failed")
		return nil, err
	}

	if err := writeFile(r.OutputFile, func(w io.Writer) error { return WriteFrontierCSV(w, res, r.Scaler) }); err != nil {
		return nil, err
	}
	if r.MetadataFile != "" {
		meta := newMetadata("max-co2-under-budget", r, p, cat, res)
		meta.BudgetLimit = &r.Budget
		if err := writeFile(r.MetadataFile, meta.write); err != nil {
			return nil, err
		}
	}
	if r.SnapshotFile != "" {
		if err := writeFile(r.SnapshotFile, func(w io.Writer) error { return WriteSnapshot(w, r) }); err != nil {
			return nil, err
		}
	}
	if len(res.Points) == 0 {
		log.WithField("budget", r.Budget).Warn("retrofit: no selection fits the budget")
		return res, nil
	}
	if r.SelectionsFile != "" {
		if err := writeFile(r.SelectionsFile, func(w io.Writer) error { return WriteSelections(w, p, res) }); err != nil {
			return nil, err
		}
	}
	sel := res.Points[0].Selection
	if r.TableFile != "" || r.TableXLSX != "" {
		t, err := p.Table(sel)
		if err != nil {
			return nil, err
		}
		if r.TableFile != "" {
			if err := writeFile(r.TableFile, func(w io.Writer) error { return WriteTableCSV(w, t) }); err != nil {
				return nil, err
			}
		}
		if r.TableXLSX != "" {
			if err := WriteTableXLSX(r.TableXLSX, t); err != nil {
				return nil, err
			}
		}
	}
	log.WithFields(logrus.Fields{
		"cost": r.Scaler.CostValue(res.Points[0].Cost),
		"co2":  r.Scaler.CO2Value(res.Points[0].CO2),
	}).Info("retrofit: solution written")
	return res, nil
}
