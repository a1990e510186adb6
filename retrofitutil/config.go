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
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/JuliaSM98/ResGenWest-Thessaloniki/frontier"
	"github.com/JuliaSM98/ResGenWest-Thessaloniki/retrofit"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// RunConfig holds everything a frontier or solve run needs, checked once
// before any data is read.
type RunConfig struct {
	Blocks, Options string

	OutputFile, MetadataFile, SelectionsFile string
	LogFile, SnapshotFile                    string
	PlotFile, PlotTitle                      string
	TableFile, TableXLSX                     string

	// Budget is the spending limit of the solve command [€].
	Budget float64

	Engine    frontier.Config
	Intensity retrofit.Intensity
	Scaler    frontier.Scaler
}

func loadRunConfig(cfg *viper.Viper) (*RunConfig, error) {
	engine, err := EngineConfig(cfg)
	if err != nil {
		return nil, err
	}
	in, err := IntensityConfig(cfg)
	if err != nil {
		return nil, err
	}
	sc, err := ScalerConfig(cfg)
	if err != nil {
		return nil, err
	}
	r := &RunConfig{
		Blocks:    os.ExpandEnv(cfg.GetString("Blocks")),
		Options:   os.ExpandEnv(cfg.GetString("Options")),
		PlotTitle: cfg.GetString("PlotTitle"),
		Budget:    cfg.GetFloat64("Budget"),
		Engine:    engine,
		Intensity: in,
		Scaler:    sc,
	}
	if r.Blocks == "" {
		return nil, &frontier.ConfigError{Field: "Blocks", Reason: "you need to specify the block areas"}
	}
	if r.Options == "" {
		return nil, &frontier.ConfigError{Field: "Options", Reason: "you need to specify the option catalog"}
	}
	if r.OutputFile, err = checkOutputFile(cfg.GetString("OutputFile")); err != nil {
		return nil, err
	}
	r.LogFile = checkLogFile(os.ExpandEnv(cfg.GetString("LogFile")), r.OutputFile)
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"MetadataFile", &r.MetadataFile},
		{"SelectionsFile", &r.SelectionsFile},
		{"SnapshotFile", &r.SnapshotFile},
		{"PlotFile", &r.PlotFile},
		{"TableFile", &r.TableFile},
		{"TableXLSX", &r.TableXLSX},
	} {
		if v := cfg.GetString(f.name); v != "" {
			if *f.dst, err = checkOutputFile(v); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// EngineConfig reads the frontier engine settings.
func EngineConfig(cfg *viper.Viper) (frontier.Config, error) {
	c := frontier.DefaultConfig()
	var err error
	if c.Mode, err = frontier.ParseMode(cfg.GetString("Mode")); err != nil {
		return c, err
	}
	c.Steps = cfg.GetInt("BudgetSteps")
	c.Refine = cfg.GetBool("Refine")
	c.Prune = cfg.GetBool("Prune")
	c.MaxIterations = cfg.GetInt("MaxIterations")
	c.CacheEntries = cfg.GetInt("CacheEntries")
	if c.Workers = cfg.GetInt("Workers"); c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(-1)
	}
	if c.SolverTimeout, err = cast.ToDurationE(cfg.Get("SolverTimeout")); err != nil {
		return c, &frontier.ConfigError{Field: "SolverTimeout", Reason: err.Error()}
	}
	return c, c.Validate()
}

// IntensityConfig reads the cost and CO2 rates and the percentage caps.
// Caps are configured as percentages (0-100).
func IntensityConfig(cfg *viper.Viper) (retrofit.Intensity, error) {
	in := retrofit.Intensity{
		CostRES:       cfg.GetFloat64("Intensity.CostRES"),
		CO2RES:        cfg.GetFloat64("Intensity.CO2RES"),
		CostNBS:       cfg.GetFloat64("Intensity.CostNBS"),
		CO2NBS:        cfg.GetFloat64("Intensity.CO2NBS"),
		PctCovered:    cfg.GetFloat64("Intensity.PctCovered"),
		TreeCoverArea: cfg.GetFloat64("Intensity.TreeCoverArea"),
		TreeWeight:    cfg.GetFloat64("Intensity.TreeWeight"),
		MaxRoofLoad:   cfg.GetFloat64("Intensity.MaxRoofLoad"),
		Caps:          make(map[retrofit.CellType]retrofit.Caps),
	}
	for c, name := range map[retrofit.CellType]string{retrofit.Roof: "Roof", retrofit.Ground: "Ground"} {
		prefix := "MaxPct." + name
		in.Caps[c] = retrofit.Caps{
			RES: cfg.GetFloat64(prefix+".RES") / 100,
			NBS: cfg.GetFloat64(prefix+".NBS") / 100,
		}
	}
	return in, in.Validate()
}

// ScalerConfig reads the fixed-point resolution.
func ScalerConfig(cfg *viper.Viper) (frontier.Scaler, error) {
	return frontier.NewScaler(
		cfg.GetFloat64("Scale.CostResolution"),
		cfg.GetFloat64("Scale.CO2Resolution"),
		cast.ToInt64(cfg.Get("Scale.MaxMagnitude")),
	)
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="frontier.csv")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("retrofit: the output directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}
