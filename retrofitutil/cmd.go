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

// Package retrofitutil provides the command line interface of the block
// retrofit frontier tool.
package retrofitutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is the version of the tool.
const Version = "0.3.0"

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the tool.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Blocks",
			usage: `
              Blocks is the path to the block areas. It can be a single
              shapefile with the fields Id, B_Number and Area_U_m2 or Area_R_m2,
              or a directory of Block_<n>.shp files with an Area_Uncov field.`,
			shorthand:  "b",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Options",
			usage: `
              Options is the path to the option catalog, a CSV file with the
              columns mix_id, cell_type, res_pct, nbs_pct and label.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the frontier table (cost, co2, n_blocks)
              should be written.`,
			shorthand:  "o",
			defaultVal: "frontier.csv",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MetadataFile",
			usage: `
              MetadataFile is the path where a JSON document with the configuration,
              the option catalog, the block areas and the selection behind every
              point should be written. It is not written if empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "SelectionsFile",
			usage: `
              SelectionsFile is the path where the option chosen for every block
              should be written, one row per block and solution. It is not written
              if empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{frontierCmd.Flags(), solveCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. If empty,
              it is the OutputFile with a .log extension.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "SnapshotFile",
			usage: `
              SnapshotFile is the path where the effective configuration should be
              written in TOML format. The file can be used with --config to repeat
              the run.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{frontierCmd.Flags(), solveCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is the path where a PNG chart of the frontier should be
              written. It is not written if empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{frontierCmd.Flags()},
		},
		{
			name: "PlotTitle",
			usage: `
              PlotTitle is the title of the frontier chart.`,
			defaultVal: "Cost vs CO2 Frontier",
			flagsets:   []*pflag.FlagSet{frontierCmd.Flags()},
		},
		{
			name: "Mode",
			usage: `
              Mode selects how budgets are chosen: "steps" solves at BudgetSteps
              uniformly spaced budgets, "tight" walks every breakpoint of the
              frontier.`,
			shorthand:  "m",
			defaultVal: "steps",
			flagsets:   []*pflag.FlagSet{frontierCmd.Flags()},
		},
		{
			name: "BudgetSteps",
			usage: `
              BudgetSteps is the number of budgets solved in steps mode,
              including the cheapest and the most expensive one.`,
			defaultVal: 41,
			flagsets:   []*pflag.FlagSet{frontierCmd.Flags()},
		},
		{
			name: "Refine",
			usage: `
              Refine replaces every point by the cheapest selection that reaches
              the same CO2 reduction.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{frontierCmd.Flags(), solveCmd.Flags()},
		},
		{
			name: "Prune",
			usage: `
              Prune removes duplicate and dominated points so that cost and CO2
              both strictly increase along the frontier.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{frontierCmd.Flags()},
		},
		{
			name: "MaxIterations",
			usage: `
              MaxIterations is the largest number of solver calls in tight mode.
              If it is reached the frontier is reported as partial.`,
			defaultVal: 10000,
			flagsets:   []*pflag.FlagSet{frontierCmd.Flags()},
		},
		{
			name: "Workers",
			usage: `
              Workers is the number of solver calls allowed to run at the same
              time. Zero uses the number of processors.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "SolverTimeout",
			usage: `
              SolverTimeout bounds every solver call, for example "10s" or "2m".
              A timed out call drops its point, except for the first call of a run.`,
			defaultVal: "10s",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "CacheEntries",
			usage: `
              CacheEntries is the number of solver answers remembered during a run.`,
			defaultVal: 1000,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Budget",
			usage: `
              Budget is the spending limit in € for the solve command.`,
			defaultVal: -1.0,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "TableFile",
			usage: `
              TableFile is the path where a CSV table with the metrics of every
              block and a TOTAL row should be written. It is not written if empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "TableXLSX",
			usage: `
              TableXLSX is the path where the block table should be written as an
              Excel workbook. It is not written if empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "Intensity.CostRES",
			usage: `
              Intensity.CostRES is the cost of renewable energy systems [€/m²].`,
			defaultVal: 240.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Intensity.CO2RES",
			usage: `
              Intensity.CO2RES is the CO2 reduction of renewable energy systems [kg/m²].`,
			defaultVal: 48.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Intensity.CostNBS",
			usage: `
              Intensity.CostNBS is the cost of one tree [€/tree].`,
			defaultVal: 600.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Intensity.CO2NBS",
			usage: `
              Intensity.CO2NBS is the CO2 reduction of one tree [kg/tree].`,
			defaultVal: 25.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Intensity.PctCovered",
			usage: `
              Intensity.PctCovered is the percentage (0-100) of the nature based
              solution area that is actually covered by trees.`,
			defaultVal: 50.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Intensity.TreeCoverArea",
			usage: `
              Intensity.TreeCoverArea is the area occupied by one tree [m²].`,
			defaultVal: 5.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Intensity.TreeWeight",
			usage: `
              Intensity.TreeWeight is the weight of one tree [kg], used with
              Intensity.MaxRoofLoad.`,
			defaultVal: 400.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Intensity.MaxRoofLoad",
			usage: `
              Intensity.MaxRoofLoad is the largest load roofs can carry [kg/m²].
              It limits the number of trees on roof blocks. Zero disables the limit.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MaxPct.Roof.RES",
			usage: `
              MaxPct.Roof.RES is the largest percentage (0-100) of a roof block
              that can be given to renewable energy systems.`,
			defaultVal: 100.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MaxPct.Roof.NBS",
			usage: `
              MaxPct.Roof.NBS is the largest percentage (0-100) of a roof block
              that can be given to nature based solutions.`,
			defaultVal: 100.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MaxPct.Ground.RES",
			usage: `
              MaxPct.Ground.RES is the largest percentage (0-100) of a ground block
              that can be given to renewable energy systems.`,
			defaultVal: 100.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MaxPct.Ground.NBS",
			usage: `
              MaxPct.Ground.NBS is the largest percentage (0-100) of a ground block
              that can be given to nature based solutions.`,
			defaultVal: 100.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Scale.CostResolution",
			usage: `
              Scale.CostResolution is the smallest cost difference [€] the
              optimization distinguishes.`,
			defaultVal: 0.01,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Scale.CO2Resolution",
			usage: `
              Scale.CO2Resolution is the smallest CO2 difference [kg] the
              optimization distinguishes.`,
			defaultVal: 0.01,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Scale.MaxMagnitude",
			usage: `
              Scale.MaxMagnitude is the largest scaled value allowed. Zero
              selects 2^53, the largest integer a float64 holds exactly.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("RETROFIT")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(frontierCmd)
	Root.AddCommand(solveCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("retrofit: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "retrofit",
	Short: "Cost versus CO2 trade-offs of block retrofits.",
	Long: `retrofit computes the trade-off between the cost of retrofitting building
blocks with renewable energy systems (RES) and nature based solutions (NBS) and
the CO2 reduction that results, when exactly one option is chosen for every block.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'RETROFIT_var' where 'var' is the
name of the variable to be set, with dots replaced by underscores.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of the tool.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("retrofit v%s\n", Version)
	},
	DisableAutoGenTag: true,
}

// frontierCmd computes the cost versus CO2 frontier.
var frontierCmd = &cobra.Command{
	Use:   "frontier",
	Short: "Compute the cost versus CO2 frontier.",
	Long: `frontier computes the Pareto frontier of total cost versus total CO2
reduction over every feasible budget, either at uniformly spaced budgets
(--Mode=steps) or at every exact breakpoint (--Mode=tight).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := loadRunConfig(Cfg)
		if err != nil {
			return err
		}
		_, err = Frontier(context.Background(), cmd.OutOrStdout(), run)
		return err
	},
	DisableAutoGenTag: true,
}

// solveCmd finds the best selection under a single budget.
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Maximize the CO2 reduction under a budget.",
	Long: `solve finds the selection with the largest CO2 reduction whose cost does
not exceed --Budget, and writes it together with per-block details.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := loadRunConfig(Cfg)
		if err != nil {
			return err
		}
		_, err = Solve(context.Background(), cmd.OutOrStdout(), run)
		return err
	},
	DisableAutoGenTag: true,
}
