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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/JuliaSM98/ResGenWest-Thessaloniki/frontier"
	"github.com/JuliaSM98/ResGenWest-Thessaloniki/retrofit"
	"github.com/tealeg/xlsx"
)

// writeFile creates path and fills it using write.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("retrofit: problem creating output file: %v", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("retrofit: problem writing %s: %v", path, err)
	}
	return f.Close()
}

func f6(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

// WriteFrontierCSV writes one cost,co2,n_blocks row per frontier point in
// ascending cost order.
func WriteFrontierCSV(w io.Writer, res *frontier.Result, s frontier.Scaler) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"cost", "co2", "n_blocks"})
	n := strconv.Itoa(res.NumGroups)
	for _, p := range res.Points {
		cw.Write([]string{f6(s.CostValue(p.Cost)), f6(s.CO2Value(p.CO2)), n})
	}
	cw.Flush()
	return cw.Error()
}

// WriteSelections writes the option chosen for every block at every
// frontier point. solution_id is the position of the point in the
// frontier.
func WriteSelections(w io.Writer, p *retrofit.Problem, res *frontier.Result) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"solution_id", "total_cost", "total_co2", "block_index", "block_key",
		"area_m2", "mix_id", "res_pct", "nbs_pct"})
	for k, pt := range res.Points {
		chosen, err := p.Chosen(pt.Selection)
		if err != nil {
			return err
		}
		cost, co2 := f6(p.Scaler.CostValue(pt.Cost)), f6(p.Scaler.CO2Value(pt.CO2))
		for i, o := range chosen {
			b := p.Blocks[i]
			cw.Write([]string{strconv.Itoa(k), cost, co2, strconv.Itoa(i), b.Key(),
				f6(b.Area), o.MixID, f6(o.RESPct), f6(o.NBSPct)})
		}
	}
	cw.Flush()
	return cw.Error()
}

type blockMeta struct {
	Block    string            `json:"block"`
	CellType retrofit.CellType `json:"cell_type"`
	Area     float64           `json:"area_m2"`
}

type pointMeta struct {
	Threshold float64 `json:"threshold"`
	Cost      float64 `json:"cost"`
	CO2       float64 `json:"co2"`
	Selection []int   `json:"selection"`
}

// metadata describes a finished run.
type metadata struct {
	Mode        string             `json:"mode"`
	BudgetSteps int                `json:"budget_steps,omitempty"`
	BudgetLimit *float64           `json:"budget_limit,omitempty"`
	NBlocks     int                `json:"n_blocks"`
	Config      frontier.Config    `json:"config"`
	Params      retrofit.Intensity `json:"params"`
	Options     []retrofit.Option  `json:"options"`
	Blocks      []blockMeta        `json:"blocks"`
	MinBudget   float64            `json:"min_budget"`
	MaxBudget   float64            `json:"max_budget"`
	Points      []pointMeta        `json:"points"`
	Partial     bool               `json:"partial"`
	Warnings    []string           `json:"warnings"`
	SolverCalls int                `json:"solver_calls"`
}

func newMetadata(mode string, r *RunConfig, p *retrofit.Problem, cat retrofit.Catalog, res *frontier.Result) *metadata {
	s := r.Scaler
	m := &metadata{
		Mode:        mode,
		NBlocks:     len(p.Blocks),
		Config:      res.Config,
		Params:      r.Intensity,
		MinBudget:   s.CostValue(res.MinBudget),
		MaxBudget:   s.CostValue(res.MaxBudget),
		Partial:     res.Partial,
		Warnings:    res.Warnings,
		SolverCalls: res.SolverCalls,
		Points:      make([]pointMeta, len(res.Points)),
		Blocks:      make([]blockMeta, len(p.Blocks)),
	}
	if res.Mode == frontier.Steps && mode == string(frontier.Steps) {
		m.BudgetSteps = res.Config.Steps
	}
	for _, c := range retrofit.CellTypes {
		m.Options = append(m.Options, cat[c]...)
	}
	for i, b := range p.Blocks {
		m.Blocks[i] = blockMeta{Block: b.Key(), CellType: b.Cell, Area: b.Area}
	}
	for i, pt := range res.Points {
		m.Points[i] = pointMeta{
			Threshold: s.CostValue(pt.Threshold),
			Cost:      s.CostValue(pt.Cost),
			CO2:       s.CO2Value(pt.CO2),
			Selection: pt.Selection,
		}
	}
	return m
}

func (m *metadata) write(w io.Writer) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(m)
}

// snapshot mirrors the configuration file layout.
type snapshot struct {
	Blocks, Options                          string
	OutputFile, MetadataFile, SelectionsFile string
	LogFile, PlotFile, PlotTitle             string
	TableFile, TableXLSX                     string

	Mode          string
	BudgetSteps   int
	Refine, Prune bool
	MaxIterations int
	Workers       int
	SolverTimeout string
	CacheEntries  int
	Budget        float64

	Intensity struct {
		CostRES, CO2RES, CostNBS, CO2NBS float64
		PctCovered, TreeCoverArea        float64
		TreeWeight, MaxRoofLoad          float64
	}
	MaxPct map[string]struct{ RES, NBS float64 }
	Scale  struct {
		CostResolution, CO2Resolution float64
		MaxMagnitude                  int64
	}
}

// WriteSnapshot writes the effective configuration of r in TOML format.
// The output can be read back with the --config flag.
func WriteSnapshot(w io.Writer, r *RunConfig) error {
	var s snapshot
	s.Blocks, s.Options = r.Blocks, r.Options
	s.OutputFile, s.MetadataFile, s.SelectionsFile = r.OutputFile, r.MetadataFile, r.SelectionsFile
	s.LogFile, s.PlotFile, s.PlotTitle = r.LogFile, r.PlotFile, r.PlotTitle
	s.TableFile, s.TableXLSX = r.TableFile, r.TableXLSX

	e := r.Engine
	s.Mode = string(e.Mode)
	s.BudgetSteps, s.Refine, s.Prune = e.Steps, e.Refine, e.Prune
	s.MaxIterations, s.Workers = e.MaxIterations, e.Workers
	s.SolverTimeout = e.SolverTimeout.String()
	s.CacheEntries = e.CacheEntries
	s.Budget = r.Budget

	in := r.Intensity
	s.Intensity.CostRES, s.Intensity.CO2RES = in.CostRES, in.CO2RES
	s.Intensity.CostNBS, s.Intensity.CO2NBS = in.CostNBS, in.CO2NBS
	s.Intensity.PctCovered, s.Intensity.TreeCoverArea = in.PctCovered, in.TreeCoverArea
	s.Intensity.TreeWeight, s.Intensity.MaxRoofLoad = in.TreeWeight, in.MaxRoofLoad
	s.MaxPct = make(map[string]struct{ RES, NBS float64 })
	for c, name := range map[retrofit.CellType]string{retrofit.Roof: "Roof", retrofit.Ground: "Ground"} {
		cp, ok := in.Caps[c]
		if !ok {
			cp = retrofit.Caps{RES: 1, NBS: 1}
		}
		s.MaxPct[name] = struct{ RES, NBS float64 }{RES: 100 * cp.RES, NBS: 100 * cp.NBS}
	}
	s.Scale.CostResolution = 1 / r.Scaler.CostFactor
	s.Scale.CO2Resolution = 1 / r.Scaler.CO2Factor
	s.Scale.MaxMagnitude = r.Scaler.MaxMagnitude
	return toml.NewEncoder(w).Encode(s)
}

// WriteTableCSV writes a per-block table followed by its TOTAL row.
func WriteTableCSV(w io.Writer, t *retrofit.Table) error {
	cw := csv.NewWriter(w)
	cw.Write(retrofit.TableHeader)
	f2 := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	row := func(r retrofit.TableRow, area string) []string {
		return []string{r.Key, area, f2(r.RESPct) + "%", f2(r.NBSPct) + "%", strconv.Itoa(r.Trees),
			f2(r.RESArea), f2(r.NBSCO2), f2(r.NBSCost), f2(r.RESCO2), f2(r.RESCost),
			f2(r.TotalCO2), f2(r.TotalCost)}
	}
	for _, r := range t.Rows {
		cw.Write(row(r, f6(r.Area)))
	}
	cw.Write(row(t.Total, f2(t.Total.Area)))
	cw.Flush()
	return cw.Error()
}

// WriteTableXLSX writes a per-block table followed by its TOTAL row as an
// Excel workbook.
func WriteTableXLSX(path string, t *retrofit.Table) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Blocks")
	if err != nil {
		return fmt.Errorf("retrofit: creating table workbook: %v", err)
	}
	header := sheet.AddRow()
	for _, h := range retrofit.TableHeader {
		header.AddCell().SetString(h)
	}
	for _, r := range append(t.Rows, t.Total) {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Key)
		for i, v := range []float64{r.Area, r.RESPct, r.NBSPct} {
			row.AddCell().SetFloat(v)
			if i == 2 {
				row.AddCell().SetInt(r.Trees)
			}
		}
		for _, v := range []float64{r.RESArea, r.NBSCO2, r.NBSCost, r.RESCO2, r.RESCost, r.TotalCO2, r.TotalCost} {
			row.AddCell().SetFloat(v)
		}
	}
	if err := file.Save(path); err != nil {
		return fmt.Errorf("retrofit: saving table workbook: %v", err)
	}
	return nil
}
