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

package retrofit

import (
	"fmt"
	"math"

	"github.com/JuliaSM98/ResGenWest-Thessaloniki/frontier"
)

// Caps are the largest RES and NBS fractions an option may use on one
// cell type.
type Caps struct {
	RES, NBS float64
}

// Intensity holds the cost and CO2 rates shared by every block.
type Intensity struct {
	// CostRES [€/m²] and CO2RES [kg/m²] apply to the RES area.
	CostRES, CO2RES float64

	// CostNBS [€/tree] and CO2NBS [kg/tree] apply to every planted tree.
	CostNBS, CO2NBS float64

	// PctCovered is the percentage (0-100) of the NBS area actually
	// covered by trees.
	PctCovered float64

	// TreeCoverArea is the area occupied by one tree [m²].
	TreeCoverArea float64

	// TreeWeight [kg] and MaxRoofLoad [kg/m²] limit the number of trees
	// on roof blocks. A MaxRoofLoad of zero disables the limit.
	TreeWeight, MaxRoofLoad float64

	// Caps holds the percentage caps per cell type. Cell types that are
	// missing are not capped.
	Caps map[CellType]Caps
}

// DefaultIntensity returns the rates used when nothing is configured.
func DefaultIntensity() Intensity {
	return Intensity{
		CostRES:       240,
		CO2RES:        48,
		CostNBS:       600,
		CO2NBS:        25,
		PctCovered:    50,
		TreeCoverArea: 5,
		TreeWeight:    400,
		Caps: map[CellType]Caps{
			Roof:   {RES: 1, NBS: 1},
			Ground: {RES: 1, NBS: 1},
		},
	}
}

// Validate checks the intensity parameters.
func (in Intensity) Validate() error {
	rates := []struct {
		name string
		v    float64
	}{
		{"Intensity.CostRES", in.CostRES},
		{"Intensity.CO2RES", in.CO2RES},
		{"Intensity.CostNBS", in.CostNBS},
		{"Intensity.CO2NBS", in.CO2NBS},
		{"Intensity.TreeWeight", in.TreeWeight},
		{"Intensity.MaxRoofLoad", in.MaxRoofLoad},
	}
	for _, r := range rates {
		if !(r.v >= 0) || math.IsInf(r.v, 0) {
			return &frontier.ConfigError{Field: r.name, Reason: fmt.Sprintf("%g must be a finite value >= 0", r.v)}
		}
	}
	if !(in.PctCovered >= 0 && in.PctCovered <= 100) {
		return &frontier.ConfigError{Field: "Intensity.PctCovered", Reason: fmt.Sprintf("%g must be between 0 and 100", in.PctCovered)}
	}
	if !(in.TreeCoverArea > 0) || math.IsInf(in.TreeCoverArea, 0) {
		return &frontier.ConfigError{Field: "Intensity.TreeCoverArea", Reason: fmt.Sprintf("%g must be > 0", in.TreeCoverArea)}
	}
	for _, c := range CellTypes {
		cp, ok := in.Caps[c]
		if !ok {
			continue
		}
		if !(cp.RES >= 0 && cp.RES <= 1) {
			return &frontier.ConfigError{Field: fmt.Sprintf("MaxPct.%s.RES", c), Reason: fmt.Sprintf("%g must be between 0 and 1", cp.RES)}
		}
		if !(cp.NBS >= 0 && cp.NBS <= 1) {
			return &frontier.ConfigError{Field: fmt.Sprintf("MaxPct.%s.NBS", c), Reason: fmt.Sprintf("%g must be between 0 and 1", cp.NBS)}
		}
	}
	return nil
}

func (in Intensity) caps(c CellType) Caps {
	if cp, ok := in.Caps[c]; ok {
		return cp
	}
	return Caps{RES: 1, NBS: 1}
}

// Outcome is the effect of applying one option to one block.
type Outcome struct {
	RESArea, NBSArea float64
	Trees            int

	RESCost, RESCO2 float64
	NBSCost, NBSCO2 float64
}

// Cost returns the total cost [€].
func (o Outcome) Cost() float64 { return o.RESCost + o.NBSCost }

// CO2 returns the total CO2 reduction [kg].
func (o Outcome) CO2() float64 { return o.RESCO2 + o.NBSCO2 }

// Outcome computes the effect of applying o to b:
//
//	res_area = area × min(res_pct, cap_RES)
//	nbs_area = area × min(nbs_pct, cap_NBS)
//	trees    = floor(nbs_area × pct_covered / tree_cover_area)
//	cost     = res_area × cost_RES + trees × cost_NBS
//	co2      = res_area × co2_RES + trees × co2_NBS
//
// On roof blocks with a roof load limit, trees are further limited to
// floor(nbs_area × max_roof_load / tree_weight).
func (in Intensity) Outcome(b Block, o Option) Outcome {
	cp := in.caps(b.Cell)
	out := Outcome{
		RESArea: b.Area * math.Min(o.RESPct, cp.RES),
		NBSArea: b.Area * math.Min(o.NBSPct, cp.NBS),
	}
	trees := math.Floor(out.NBSArea * in.PctCovered / 100 / in.TreeCoverArea)
	if b.Cell == Roof && in.MaxRoofLoad > 0 && in.TreeWeight > 0 {
		trees = math.Min(trees, math.Floor(out.NBSArea*in.MaxRoofLoad/in.TreeWeight))
	}
	out.Trees = int(trees)
	out.RESCost = out.RESArea * in.CostRES
	out.RESCO2 = out.RESArea * in.CO2RES
	out.NBSCost = float64(out.Trees) * in.CostNBS
	out.NBSCO2 = float64(out.Trees) * in.CO2NBS
	return out
}
