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
	"gonum.org/v1/gonum/floats"
)

// TableRow holds the metrics of one block under a selection.
type TableRow struct {
	Key  string
	Area float64

	// RESPct and NBSPct are the applied percentages (0-100) after caps.
	RESPct, NBSPct float64

	Trees   int
	RESArea float64

	NBSCO2, NBSCost float64
	RESCO2, RESCost float64

	TotalCO2, TotalCost float64
}

// Table is a per-block breakdown of a selection with a TOTAL row.
type Table struct {
	Rows []TableRow

	// Total sums every column except the percentages, which are averaged
	// over the blocks.
	Total TableRow
}

// TableHeader lists the column names of a Table.
var TableHeader = []string{"ID", "Area_m2", "RES%", "NBS%", "# Trees", "RES_m2",
	"NBS_CO2_kg", "NBS_Cost_€", "RES_CO2_kg", "RES_Cost_€", "Total_CO2_kg", "Total_Cost_€"}

// Table returns the per-block breakdown of sel.
func (p *Problem) Table(sel []int) (*Table, error) {
	if err := p.checkSelection(sel); err != nil {
		return nil, err
	}
	t := &Table{Rows: make([]TableRow, len(sel))}
	cols := make([][]float64, 10)
	for i := range cols {
		cols[i] = make([]float64, len(sel))
	}
	trees := 0
	for i, j := range sel {
		b := p.Blocks[i]
		o := p.Outcomes[i][j]
		r := TableRow{
			Key:       b.Key(),
			Area:      b.Area,
			Trees:     o.Trees,
			RESArea:   o.RESArea,
			NBSCO2:    o.NBSCO2,
			NBSCost:   o.NBSCost,
			RESCO2:    o.RESCO2,
			RESCost:   o.RESCost,
			TotalCO2:  o.CO2(),
			TotalCost: o.Cost(),
		}
		if b.Area > 0 {
			r.RESPct = 100 * o.RESArea / b.Area
			r.NBSPct = 100 * o.NBSArea / b.Area
		}
		t.Rows[i] = r
		trees += o.Trees
		for k, v := range []float64{r.Area, r.RESPct, r.NBSPct, r.RESArea, r.NBSCO2,
			r.NBSCost, r.RESCO2, r.RESCost, r.TotalCO2, r.TotalCost} {
			cols[k][i] = v
		}
	}
	n := float64(len(sel))
	if n == 0 {
		n = 1
	}
	t.Total = TableRow{
		Key:       "TOTAL",
		Area:      floats.Sum(cols[0]),
		RESPct:    floats.Sum(cols[1]) / n,
		NBSPct:    floats.Sum(cols[2]) / n,
		Trees:     trees,
		RESArea:   floats.Sum(cols[3]),
		NBSCO2:    floats.Sum(cols[4]),
		NBSCost:   floats.Sum(cols[5]),
		RESCO2:    floats.Sum(cols[6]),
		RESCost:   floats.Sum(cols[7]),
		TotalCO2:  floats.Sum(cols[8]),
		TotalCost: floats.Sum(cols[9]),
	}
	return t, nil
}
