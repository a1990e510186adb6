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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cast"
)

// Option is one way of retrofitting a block: a share of its area given to
// renewable energy systems (RES) and a share given to nature based
// solutions (NBS).
type Option struct {
	MixID string
	Cell  CellType

	// RESPct and NBSPct are fractions in [0, 1].
	RESPct, NBSPct float64

	Label string
}

// Catalog holds the options available to each cell type. The position of
// an option in its list is its selection index.
type Catalog map[CellType][]Option

// Len returns the total number of options.
func (c Catalog) Len() int {
	n := 0
	for _, o := range c {
		n += len(o)
	}
	return n
}

// Add appends o to the options of its cell type.
func (c Catalog) Add(o Option) {
	c[o.Cell] = append(c[o.Cell], o)
}

// optionColumns are the catalog columns. label is optional.
var optionColumns = []string{"mix_id", "cell_type", "res_pct", "nbs_pct", "label"}

// LoadOptionsFile reads a catalog from a CSV file.
func LoadOptionsFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("retrofit: opening options file: %v", err)
	}
	defer f.Close()
	c, err := LoadOptions(f)
	if err != nil {
		return nil, fmt.Errorf("%v (file %s)", err, path)
	}
	return c, nil
}

// LoadOptions reads a catalog in CSV format with the header
// mix_id,cell_type,res_pct,nbs_pct,label. Percentages may be given either
// as fractions or in the range 0-100; values above 1 are divided by 100.
// Empty percentages are read as zero.
func LoadOptions(r io.Reader) (Catalog, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	lines, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("retrofit: reading options: %v", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("retrofit: options file is empty")
	}
	col := make(map[string]int)
	for i, h := range lines[0] {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, name := range optionColumns[:4] {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("retrofit: options file is missing column %q", name)
		}
	}
	get := func(line []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(line) {
			return ""
		}
		return strings.TrimSpace(line[i])
	}

	c := make(Catalog)
	for i, line := range lines[1:] {
		row := i + 2
		if len(line) == 1 && strings.TrimSpace(line[0]) == "" {
			continue
		}
		cell, err := ParseCellType(get(line, "cell_type"))
		if err != nil {
			return nil, fmt.Errorf("retrofit: options row %d: %v", row, err)
		}
		o := Option{
			MixID: get(line, "mix_id"),
			Cell:  cell,
			Label: get(line, "label"),
		}
		if o.RESPct, err = parsePct(get(line, "res_pct")); err != nil {
			return nil, fmt.Errorf("retrofit: options row %d: res_pct: %v", row, err)
		}
		if o.NBSPct, err = parsePct(get(line, "nbs_pct")); err != nil {
			return nil, fmt.Errorf("retrofit: options row %d: nbs_pct: %v", row, err)
		}
		c.Add(o)
	}
	if c.Len() == 0 {
		return nil, fmt.Errorf("retrofit: options file has no options")
	}
	return c, nil
}

// parsePct reads a percentage given as a fraction or as 0-100.
func parsePct(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	x, err := cast.ToFloat64E(strings.TrimSuffix(s, "%"))
	if err != nil {
		return 0, err
	}
	if !(x >= 0 && x <= 100) {
		return 0, fmt.Errorf("%g is outside of the range 0-100", x)
	}
	if x > 1 {
		x /= 100
	}
	return x, nil
}
