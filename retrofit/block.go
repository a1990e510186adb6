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

// Package retrofit holds the domain model of a block retrofit study:
// blocks of roof or ground area, the catalog of retrofit options, and the
// intensity parameters that turn a (block, option) pair into a cost and a
// CO2 reduction. It converts those records into the integer groups used by
// package frontier.
package retrofit

import (
	"fmt"
	"math"
	"strings"

	"github.com/JuliaSM98/ResGenWest-Thessaloniki/frontier"
)

// CellType is the kind of surface a block offers.
type CellType string

// Cell types.
const (
	Roof   CellType = "roof"
	Ground CellType = "ground"
)

// CellTypes lists the cell types in a fixed order.
var CellTypes = []CellType{Roof, Ground}

// ParseCellType converts a cell type name, ignoring case and surrounding
// space.
func ParseCellType(s string) (CellType, error) {
	switch c := CellType(strings.ToLower(strings.TrimSpace(s))); c {
	case Roof, Ground:
		return c, nil
	default:
		return "", fmt.Errorf("retrofit: invalid cell type %q; valid types are %q and %q", s, Roof, Ground)
	}
}

// Block is an aggregated area of one cell type within a building block.
type Block struct {
	// ProjectID identifies the school or housing site. It is empty for
	// blocks read from per-block shapefiles.
	ProjectID string

	// Number is the block number within the project.
	Number string

	Cell CellType

	// Area is the eligible area in m².
	Area float64
}

// Key returns the block identity in the form "<project>.<number>:<cell>".
func (b Block) Key() string {
	if b.ProjectID == "" {
		return fmt.Sprintf("%s:%s", b.Number, b.Cell)
	}
	return fmt.Sprintf("%s.%s:%s", b.ProjectID, b.Number, b.Cell)
}

// Validate checks that b can be optimized.
func (b Block) Validate() error {
	if _, err := ParseCellType(string(b.Cell)); err != nil {
		return &frontier.DataError{Block: b.Key(), Reason: err.Error()}
	}
	if math.IsNaN(b.Area) || math.IsInf(b.Area, 0) {
		return &frontier.DataError{Block: b.Key(), Reason: "missing area"}
	}
	if b.Area < 0 {
		return &frontier.DataError{Block: b.Key(), Reason: fmt.Sprintf("negative area %g", b.Area)}
	}
	return nil
}
