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
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/spf13/cast"
)

// blockRecord is one feature of a unified block shapefile. Attribute
// fields that are absent from the file are left empty.
type blockRecord struct {
	geom.Geom
	ID     string `shp:"Id"`
	Number string `shp:"B_Number"`
	AreaU  string `shp:"Area_U_m2"`
	AreaR  string `shp:"Area_R_m2"`
}

// legacyRecord is one feature of a per-block shapefile.
type legacyRecord struct {
	geom.Geom
	Area string `shp:"Area_Uncov"`
}

// LoadBlocks reads block areas from path, which is either a single
// unified shapefile or a directory of per-block Block_<n>.shp files.
//
// In a unified shapefile every feature carries a project Id, a block
// number (B_Number) and an uncovered ground area (Area_U_m2) or a roof
// area (Area_R_m2). Areas are summed per block and cell type, and the
// blocks are returned ordered by key. Features with no area attribute
// contribute their planar geometry area to the ground cell.
//
// In a directory, each Block_<n>.shp file is one ground block whose area
// is the sum of its Area_Uncov attribute. Blocks are ordered by number.
func LoadBlocks(path string) ([]Block, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("retrofit: reading blocks: %v", err)
	}
	if fi.IsDir() {
		return loadBlockDir(path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".shp") {
		return nil, fmt.Errorf("retrofit: blocks file %s is not a shapefile", path)
	}
	return loadUnified(path)
}

func loadUnified(path string) ([]Block, error) {
	f, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("retrofit: problem opening block shapefile %s: %v", path, err)
	}
	defer f.Close()

	accum := make(map[string]*Block)
	for row := 0; ; row++ {
		var rec blockRecord
		if ok := f.DecodeRow(&rec); !ok {
			break
		}
		b := Block{ProjectID: clean(rec.ID), Number: clean(rec.Number)}
		var area float64
		switch {
		case clean(rec.AreaU) != "":
			b.Cell = Ground
			area, err = cast.ToFloat64E(clean(rec.AreaU))
		case clean(rec.AreaR) != "":
			b.Cell = Roof
			area, err = cast.ToFloat64E(clean(rec.AreaR))
		default:
			b.Cell = Ground
			if p, ok := rec.Geom.(geom.Polygonal); ok {
				area = p.Area()
			}
		}
		if err != nil {
			return nil, fmt.Errorf("retrofit: block shapefile %s, feature %d: invalid area: %v", path, row, err)
		}
		key := b.Key()
		if a, ok := accum[key]; ok {
			a.Area += area
			continue
		}
		b.Area = area
		accum[key] = &b
	}
	if err := f.Error(); err != nil {
		return nil, fmt.Errorf("retrofit: problem reading block shapefile %s: %v", path, err)
	}

	keys := make([]string, 0, len(accum))
	for k := range accum {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	blocks := make([]Block, len(keys))
	for i, k := range keys {
		blocks[i] = *accum[k]
	}
	return blocks, nil
}

var blockFileName = regexp.MustCompile(`^Block_(\d+)\.shp$`)

func loadBlockDir(dir string) ([]Block, error) {
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("retrofit: reading block directory: %v", err)
	}
	type numbered struct {
		n    int
		name string
	}
	var found []numbered
	for _, fi := range files {
		m := blockFileName.FindStringSubmatch(fi.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("retrofit: block file %s: %v", fi.Name(), err)
		}
		found = append(found, numbered{n: n, name: fi.Name()})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	blocks := make([]Block, len(found))
	for i, bf := range found {
		area, err := sumLegacyArea(filepath.Join(dir, bf.name))
		if err != nil {
			return nil, err
		}
		blocks[i] = Block{Number: strconv.Itoa(bf.n), Cell: Ground, Area: area}
	}
	return blocks, nil
}

func sumLegacyArea(path string) (float64, error) {
	f, err := shp.NewDecoder(path)
	if err != nil {
		return 0, fmt.Errorf("retrofit: problem opening block shapefile %s: %v", path, err)
	}
	defer f.Close()
	var total float64
	for {
		var rec legacyRecord
		if ok := f.DecodeRow(&rec); !ok {
			break
		}
		v, err := cast.ToFloat64E(clean(rec.Area))
		if err != nil {
			// Unparseable attributes do not count towards the block.
			continue
		}
		total += v
	}
	if err := f.Error(); err != nil {
		return 0, fmt.Errorf("retrofit: problem reading block shapefile %s: %v", path, err)
	}
	return total, nil
}

// clean removes the padding shapefile attributes are stored with.
func clean(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\x00"))
}
