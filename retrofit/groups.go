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

	"github.com/JuliaSM98/ResGenWest-Thessaloniki/frontier"
)

// Problem is a set of blocks together with the options available to each
// of them, ready to be optimized.
type Problem struct {
	Blocks []Block

	// Options[i] are the options of Blocks[i], in selection index order.
	Options [][]Option

	// Outcomes[i][j] is the effect of Options[i][j] on Blocks[i].
	Outcomes [][]Outcome

	// Groups are the scaled outcomes, one group per block.
	Groups []frontier.Group

	Scaler    frontier.Scaler
	Intensity Intensity
}

// BuildGroups computes the outcome of every (block, option) pair once and
// scales it to integer units.
func BuildGroups(blocks []Block, cat Catalog, in Intensity, s frontier.Scaler) (*Problem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, &frontier.DataError{Reason: "there are no blocks to optimize"}
	}
	p := &Problem{
		Blocks:    blocks,
		Options:   make([][]Option, len(blocks)),
		Outcomes:  make([][]Outcome, len(blocks)),
		Groups:    make([]frontier.Group, len(blocks)),
		Scaler:    s,
		Intensity: in,
	}
	for i, b := range blocks {
		if err := b.Validate(); err != nil {
			return nil, err
		}
		opts := cat[b.Cell]
		if len(opts) == 0 {
			return nil, &frontier.DataError{Block: b.Key(), Reason: fmt.Sprintf("no options for cell type %s", b.Cell)}
		}
		p.Options[i] = opts
		p.Outcomes[i] = make([]Outcome, len(opts))
		g := frontier.Group{ID: b.Key(), Candidates: make([]frontier.Candidate, len(opts))}
		for j, o := range opts {
			out := in.Outcome(b, o)
			p.Outcomes[i][j] = out
			cost, err := s.Cost(out.Cost())
			if err != nil {
				return nil, fmt.Errorf("retrofit: block %s, option %s: %w", b.Key(), o.MixID, err)
			}
			co2, err := s.CO2(out.CO2())
			if err != nil {
				return nil, fmt.Errorf("retrofit: block %s, option %s: %w", b.Key(), o.MixID, err)
			}
			g.Candidates[j] = frontier.Candidate{Cost: cost, Value: co2}
		}
		p.Groups[i] = g
	}
	return p, nil
}

// checkSelection verifies that sel picks one valid option per block.
func (p *Problem) checkSelection(sel []int) error {
	if len(sel) != len(p.Blocks) {
		return fmt.Errorf("retrofit: selection covers %d blocks; there are %d", len(sel), len(p.Blocks))
	}
	for i, j := range sel {
		if j < 0 || j >= len(p.Options[i]) {
			return fmt.Errorf("retrofit: invalid option %d for block %s", j, p.Blocks[i].Key())
		}
	}
	return nil
}

// Totals re-derives the unscaled total cost and CO2 of a selection.
func (p *Problem) Totals(sel []int) (cost, co2 float64, err error) {
	if err = p.checkSelection(sel); err != nil {
		return 0, 0, err
	}
	for i, j := range sel {
		cost += p.Outcomes[i][j].Cost()
		co2 += p.Outcomes[i][j].CO2()
	}
	return cost, co2, nil
}

// Chosen returns the option selected for every block.
func (p *Problem) Chosen(sel []int) ([]Option, error) {
	if err := p.checkSelection(sel); err != nil {
		return nil, err
	}
	out := make([]Option, len(sel))
	for i, j := range sel {
		out[i] = p.Options[i][j]
	}
	return out, nil
}
