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

package mckp

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/JuliaSM98/ResGenWest-Thessaloniki/frontier"
)

// twoBlocks has the combinations (150,80), (200,150), (250,150) and
// (300,220).
func twoBlocks() []frontier.Group {
	return []frontier.Group{
		{ID: "A", Candidates: []frontier.Candidate{{Cost: 100, Value: 50}, {Cost: 150, Value: 120}}},
		{ID: "B", Candidates: []frontier.Candidate{{Cost: 50, Value: 30}, {Cost: 150, Value: 100}}},
	}
}

func TestMaxValue(t *testing.T) {
	tests := []struct {
		budget, want int64
	}{
		{budget: 300, want: 220},
		{budget: 299, want: 150},
		{budget: 249, want: 150},
		{budget: 200, want: 150},
		{budget: 199, want: 80},
		{budget: 150, want: 80},
		{budget: 1000, want: 220},
	}
	for _, test := range tests {
		sol, err := Solver{}.MaxValue(context.Background(), twoBlocks(), test.budget)
		if err != nil {
			t.Fatal(err)
		}
		if sol.Value != test.want {
			t.Errorf("budget %d: value %d != %d", test.budget, sol.Value, test.want)
		}
		if sol.Cost > test.budget {
			t.Errorf("budget %d: cost %d over budget", test.budget, sol.Cost)
		}
	}
}

func TestMaxValueCheapestTie(t *testing.T) {
	// (250,150) and (200,150) tie on value; the cheaper one wins.
	sol, err := Solver{}.MaxValue(context.Background(), twoBlocks(), 299)
	if err != nil {
		t.Fatal(err)
	}
	want := frontier.Solution{Selection: []int{1, 0}, Cost: 200, Value: 150}
	if !reflect.DeepEqual(sol, want) {
		t.Errorf("%+v != %+v", sol, want)
	}
}

func TestMaxValueInfeasible(t *testing.T) {
	_, err := Solver{}.MaxValue(context.Background(), twoBlocks(), 149)
	if !errors.Is(err, frontier.ErrInfeasible) {
		t.Errorf("err = %v, want ErrInfeasible", err)
	}
}

func TestMinCost(t *testing.T) {
	tests := []struct {
		minValue int64
		want     frontier.Solution
	}{
		{minValue: 0, want: frontier.Solution{Selection: []int{0, 0}, Cost: 150, Value: 80}},
		{minValue: 81, want: frontier.Solution{Selection: []int{1, 0}, Cost: 200, Value: 150}},
		{minValue: 150, want: frontier.Solution{Selection: []int{1, 0}, Cost: 200, Value: 150}},
		{minValue: 220, want: frontier.Solution{Selection: []int{1, 1}, Cost: 300, Value: 220}},
	}
	for _, test := range tests {
		sol, err := Solver{}.MinCost(context.Background(), twoBlocks(), test.minValue)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(sol, test.want) {
			t.Errorf("min value %d: %+v != %+v", test.minValue, sol, test.want)
		}
	}
	if _, err := (Solver{}).MinCost(context.Background(), twoBlocks(), 221); !errors.Is(err, frontier.ErrInfeasible) {
		t.Errorf("err = %v, want ErrInfeasible", err)
	}
}

func TestEmptyGroup(t *testing.T) {
	groups := append(twoBlocks(), frontier.Group{ID: "C"})
	_, err := Solver{}.MaxValue(context.Background(), groups, 1000)
	var de *frontier.DataError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want DataError", err)
	}
	if de.Block != "C" {
		t.Errorf("block = %q, want C", de.Block)
	}
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Solver{}).MaxValue(ctx, twoBlocks(), 1000); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// bruteForce enumerates every combination.
func bruteForce(groups []frontier.Group, budget int64) (best int64, ok bool) {
	sel := make([]int, len(groups))
	for {
		var c, v int64
		for i, j := range sel {
			c += groups[i].Candidates[j].Cost
			v += groups[i].Candidates[j].Value
		}
		if c <= budget && (!ok || v > best) {
			best, ok = v, true
		}
		i := 0
		for ; i < len(sel); i++ {
			sel[i]++
			if sel[i] < len(groups[i].Candidates) {
				break
			}
			sel[i] = 0
		}
		if i == len(sel) {
			return best, ok
		}
	}
}

func TestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		groups := make([]frontier.Group, 1+rng.Intn(5))
		var maxCost int64
		for i := range groups {
			n := 1 + rng.Intn(4)
			var hi int64
			for j := 0; j < n; j++ {
				c := frontier.Candidate{Cost: rng.Int63n(100), Value: rng.Int63n(100)}
				if c.Cost > hi {
					hi = c.Cost
				}
				groups[i].Candidates = append(groups[i].Candidates, c)
			}
			maxCost += hi
		}
		for budget := int64(0); budget <= maxCost; budget += 7 {
			want, ok := bruteForce(groups, budget)
			sol, err := Solver{}.MaxValue(context.Background(), groups, budget)
			if !ok {
				if !errors.Is(err, frontier.ErrInfeasible) {
					t.Fatalf("trial %d budget %d: err = %v, want ErrInfeasible", trial, budget, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("trial %d budget %d: %v", trial, budget, err)
			}
			if sol.Value != want {
				t.Errorf("trial %d budget %d: value %d != %d", trial, budget, sol.Value, want)
			}
			var c, v int64
			for i, j := range sol.Selection {
				c += groups[i].Candidates[j].Cost
				v += groups[i].Candidates[j].Value
			}
			if c != sol.Cost || v != sol.Value || c > budget {
				t.Errorf("trial %d budget %d: selection %v sums to (%d, %d), reported (%d, %d)", trial, budget, sol.Selection, c, v, sol.Cost, sol.Value)
			}
		}
	}
}

func TestFrontier(t *testing.T) {
	cfg := frontier.DefaultConfig()
	cfg.Mode = frontier.Tight
	cfg.Refine = true
	res, err := frontier.Build(context.Background(), Solver{}, twoBlocks(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := [][2]int64{{150, 80}, {200, 150}, {300, 220}}
	var got [][2]int64
	for _, p := range res.Points {
		got = append(got, [2]int64{p.Cost, p.CO2})
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%v != %v", got, want)
	}
}
