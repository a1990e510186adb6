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

package frontier

import (
	"errors"
	"math"
	"testing"
)

func TestScalerRounding(t *testing.T) {
	s := DefaultScaler()
	if s.CostFactor != 100 || s.CO2Factor != 100 {
		t.Fatalf("factors %g, %g; want 100", s.CostFactor, s.CO2Factor)
	}
	tests := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{1, 100},
		{0.125, 13},
		{-0.125, -13},
		{0.375, 38},
		{12345.678, 1234568},
	}
	for _, test := range tests {
		got, err := s.Cost(test.in)
		if err != nil {
			t.Fatal(err)
		}
		if got != test.want {
			t.Errorf("Cost(%g) = %d, want %d", test.in, got, test.want)
		}
	}
	if v := s.CostValue(1234568); math.Abs(v-12345.68) > 1e-9 {
		t.Errorf("CostValue = %g", v)
	}
}

func TestScalerOverflow(t *testing.T) {
	s := DefaultScaler()
	for _, x := range []float64{1e14, -1e14, math.NaN(), math.Inf(1)} {
		_, err := s.CO2(x)
		var oe *OverflowError
		if !errors.As(err, &oe) {
			t.Errorf("CO2(%g): err = %v, want OverflowError", x, err)
		}
	}
	small, err := NewScaler(1, 1, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := small.Cost(1000); err != nil {
		t.Errorf("1000 should fit: %v", err)
	}
	if _, err := small.Cost(1001); err == nil {
		t.Error("1001 should overflow")
	}
}

func TestNewScaler(t *testing.T) {
	s, err := NewScaler(0.5, 0.001, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.CostFactor != 2 || s.CO2Factor != 1000 || s.MaxMagnitude != DefaultMaxMagnitude {
		t.Errorf("%+v", s)
	}
	for _, r := range []float64{0, -1, math.NaN()} {
		_, err := NewScaler(r, 1, 0)
		var ce *ConfigError
		if !errors.As(err, &ce) || ce.Field != "Scale.CostResolution" {
			t.Errorf("resolution %g: err = %v", r, err)
		}
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"steps": Steps, " Tight": Tight, "TIGHT": Tight} {
		m, err := ParseMode(in)
		if err != nil || m != want {
			t.Errorf("ParseMode(%q) = %q, %v", in, m, err)
		}
	}
	if _, err := ParseMode("binary"); err == nil {
		t.Error("expected an error")
	}
}
