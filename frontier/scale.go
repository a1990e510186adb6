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
	"fmt"
	"math"
)

const (
	// DefaultResolution is the default size of one scaled unit:
	// one cent for costs and 0.01 kg for CO2.
	DefaultResolution = 0.01

	// DefaultMaxMagnitude is the largest scaled magnitude accepted by
	// default. Every integer up to 2^53 is exactly representable as a
	// float64, so values beyond it could not be converted back without loss.
	DefaultMaxMagnitude int64 = 1 << 53
)

// Scaler converts currency and mass values to exact integer units.
type Scaler struct {
	// CostFactor is the number of scaled units per currency unit.
	CostFactor float64
	// CO2Factor is the number of scaled units per mass unit.
	CO2Factor float64
	// MaxMagnitude is the largest absolute scaled value allowed.
	MaxMagnitude int64
}

// NewScaler returns a Scaler whose units are costResolution currency units
// and co2Resolution mass units. A maxMagnitude <= 0 selects
// DefaultMaxMagnitude.
func NewScaler(costResolution, co2Resolution float64, maxMagnitude int64) (Scaler, error) {
	res := []float64{costResolution, co2Resolution}
	names := []string{"Scale.CostResolution", "Scale.CO2Resolution"}
	for i, r := range res {
		if !(r > 0) || math.IsInf(r, 0) {
			return Scaler{}, &ConfigError{Field: names[i], Reason: fmt.Sprintf("resolution %g must be > 0", r)}
		}
	}
	if maxMagnitude <= 0 {
		maxMagnitude = DefaultMaxMagnitude
	}
	return Scaler{
		CostFactor:   factor(costResolution),
		CO2Factor:    factor(co2Resolution),
		MaxMagnitude: maxMagnitude,
	}, nil
}

// DefaultScaler returns a Scaler with cent and 0.01 kg resolution.
func DefaultScaler() Scaler {
	s, _ := NewScaler(DefaultResolution, DefaultResolution, DefaultMaxMagnitude)
	return s
}

// factor inverts a resolution, snapping to the nearest integer when the
// inverse is integral up to floating point noise (1/0.01 = 100).
func factor(resolution float64) float64 {
	f := 1 / resolution
	if r := math.Round(f); math.Abs(f-r) < 1e-9*r {
		return r
	}
	return f
}

// Cost converts a monetary value to scaled units.
func (s Scaler) Cost(x float64) (int64, error) { return s.scale("cost", x, s.CostFactor) }

// CO2 converts a mass value to scaled units.
func (s Scaler) CO2(x float64) (int64, error) { return s.scale("co2", x, s.CO2Factor) }

// CostValue converts scaled cost units back to currency.
func (s Scaler) CostValue(v int64) float64 { return float64(v) / s.CostFactor }

// CO2Value converts scaled CO2 units back to mass.
func (s Scaler) CO2Value(v int64) float64 { return float64(v) / s.CO2Factor }

// scale rounds half away from zero and checks the result range.
func (s Scaler) scale(quantity string, x, f float64) (int64, error) {
	max := s.MaxMagnitude
	if max <= 0 {
		max = DefaultMaxMagnitude
	}
	v := math.Round(x * f)
	if math.IsNaN(v) || math.Abs(v) > float64(max) {
		return 0, &OverflowError{Quantity: quantity, Value: x, Max: max}
	}
	return int64(v), nil
}
