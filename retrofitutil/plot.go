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
	"fmt"

	"github.com/JuliaSM98/ResGenWest-Thessaloniki/frontier"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotFrontier draws the frontier as CO2 reduction against cost and saves
// it to file. The image format follows the file extension.
func PlotFrontier(file, title string, res *frontier.Result, s frontier.Scaler) error {
	if len(res.Points) == 0 {
		return fmt.Errorf("retrofit: no frontier points to plot")
	}
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = title
	p.X.Label.Text = "Total cost (€)"
	p.Y.Label.Text = "Total CO2 reduction (kg)"
	xy := make(plotter.XYs, len(res.Points))
	for i, pt := range res.Points {
		xy[i].X = s.CostValue(pt.Cost)
		xy[i].Y = s.CO2Value(pt.CO2)
	}
	if err = plotutil.AddLinePoints(p, xy); err != nil {
		return err
	}
	p.Add(plotter.NewGrid())
	if err = p.Save(6*vg.Inch, 4*vg.Inch, file); err != nil {
		return fmt.Errorf("retrofit: saving frontier plot: %v", err)
	}
	return nil
}
