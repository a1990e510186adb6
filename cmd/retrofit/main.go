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

// Command retrofit is a command-line interface for computing the cost
// versus CO2 frontier of building block retrofits.
package main

import (
	"fmt"
	"os"

	"github.com/JuliaSM98/ResGenWest-Thessaloniki/retrofitutil"
)

func main() {
	if err := retrofitutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
