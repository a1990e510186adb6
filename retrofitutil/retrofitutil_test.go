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
	"bytes"
	"encoding/json"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/JuliaSM98/ResGenWest-Thessaloniki/frontier"
	"github.com/JuliaSM98/ResGenWest-Thessaloniki/retrofit"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
	"github.com/lnashier/viper"
	"github.com/tealeg/xlsx"
)

// writeBlocks writes block P1.1 with 40 m² of ground and 20 m² of roof.
func writeBlocks(t *testing.T, file string) {
	e, err := shp.NewEncoderFromFields(file, goshp.POLYGON,
		goshp.StringField("Id", 10), goshp.StringField("B_Number", 10),
		goshp.StringField("Area_U_m2", 20), goshp.StringField("Area_R_m2", 20))
	if err != nil {
		t.Fatal(err)
	}
	sq := geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}}}
	if err := e.EncodeFields(sq, "P1", "1", "40", ""); err != nil {
		t.Fatal(err)
	}
	if err := e.EncodeFields(sq, "P1", "1", "", "20"); err != nil {
		t.Fatal(err)
	}
	e.Close()
}

// setup resets the configuration to a tight run over the test blocks
// and returns the output directory.
func setup(t *testing.T) string {
	dir := t.TempDir()
	writeBlocks(t, filepath.Join(dir, "blocks.shp"))
	Cfg.Set("config", "")
	Cfg.Set("Blocks", filepath.Join(dir, "blocks.shp"))
	Cfg.Set("Options", "../retrofit/testdata/options.csv")
	Cfg.Set("OutputFile", filepath.Join(dir, "frontier.csv"))
	for _, name := range []string{"MetadataFile", "SelectionsFile", "LogFile", "SnapshotFile",
		"PlotFile", "TableFile", "TableXLSX"} {
		Cfg.Set(name, "")
	}
	Cfg.Set("Mode", "tight")
	Cfg.Set("BudgetSteps", 41)
	Cfg.Set("Refine", false)
	Cfg.Set("Prune", true)
	Cfg.Set("Budget", -1.0)
	return dir
}

func readLines(t *testing.T, file string) []string {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(b)), "\n")
}

func TestFrontierTight(t *testing.T) {
	dir := setup(t)
	Cfg.Set("MetadataFile", filepath.Join(dir, "meta.json"))
	Cfg.Set("SelectionsFile", filepath.Join(dir, "sel.csv"))
	Cfg.Set("PlotFile", filepath.Join(dir, "frontier.png"))
	Root.SetArgs([]string{"frontier"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	lines := readLines(t, filepath.Join(dir, "frontier.csv"))
	want := []string{
		"cost,co2,n_blocks",
		"0.000000,0.000000,2",
		"2040.000000,313.000000,2",
		"3840.000000,768.000000,2",
		"6000.000000,1010.000000,2",
		"8040.000000,1323.000000,2",
		"9600.000000,1920.000000,2",
		"11640.000000,2233.000000,2",
		"13440.000000,2688.000000,2",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("frontier:\n%s\nwant:\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}

	if sel := readLines(t, filepath.Join(dir, "sel.csv")); len(sel) != 1+8*2 {
		t.Errorf("%d selection rows", len(sel))
	} else if sel[len(sel)-1] != "7,13440.000000,2688.000000,1,P1.1:roof,20.000000,R1,0.800000,0.200000" {
		t.Errorf("last selection row %q", sel[len(sel)-1])
	}

	b, err := ioutil.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		t.Fatal(err)
	}
	var meta struct {
		Mode      string
		NBlocks   int     `json:"n_blocks"`
		MaxBudget float64 `json:"max_budget"`
		Options   []retrofit.Option
		Points    []struct {
			Selection []int
		}
	}
	if err := json.Unmarshal(b, &meta); err != nil {
		t.Fatal(err)
	}
	if meta.Mode != "tight" || meta.NBlocks != 2 || meta.MaxBudget != 13440 || len(meta.Options) != 7 {
		t.Errorf("metadata %+v", meta)
	}
	if len(meta.Points) != 8 || !reflect.DeepEqual(meta.Points[7].Selection, []int{1, 1}) {
		t.Errorf("metadata points %+v", meta.Points)
	}

	if fi, err := os.Stat(filepath.Join(dir, "frontier.png")); err != nil || fi.Size() == 0 {
		t.Errorf("plot not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "frontier.log")); err != nil {
		t.Errorf("log not written: %v", err)
	}
}

func TestFrontierSteps(t *testing.T) {
	dir := setup(t)
	Cfg.Set("Mode", "steps")
	Cfg.Set("BudgetSteps", 2)
	Root.SetArgs([]string{"frontier"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"cost,co2,n_blocks",
		"0.000000,0.000000,2",
		"13440.000000,2688.000000,2",
	}
	if lines := readLines(t, filepath.Join(dir, "frontier.csv")); !reflect.DeepEqual(lines, want) {
		t.Errorf("%v != %v", lines, want)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := setup(t)
	snap := filepath.Join(dir, "snapshot.toml")
	Cfg.Set("SnapshotFile", snap)
	Root.SetArgs([]string{"frontier"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	want, err := loadRunConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.SetConfigFile(snap)
	if err := v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	have, err := loadRunConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	// The snapshot is not asked to reproduce itself.
	want.SnapshotFile = ""
	if !reflect.DeepEqual(have, want) {
		t.Errorf("%+v\n!=\n%+v", have, want)
	}
}

func TestSolve(t *testing.T) {
	dir := setup(t)
	Cfg.Set("Budget", 9000.0)
	Cfg.Set("SelectionsFile", filepath.Join(dir, "sel.csv"))
	Cfg.Set("TableFile", filepath.Join(dir, "table.csv"))
	Cfg.Set("TableXLSX", filepath.Join(dir, "table.xlsx"))
	Cfg.Set("MetadataFile", filepath.Join(dir, "meta.json"))
	Root.SetArgs([]string{"solve"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	want := []string{"cost,co2,n_blocks", "8040.000000,1323.000000,2"}
	if lines := readLines(t, filepath.Join(dir, "frontier.csv")); !reflect.DeepEqual(lines, want) {
		t.Errorf("%v != %v", lines, want)
	}
	if sel := readLines(t, filepath.Join(dir, "sel.csv")); len(sel) != 3 {
		t.Errorf("%d selection rows", len(sel))
	}

	table := readLines(t, filepath.Join(dir, "table.csv"))
	if len(table) != 4 {
		t.Fatalf("%d table rows", len(table))
	}
	if table[0] != strings.Join(retrofit.TableHeader, ",") {
		t.Errorf("header %q", table[0])
	}
	if !strings.HasPrefix(table[1], "P1.1:ground,40.000000,50.00%,50.00%,2,") {
		t.Errorf("ground row %q", table[1])
	}
	if !strings.HasPrefix(table[3], "TOTAL,60.00,40.00%,60.00%,3,") || !strings.HasSuffix(table[3], ",1323.00,8040.00") {
		t.Errorf("total row %q", table[3])
	}

	xf, err := xlsx.OpenFile(filepath.Join(dir, "table.xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	rows := xf.Sheets[0].Rows
	if len(rows) != 4 || rows[2].Cells[0].Value != "P1.1:roof" || rows[3].Cells[0].Value != "TOTAL" {
		t.Errorf("workbook has %d rows", len(rows))
	}

	b, err := ioutil.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		t.Fatal(err)
	}
	var meta struct {
		Mode        string
		BudgetLimit float64 `json:"budget_limit"`
	}
	if err := json.Unmarshal(b, &meta); err != nil {
		t.Fatal(err)
	}
	if meta.Mode != "max-co2-under-budget" || meta.BudgetLimit != 9000 {
		t.Errorf("metadata %+v", meta)
	}
}

func TestSolveInfeasible(t *testing.T) {
	dir := setup(t)
	opts := filepath.Join(dir, "options.csv")
	err := ioutil.WriteFile(opts, []byte("mix_id,cell_type,res_pct,nbs_pct,label\nG1,ground,100,0,\nR1,roof,80,20,\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	Cfg.Set("Options", opts)
	Cfg.Set("Budget", 100.0)
	Cfg.Set("TableFile", filepath.Join(dir, "table.csv"))
	Root.SetArgs([]string{"solve"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if lines := readLines(t, filepath.Join(dir, "frontier.csv")); len(lines) != 1 {
		t.Errorf("%d frontier rows", len(lines))
	}
	if _, err := os.Stat(filepath.Join(dir, "table.csv")); !os.IsNotExist(err) {
		t.Errorf("table written for an infeasible budget: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name, key string
		val       interface{}
		args      []string
		field     string
	}{
		{name: "no blocks", key: "Blocks", val: "", args: []string{"frontier"}, field: "Blocks"},
		{name: "bad mode", key: "Mode", val: "fast", args: []string{"frontier"}, field: "Mode"},
		{name: "one step", key: "BudgetSteps", val: 1, args: []string{"frontier"}, field: "BudgetSteps"},
		{name: "no budget", key: "Budget", val: -1.0, args: []string{"solve"}, field: "Budget"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir := setup(t)
			Cfg.Set("Mode", "steps")
			Cfg.Set(test.key, test.val)
			Root.SetArgs(test.args)
			Root.SetOutput(ioutil.Discard)
			defer Root.SetOutput(nil)
			err := Root.Execute()
			var ce *frontier.ConfigError
			if !errors.As(err, &ce) || ce.Field != test.field {
				t.Fatalf("want configuration error for %s, have %v", test.field, err)
			}
			if _, err := os.Stat(filepath.Join(dir, "frontier.csv")); !os.IsNotExist(err) {
				t.Errorf("output written after a configuration error")
			}
		})
	}
}

func TestBadOptionsWritesOnlyLog(t *testing.T) {
	dir := setup(t)
	Cfg.Set("Options", filepath.Join(dir, "missing.csv"))
	Root.SetArgs([]string{"frontier"})
	Root.SetOutput(ioutil.Discard)
	defer Root.SetOutput(nil)
	if err := Root.Execute(); err == nil {
		t.Fatal("expected an error")
	}
	if _, err := os.Stat(filepath.Join(dir, "frontier.csv")); !os.IsNotExist(err) {
		t.Errorf("frontier written after a failed run")
	}
	if _, err := os.Stat(filepath.Join(dir, "frontier.log")); err != nil {
		t.Errorf("log missing: %v", err)
	}
}

func TestConfigExample(t *testing.T) {
	out := t.TempDir()
	os.Setenv("RETROFIT_DATA", "/data")
	os.Setenv("RETROFIT_OUT", out)
	v := viper.New()
	v.SetConfigFile("configExample.toml")
	if err := v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	r, err := loadRunConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	if r.Blocks != "/data/blocks.shp" || r.OutputFile != filepath.Join(out, "frontier.csv") {
		t.Errorf("paths %q, %q", r.Blocks, r.OutputFile)
	}
	if r.LogFile != filepath.Join(out, "frontier.log") {
		t.Errorf("log file %q", r.LogFile)
	}
	if !reflect.DeepEqual(r.Intensity, retrofit.DefaultIntensity()) {
		t.Errorf("%+v != %+v", r.Intensity, retrofit.DefaultIntensity())
	}
	want := frontier.DefaultConfig()
	if !reflect.DeepEqual(r.Engine, want) {
		t.Errorf("%+v != %+v", r.Engine, want)
	}
	if r.Scaler != frontier.DefaultScaler() {
		t.Errorf("%+v != %+v", r.Scaler, frontier.DefaultScaler())
	}
}

func TestEngineConfig(t *testing.T) {
	v := viper.New()
	v.Set("Mode", "tight")
	v.Set("BudgetSteps", 5)
	v.Set("MaxIterations", 50)
	v.Set("CacheEntries", 10)
	v.Set("Workers", 0)
	v.Set("SolverTimeout", "2s")
	c, err := EngineConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	if c.Mode != frontier.Tight || c.Workers != runtime.GOMAXPROCS(-1) || c.SolverTimeout != 2*time.Second {
		t.Errorf("%+v", c)
	}

	v.Set("SolverTimeout", "soon")
	var ce *frontier.ConfigError
	if _, err = EngineConfig(v); !errors.As(err, &ce) || ce.Field != "SolverTimeout" {
		t.Errorf("want SolverTimeout error, have %v", err)
	}
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "retrofit v"+Version+"\n" {
		t.Errorf("version output %q", buf.String())
	}
}
