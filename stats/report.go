package stats

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/memsys/datarecording"
)

// A Metric is a statistic shown in a report. Keys are tried in order.
type Metric struct {
	Label string
	Group string
	Keys  []string
	Scale float64
	Unit  string
}

// A Report is a named set of metrics.
type Report struct {
	Name    string
	Title   string
	Metrics []Metric
}

// Value is an evaluated metric.
type Value struct {
	Label string
	Group string
	Key   string
	Value float64
	Unit  string
}

func withTotal(key string) []string {
	return []string{key + "::total", key}
}

// CacheReport shows the hits, misses and accesses of the L1 data cache.
var CacheReport = Report{
	Name:  "cache",
	Title: "L1 Data Cache",
	Metrics: []Metric{
		{Label: "Read Hits", Keys: withTotal("system.cpu.dcache.ReadReq.hits")},
		{Label: "Write Hits", Keys: withTotal("system.cpu.dcache.WriteReq.hits")},
		{Label: "Read Misses", Keys: withTotal("system.cpu.dcache.ReadReq.misses")},
		{Label: "Write Misses", Keys: withTotal("system.cpu.dcache.WriteReq.misses")},
		{Label: "Demand Accesses", Keys: withTotal("system.cpu.dcache.demandAccesses")},
		{Label: "Overall Accesses", Keys: withTotal("system.cpu.dcache.overallAccesses")},
	},
}

// DVFSReport shows how an operating point affects run time, caches, DRAM
// bandwidth and CPU throughput.
var DVFSReport = Report{
	Name:  "dvfs",
	Title: "DVFS Run Summary",
	Metrics: []Metric{
		{Label: "Simulated Seconds", Group: "run", Keys: []string{"simSeconds"}, Unit: "s"},
		{Label: "Simulated Ticks", Group: "run", Keys: []string{"simTicks"}},
		{Label: "Final Tick", Group: "run", Keys: []string{"finalTick"}},
		{Label: "Host Seconds", Group: "run", Keys: []string{"hostSeconds"}, Unit: "s"},
		{Label: "Host Memory", Group: "run", Keys: []string{"hostMemory"}, Unit: "B"},
		{
			Label: "Data Cache Miss Rate", Group: "cache miss rate",
			Keys: withTotal("system.cpu.dcache.demandMissRate"),
		},
		{
			Label: "Instruction Cache Miss Rate", Group: "cache miss rate",
			Keys: withTotal("system.cpu.icache.demandMissRate"),
		},
		{
			Label: "DRAM Read Bandwidth", Group: "dram",
			Keys:  withTotal("system.mem_ctrl.dram.bwRead"),
			Scale: 1.0 / (1024 * 1024), Unit: "MB/s",
		},
		{Label: "CPU Cycles", Group: "cpu", Keys: []string{"system.cpu.numCycles"}},
		{Label: "IPC", Group: "cpu", Keys: []string{"system.cpu.ipc"}},
		{Label: "CPI", Group: "cpu", Keys: []string{"system.cpu.cpi"}},
	},
}

// LookupReport returns a report by name.
func LookupReport(name string) (Report, error) {
	for _, r := range []Report{CacheReport, DVFSReport} {
		if r.Name == name {
			return r, nil
		}
	}

	return Report{}, fmt.Errorf("unknown report %q, use cache or dvfs", name)
}

// Evaluate reads every metric of the report from the file.
func (r Report) Evaluate(f *File) ([]Value, error) {
	values := make([]Value, 0, len(r.Metrics))

	for _, m := range r.Metrics {
		v, key, err := f.FirstFloat(m.Keys...)
		if err != nil {
			return nil, err
		}

		if m.Scale != 0 {
			v *= m.Scale
		}

		values = append(values, Value{
			Label: m.Label,
			Group: m.Group,
			Key:   key,
			Value: v,
			Unit:  m.Unit,
		})
	}

	return values, nil
}

// BarWidth is the length of the longest bar.
const BarWidth = 40

// Render writes the values as a table with a bar per value. Bars are scaled
// within each group.
func Render(w io.Writer, title string, values []Value) error {
	maxByGroup := make(map[string]float64)
	for _, v := range values {
		maxByGroup[v.Group] = math.Max(maxByGroup[v.Group], math.Abs(v.Value))
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Metric", "Value", "Unit", ""})

	for _, v := range values {
		t.AppendRow(table.Row{
			v.Label,
			formatValue(v.Value),
			v.Unit,
			bar(v.Value, maxByGroup[v.Group]),
		})
	}

	_, err := fmt.Fprintln(w, t.Render())

	return err
}

func bar(v, peak float64) string {
	if peak == 0 {
		return ""
	}

	n := int(math.Round(math.Abs(v) / peak * BarWidth))

	return strings.Repeat("█", n)
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}

	return fmt.Sprintf("%.6g", v)
}

// ValueTableName is the table that report values are recorded to.
const ValueTableName = "stats_values"

type valueEntry struct {
	Source string
	Report string
	Label  string
	Group  string
	Key    string
	Value  float64
	Unit   string
}

// Record stores the values of a report.
func Record(
	r datarecording.DataRecorder,
	source string,
	report Report,
	values []Value,
) {
	r.CreateTable(ValueTableName, valueEntry{})

	for _, v := range values {
		r.InsertData(ValueTableName, valueEntry{
			Source: source,
			Report: report.Name,
			Label:  v.Label,
			Group:  v.Group,
			Key:    v.Key,
			Value:  v.Value,
			Unit:   v.Unit,
		})
	}

	r.Flush()
}

// Recall reads back the values of a report recorded from the given source,
// in the order they were recorded.
func Recall(
	ctx context.Context,
	r datarecording.DataReader,
	source string,
	report Report,
) ([]Value, error) {
	r.MapTable(ValueTableName, valueEntry{})

	rows, _, err := r.Query(ctx, ValueTableName, datarecording.QueryParams{
		Where:   "Source = ? AND Report = ?",
		Args:    []any{source, report.Name},
		OrderBy: "rowid",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s values: %w", report.Name, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no %s values recorded for %s", report.Name, source)
	}

	values := make([]Value, 0, len(rows))
	for _, row := range rows {
		e := row.(*valueEntry)
		values = append(values, Value{
			Label: e.Label,
			Group: e.Group,
			Key:   e.Key,
			Value: e.Value,
			Unit:  e.Unit,
		})
	}

	return values, nil
}
