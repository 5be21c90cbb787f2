package stats

import (
	"math"
	"sort"

	"github.com/dkrysak/chemviz/internal/domain/analysis"
	"github.com/dkrysak/chemviz/internal/tabular"
)

// Required columns of an equipment readings table.
const (
	ColFlowrate    = "flowrate"
	ColPressure    = "pressure"
	ColTemperature = "temperature"
	ColType        = "type"
)

// Compute derives the summary statistics for one uploaded table: per-column
// means rounded to 2 decimals and the equipment-type histogram. An empty
// table yields zero averages and an empty distribution, not an error.
func Compute(t *tabular.Table) (analysis.Result, error) {
	flow, err := t.Floats(ColFlowrate)
	if err != nil {
		return analysis.Result{}, err
	}
	press, err := t.Floats(ColPressure)
	if err != nil {
		return analysis.Result{}, err
	}
	temp, err := t.Floats(ColTemperature)
	if err != nil {
		return analysis.Result{}, err
	}
	types, err := t.Strings(ColType)
	if err != nil {
		return analysis.Result{}, err
	}

	return analysis.Result{
		TotalCount: t.Len(),
		Averages: analysis.Averages{
			Flowrate:    round2(mean(flow)),
			Pressure:    round2(mean(press)),
			Temperature: round2(mean(temp)),
		},
		Distribution: distribution(types),
	}, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// distribution counts distinct values ordered by count descending, ties kept
// in first-seen order.
func distribution(values []string) analysis.Distribution {
	counts := make(map[string]int)
	var firstSeen []string
	for _, v := range values {
		if _, ok := counts[v]; !ok {
			firstSeen = append(firstSeen, v)
		}
		counts[v]++
	}

	// Stable sort on count keeps first-seen order for equal counts.
	labels := make([]string, len(firstSeen))
	copy(labels, firstSeen)
	sort.SliceStable(labels, func(i, j int) bool {
		return counts[labels[i]] > counts[labels[j]]
	})

	dist := analysis.Distribution{
		Labels: labels,
		Values: make([]int, len(labels)),
	}
	for i, l := range labels {
		dist.Values[i] = counts[l]
	}
	return dist
}
