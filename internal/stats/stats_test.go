package stats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkrysak/chemviz/internal/domain/analysis"
	"github.com/dkrysak/chemviz/internal/tabular"
)

func mustTable(t *testing.T, csv string) *tabular.Table {
	t.Helper()
	table, err := tabular.Read(strings.NewReader(csv))
	require.NoError(t, err)
	return table
}

func TestComputeExample(t *testing.T) {
	table := mustTable(t, `flowrate,pressure,temperature,type
10,1,100,Pump
20,2,200,Valve
30,3,300,Pump
`)
	res, err := Compute(table)
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalCount)
	assert.Equal(t, analysis.Averages{Flowrate: 20.0, Pressure: 2.0, Temperature: 200.0}, res.Averages)
	assert.Equal(t, []string{"Pump", "Valve"}, res.Distribution.Labels)
	assert.Equal(t, []int{2, 1}, res.Distribution.Values)
}

func TestComputeEmptyTableIsZeros(t *testing.T) {
	table := mustTable(t, "flowrate,pressure,temperature,type\n")
	res, err := Compute(table)
	require.NoError(t, err)

	assert.Equal(t, 0, res.TotalCount)
	assert.Equal(t, analysis.Averages{}, res.Averages)
	assert.Empty(t, res.Distribution.Labels)
	assert.Empty(t, res.Distribution.Values)
}

func TestComputeMissingColumn(t *testing.T) {
	table := mustTable(t, "flowrate,pressure,type\n1,2,Pump\n")
	_, err := Compute(table)
	require.Error(t, err)
	assert.ErrorIs(t, err, analysis.ErrBadInput)
}

func TestComputeRoundsToTwoDecimals(t *testing.T) {
	table := mustTable(t, `flowrate,pressure,temperature,type
1,1,1,Pump
2,2,2,Pump
2,2,2,Pump
`)
	res, err := Compute(table)
	require.NoError(t, err)
	// 5/3 = 1.666... rounds to 1.67
	assert.Equal(t, 1.67, res.Averages.Flowrate)
}

func TestDistributionOrderedByCountThenFirstSeen(t *testing.T) {
	table := mustTable(t, `flowrate,pressure,temperature,type
1,1,1,Valve
1,1,1,Pump
1,1,1,Pump
1,1,1,Mixer
1,1,1,Heater
1,1,1,Heater
`)
	res, err := Compute(table)
	require.NoError(t, err)

	// Pump and Heater both count 2; Pump was seen first. Valve and Mixer
	// both count 1; Valve was seen first.
	assert.Equal(t, []string{"Pump", "Heater", "Valve", "Mixer"}, res.Distribution.Labels)
	assert.Equal(t, []int{2, 2, 1, 1}, res.Distribution.Values)
}

func TestDistributionInvariants(t *testing.T) {
	table := mustTable(t, `flowrate,pressure,temperature,type
1,1,1,A
2,2,2,B
3,3,3,C
4,4,4,A
`)
	res, err := Compute(table)
	require.NoError(t, err)

	require.Len(t, res.Distribution.Values, len(res.Distribution.Labels))
	sum := 0
	for _, v := range res.Distribution.Values {
		sum += v
	}
	assert.Equal(t, res.TotalCount, sum)
}
