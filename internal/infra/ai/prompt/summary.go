package prompt

import (
	"fmt"
	"strings"

	"github.com/dkrysak/chemviz/internal/domain/analysis"
)

// System is the instruction given to the model for report summaries.
const System = `You are an assistant for chemical plant engineers. Given summary
statistics of equipment sensor readings, write a short plain-text paragraph
(3 sentences maximum) highlighting the overall equipment mix and any average
that looks noteworthy. No markdown, no lists, no preamble.`

// ForResult renders one analysis result as the user message.
func ForResult(res analysis.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Equipment count: %d\n", res.TotalCount)
	fmt.Fprintf(&b, "Average flowrate: %.2f\n", res.Averages.Flowrate)
	fmt.Fprintf(&b, "Average pressure: %.2f\n", res.Averages.Pressure)
	fmt.Fprintf(&b, "Average temperature: %.2f\n", res.Averages.Temperature)
	b.WriteString("Type distribution:\n")
	for i, label := range res.Distribution.Labels {
		fmt.Fprintf(&b, "- %s: %d\n", label, res.Distribution.Values[i])
	}
	return b.String()
}
