package output

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/Werfer02/profiler/pkg/units"
)

// SummaryRow is one identifier's aggregated measurements.
type SummaryRow struct {
	ID    string
	Count int
	Total time.Duration
	Mean  time.Duration
}

// SummaryTable renders aggregated rows as a table. The unit applies to
// the total and mean columns. Rows are rendered in the order given.
func SummaryTable(w io.Writer, rows []SummaryRow, u units.Unit) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Samples", fmt.Sprintf("Total (%s)", u.Suffix()), fmt.Sprintf("Mean (%s)", u.Suffix()))

	for _, r := range rows {
		table.Append(
			r.ID,
			fmt.Sprintf("%d", r.Count),
			fmt.Sprintf("%.6g", units.Convert(r.Total, u)),
			fmt.Sprintf("%.6g", units.Convert(r.Mean, u)),
		)
	}

	return table.Render()
}
