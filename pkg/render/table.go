// Package render prints query results as aligned text tables.
package render

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/soypete/employee-tracker/pkg/store"
)

// NullText is printed for NULL values.
const NullText = "null"

// Table writes rs to w with one header row and one line per row. Columns
// come from rs.Columns; when those are missing they are taken from the first
// row. A result with neither columns nor rows writes nothing.
func Table(w io.Writer, rs store.ResultSet) error {
	columns := rs.Columns
	if len(columns) == 0 && len(rs.Rows) > 0 {
		columns = columnsOf(rs.Rows[0])
	}
	if len(columns) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range rs.Rows {
		line := make([]string, len(columns))
		for i, col := range columns {
			line[i] = FormatValue(row[col])
		}
		table.Append(line)
	}

	table.Render()
	return nil
}

// FormatValue renders a single cell.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return NullText
	case string:
		return val
	case []byte:
		return string(val)
	case decimal.Decimal:
		return val.String()
	case time.Time:
		return val.Format(time.DateTime)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func columnsOf(row store.Row) []string {
	cols := make([]string, 0, len(row))
	for k := range row {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
