package output

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// NullText is how the table formatter renders null values
const NullText = "NULL"

// TableFormatter outputs rows as an aligned text table
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders a bordered table with a header row and a row count footer
func (t *TableFormatter) Format(columns []string, rows []map[string]interface{}) error {
	columns = resolveColumns(columns, rows)
	if len(columns) == 0 {
		_, err := fmt.Fprintln(t.writer, "(0 rows)")
		return err
	}

	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			if row[col] == nil {
				record[i] = NullText
			} else {
				record[i] = fmt.Sprintf("%v", row[col])
			}
		}
		table.Append(record)
	}
	table.Render()

	_, err := fmt.Fprintf(t.writer, "(%d %s)\n", len(rows), plural(len(rows)))
	return err
}

func plural(n int) string {
	if n == 1 {
		return "row"
	}
	return "rows"
}
