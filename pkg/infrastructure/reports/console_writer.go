package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/ofarias/plantmrp/pkg/application/dto"
)

// ConsoleWriter prints tables as fixed-width text.
type ConsoleWriter struct {
	Out io.Writer
}

var _ Sink = (*ConsoleWriter)(nil)

func NewConsoleWriter(out io.Writer) *ConsoleWriter {
	return &ConsoleWriter{Out: out}
}

func (w *ConsoleWriter) Write(table *dto.Table) error {
	widths := columnWidths(table)

	var b strings.Builder
	b.WriteString(table.Name + "\n")
	b.WriteString(strings.Repeat("─", lineWidth(widths)) + "\n")

	writeRow(&b, table.Headers, widths)
	b.WriteString(strings.Repeat("─", lineWidth(widths)) + "\n")
	for _, row := range table.Rows {
		writeRow(&b, row, widths)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w.Out, b.String())
	return err
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	for i, width := range widths {
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		fmt.Fprintf(b, "%-*s", width+2, value)
	}
	b.WriteString("\n")
}

func columnWidths(table *dto.Table) []int {
	widths := make([]int, len(table.Headers))
	for i, h := range table.Headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range table.Rows {
		for i, cell := range row {
			if i < len(widths) && len([]rune(cell)) > widths[i] {
				widths[i] = len([]rune(cell))
			}
		}
	}
	return widths
}

func lineWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	return total
}
