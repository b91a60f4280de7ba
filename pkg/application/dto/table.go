package dto

// Table is the tabular shape handed to a report sink: ordered column headers
// and ordered rows of preformatted cells. Sinks decide how to render or
// persist it; no core logic depends on that.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}
