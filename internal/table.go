package internal

import "time"

const (
	ColumnEndpointName   = "Endpoint Name"
	ColumnEndpointArn    = "Endpoint Arn"
	ColumnEndpointStatus = "Endpoint Status"
	ColumnCreationTime   = "Creation Time"
)

// TableColumns is the column order of every endpoint table.
var TableColumns = []string{
	ColumnEndpointName,
	ColumnEndpointArn,
	ColumnEndpointStatus,
	ColumnCreationTime,
}

// ToTable projects a listing into display rows, one per endpoint, in order.
//
// The "Creation Time" column is filled from LastModifiedTime, not
// CreationTime. Keep it that way until the column meaning is settled.
func ToTable(l *Listing, loc *time.Location) *Table {
	t := &Table{
		Columns: append([]string(nil), TableColumns...),
		Rows:    make([]Row, 0, len(l.Endpoints)),
	}
	for _, e := range l.Endpoints {
		t.Rows = append(t.Rows, Row{
			ColumnEndpointName:   e.Name,
			ColumnEndpointArn:    e.Arn,
			ColumnEndpointStatus: string(e.Status),
			ColumnCreationTime:   FormatIn(e.LastModifiedTime, loc),
		})
	}
	return t
}

// Cells returns the row values in the table's column order.
func (t *Table) Cells(r Row) []string {
	cells := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cells[i] = r[c]
	}
	return cells
}
