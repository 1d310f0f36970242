package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestToTableUsesLastModifiedTime(t *testing.T) {
	l := &Listing{Endpoints: []Endpoint{{
		Name:             "clf-v1",
		Arn:              "arn:aws:sagemaker:us-east-1:123456789012:endpoint/clf-v1",
		Status:           "InService",
		CreationTime:     mustTime(t, "2024-01-01T00:00:00Z"),
		LastModifiedTime: mustTime(t, "2024-01-02T03:04:05Z"),
	}}}

	tbl := ToTable(l, time.UTC)

	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, Row{
		"Endpoint Name":   "clf-v1",
		"Endpoint Arn":    "arn:aws:sagemaker:us-east-1:123456789012:endpoint/clf-v1",
		"Endpoint Status": "InService",
		"Creation Time":   "01/02/2024 03:04:05",
	}, tbl.Rows[0])
}

func TestToTablePreservesOrderAndColumns(t *testing.T) {
	base := mustTime(t, "2024-03-10T12:00:00Z")
	var eps []Endpoint
	for i, name := range []string{"c", "a", "b"} {
		eps = append(eps, Endpoint{
			Name:             name,
			Status:           "InService",
			CreationTime:     base.Add(-time.Duration(i) * time.Hour),
			LastModifiedTime: base.Add(time.Duration(i) * time.Minute),
		})
	}

	tbl := ToTable(&Listing{Endpoints: eps}, time.UTC)

	assert.Equal(t, TableColumns, tbl.Columns)
	require.Len(t, tbl.Rows, 3)
	for i, r := range tbl.Rows {
		assert.Equal(t, eps[i].Name, r[ColumnEndpointName])
		assert.Len(t, r, 4)
		assert.NotContains(t, r, "CreationTime")
		assert.NotContains(t, r, "LastModifiedTime")
	}
	assert.Equal(t, "03/10/2024 12:02:00", tbl.Rows[2][ColumnCreationTime])
}

func TestToTableFormatsInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	l := &Listing{Endpoints: []Endpoint{{
		Name:             "x",
		LastModifiedTime: mustTime(t, "2024-12-31T20:30:00Z"),
	}}}

	tbl := ToTable(l, loc)
	assert.Equal(t, "01/01/2025 03:30:00", tbl.Rows[0][ColumnCreationTime])
}

func TestTableCells(t *testing.T) {
	tbl := &Table{
		Columns: TableColumns,
		Rows: []Row{{
			ColumnEndpointName:   "n",
			ColumnEndpointArn:    "a",
			ColumnEndpointStatus: "s",
			ColumnCreationTime:   "t",
		}},
	}
	assert.Equal(t, []string{"n", "a", "s", "t"}, tbl.Cells(tbl.Rows[0]))
}
