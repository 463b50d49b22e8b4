package xlbind

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// testdataDir returns the path to testdata directory, creating it if needed.
func testdataDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join("testdata")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

type employee struct {
	Name   string    `xl:"index=0,name=Name"`
	Age    int       `xl:"index=1,name=Age,align=center"`
	Salary float64   `xl:"index=2,name=Salary,format='#,##0.00'"`
	Active bool      `xl:"index=3,name=Active"`
	Hired  time.Time `xl:"index=4,name=Hired,format=DATE,width=14"`
	Note   string    `xl:"-"`
}

func sampleEmployees() []employee {
	return []employee{
		{Name: "Alice", Age: 30, Salary: 5000.5, Active: true, Hired: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)},
		{Name: "Bob", Age: 17, Salary: 1200, Active: false, Hired: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "Carol", Age: 45, Salary: 98000.25, Active: true, Hired: time.Date(2011, 11, 30, 0, 0, 0, 0, time.UTC)},
	}
}

// writeEmployees encodes records with a fresh Writer and returns the bytes.
func writeEmployees(t *testing.T, records []employee, opts ...Option) []byte {
	t.Helper()
	w, err := NewWriter(opts...)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.AddSheet(records))
	data, err := w.Bytes()
	require.NoError(t, err)
	return data
}

// openWorkbook opens encoded workbook bytes with excelize for inspection.
func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

// createHandWrittenSheet creates a workbook the way a person would fill it
// in: shared strings, text dates, numbers typed as text and a blank row.
//
//	A1: Name   B1: Age    C1: Salary    D1: Active  E1: Hired
//	A2: Dave   B2: 52     C2: "1,234.5" D2: "yes"   E2: "2021/03/04"
//	(row 3 blank)
//	A4: Erin   B4: "41"   C4: 800       D4: "否"    E4: 2019-07-01 (date)
func createHandWrittenSheet(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	for i, title := range []string{"Name", "Age", "Salary", "Active", "Hired"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, f.SetCellValue(sheet, cell, title))
	}
	require.NoError(t, f.SetCellValue(sheet, "A2", "Dave"))
	require.NoError(t, f.SetCellValue(sheet, "B2", 52))
	require.NoError(t, f.SetCellValue(sheet, "C2", "1,234.5"))
	require.NoError(t, f.SetCellValue(sheet, "D2", "yes"))
	require.NoError(t, f.SetCellValue(sheet, "E2", "2021/03/04"))

	require.NoError(t, f.SetCellValue(sheet, "A4", "Erin"))
	require.NoError(t, f.SetCellValue(sheet, "B4", "41"))
	require.NoError(t, f.SetCellValue(sheet, "C4", 800))
	require.NoError(t, f.SetCellValue(sheet, "D4", "否"))
	require.NoError(t, f.SetCellValue(sheet, "E4", time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)))

	path := filepath.Join(testdataDir(t), "hand_written.xlsx")
	require.NoError(t, f.SaveAs(path))
	t.Cleanup(func() { os.Remove(path) })
	return path
}
