// Package xlbind maps slices of tagged structs to xlsx sheets and back.
//
// Fields are bound to columns with the xl struct tag:
//
//	type Employee struct {
//		Name   string    `xl:"index=0,name=Name"`
//		Salary float64   `xl:"index=1,name=Salary,format='#,##0.00'"`
//		Hired  time.Time `xl:"index=2,name=Hired,format=DATE"`
//	}
//
// Writer streams records through excelize with a styled title row, body
// rows and optional footer rows. Reader streams worksheet rows with the
// stream package and converts each cell to its field type, detecting
// numbers, booleans and dates typed as text.
package xlbind
