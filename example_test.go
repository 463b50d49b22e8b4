package xlbind_test

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/javajack/xlbind"
)

type Order struct {
	ID      int       `xl:"index=0,name=Order"`
	Amount  float64   `xl:"index=1,name=Amount,format='#,##0.00'"`
	Placed  time.Time `xl:"index=2,name=Placed,format=DATE"`
	Shipped bool      `xl:"index=3,name=Shipped"`
}

func ExampleWrite() {
	orders := []Order{
		{ID: 1, Amount: 19.99, Placed: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Shipped: true},
		{ID: 2, Amount: 1250, Placed: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	if err := xlbind.Write(&buf, orders); err != nil {
		fmt.Println("Error:", err)
		return
	}

	got, err := xlbind.Read[Order](context.Background(), &buf)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, o := range got {
		fmt.Printf("%d %.2f %s %v\n", o.ID, o.Amount, o.Placed.Format("2006-01-02"), o.Shipped)
	}
	// Output:
	// 1 19.99 2024-03-01 true
	// 2 1250.00 2024-03-02 false
}

func ExampleDetect() {
	for _, s := range []string{"42", "1,234.5", "是", "2024/03/05", "12.5%", "hello"} {
		v := xlbind.Detect(s)
		fmt.Printf("%T %v\n", v, v)
	}
	// Output:
	// float64 42
	// float64 1234.5
	// bool true
	// time.Time 2024-03-05 00:00:00 +0000 UTC
	// float64 0.125
	// string hello
}

func ExampleDescribe() {
	out, err := xlbind.Describe([]Order{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(out)
	// Output:
	// Record: xlbind_test.Order (4 columns)
	//   COL  NAME     FIELD    TYPE       FORMAT        ALIGN    WIDTH
	//   A    Order    ID       int        "0"           default  -
	//   B    Amount   Amount   float64    "#,##0.00"    default  -
	//   C    Placed   Placed   time.Time  "yyyy-mm-dd"  default  -
	//   D    Shipped  Shipped  bool       "@"           default  -
}
