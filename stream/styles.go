package stream

import (
	"encoding/xml"
	"fmt"
	"io"
	"sync"

	"github.com/xuri/nfp"
)

// builtinNumFmts holds the format codes of the predefined numFmtId values
// (ECMA-376 §18.8.30) that a workbook may reference without declaring.
var builtinNumFmts = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	27: "yyyy\"年\"m\"月\"",
	28: "m\"月\"d\"日\"",
	29: "m\"月\"d\"日\"",
	30: "m-d-yy",
	31: "yyyy\"年\"m\"月\"d\"日\"",
	32: "h\"时\"mm\"分\"",
	33: "h\"时\"mm\"分\"ss\"秒\"",
	34: "yyyy\"年\"m\"月\"",
	35: "m\"月\"d\"日\"",
	36: "yyyy\"年\"m\"月\"",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
	50: "yyyy\"年\"m\"月\"",
	51: "m\"月\"d\"日\"",
	52: "yyyy\"年\"m\"月\"",
	53: "m\"月\"d\"日\"",
	54: "m\"月\"d\"日\"",
	55: "yyyy\"年\"m\"月\"",
	56: "m\"月\"d\"日\"",
	57: "yyyy\"年\"m\"月\"",
	58: "m\"月\"d\"日\"",
}

// BuiltinFormat returns the format code of a predefined numFmtId.
func BuiltinFormat(id int) (string, bool) {
	code, ok := builtinNumFmts[id]
	return code, ok
}

// NumFormat is the resolved number format of a cell style.
type NumFormat struct {
	ID     int
	Code   string
	IsDate bool

	sections []nfp.Section
}

// StyleTable resolves a cell's "s" attribute to its number format. Lookups
// are memoised per style index.
type StyleTable struct {
	xfNumFmt []int          // cellXfs position → numFmtId
	custom   map[int]string // numFmtId → declared format code

	mu    sync.Mutex
	cache map[int]*NumFormat
}

// NewStyleTable builds a table from cellXfs numFmtIds and custom formats.
func NewStyleTable(xfNumFmt []int, custom map[int]string) *StyleTable {
	if custom == nil {
		custom = make(map[int]string)
	}
	return &StyleTable{
		xfNumFmt: xfNumFmt,
		custom:   custom,
		cache:    make(map[int]*NumFormat),
	}
}

// Format returns the number format referenced by style index s. An index
// outside cellXfs resolves to General.
func (st *StyleTable) Format(s int) *NumFormat {
	st.mu.Lock()
	defer st.mu.Unlock()

	if nf, ok := st.cache[s]; ok {
		return nf
	}
	id := 0
	if s >= 0 && s < len(st.xfNumFmt) {
		id = st.xfNumFmt[s]
	}
	nf := st.resolve(id)
	st.cache[s] = nf
	return nf
}

func (st *StyleTable) resolve(id int) *NumFormat {
	code, ok := st.custom[id]
	if !ok {
		code, ok = builtinNumFmts[id]
	}
	if !ok {
		code = "General"
	}
	nf := &NumFormat{ID: id, Code: code}
	if code != "General" {
		nf.sections = ParseFormat(code)
	}
	nf.IsDate = IsDateFormat(id, nf.sections)
	return nf
}

// IsDateFormat reports whether a numFmtId, or the parsed sections of its
// code, describe a date or time format.
func IsDateFormat(id int, sections []nfp.Section) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	if len(sections) == 0 {
		return false
	}
	for _, tok := range sections[0].Items {
		if tok.TType == nfp.TokenTypeDateTimes || tok.TType == nfp.TokenTypeElapsedDateTimes {
			return true
		}
	}
	return false
}

// ParseFormat splits a number format code into its sections.
func ParseFormat(code string) []nfp.Section {
	ps := nfp.NumberFormatParser()
	return ps.Parse(code)
}

// IsDateFormatCode parses a format code and reports whether it is a date
// or time format.
func IsDateFormatCode(code string) bool {
	if code == "" || code == "General" {
		return false
	}
	return IsDateFormat(-1, ParseFormat(code))
}

type xmlStyleSheet struct {
	NumFmts struct {
		NumFmt []struct {
			ID   int    `xml:"numFmtId,attr"`
			Code string `xml:"formatCode,attr"`
		} `xml:"numFmt"`
	} `xml:"numFmts"`
	CellXfs struct {
		Xf []struct {
			NumFmtID int `xml:"numFmtId,attr"`
		} `xml:"xf"`
	} `xml:"cellXfs"`
}

func readStyles(r io.Reader) (*StyleTable, error) {
	var ss xmlStyleSheet
	if err := xml.NewDecoder(r).Decode(&ss); err != nil {
		return nil, fmt.Errorf("decode styles: %w", err)
	}
	custom := make(map[int]string, len(ss.NumFmts.NumFmt))
	for _, nf := range ss.NumFmts.NumFmt {
		custom[nf.ID] = nf.Code
	}
	xfs := make([]int, len(ss.CellXfs.Xf))
	for i, xf := range ss.CellXfs.Xf {
		xfs[i] = xf.NumFmtID
	}
	return NewStyleTable(xfs, custom), nil
}
