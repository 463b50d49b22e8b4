// Package stream reads xlsx worksheets as a stream of cell and row events.
//
// A Workbook opens the package once, loading the shared-strings table, the
// style table and the sheet list. Each call to Stream then walks a single
// worksheet part token by token, classifies every <c> element from its raw
// attributes and hands complete rows to a callback without holding the
// sheet in memory.
package stream

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNoSheet is returned when a sheet index or name does not exist.
var ErrNoSheet = errors.New("sheet not found")

const (
	relTypeOfficeDocument = "/officeDocument"
	relTypeSharedStrings  = "/sharedStrings"
	relTypeStyles         = "/styles"
)

// SheetInfo describes one worksheet of the workbook.
type SheetInfo struct {
	Name string
	Part string // zip path of the worksheet part
}

// Workbook is an opened xlsx package ready to stream worksheets.
type Workbook struct {
	zr       *zip.Reader
	closer   io.Closer
	parts    map[string]*zip.File
	sheets   []SheetInfo
	strings  *SharedStrings
	styles   *StyleTable
	date1904 bool
}

// Open opens the xlsx file at path.
func Open(path string) (*Workbook, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	wb, err := newWorkbook(&rc.Reader)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	wb.closer = rc
	return wb, nil
}

// OpenReader opens an xlsx package held by r.
func OpenReader(r io.ReaderAt, size int64) (*Workbook, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open workbook reader: %w", err)
	}
	return newWorkbook(zr)
}

func newWorkbook(zr *zip.Reader) (*Workbook, error) {
	wb := &Workbook{
		zr:    zr,
		parts: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		wb.parts[strings.TrimPrefix(f.Name, "/")] = f
	}

	wbPart := "xl/workbook.xml"
	if rels, err := wb.readRels("_rels/.rels", ""); err == nil {
		if target, ok := rels.byType(relTypeOfficeDocument); ok {
			wbPart = target
		}
	}
	if err := wb.readWorkbook(wbPart); err != nil {
		return nil, err
	}
	return wb, nil
}

// Close releases the underlying file when the workbook was opened by path.
func (wb *Workbook) Close() error {
	if wb.closer == nil {
		return nil
	}
	return wb.closer.Close()
}

// SheetNames returns sheet names in workbook order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.sheets))
	for i, s := range wb.sheets {
		names[i] = s.Name
	}
	return names
}

// Sheets returns the sheet descriptors in workbook order.
func (wb *Workbook) Sheets() []SheetInfo {
	return append([]SheetInfo(nil), wb.sheets...)
}

// SheetIndex returns the 0-based position of the named sheet.
func (wb *Workbook) SheetIndex(name string) (int, error) {
	for i, s := range wb.sheets {
		if s.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("sheet %q: %w", name, ErrNoSheet)
}

// Date1904 reports whether serial dates use the 1904 epoch.
func (wb *Workbook) Date1904() bool { return wb.date1904 }

// SharedStrings returns the workbook's string pool.
func (wb *Workbook) SharedStrings() *SharedStrings { return wb.strings }

// Styles returns the workbook's style table.
func (wb *Workbook) Styles() *StyleTable { return wb.styles }

type xmlWorkbook struct {
	WorkbookPr struct {
		Date1904 string `xml:"date1904,attr"`
	} `xml:"workbookPr"`
	Sheets struct {
		Sheet []struct {
			Name  string     `xml:"name,attr"`
			Attrs []xml.Attr `xml:",any,attr"`
		} `xml:"sheet"`
	} `xml:"sheets"`
}

type xmlRelationships struct {
	Rel []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type relations struct {
	byID  map[string]string
	types map[string]string
}

func (r relations) byType(suffix string) (string, bool) {
	for typ, target := range r.types {
		if strings.HasSuffix(typ, suffix) {
			return target, true
		}
	}
	return "", false
}

// readRels decodes a relationships part, resolving targets against base.
func (wb *Workbook) readRels(part, base string) (relations, error) {
	var x xmlRelationships
	if err := wb.decodePart(part, &x); err != nil {
		return relations{}, err
	}
	out := relations{byID: make(map[string]string), types: make(map[string]string)}
	for _, rel := range x.Rel {
		target := resolveTarget(base, rel.Target)
		out.byID[rel.ID] = target
		out.types[rel.Type] = target
	}
	return out, nil
}

func resolveTarget(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(base, target))
}

func (wb *Workbook) readWorkbook(part string) error {
	var x xmlWorkbook
	if err := wb.decodePart(part, &x); err != nil {
		return err
	}
	wb.date1904 = x.WorkbookPr.Date1904 == "1" || strings.EqualFold(x.WorkbookPr.Date1904, "true")

	dir := path.Dir(part)
	relsPart := path.Join(dir, "_rels", path.Base(part)+".rels")
	rels, err := wb.readRels(relsPart, dir)
	if err != nil {
		return fmt.Errorf("read workbook relationships: %w", err)
	}

	for i, s := range x.Sheets.Sheet {
		var rid string
		for _, a := range s.Attrs {
			if a.Name.Local == "id" {
				rid = a.Value
			}
		}
		target, ok := rels.byID[rid]
		if !ok {
			target = path.Join(dir, "worksheets", fmt.Sprintf("sheet%d.xml", i+1))
		}
		wb.sheets = append(wb.sheets, SheetInfo{Name: s.Name, Part: target})
	}

	sstPart, ok := rels.byType(relTypeSharedStrings)
	if !ok {
		sstPart = path.Join(dir, "sharedStrings.xml")
	}
	if f, ok := wb.parts[sstPart]; ok {
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open shared strings: %w", err)
		}
		wb.strings, err = readSharedStrings(rc)
		rc.Close()
		if err != nil {
			return err
		}
	} else {
		wb.strings = &SharedStrings{}
	}

	stylesPart, ok := rels.byType(relTypeStyles)
	if !ok {
		stylesPart = path.Join(dir, "styles.xml")
	}
	if f, ok := wb.parts[stylesPart]; ok {
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open styles: %w", err)
		}
		wb.styles, err = readStyles(rc)
		rc.Close()
		if err != nil {
			return err
		}
	} else {
		wb.styles = NewStyleTable(nil, nil)
	}
	return nil
}

func (wb *Workbook) decodePart(part string, v any) error {
	f, ok := wb.parts[part]
	if !ok {
		return fmt.Errorf("part %q missing from package", part)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open part %q: %w", part, err)
	}
	defer rc.Close()
	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("decode part %q: %w", part, err)
	}
	return nil
}
