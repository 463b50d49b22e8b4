package xlbind

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ContentType is the MIME type of an xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteResponse sends the workbook as a file download named filename.
func (w *Writer) WriteResponse(rw http.ResponseWriter, filename string) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		filename += ".xlsx"
	}
	rw.Header().Set("Content-Type", ContentType)
	rw.Header().Set("Content-Disposition", contentDisposition(filename))
	if _, err := w.WriteTo(rw); err != nil {
		return fmt.Errorf("write response %q: %w", filename, err)
	}
	return nil
}

// contentDisposition builds an attachment header with an ASCII fallback
// name and the UTF-8 name in filename*.
func contentDisposition(filename string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, filename)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, url.PathEscape(filename))
}
